// Package memory is an in-process flow.Store, used when no database is
// configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/meikuraledutech/flow"
)

var _ flow.Store = (*Store)(nil)

// Store keeps workflow graphs in a map.
type Store struct {
	mu        sync.RWMutex
	workflows map[string]flow.Graph
}

// New returns an empty Store.
func New() *Store {
	return &Store{workflows: make(map[string]flow.Graph)}
}

// CreateSchema is a no-op.
func (s *Store) CreateSchema(context.Context) error { return nil }

// DropSchema removes every workflow.
func (s *Store) DropSchema(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows = make(map[string]flow.Graph)
	return nil
}

// SaveWorkflow stores a copy of g, replacing any previous graph.
func (s *Store) SaveWorkflow(_ context.Context, workflowID string, g flow.Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[workflowID] = g.Clone()
	return nil
}

// GetWorkflow returns a copy of the stored graph, or nil, nil if absent.
func (s *Store) GetWorkflow(_ context.Context, workflowID string) (*flow.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.workflows[workflowID]
	if !ok {
		return nil, nil
	}
	out := g.Clone()
	return &out, nil
}

// DeleteWorkflow removes a workflow. No error if it doesn't exist.
func (s *Store) DeleteWorkflow(_ context.Context, workflowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workflows, workflowID)
	return nil
}
