package api

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/connect"
	"github.com/meikuraledutech/flow/editor"
)

// Session is one open workflow. Requests against the same workflow are
// serialized so the editor sees one event at a time.
type Session struct {
	mu     sync.Mutex
	id     string
	editor *editor.Editor
	dirty  bool
}

// Do runs fn with exclusive access to the session's editor.
func (s *Session) Do(fn func(*editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.editor)
}

// Hub holds the open sessions and loads them from the store on first use.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    flow.Store
	log      zerolog.Logger
	opts     []editor.Option
}

// NewHub creates a Hub. opts are applied to every editor it opens; the hub
// installs its own logger and callbacks.
func NewHub(store flow.Store, log zerolog.Logger, opts ...editor.Option) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		store:    store,
		log:      log,
		opts:     opts,
	}
}

// Open returns the session for a workflow, loading the stored graph when the
// session is not open yet. An unknown workflow starts empty.
//
// The store is read without holding the hub lock; when two requests race to
// open the same workflow the first session registered wins.
func (h *Hub) Open(ctx context.Context, workflowID string) (*Session, error) {
	if s, ok := h.lookup(workflowID); ok {
		return s, nil
	}

	g, err := h.store.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("flow: open workflow %s: %w", workflowID, err)
	}
	if g == nil {
		g = &flow.Graph{}
	}

	s := &Session{id: workflowID}
	log := h.log.With().Str("workflow", workflowID).Logger()
	opts := append(slices.Clone(h.opts),
		editor.WithLogger(log),
		editor.WithCallbacks(editor.Callbacks{
			// Runs inside Session.Do, which already holds s.mu.
			OnChange: func(flow.Graph) { s.dirty = true },
			// The client resolves dropped connections with a later request.
			OnConnectionDropped: func(p connect.Pending) {
				log.Debug().Str("pending", p.ID).Msg("awaiting connection resolution")
			},
		}),
	)
	s.editor = editor.New(*g, opts...)

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.sessions[workflowID]; ok {
		return existing, nil
	}
	h.sessions[workflowID] = s
	log.Info().Int("nodes", len(g.Nodes)).Int("edges", len(g.Edges)).Msg("session opened")
	return s, nil
}

func (h *Hub) lookup(workflowID string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[workflowID]
	return s, ok
}

// Save persists the current graph of an open session. It returns
// flow.ErrWorkflowNotFound when the workflow has no open session.
func (h *Hub) Save(ctx context.Context, workflowID string) error {
	s, ok := h.lookup(workflowID)
	if !ok {
		return fmt.Errorf("flow: save workflow %s: %w", workflowID, flow.ErrWorkflowNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := h.store.SaveWorkflow(ctx, s.id, s.editor.Graph()); err != nil {
		return err
	}
	s.dirty = false
	h.log.Info().Str("workflow", s.id).Msg("workflow saved")
	return nil
}

// Delete removes a workflow from the store and closes its session.
func (h *Hub) Delete(ctx context.Context, workflowID string) error {
	if err := h.store.DeleteWorkflow(ctx, workflowID); err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.sessions, workflowID)
	h.mu.Unlock()
	return nil
}
