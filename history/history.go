// Package history keeps linear undo/redo stacks of workflow graph snapshots.
//
// Every stored entry is a flow.Graph value taken before the mutation it
// protects. Graph operations return fresh slices, so archived entries are
// never written to after being pushed.
package history

import "github.com/meikuraledutech/flow"

// DefaultLimit is the number of entries kept on each stack.
const DefaultLimit = 100

// Manager holds the present graph plus past and future snapshots.
// It is not safe for concurrent use.
type Manager struct {
	present flow.Graph
	past    []flow.Graph
	future  []flow.Graph
	limit   int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit bounds each stack. Values below 1 keep the default.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// New creates a Manager whose present state is initial.
func New(initial flow.Graph, opts ...Option) *Manager {
	m := &Manager{present: initial, limit: DefaultLimit}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Present returns the current graph. Callers must treat it as read-only.
func (m *Manager) Present() flow.Graph {
	return m.present
}

// Snapshot pushes the present graph onto the undo stack and drops any
// redo chain.
func (m *Manager) Snapshot() {
	m.past = push(m.past, m.present, m.limit)
	m.future = nil
}

// Mutate records a snapshot and replaces the present graph with fn's result.
// When fn fails nothing changes.
func (m *Manager) Mutate(fn func(flow.Graph) (flow.Graph, error)) error {
	next, err := fn(m.present)
	if err != nil {
		return err
	}
	m.Snapshot()
	m.present = next
	return nil
}

// MutateWithoutHistory replaces the present graph without recording a
// snapshot. Used for intermediate states of a continuous gesture.
func (m *Manager) MutateWithoutHistory(fn func(flow.Graph) (flow.Graph, error)) error {
	next, err := fn(m.present)
	if err != nil {
		return err
	}
	m.present = next
	return nil
}

// Undo restores the most recent snapshot. It reports false when there is
// nothing to undo.
func (m *Manager) Undo() bool {
	if len(m.past) == 0 {
		return false
	}
	prev := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = push(m.future, m.present, m.limit)
	m.present = prev
	return true
}

// Redo re-applies the most recently undone state.
func (m *Manager) Redo() bool {
	if len(m.future) == 0 {
		return false
	}
	next := m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	m.past = push(m.past, m.present, m.limit)
	m.present = next
	return true
}

func (m *Manager) CanUndo() bool { return len(m.past) > 0 }
func (m *Manager) CanRedo() bool { return len(m.future) > 0 }

// Depth returns the number of entries on the undo and redo stacks.
func (m *Manager) Depth() (past, future int) {
	return len(m.past), len(m.future)
}

// Reset replaces the present graph and clears both stacks.
func (m *Manager) Reset(g flow.Graph) {
	m.present = g
	m.past = nil
	m.future = nil
}

func push(stack []flow.Graph, g flow.Graph, limit int) []flow.Graph {
	stack = append(stack, g)
	if over := len(stack) - limit; over > 0 {
		// Copy down so the evicted entries can be collected.
		stack = append(stack[:0:0], stack[over:]...)
	}
	return stack
}
