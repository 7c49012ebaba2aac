// Package editor is the session behind a workflow canvas. It owns the graph,
// routes every user action through undo history, runs the connection
// gesture state machine and applies auto-arrange.
//
// An Editor is single-threaded: callers serialize access.
package editor

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/connect"
	"github.com/meikuraledutech/flow/history"
	"github.com/meikuraledutech/flow/layout"
)

// Callbacks are host notifications. All are optional and the editor never
// waits on their outcome.
type Callbacks struct {
	OnChange            func(flow.Graph)
	OnNodeDelete        func(nodeID string)
	OnNodeEdit          func(flow.Node)
	OnNodeDuplicate     func(flow.Node)
	OnAddNodeRequest    func(flow.Position)
	OnConnectionDropped func(connect.Pending)
	OnEdgeCreated       func(flow.Edge)
	OnWarning           func(Warning)
}

// Editor is one editing session over a workflow graph.
type Editor struct {
	history    *history.Manager
	conn       *connect.Machine
	callbacks  Callbacks
	validation EdgeValidation
	layout     layout.Options
	newID      func() string
	log        zerolog.Logger

	defaultType string
	defaultData flow.NodeData

	limit    int
	dragging bool
	dragged  map[string]bool
}

// Option configures an Editor.
type Option func(*Editor)

func WithCallbacks(cb Callbacks) Option {
	return func(e *Editor) { e.callbacks = cb }
}

func WithEdgeValidation(v EdgeValidation) Option {
	return func(e *Editor) { e.validation = v }
}

func WithLayout(opts layout.Options) Option {
	return func(e *Editor) { e.layout = opts }
}

func WithHistoryLimit(n int) Option {
	return func(e *Editor) { e.limit = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithIDGenerator replaces the uuid generator used for new nodes, edges and
// pending connections.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) { e.newID = fn }
}

// WithDefaultNode sets the node created when a connection is dropped on the
// canvas and no OnConnectionDropped handler is installed.
func WithDefaultNode(typ string, data flow.NodeData) Option {
	return func(e *Editor) {
		e.defaultType = typ
		e.defaultData = data
	}
}

// New creates an Editor over a copy of initial.
func New(initial flow.Graph, opts ...Option) *Editor {
	e := &Editor{
		conn:        connect.New(),
		layout:      layout.DefaultOptions(),
		newID:       uuid.NewString,
		log:         zerolog.Nop(),
		defaultType: "default",
		defaultData: flow.NodeData{"label": "New Node"},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = history.New(initial.Clone(), history.WithLimit(e.limit))
	return e
}

// Graph returns a snapshot of the current graph that is safe to keep,
// serialize or modify.
func (e *Editor) Graph() flow.Graph {
	return e.history.Present().Clone()
}

// Load replaces the graph, clearing history and any connection in progress.
func (e *Editor) Load(g flow.Graph) {
	e.history.Reset(g.Clone())
	e.conn.Abort()
	e.conn.Cancel()
	e.endDrag()
	e.log.Debug().Int("nodes", len(g.Nodes)).Int("edges", len(g.Edges)).Msg("graph loaded")
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Undo reverts the last recorded action. It is a no-op when there is none.
func (e *Editor) Undo() bool {
	if !e.history.Undo() {
		return false
	}
	e.endDrag()
	e.log.Debug().Msg("undo")
	e.emit()
	return true
}

// Redo re-applies the last undone action.
func (e *Editor) Redo() bool {
	if !e.history.Redo() {
		return false
	}
	e.endDrag()
	e.log.Debug().Msg("redo")
	e.emit()
	return true
}

// AutoArrange lays the graph out by topology as one undoable step.
func (e *Editor) AutoArrange() {
	_ = e.history.Mutate(func(g flow.Graph) (flow.Graph, error) {
		return g.WithPositions(layout.Arrange(g, e.layout)), nil
	})
	e.log.Debug().Int("nodes", len(e.history.Present().Nodes)).Msg("graph arranged")
	e.emit()
}

// AddNode inserts n, generating an id when it has none.
func (e *Editor) AddNode(n flow.Node) (flow.Node, error) {
	n = n.Clone()
	if n.ID == "" {
		n.ID = e.newID()
	}
	if err := e.history.Mutate(func(g flow.Graph) (flow.Graph, error) {
		return g.AddNode(n)
	}); err != nil {
		return flow.Node{}, err
	}
	e.log.Debug().Str("node", n.ID).Str("type", n.Type).Msg("node added")
	e.emit()
	return n.Clone(), nil
}

// UpdateNode applies a partial update to a node.
func (e *Editor) UpdateNode(id string, patch flow.NodePatch) (flow.Node, error) {
	if patch.Data != nil {
		patch.Data = patch.Data.Merge(nil)
	}
	if err := e.history.Mutate(func(g flow.Graph) (flow.Graph, error) {
		return g.UpdateNode(id, patch)
	}); err != nil {
		return flow.Node{}, err
	}
	n, _ := e.history.Present().Node(id)
	e.emit()
	return n.Clone(), nil
}

// DeleteNode removes a node and its edges as one undoable step. It reports
// false when the node does not exist.
func (e *Editor) DeleteNode(id string) bool {
	return e.deleteNodes([]string{id}) > 0
}

// DeleteEdge removes an edge as one undoable step. It reports false when the
// edge does not exist.
func (e *Editor) DeleteEdge(id string) bool {
	return e.deleteEdges([]string{id}) > 0
}

// InsertSubgraph adds nodes and then edges as a single undoable step. Hosts
// use it to persist the result of a duplicate or paste. Missing ids are
// generated; edges must reference nodes by their final ids.
func (e *Editor) InsertSubgraph(nodes []flow.Node, edges []flow.Edge) (flow.Graph, error) {
	added := flow.Graph{
		Nodes: make([]flow.Node, len(nodes)),
		Edges: make([]flow.Edge, len(edges)),
	}
	for i, n := range nodes {
		n = n.Clone()
		if n.ID == "" {
			n.ID = e.newID()
		}
		added.Nodes[i] = n
	}
	for i, ed := range edges {
		if ed.ID == "" {
			ed.ID = e.newID()
		}
		added.Edges[i] = ed
	}

	err := e.history.Mutate(func(g flow.Graph) (flow.Graph, error) {
		var err error
		for _, n := range added.Nodes {
			if g, err = g.AddNode(n); err != nil {
				return g, err
			}
		}
		for _, ed := range added.Edges {
			if g, err = g.AddEdge(ed); err != nil {
				return g, err
			}
		}
		return g, nil
	})
	if err != nil {
		return flow.Graph{}, err
	}
	e.log.Debug().Int("nodes", len(nodes)).Int("edges", len(edges)).Msg("subgraph inserted")
	e.emit()
	return added.Clone(), nil
}

// deleteNodes removes every existing node in ids in one history entry and
// returns how many were removed.
func (e *Editor) deleteNodes(ids []string) int {
	var removed []string
	err := e.history.Mutate(func(g flow.Graph) (flow.Graph, error) {
		for _, id := range ids {
			next, err := g.RemoveNode(id)
			if errors.Is(err, flow.ErrNotFound) {
				continue
			}
			if err != nil {
				return g, err
			}
			g = next
			removed = append(removed, id)
		}
		if len(removed) == 0 {
			return g, flow.ErrNotFound
		}
		return g, nil
	})
	if err != nil {
		return 0
	}

	e.endDragOf(removed)
	for _, id := range removed {
		e.dropConnectionsFrom(id)
		e.log.Debug().Str("node", id).Msg("node removed")
		if e.callbacks.OnNodeDelete != nil {
			e.callbacks.OnNodeDelete(id)
		}
	}
	e.emit()
	return len(removed)
}

func (e *Editor) deleteEdges(ids []string) int {
	var removed []string
	err := e.history.Mutate(func(g flow.Graph) (flow.Graph, error) {
		for _, id := range ids {
			next, err := g.RemoveEdge(id)
			if err != nil {
				continue
			}
			g = next
			removed = append(removed, id)
		}
		if len(removed) == 0 {
			return g, flow.ErrNotFound
		}
		return g, nil
	})
	if err != nil {
		return 0
	}
	e.log.Debug().Strs("edges", removed).Msg("edges removed")
	e.emit()
	return len(removed)
}

// dropConnectionsFrom abandons any gesture rooted at a deleted node.
func (e *Editor) dropConnectionsFrom(nodeID string) {
	if id, _, ok := e.conn.Origin(); ok && id == nodeID {
		e.conn.Abort()
	}
	if p, ok := e.conn.Pending(); ok && p.SourceNodeID == nodeID {
		e.conn.Cancel()
	}
}

func (e *Editor) emit() {
	if e.callbacks.OnChange != nil {
		e.callbacks.OnChange(e.Graph())
	}
}
