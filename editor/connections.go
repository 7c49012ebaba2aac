package editor

import (
	"fmt"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/connect"
)

// Connect creates an edge for c after applying the validation policy.
// A rejection returns a *RejectedError and leaves the graph unchanged.
func (e *Editor) Connect(c flow.Connection) (flow.Edge, error) {
	if reason := e.validation.check(e.history.Present(), c); reason != "" {
		return flow.Edge{}, e.reject(c, reason)
	}

	edge := flow.Edge{
		ID:           e.newID(),
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: c.SourceHandle,
		TargetHandle: c.TargetHandle,
	}
	if err := e.history.Mutate(func(g flow.Graph) (flow.Graph, error) {
		return g.AddEdge(edge)
	}); err != nil {
		return flow.Edge{}, err
	}

	e.log.Debug().Str("edge", edge.ID).Str("source", edge.Source).Str("target", edge.Target).Msg("edge created")
	if e.callbacks.OnEdgeCreated != nil {
		e.callbacks.OnEdgeCreated(edge)
	}
	e.emit()
	return edge, nil
}

// StartConnection begins dragging an edge out of a node handle. A pending
// connection, if any, is discarded.
func (e *Editor) StartConnection(nodeID, handle string, ht connect.HandleType) error {
	if _, ok := e.history.Present().Node(nodeID); !ok {
		return fmt.Errorf("flow: start connection from %q: %w", nodeID, flow.ErrNotFound)
	}
	if p, ok := e.conn.Pending(); ok {
		e.log.Debug().Str("pending", p.ID).Msg("pending connection superseded")
	}
	return e.conn.Start(nodeID, handle, ht)
}

// EndConnectionOnNode finishes the drag over a node handle and creates the
// edge, subject to validation.
func (e *Editor) EndConnectionOnNode(nodeID, handle string) (flow.Edge, error) {
	c, err := e.conn.DropOnNode(nodeID, handle)
	if err != nil {
		return flow.Edge{}, err
	}
	return e.Connect(c)
}

// EndConnectionOnCanvas finishes the drag over empty canvas. The host is
// notified through OnConnectionDropped and must later complete or cancel the
// pending connection. Without a handler a default node is created at once.
func (e *Editor) EndConnectionOnCanvas(pos flow.Position) (connect.Pending, error) {
	p, err := e.conn.DropOnCanvas(pos, e.newID())
	if err != nil {
		return connect.Pending{}, err
	}
	e.log.Debug().Str("pending", p.ID).Str("source", p.SourceNodeID).Msg("connection dropped on canvas")

	if e.callbacks.OnConnectionDropped != nil {
		e.callbacks.OnConnectionDropped(p)
		return p, nil
	}

	if _, _, err := e.CompletePendingConnection(Completion{PendingID: p.ID}); err != nil {
		e.conn.Cancel()
		return p, err
	}
	return p, nil
}

// AbortConnection ends a drag without creating anything.
func (e *Editor) AbortConnection() {
	e.conn.Abort()
}

// ConnectionState returns the phase of the connection gesture.
func (e *Editor) ConnectionState() connect.State {
	return e.conn.State()
}

// PendingConnection returns the connection awaiting resolution, if any.
func (e *Editor) PendingConnection() (connect.Pending, bool) {
	return e.conn.Pending()
}

// CancelPendingConnection discards the pending connection without touching
// the graph.
func (e *Editor) CancelPendingConnection() bool {
	if !e.conn.Cancel() {
		return false
	}
	e.log.Debug().Msg("pending connection cancelled")
	return true
}

// Completion describes the node that resolves a pending connection.
type Completion struct {
	// PendingID, when set, must match the pending connection. It lets an
	// asynchronous resolver detect that its connection was superseded.
	PendingID string        `json:"pendingId,omitempty"`
	NodeID    string        `json:"nodeId,omitempty"`
	Type      string        `json:"type,omitempty"`
	Data      flow.NodeData `json:"data,omitempty"`
	// Handle is the handle on the new node the edge attaches to.
	Handle string `json:"handle,omitempty"`
}

// CompletePendingConnection creates the new node at the pending position and
// the edge joining it to the drag origin, as one undoable step. When the
// edge is rejected nothing is created and the connection stays pending.
func (e *Editor) CompletePendingConnection(req Completion) (flow.Node, flow.Edge, error) {
	p, err := e.conn.Check(req.PendingID)
	if err != nil {
		return flow.Node{}, flow.Edge{}, err
	}

	node := flow.Node{
		ID:       req.NodeID,
		Type:     req.Type,
		Position: p.Position,
		Data:     req.Data,
	}.Clone()
	if node.ID == "" {
		node.ID = e.newID()
	}
	if node.Type == "" {
		node.Type = e.defaultType
		if node.Data == nil {
			node.Data = e.defaultData.Merge(nil)
		}
	}

	staged, err := e.history.Present().AddNode(node)
	if err != nil {
		return flow.Node{}, flow.Edge{}, err
	}
	c := p.Edge(node.ID, req.Handle)
	if reason := e.validation.check(staged, c); reason != "" {
		return flow.Node{}, flow.Edge{}, e.reject(c, reason)
	}

	edge := flow.Edge{
		ID:           e.newID(),
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: c.SourceHandle,
		TargetHandle: c.TargetHandle,
	}
	next, err := staged.AddEdge(edge)
	if err != nil {
		return flow.Node{}, flow.Edge{}, err
	}

	// Every check has passed: nothing below can fail after the graph changes.
	if _, err := e.conn.Resolve(p.ID); err != nil {
		return flow.Node{}, flow.Edge{}, err
	}
	_ = e.history.Mutate(func(flow.Graph) (flow.Graph, error) {
		return next, nil
	})

	e.log.Debug().Str("pending", p.ID).Str("node", node.ID).Str("edge", edge.ID).Msg("pending connection completed")
	if e.callbacks.OnEdgeCreated != nil {
		e.callbacks.OnEdgeCreated(edge)
	}
	e.emit()
	return node.Clone(), edge, nil
}
