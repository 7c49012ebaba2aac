// Package connect tracks the lifecycle of an edge being dragged out of a
// node handle.
//
// A drag either ends on another node, producing a connection right away, or
// on empty canvas, leaving a Pending connection that waits for the host to
// pick a node for it. At most one Pending connection exists; starting a new
// drag or dropping on canvas again replaces it.
package connect

import (
	"errors"
	"fmt"

	"github.com/meikuraledutech/flow"
)

var (
	ErrInvalidTransition = errors.New("connect: invalid transition")
	ErrNoPending         = errors.New("connect: no pending connection")
	ErrSuperseded        = errors.New("connect: pending connection superseded")
)

// State is the phase of the connection gesture.
type State int

const (
	Idle State = iota
	Dragging
	AwaitingResolution
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case AwaitingResolution:
		return "awaiting_resolution"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// HandleType tells which side of an edge the drag started from.
type HandleType string

const (
	SourceHandle HandleType = "source"
	TargetHandle HandleType = "target"
)

// Pending is a connection dropped on empty canvas.
// SourceNodeID is the node the drag started from, regardless of HandleType.
type Pending struct {
	ID           string        `json:"id"`
	SourceNodeID string        `json:"sourceNodeId"`
	SourceHandle string        `json:"sourceHandle,omitempty"`
	HandleType   HandleType    `json:"handleType"`
	Position     flow.Position `json:"position"`
}

// Edge returns the connection between the pending origin and nodeID,
// oriented by the handle the drag started from.
func (p Pending) Edge(nodeID, handle string) flow.Connection {
	return orient(p.SourceNodeID, p.SourceHandle, p.HandleType, nodeID, handle)
}

// Machine is the connection state machine. It is not safe for concurrent use.
type Machine struct {
	state      State
	nodeID     string
	handle     string
	handleType HandleType
	pending    *Pending
}

// New returns an idle Machine.
func New() *Machine {
	return &Machine{}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Origin returns the node and handle of the active drag.
func (m *Machine) Origin() (nodeID, handle string, ok bool) {
	if m.state != Dragging {
		return "", "", false
	}
	return m.nodeID, m.handle, true
}

// Preview returns the connection a drop on nodeID would produce, without
// leaving the Dragging state.
func (m *Machine) Preview(nodeID, handle string) (flow.Connection, bool) {
	if m.state != Dragging {
		return flow.Connection{}, false
	}
	return orient(m.nodeID, m.handle, m.handleType, nodeID, handle), true
}

// Pending returns the pending connection, if any.
func (m *Machine) Pending() (Pending, bool) {
	if m.pending == nil {
		return Pending{}, false
	}
	return *m.pending, true
}

// Start begins a drag from a node handle. Any pending connection is
// discarded.
func (m *Machine) Start(nodeID, handle string, ht HandleType) error {
	if nodeID == "" {
		return fmt.Errorf("%w: start without a node", ErrInvalidTransition)
	}
	if ht == "" {
		ht = SourceHandle
	}
	if err := m.transition(Dragging); err != nil {
		return err
	}
	m.pending = nil
	m.nodeID, m.handle, m.handleType = nodeID, handle, ht
	return nil
}

// DropOnNode ends the drag over a node handle and returns the connection to
// create. Validation is the caller's job. It fails unless a drag is in
// progress.
func (m *Machine) DropOnNode(nodeID, handle string) (flow.Connection, error) {
	if m.state != Dragging {
		return flow.Connection{}, fmt.Errorf("%w: drop on node while %s", ErrInvalidTransition, m.state)
	}
	if err := m.transition(Idle); err != nil {
		return flow.Connection{}, err
	}
	c := orient(m.nodeID, m.handle, m.handleType, nodeID, handle)
	m.clearDrag()
	return c, nil
}

// DropOnCanvas ends the drag over empty canvas and records a pending
// connection identified by id.
func (m *Machine) DropOnCanvas(pos flow.Position, id string) (Pending, error) {
	if err := m.transition(AwaitingResolution); err != nil {
		return Pending{}, err
	}
	p := Pending{
		ID:           id,
		SourceNodeID: m.nodeID,
		SourceHandle: m.handle,
		HandleType:   m.handleType,
		Position:     pos,
	}
	m.pending = &p
	m.clearDrag()
	return p, nil
}

// Abort ends the drag without creating anything.
func (m *Machine) Abort() {
	if m.state == Dragging {
		m.state = Idle
		m.clearDrag()
	}
}

// Check returns the pending connection Resolve(id) would remove, without
// removing it.
func (m *Machine) Check(id string) (Pending, error) {
	if m.state != AwaitingResolution || m.pending == nil {
		if id != "" {
			return Pending{}, fmt.Errorf("%w: %s", ErrSuperseded, id)
		}
		return Pending{}, ErrNoPending
	}
	if id != "" && id != m.pending.ID {
		return Pending{}, fmt.Errorf("%w: %s", ErrSuperseded, id)
	}
	return *m.pending, nil
}

// Resolve removes and returns the pending connection. A non-empty id must
// match the pending connection's id.
func (m *Machine) Resolve(id string) (Pending, error) {
	p, err := m.Check(id)
	if err != nil {
		return Pending{}, err
	}
	m.pending = nil
	m.state = Idle
	return p, nil
}

// Cancel discards the pending connection. It reports whether one existed.
func (m *Machine) Cancel() bool {
	if m.pending == nil {
		return false
	}
	m.pending = nil
	if m.state == AwaitingResolution {
		m.state = Idle
	}
	return true
}

// Leaving AwaitingResolution for Idle happens only through Resolve or Cancel.
var allowed = map[State][]State{
	Idle:               {Dragging},
	Dragging:           {Dragging, Idle, AwaitingResolution},
	AwaitingResolution: {Dragging},
}

func (m *Machine) transition(to State) error {
	for _, s := range allowed[m.state] {
		if s == to {
			m.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
}

func (m *Machine) clearDrag() {
	m.nodeID, m.handle, m.handleType = "", "", ""
}

func orient(fromNode, fromHandle string, ht HandleType, toNode, toHandle string) flow.Connection {
	if ht == TargetHandle {
		return flow.Connection{
			Source:       toNode,
			SourceHandle: toHandle,
			Target:       fromNode,
			TargetHandle: fromHandle,
		}
	}
	return flow.Connection{
		Source:       fromNode,
		SourceHandle: fromHandle,
		Target:       toNode,
		TargetHandle: toHandle,
	}
}
