package editor

import "github.com/meikuraledutech/flow"

// Decoration is per-node view state computed for rendering. It is never
// stored in the graph.
type Decoration struct {
	// ConnectionSource marks the node an edge is being dragged from.
	ConnectionSource bool `json:"connectionSource,omitempty"`
	// ValidTarget marks nodes a drop would connect to while dragging.
	ValidTarget bool `json:"validTarget,omitempty"`
	// PendingSource marks the origin of a pending connection.
	PendingSource bool `json:"pendingSource,omitempty"`
	Disabled      bool `json:"disabled,omitempty"`
}

// NodeView joins a node record with its decoration for one render.
type NodeView struct {
	flow.Node
	Decoration Decoration `json:"decoration"`
}

// View returns the current nodes with their decorations.
func (e *Editor) View() []NodeView {
	g := e.Graph()
	origin, _, dragging := e.conn.Origin()
	pending, hasPending := e.conn.Pending()

	out := make([]NodeView, len(g.Nodes))
	for i, n := range g.Nodes {
		d := Decoration{Disabled: n.Data.Disabled()}
		if dragging {
			d.ConnectionSource = n.ID == origin
			if c, ok := e.conn.Preview(n.ID, ""); ok {
				d.ValidTarget = e.validation.check(g, c) == ""
			}
		}
		if hasPending {
			d.PendingSource = n.ID == pending.SourceNodeID
		}
		out[i] = NodeView{Node: n, Decoration: d}
	}
	return out
}
