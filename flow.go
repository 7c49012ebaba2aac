package flow

import "maps"

// Graph is the workflow graph owned by an editor session.
// Operations on Graph never modify the receiver; they return a new Graph
// with fresh Nodes/Edges slices, so a value handed out once stays valid.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is the persistable record of a workflow step.
// Data holds only domain fields (label, config, inputs, outputs, disabled);
// view state lives with the host, never here.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Connection describes a prospective edge before it has an id.
type Connection struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Connection returns the endpoints of e.
func (e Edge) Connection() Connection {
	return Connection{
		Source:       e.Source,
		Target:       e.Target,
		SourceHandle: e.SourceHandle,
		TargetHandle: e.TargetHandle,
	}
}

// Clone returns a copy of n with its own Data map. Nil Data stays nil.
func (n Node) Clone() Node {
	if n.Data != nil {
		n.Data = n.Data.Merge(nil)
	}
	return n
}

// NodeData is the open map of domain fields attached to a node.
// Values are treated as immutable once stored; updates replace keys.
type NodeData map[string]any

// Label returns the "label" field, or "" when unset.
func (d NodeData) Label() string {
	s, _ := d["label"].(string)
	return s
}

// Disabled reports whether the node is marked disabled.
func (d NodeData) Disabled() bool {
	b, _ := d["disabled"].(bool)
	return b
}

// Merge returns a copy of d with patch applied. A nil value in patch
// removes the key.
func (d NodeData) Merge(patch NodeData) NodeData {
	out := make(NodeData, len(d)+len(patch))
	maps.Copy(out, d)
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// NodePatch is a partial node update. Nil fields are left unchanged.
type NodePatch struct {
	Type     *string   `json:"type,omitempty"`
	Position *Position `json:"position,omitempty"`
	Data     NodeData  `json:"data,omitempty"`
}
