package flow

import (
	"fmt"
	"slices"
)

// Clone returns a copy of g with fresh slices and node data maps.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = n.Clone()
	}
	copy(out.Edges, g.Edges)
	return out
}

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	i := g.nodeIndex(id)
	if i < 0 {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Edge returns the edge with the given id.
func (g Graph) Edge(id string) (Edge, bool) {
	i := g.edgeIndex(id)
	if i < 0 {
		return Edge{}, false
	}
	return g.Edges[i], true
}

// ConnectedEdges returns every edge whose source or target is nodeID.
func (g Graph) ConnectedEdges(nodeID string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == nodeID || e.Target == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// HasEdge reports whether an edge with exactly the endpoints and handles
// of c already exists.
func (g Graph) HasEdge(c Connection) bool {
	return slices.ContainsFunc(g.Edges, func(e Edge) bool {
		return e.Connection() == c
	})
}

// AddNode returns g with n appended.
func (g Graph) AddNode(n Node) (Graph, error) {
	if g.nodeIndex(n.ID) >= 0 {
		return g, fmt.Errorf("flow: add node %q: %w", n.ID, ErrDuplicateID)
	}
	return Graph{
		Nodes: append(slices.Clip(g.Nodes), n),
		Edges: slices.Clone(g.Edges),
	}, nil
}

// RemoveNode returns g without the node and without every edge that
// references it.
func (g Graph) RemoveNode(id string) (Graph, error) {
	i := g.nodeIndex(id)
	if i < 0 {
		return g, fmt.Errorf("flow: remove node %q: %w", id, ErrNotFound)
	}
	edges := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	return Graph{
		Nodes: slices.Delete(slices.Clone(g.Nodes), i, i+1),
		Edges: edges,
	}, nil
}

// AddEdge returns g with e appended. Self-loops and parallel edges are
// accepted here; connection policy belongs to the caller.
func (g Graph) AddEdge(e Edge) (Graph, error) {
	if g.edgeIndex(e.ID) >= 0 {
		return g, fmt.Errorf("flow: add edge %q: %w", e.ID, ErrDuplicateID)
	}
	if g.nodeIndex(e.Source) < 0 {
		return g, fmt.Errorf("flow: add edge %q: source %q: %w", e.ID, e.Source, ErrNotFound)
	}
	if g.nodeIndex(e.Target) < 0 {
		return g, fmt.Errorf("flow: add edge %q: target %q: %w", e.ID, e.Target, ErrNotFound)
	}
	return Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: append(slices.Clip(g.Edges), e),
	}, nil
}

// RemoveEdge returns g without the edge.
func (g Graph) RemoveEdge(id string) (Graph, error) {
	i := g.edgeIndex(id)
	if i < 0 {
		return g, fmt.Errorf("flow: remove edge %q: %w", id, ErrNotFound)
	}
	return Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: slices.Delete(slices.Clone(g.Edges), i, i+1),
	}, nil
}

// UpdateNode applies patch to the node with the given id.
func (g Graph) UpdateNode(id string, patch NodePatch) (Graph, error) {
	i := g.nodeIndex(id)
	if i < 0 {
		return g, fmt.Errorf("flow: update node %q: %w", id, ErrNotFound)
	}
	n := g.Nodes[i]
	if patch.Type != nil {
		n.Type = *patch.Type
	}
	if patch.Position != nil {
		n.Position = *patch.Position
	}
	if patch.Data != nil {
		n.Data = n.Data.Merge(patch.Data)
	}
	return g.replaceNode(i, n), nil
}

// UpdateNodePosition moves the node with the given id.
func (g Graph) UpdateNodePosition(id string, pos Position) (Graph, error) {
	i := g.nodeIndex(id)
	if i < 0 {
		return g, fmt.Errorf("flow: move node %q: %w", id, ErrNotFound)
	}
	n := g.Nodes[i]
	n.Position = pos
	return g.replaceNode(i, n), nil
}

// WithPositions returns g with node positions replaced by those in nodes,
// matched by id. Nodes absent from g are ignored.
func (g Graph) WithPositions(nodes []Node) Graph {
	pos := make(map[string]Position, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = n.Position
	}
	out := Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: slices.Clone(g.Edges),
	}
	for i := range out.Nodes {
		if p, ok := pos[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = p
		}
	}
	return out
}

// Validate checks id uniqueness and that every edge references existing
// nodes. Graphs built through the operations above always pass; graphs
// arriving from outside may not.
func (g Graph) Validate() error {
	nodes := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("flow: node with empty id: %w", ErrNotFound)
		}
		if _, ok := nodes[n.ID]; ok {
			return fmt.Errorf("flow: node %q: %w", n.ID, ErrDuplicateID)
		}
		nodes[n.ID] = struct{}{}
	}

	edges := make(map[string]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if _, ok := edges[e.ID]; ok {
			return fmt.Errorf("flow: edge %q: %w", e.ID, ErrDuplicateID)
		}
		edges[e.ID] = struct{}{}
		if _, ok := nodes[e.Source]; !ok {
			return fmt.Errorf("flow: edge %q source %q: %w", e.ID, e.Source, ErrDanglingEdge)
		}
		if _, ok := nodes[e.Target]; !ok {
			return fmt.Errorf("flow: edge %q target %q: %w", e.ID, e.Target, ErrDanglingEdge)
		}
	}
	return nil
}

func (g Graph) replaceNode(i int, n Node) Graph {
	nodes := slices.Clone(g.Nodes)
	nodes[i] = n
	return Graph{Nodes: nodes, Edges: slices.Clone(g.Edges)}
}

func (g Graph) nodeIndex(id string) int {
	return slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
}

func (g Graph) edgeIndex(id string) int {
	return slices.IndexFunc(g.Edges, func(e Edge) bool { return e.ID == id })
}
