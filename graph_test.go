package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoNodes() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "a", Type: "trigger", Data: NodeData{"label": "A"}},
			{ID: "b", Type: "action", Data: NodeData{"label": "B"}},
		},
		Edges: []Edge{{ID: "e1", Source: "a", Target: "b"}},
	}
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	g, err := twoNodes().RemoveNode("a")
	require.NoError(t, err)

	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "b", g.Nodes[0].ID)
	assert.Empty(t, g.Edges)
	assert.NoError(t, g.Validate())
}

func TestRemoveNodeLeavesNoDanglingEdges(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{
			{ID: "ab", Source: "a", Target: "b"},
			{ID: "bc", Source: "b", Target: "c"},
			{ID: "ca", Source: "c", Target: "a"},
			{ID: "bb", Source: "b", Target: "b"},
		},
	}

	out, err := g.RemoveNode("b")
	require.NoError(t, err)
	require.NoError(t, out.Validate())
	require.Len(t, out.Edges, 1)
	assert.Equal(t, "ca", out.Edges[0].ID)
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	g := twoNodes()
	before := g.Clone()

	_, err := g.AddNode(Node{ID: "c"})
	require.NoError(t, err)
	_, err = g.RemoveNode("a")
	require.NoError(t, err)
	_, err = g.RemoveEdge("e1")
	require.NoError(t, err)
	_, err = g.UpdateNodePosition("a", Position{X: 10, Y: 20})
	require.NoError(t, err)
	_, err = g.UpdateNode("b", NodePatch{Data: NodeData{"label": "changed"}})
	require.NoError(t, err)

	assert.Equal(t, before, g)
}

func TestAddNodeDuplicate(t *testing.T) {
	g := twoNodes()
	out, err := g.AddNode(Node{ID: "a"})
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, g, out)
}

func TestAddEdge(t *testing.T) {
	g := twoNodes()

	_, err := g.AddEdge(Edge{ID: "e1", Source: "b", Target: "a"})
	require.ErrorIs(t, err, ErrDuplicateID)

	_, err = g.AddEdge(Edge{ID: "e2", Source: "a", Target: "missing"})
	require.ErrorIs(t, err, ErrNotFound)

	// Self-loops and parallel edges are the caller's policy.
	out, err := g.AddEdge(Edge{ID: "loop", Source: "a", Target: "a"})
	require.NoError(t, err)
	out, err = out.AddEdge(Edge{ID: "e1b", Source: "a", Target: "b"})
	require.NoError(t, err)
	assert.Len(t, out.Edges, 3)
	assert.True(t, out.HasEdge(Connection{Source: "a", Target: "a"}))
}

func TestRemoveEdgeNoCascade(t *testing.T) {
	out, err := twoNodes().RemoveEdge("e1")
	require.NoError(t, err)
	assert.Len(t, out.Nodes, 2)
	assert.Empty(t, out.Edges)

	_, err = out.RemoveEdge("e1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateNode(t *testing.T) {
	typ := "http"
	out, err := twoNodes().UpdateNode("a", NodePatch{
		Type:     &typ,
		Position: &Position{X: 5, Y: 6},
		Data:     NodeData{"label": "Fetch", "disabled": true},
	})
	require.NoError(t, err)

	n, ok := out.Node("a")
	require.True(t, ok)
	assert.Equal(t, "http", n.Type)
	assert.Equal(t, Position{X: 5, Y: 6}, n.Position)
	assert.Equal(t, "Fetch", n.Data.Label())
	assert.True(t, n.Data.Disabled())

	out, err = out.UpdateNode("a", NodePatch{Data: NodeData{"disabled": nil}})
	require.NoError(t, err)
	n, _ = out.Node("a")
	assert.NotContains(t, n.Data, "disabled")

	_, err = out.UpdateNode("zzz", NodePatch{})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = out.UpdateNodePosition("zzz", Position{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWithPositions(t *testing.T) {
	out := twoNodes().WithPositions([]Node{
		{ID: "b", Position: Position{X: 250}},
		{ID: "ghost", Position: Position{X: 1}},
	})
	a, _ := out.Node("a")
	b, _ := out.Node("b")
	assert.Equal(t, Position{}, a.Position)
	assert.Equal(t, Position{X: 250}, b.Position)
	assert.Len(t, out.Nodes, 2)
}

func TestValidate(t *testing.T) {
	require.NoError(t, twoNodes().Validate())

	g := twoNodes()
	g.Nodes = append(g.Nodes, Node{ID: "a"})
	require.ErrorIs(t, g.Validate(), ErrDuplicateID)

	g = twoNodes()
	g.Edges = append(g.Edges, Edge{ID: "e1", Source: "a", Target: "b"})
	require.ErrorIs(t, g.Validate(), ErrDuplicateID)

	g = twoNodes()
	g.Edges = append(g.Edges, Edge{ID: "e2", Source: "a", Target: "gone"})
	require.ErrorIs(t, g.Validate(), ErrDanglingEdge)
}

func TestCloneIsDeep(t *testing.T) {
	g := twoNodes()
	c := g.Clone()
	c.Nodes[0].Data["label"] = "mutated"
	c.Edges[0].Target = "a"

	assert.Equal(t, "A", g.Nodes[0].Data.Label())
	assert.Equal(t, "b", g.Edges[0].Target)
}
