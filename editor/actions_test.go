package editor

import (
	"testing"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchDeletes(t *testing.T) {
	e, _ := newEditor(t, sample())

	assert.True(t, e.Dispatch(Action{Kind: ActionDeleteEdge, EdgeID: "e1"}))
	assert.False(t, e.Dispatch(Action{Kind: ActionDeleteEdge, EdgeID: "e1"}))
	assert.True(t, e.Dispatch(Action{Kind: ActionDeleteNode, NodeID: "a"}))

	assert.True(t, e.Dispatch(Action{Kind: ActionUndo}))
	assert.True(t, e.Dispatch(Action{Kind: ActionUndo}))
	assert.Equal(t, sample(), e.Graph())
	assert.True(t, e.Dispatch(Action{Kind: ActionRedo}))
	assert.Empty(t, e.Graph().Edges)
}

func TestDispatchForwardsToHost(t *testing.T) {
	var edited, duplicated flow.Node
	var addAt flow.Position
	e := New(sample(), WithCallbacks(Callbacks{
		OnNodeEdit:       func(n flow.Node) { edited = n },
		OnNodeDuplicate:  func(n flow.Node) { duplicated = n },
		OnAddNodeRequest: func(p flow.Position) { addAt = p },
	}))

	assert.True(t, e.Dispatch(Action{Kind: ActionEditNode, NodeID: "a"}))
	assert.Equal(t, "a", edited.ID)
	assert.True(t, e.Dispatch(Action{Kind: ActionDuplicateNode, NodeID: "b"}))
	assert.Equal(t, "b", duplicated.ID)
	assert.True(t, e.Dispatch(Action{Kind: ActionAddNode, Position: flow.Position{X: 3, Y: 4}}))
	assert.Equal(t, flow.Position{X: 3, Y: 4}, addAt)

	assert.False(t, e.Dispatch(Action{Kind: ActionEditNode, NodeID: "ghost"}))
	assert.False(t, e.CanUndo(), "forwarded actions do not mutate the graph")
}

func TestDispatchWithoutHandlers(t *testing.T) {
	e := New(sample())
	assert.False(t, e.Dispatch(Action{Kind: ActionEditNode, NodeID: "a"}))
	assert.False(t, e.Dispatch(Action{Kind: ActionDuplicateNode, NodeID: "a"}))
	assert.False(t, e.Dispatch(Action{Kind: ActionAddNode}))
	assert.False(t, e.Dispatch(Action{Kind: "bogus"}))
}

func TestDispatchAutoArrange(t *testing.T) {
	e := New(sample())
	assert.True(t, e.Dispatch(Action{Kind: ActionAutoArrange}))
	b, _ := e.Graph().Node("b")
	assert.Equal(t, 250.0, b.Position.X)
}

func TestShortcuts(t *testing.T) {
	e, _ := newEditor(t, sample())
	require.True(t, e.DeleteEdge("e1"))

	assert.True(t, e.HandleShortcut(Shortcut{Key: "z", Ctrl: true}, Selection{}))
	assert.Len(t, e.Graph().Edges, 1)
	assert.True(t, e.HandleShortcut(Shortcut{Key: "Z", Meta: true, Shift: true}, Selection{}))
	assert.Empty(t, e.Graph().Edges)
	assert.True(t, e.HandleShortcut(Shortcut{Key: "z", Meta: true}, Selection{}))
	assert.True(t, e.HandleShortcut(Shortcut{Key: "y", Ctrl: true}, Selection{}))
	assert.Empty(t, e.Graph().Edges)

	assert.False(t, e.HandleShortcut(Shortcut{Key: "z"}, Selection{}))
	assert.False(t, e.HandleShortcut(Shortcut{Key: "Delete"}, Selection{}))
}

func TestDeleteSelectionIsOneStep(t *testing.T) {
	g := sample()
	g.Nodes = append(g.Nodes, flow.Node{ID: "c"})
	g.Edges = append(g.Edges, flow.Edge{ID: "e2", Source: "b", Target: "c"})
	e, r := newEditor(t, g)

	ok := e.HandleShortcut(Shortcut{Key: "Backspace"}, Selection{Nodes: []string{"a", "ghost"}, Edges: []string{"e2"}})
	require.True(t, ok)
	out := e.Graph()
	assert.Len(t, out.Nodes, 2)
	assert.Empty(t, out.Edges)
	assert.Equal(t, []string{"a"}, r.deleted)

	require.True(t, e.Undo())
	assert.Equal(t, g, e.Graph())
	assert.False(t, e.CanUndo())

	assert.False(t, e.DeleteSelection(Selection{Nodes: []string{"ghost"}}))
}

func TestViewDecorations(t *testing.T) {
	g := sample()
	g.Nodes = append(g.Nodes, flow.Node{ID: "c", Data: flow.NodeData{"disabled": true}})
	e, _ := newEditor(t, g)

	require.NoError(t, e.StartConnection("a", "", connect.SourceHandle))
	views := e.View()
	require.Len(t, views, 3)
	assert.True(t, views[0].Decoration.ConnectionSource)
	assert.False(t, views[0].Decoration.ValidTarget, "self connection")
	assert.False(t, views[1].Decoration.ValidTarget, "already connected")
	assert.True(t, views[2].Decoration.ValidTarget)
	assert.True(t, views[2].Decoration.Disabled)

	_, err := e.EndConnectionOnCanvas(flow.Position{})
	require.NoError(t, err)
	views = e.View()
	assert.True(t, views[0].Decoration.PendingSource)
	assert.False(t, views[0].Decoration.ConnectionSource)

	// Decorations never reach the graph.
	for _, n := range e.Graph().Nodes {
		assert.NotContains(t, n.Data, "decoration")
	}
}
