package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/meikuraledutech/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addNode(id string) func(flow.Graph) (flow.Graph, error) {
	return func(g flow.Graph) (flow.Graph, error) {
		return g.AddNode(flow.Node{ID: id})
	}
}

func ids(g flow.Graph) []string {
	out := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestUndoRestoresPreMutationState(t *testing.T) {
	m := New(flow.Graph{})
	states := []flow.Graph{m.Present()}

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.Mutate(addNode(id)))
		states = append(states, m.Present())
	}

	for i := len(states) - 1; i > 0; i-- {
		require.True(t, m.Undo())
		assert.Equal(t, states[i-1], m.Present())
	}
	assert.False(t, m.Undo())
	assert.False(t, m.CanUndo())
}

func TestUndoRedoIsIdentity(t *testing.T) {
	m := New(flow.Graph{})
	require.NoError(t, m.Mutate(addNode("a")))
	require.NoError(t, m.Mutate(addNode("b")))
	after := m.Present()

	require.True(t, m.Undo())
	require.True(t, m.Redo())
	assert.Equal(t, after, m.Present())
	assert.False(t, m.CanRedo())
}

func TestSnapshotClearsFuture(t *testing.T) {
	m := New(flow.Graph{})
	require.NoError(t, m.Mutate(addNode("a")))
	require.True(t, m.Undo())
	require.True(t, m.CanRedo())

	require.NoError(t, m.Mutate(addNode("b")))
	assert.False(t, m.CanRedo())
	assert.False(t, m.Redo())
	assert.Equal(t, []string{"b"}, ids(m.Present()))
}

func TestFailedMutationLeavesStateUntouched(t *testing.T) {
	m := New(flow.Graph{})
	require.NoError(t, m.Mutate(addNode("a")))
	require.True(t, m.Undo())

	boom := errors.New("boom")
	err := m.Mutate(func(flow.Graph) (flow.Graph, error) { return flow.Graph{}, boom })
	require.ErrorIs(t, err, boom)

	past, future := m.Depth()
	assert.Equal(t, 0, past)
	assert.Equal(t, 1, future)

	err = m.Mutate(addNode("x"))
	require.NoError(t, err)
	err = m.Mutate(addNode("x"))
	require.ErrorIs(t, err, flow.ErrDuplicateID)
	past, _ = m.Depth()
	assert.Equal(t, 1, past)
}

func TestMutateWithoutHistory(t *testing.T) {
	m := New(flow.Graph{Nodes: []flow.Node{{ID: "a"}}})

	m.Snapshot()
	for i := 1; i <= 10; i++ {
		err := m.MutateWithoutHistory(func(g flow.Graph) (flow.Graph, error) {
			return g.UpdateNodePosition("a", flow.Position{X: float64(i * 5), Y: float64(i * 5)})
		})
		require.NoError(t, err)
	}
	n, _ := m.Present().Node("a")
	assert.Equal(t, flow.Position{X: 50, Y: 50}, n.Position)

	past, _ := m.Depth()
	assert.Equal(t, 1, past)

	require.True(t, m.Undo())
	n, _ = m.Present().Node("a")
	assert.Equal(t, flow.Position{}, n.Position)
	assert.False(t, m.CanUndo())
}

func TestLimitEvictsOldest(t *testing.T) {
	m := New(flow.Graph{}, WithLimit(3))
	for i := range 5 {
		require.NoError(t, m.Mutate(addNode(fmt.Sprintf("n%d", i))))
	}

	past, _ := m.Depth()
	assert.Equal(t, 3, past)

	for m.Undo() {
	}
	// The two oldest snapshots were evicted.
	assert.Equal(t, []string{"n0", "n1"}, ids(m.Present()))
}

func TestReset(t *testing.T) {
	m := New(flow.Graph{})
	require.NoError(t, m.Mutate(addNode("a")))
	require.True(t, m.Undo())

	m.Reset(flow.Graph{Nodes: []flow.Node{{ID: "z"}}})
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.Equal(t, []string{"z"}, ids(m.Present()))
}

func TestWithLimitIgnoresNonPositive(t *testing.T) {
	m := New(flow.Graph{}, WithLimit(0))
	assert.Equal(t, DefaultLimit, m.limit)
}
