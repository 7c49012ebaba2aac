package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flow"
)

// newTestStore connects to TEST_DATABASE_URL and creates a fresh schema.
func newTestStore(t *testing.T) *PGStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := New(pool)
	require.NoError(t, s.DropSchema(ctx))
	require.NoError(t, s.CreateSchema(ctx))
	t.Cleanup(func() { _ = s.DropSchema(context.Background()) })
	return s
}

func TestSaveAndGetWorkflow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := flow.Graph{
		Nodes: []flow.Node{
			{ID: "b", Type: "action", Position: flow.Position{X: 250}, Data: flow.NodeData{"label": "B"}},
			{ID: "a", Type: "trigger", Data: flow.NodeData{"label": "A", "disabled": true}},
		},
		Edges: []flow.Edge{{ID: "e1", Source: "a", Target: "b", SourceHandle: "out"}},
	}
	require.NoError(t, s.SaveWorkflow(ctx, "wf", g))

	got, err := s.GetWorkflow(ctx, "wf")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, g, *got)

	// Replace semantics.
	g2, err := g.RemoveNode("a")
	require.NoError(t, err)
	require.NoError(t, s.SaveWorkflow(ctx, "wf", g2))
	got, err = s.GetWorkflow(ctx, "wf")
	require.NoError(t, err)
	assert.Len(t, got.Nodes, 1)
	assert.Empty(t, got.Edges)
}

func TestGetMissingWorkflow(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetWorkflow(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveRejectsDanglingEdges(t *testing.T) {
	s := newTestStore(t)
	g := flow.Graph{
		Nodes: []flow.Node{{ID: "a"}},
		Edges: []flow.Edge{{ID: "e", Source: "a", Target: "ghost"}},
	}
	require.ErrorIs(t, s.SaveWorkflow(context.Background(), "wf", g), flow.ErrDanglingEdge)
}

func TestDeleteWorkflow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveWorkflow(ctx, "wf", flow.Graph{Nodes: []flow.Node{{ID: "a"}}}))
	require.NoError(t, s.DeleteWorkflow(ctx, "wf"))
	require.NoError(t, s.DeleteWorkflow(ctx, "wf"))

	got, err := s.GetWorkflow(ctx, "wf")
	require.NoError(t, err)
	assert.Nil(t, got)
}
