package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/flow"
)

// insertEdges writes edges in order. Nodes must already be inserted.
func insertEdges(ctx context.Context, q querier, workflowID string, edges []flow.Edge) error {
	for i, e := range edges {
		if _, err := q.Exec(ctx,
			`INSERT INTO flow_edges (workflow_id, id, seq, source, target, source_handle, target_handle) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			workflowID, e.ID, i, e.Source, e.Target, e.SourceHandle, e.TargetHandle,
		); err != nil {
			return fmt.Errorf("flow: insert edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// listEdges returns all edges of a workflow in saved order.
// Returns an empty slice (not nil) if none found.
func listEdges(ctx context.Context, q querier, workflowID string) ([]flow.Edge, error) {
	rows, err := q.Query(ctx,
		`SELECT id, source, target, source_handle, target_handle FROM flow_edges WHERE workflow_id = $1 ORDER BY seq`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("flow: list edges: %w", err)
	}
	defer rows.Close()

	edges := []flow.Edge{}
	for rows.Next() {
		var e flow.Edge
		if err := rows.Scan(&e.ID, &e.Source, &e.Target, &e.SourceHandle, &e.TargetHandle); err != nil {
			return nil, fmt.Errorf("flow: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("flow: rows edges: %w", err)
	}

	return edges, nil
}
