package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/flow"
)

// SaveWorkflow replaces the stored graph of a workflow in one transaction.
// The graph is validated first; a graph with dangling edges or duplicate ids
// is never written.
func (s *PGStore) SaveWorkflow(ctx context.Context, workflowID string, g flow.Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("flow: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO flow_workflows (id) VALUES ($1) ON CONFLICT (id) DO UPDATE SET updated_at = NOW()`,
		workflowID,
	); err != nil {
		return fmt.Errorf("flow: upsert workflow: %w", err)
	}

	// Replace semantics: edges go first because they reference nodes.
	if _, err := tx.Exec(ctx, `DELETE FROM flow_edges WHERE workflow_id = $1`, workflowID); err != nil {
		return fmt.Errorf("flow: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM flow_nodes WHERE workflow_id = $1`, workflowID); err != nil {
		return fmt.Errorf("flow: delete nodes: %w", err)
	}

	if err := insertNodes(ctx, tx, workflowID, g.Nodes); err != nil {
		return err
	}
	if err := insertEdges(ctx, tx, workflowID, g.Edges); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("flow: commit: %w", err)
	}
	return nil
}

// GetWorkflow retrieves the stored graph of a workflow.
// Returns nil, nil if the workflow was never saved.
func (s *PGStore) GetWorkflow(ctx context.Context, workflowID string) (*flow.Graph, error) {
	var id string
	err := s.db.QueryRow(ctx, `SELECT id FROM flow_workflows WHERE id = $1`, workflowID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flow: get workflow: %w", err)
	}

	nodes, err := listNodes(ctx, s.db, workflowID)
	if err != nil {
		return nil, err
	}
	edges, err := listEdges(ctx, s.db, workflowID)
	if err != nil {
		return nil, err
	}
	return &flow.Graph{Nodes: nodes, Edges: edges}, nil
}

// DeleteWorkflow removes a workflow with its nodes and edges.
// No error if the workflow doesn't exist.
func (s *PGStore) DeleteWorkflow(ctx context.Context, workflowID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM flow_workflows WHERE id = $1`, workflowID); err != nil {
		return fmt.Errorf("flow: delete workflow: %w", err)
	}
	return nil
}
