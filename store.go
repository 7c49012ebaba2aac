package flow

import (
	"context"
	"errors"
)

var (
	ErrDuplicateID        = errors.New("flow: duplicate id")
	ErrNotFound           = errors.New("flow: not found")
	ErrDanglingEdge       = errors.New("flow: edge references a missing node")
	ErrValidationRejected = errors.New("flow: connection rejected")
	ErrWorkflowNotFound   = errors.New("flow: workflow not found")
)

// Store defines the contract for persisting and retrieving workflow graphs.
// It consumes the externalizable graph produced by an editor session.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Workflows (whole-graph, replace semantics)
	SaveWorkflow(ctx context.Context, workflowID string, g Graph) error
	GetWorkflow(ctx context.Context, workflowID string) (*Graph, error)
	DeleteWorkflow(ctx context.Context, workflowID string) error
}
