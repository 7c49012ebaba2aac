package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS flow_workflows (
    id         TEXT PRIMARY KEY,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS flow_nodes (
    workflow_id TEXT NOT NULL REFERENCES flow_workflows(id) ON DELETE CASCADE,
    id          TEXT NOT NULL,
    seq         INTEGER NOT NULL,
    type        TEXT NOT NULL DEFAULT '',
    pos_x       DOUBLE PRECISION NOT NULL DEFAULT 0,
    pos_y       DOUBLE PRECISION NOT NULL DEFAULT 0,
    data        JSONB NOT NULL DEFAULT '{}',
    PRIMARY KEY (workflow_id, id)
);

CREATE TABLE IF NOT EXISTS flow_edges (
    workflow_id   TEXT NOT NULL REFERENCES flow_workflows(id) ON DELETE CASCADE,
    id            TEXT NOT NULL,
    seq           INTEGER NOT NULL,
    source        TEXT NOT NULL,
    target        TEXT NOT NULL,
    source_handle TEXT NOT NULL DEFAULT '',
    target_handle TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (workflow_id, id),
    FOREIGN KEY (workflow_id, source) REFERENCES flow_nodes(workflow_id, id) ON DELETE CASCADE,
    FOREIGN KEY (workflow_id, target) REFERENCES flow_nodes(workflow_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_flow_nodes_workflow ON flow_nodes(workflow_id, seq);
CREATE INDEX IF NOT EXISTS idx_flow_edges_workflow ON flow_edges(workflow_id, seq);
`

// CreateSchema creates the workflow, node and edge tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the workflow tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS flow_edges, flow_nodes, flow_workflows CASCADE;`)
	return err
}
