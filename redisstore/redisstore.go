// Package redisstore implements flow.Store on Redis. Each workflow graph is
// one JSON value under workflow:<id>.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/meikuraledutech/flow"
)

const keyPrefix = "workflow:"

var _ flow.Store = (*Store)(nil)

// Store persists workflows in Redis.
type Store struct {
	client redis.UniversalClient
}

// New wraps an existing client.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Connect parses a redis:// URL, connects and pings the server.
func Connect(ctx context.Context, url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("flow: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("flow: connect redis: %w", err)
	}
	return New(client), nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func key(workflowID string) string {
	return keyPrefix + workflowID
}

// CreateSchema is a no-op; Redis needs no schema.
func (s *Store) CreateSchema(context.Context) error { return nil }

// DropSchema deletes every workflow key.
func (s *Store) DropSchema(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("flow: scan workflows: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("flow: delete workflows: %w", err)
	}
	return nil
}

// SaveWorkflow validates g and stores it, replacing any previous value.
func (s *Store) SaveWorkflow(ctx context.Context, workflowID string, g flow.Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	data, err := encode(g)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(workflowID), data, 0).Err(); err != nil {
		return fmt.Errorf("flow: save workflow: %w", err)
	}
	return nil
}

// GetWorkflow loads a workflow graph. Returns nil, nil if absent.
func (s *Store) GetWorkflow(ctx context.Context, workflowID string) (*flow.Graph, error) {
	data, err := s.client.Get(ctx, key(workflowID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flow: get workflow: %w", err)
	}
	g, err := decode(data)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteWorkflow removes a workflow. No error if it doesn't exist.
func (s *Store) DeleteWorkflow(ctx context.Context, workflowID string) error {
	if err := s.client.Del(ctx, key(workflowID)).Err(); err != nil {
		return fmt.Errorf("flow: delete workflow: %w", err)
	}
	return nil
}

func encode(g flow.Graph) ([]byte, error) {
	if g.Nodes == nil {
		g.Nodes = []flow.Node{}
	}
	if g.Edges == nil {
		g.Edges = []flow.Edge{}
	}
	data, err := sonic.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("flow: encode workflow: %w", err)
	}
	return data, nil
}

func decode(data []byte) (flow.Graph, error) {
	var g flow.Graph
	if err := sonic.Unmarshal(data, &g); err != nil {
		return flow.Graph{}, fmt.Errorf("flow: decode workflow: %w", err)
	}
	return g, nil
}
