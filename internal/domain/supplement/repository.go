package supplement

import "context"

// Repository persists supplement sales.
type Repository interface {
	Insert(ctx context.Context, s *Sale) error
	ListByAgent(ctx context.Context, agentID string) ([]*Sale, error)
	ListByAgentYear(ctx context.Context, agentID string, year int) ([]*Sale, error)
	Delete(ctx context.Context, id string) error
}

// AgentStore checks agent existence.
type AgentStore interface {
	AgentExists(ctx context.Context, agentID string) (bool, error)
}
