package admin

import (
	"context"

	"nomur/internal/domain/agent"
)

// Repository persists admin rows.
type Repository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByPhone(ctx context.Context, phone string) (*Admin, error)
	List(ctx context.Context) ([]*Admin, error)
	Delete(ctx context.Context, id string) error
}

// AgentStore resolves distributor sign-ins by phone.
type AgentStore interface {
	GetByPhone(ctx context.Context, phone string) (*agent.Agent, error)
}
