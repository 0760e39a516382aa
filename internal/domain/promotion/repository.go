package promotion

import (
	"context"

	"nomur/internal/domain/jsonval"
	"nomur/internal/domain/order"
)

// Repository persists promotions.
type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	GetByID(ctx context.Context, id string) (*Promotion, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Promotion, error)
	List(ctx context.Context) ([]*Promotion, error)
	ListActive(ctx context.Context) ([]*Promotion, error)
	Update(ctx context.Context, p *Promotion) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// OrderStore is the slice of the order repository the promotion service
// needs: reading an agent's history for progress and stripping deleted
// promotion references.
type OrderStore interface {
	ListByAgentAsc(ctx context.Context, agentID string) ([]*order.Order, error)

	// ListReferencing returns orders whose promotion reference contains
	// the given promotion id, with row locks.
	ListReferencing(ctx context.Context, promotionID string) ([]*order.Order, error)

	UpdatePromotionRef(ctx context.Context, orderID string, ref jsonval.PromotionRef) error
}

// GroupStore resolves product group membership for group conditions.
type GroupStore interface {
	MemberIDs(ctx context.Context) (GroupMembers, error)
}

// AgentStore checks agent existence for progress queries.
type AgentStore interface {
	AgentExists(ctx context.Context, agentID string) (bool, error)
}
