package gift

import (
	"context"

	"nomur/internal/domain/order"
)

// RecordRepository persists gift delivery records.
type RecordRepository interface {
	Insert(ctx context.Context, r *DeliveryRecord) error
	GetByID(ctx context.Context, orderID, recordID string) (*DeliveryRecord, error)
	ListByOrder(ctx context.Context, orderID string) ([]*DeliveryRecord, error)
	Delete(ctx context.Context, recordID string) error
}

// OrderStore is the slice of the order repository the gift engine needs.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*order.Order, error)
	GetByIDForUpdate(ctx context.Context, id string) (*order.Order, error)
	ListByAgentAsc(ctx context.Context, agentID string) ([]*order.Order, error)
	UpdateGiftItems(ctx context.Context, orderID string, items []order.GiftItem) error
}

// AgentStore checks agent existence.
type AgentStore interface {
	AgentExists(ctx context.Context, agentID string) (bool, error)
}

// CatalogStore resolves display names for summaries.
type CatalogStore interface {
	ProductNames(ctx context.Context) (map[string]string, error)
	GroupInfos(ctx context.Context) (map[string]GroupInfo, error)
}
