package productgroup

import "context"

// Repository persists product groups.
type Repository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	List(ctx context.Context) ([]*Group, error)
	Update(ctx context.Context, g *Group) error
	Delete(ctx context.Context, id string) error

	// CountTargetReferences returns how many agents carry a yearly target
	// bound to the group.
	CountTargetReferences(ctx context.Context, groupID string) (int64, error)

	// CountPromotionReferences returns how many promotions condition on
	// the group (legacy condition_group_id or a group condition detail).
	CountPromotionReferences(ctx context.Context, groupID string) (int64, error)
}
