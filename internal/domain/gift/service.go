package gift

import (
	"context"
	"fmt"
	"time"

	"nomur/internal/core/apperror"
	appctx "nomur/internal/core/context"
	"nomur/internal/core/id"
	"nomur/internal/core/tx"
	"nomur/internal/core/types"
	"nomur/internal/domain/audit"
	"nomur/internal/domain/order"
	"nomur/pkg/logger"
)

// Service provides gift bookkeeping operations.
type Service struct {
	records   RecordRepository
	orders    OrderStore
	agents    AgentStore
	catalog   CatalogStore
	trail     audit.Trail
	txManager tx.Manager
}

// NewService creates a new gift service.
func NewService(
	records RecordRepository,
	orders OrderStore,
	agents AgentStore,
	catalog CatalogStore,
	trail audit.Trail,
	txManager tx.Manager,
) *Service {
	return &Service{
		records:   records,
		orders:    orders,
		agents:    agents,
		catalog:   catalog,
		trail:     trail,
		txManager: txManager,
	}
}

// AgentSummary aggregates gift totals over the agent's orders.
func (s *Service) AgentSummary(ctx context.Context, agentID string) ([]SummaryEntry, error) {
	exists, err := s.agents.AgentExists(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFound("agent", agentID)
	}

	orders, err := s.orders.ListByAgentAsc(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	names, err := s.catalog.ProductNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load product names: %w", err)
	}
	groups, err := s.catalog.GroupInfos(ctx)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	return Summarize(orders, names, groups), nil
}

// RedistributeForAgent reassigns delivered quantities for the given gift
// keys across the agent's whole order history in one transaction.
func (s *Service) RedistributeForAgent(ctx context.Context, agentID string, targets []Target) error {
	if len(targets) == 0 {
		return apperror.NewValidation("gift targets are required")
	}

	targetMap := make(map[string]types.Quantity, len(targets))
	for _, t := range targets {
		key := t.Key()
		if key == "" {
			continue
		}
		targetMap[key] = t.DeliveredQuantity
	}
	if len(targetMap) == 0 {
		return apperror.NewValidation("gift targets are required")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.agents.AgentExists(ctx, agentID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound("agent", agentID)
		}

		orders, err := s.orders.ListByAgentAsc(ctx, agentID)
		if err != nil {
			return fmt.Errorf("load orders: %w", err)
		}

		for _, alloc := range Redistribute(orders, targetMap) {
			if err := s.orders.UpdateGiftItems(ctx, alloc.OrderID, alloc.GiftItems); err != nil {
				return fmt.Errorf("update gift items for order %s: %w", alloc.OrderID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "gift quantities redistributed", "agent_id", agentID, "keys", len(targetMap))
	return nil
}

// UpdateOrderDelivery applies delivered-quantity changes to one order's
// gift lines, appending a delivery record per nonzero change. An update
// line that matches no gift line fails the whole batch.
func (s *Service) UpdateOrderDelivery(ctx context.Context, orderID string, updates []DeliveryUpdate, remark string) error {
	if len(updates) == 0 {
		return apperror.NewValidation("gift updates are required")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NewNotFound("order", orderID)
		}

		giftItems := o.GiftItems

		for _, u := range updates {
			idx := matchGiftLine(giftItems, u)
			if idx < 0 {
				key := u.ProductID
				if key == "" {
					key = u.GroupID
				}
				return apperror.NewValidation("no matching gift item: " + key)
			}

			line := &giftItems[idx]
			delta := u.DeliveredQuantity - line.DeliveredQuantity
			if delta == 0 {
				continue
			}
			line.DeliveredQuantity = u.DeliveredQuantity

			record := &DeliveryRecord{
				ID:        id.New().String(),
				OrderID:   orderID,
				AgentID:   o.AgentID,
				Quantity:  delta.Abs(),
				Remark:    remark,
				CreatedAt: time.Now().UTC(),
			}
			if line.IsGroup || line.GroupID != "" {
				record.GroupID = line.GroupID
				record.GroupName = line.GroupName
			} else {
				record.ProductID = line.ProductID
				record.ProductName = firstNonEmpty(line.ProductName, u.ProductName)
			}
			if admin := appctx.GetAdmin(ctx); admin != nil {
				record.DeliveredBy = admin.AdminID
				record.DeliveredByName = admin.Name
			}

			if err := s.records.Insert(ctx, record); err != nil {
				return fmt.Errorf("insert delivery record: %w", err)
			}
		}

		return s.orders.UpdateGiftItems(ctx, orderID, giftItems)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "order gift delivery updated", "order_id", orderID, "updates", len(updates))
	return nil
}

// ListOrderRecords returns an order's delivery records, newest first.
func (s *Service) ListOrderRecords(ctx context.Context, orderID string) ([]*DeliveryRecord, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NewNotFound("order", orderID)
	}
	return s.records.ListByOrder(ctx, orderID)
}

// DeleteRecord removes a delivery record and rolls its quantity back out
// of the matching gift line, floored at zero.
func (s *Service) DeleteRecord(ctx context.Context, orderID, recordID string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NewNotFound("order", orderID)
		}

		record, err := s.records.GetByID(ctx, orderID, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return apperror.NewNotFound("delivery record", recordID)
		}

		if err := s.records.Delete(ctx, recordID); err != nil {
			return fmt.Errorf("delete delivery record: %w", err)
		}

		giftItems := o.GiftItems
		updated := false
		for i := range giftItems {
			line := &giftItems[i]
			match := false
			if record.GroupID != "" {
				match = line.GroupID == record.GroupID
			} else if record.ProductID != "" {
				match = line.ProductID == record.ProductID
			}
			if match && line.DeliveredQuantity > 0 {
				line.DeliveredQuantity -= record.Quantity
				if line.DeliveredQuantity < 0 {
					line.DeliveredQuantity = 0
				}
				updated = true
				break
			}
		}
		if updated {
			if err := s.orders.UpdateGiftItems(ctx, orderID, giftItems); err != nil {
				return fmt.Errorf("update gift items: %w", err)
			}
		}

		return s.trail.LogChange(ctx, "gift_delivery_record", recordID, audit.ActionDelete, map[string]any{
			"orderId":  orderID,
			"quantity": record.Quantity,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "gift delivery record deleted", "order_id", orderID, "record_id", recordID)
	return nil
}

// matchGiftLine finds the gift line an update refers to. Product ids are
// tried first; a product id that matches nothing is retried as a group
// id, a known quirk of stored data.
func matchGiftLine(items []order.GiftItem, u DeliveryUpdate) int {
	if u.ProductID != "" {
		for i := range items {
			if items[i].ProductID == u.ProductID {
				return i
			}
		}
		for i := range items {
			if items[i].GroupID == u.ProductID {
				return i
			}
		}
		return -1
	}
	if u.GroupID != "" {
		for i := range items {
			if items[i].GroupID == u.GroupID {
				return i
			}
		}
	}
	return -1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
