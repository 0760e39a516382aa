package stats

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/types"
	"nomur/internal/domain/order"
)

// Service computes shipment and target rollups.
type Service struct {
	orders      OrderStore
	transfers   TransferStore
	catalog     CatalogStore
	agents      AgentStore
	supplements SupplementStore
	now         func() time.Time
}

// NewService creates a new statistics service.
func NewService(
	orders OrderStore,
	transfers TransferStore,
	catalog CatalogStore,
	agents AgentStore,
	supplements SupplementStore,
) *Service {
	return &Service{
		orders:      orders,
		transfers:   transfers,
		catalog:     catalog,
		agents:      agents,
		supplements: supplements,
		now:         time.Now,
	}
}

// Global sums shipped quantities per product for the current calendar
// year and the trailing 30 days. Every catalog product gets an entry,
// zero quantities included.
func (s *Service) Global(ctx context.Context) (*GlobalStats, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	now := s.now()
	yearOrders, err := s.orders.ListYearNonGift(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("load year orders: %w", err)
	}
	recentOrders, err := s.orders.ListSinceNonGift(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("load recent orders: %w", err)
	}

	yearStats, yearTotal := sumWindow(products, yearOrders)
	recentStats, recentTotal := sumWindow(products, recentOrders)

	return &GlobalStats{
		TotalShipments:         yearTotal,
		Last30DaysShipments:    recentTotal,
		ProductStats:           yearStats,
		Last30DaysProductStats: recentStats,
	}, nil
}

func sumWindow(products []ProductInfo, orders []*order.Order) ([]ProductStat, types.Quantity) {
	byProduct := make(map[string]int, len(products))
	stats := make([]ProductStat, len(products))
	for i, p := range products {
		byProduct[p.ID] = i
		stats[i] = ProductStat{ProductID: p.ID, ProductName: p.Name}
	}

	var total types.Quantity
	for _, o := range orders {
		for _, item := range o.Items {
			total += item.Quantity
			if i, ok := byProduct[item.ProductID]; ok {
				stats[i].Quantity += item.Quantity
			}
		}
	}
	return stats, total
}

// ForAgent builds the agent's yearly target completion. Completed
// quantity per product is regular order items plus manual supplement
// entries minus quantities transferred out, floored at zero. Gift items
// never count toward completion and are reported as a separate total.
func (s *Service) ForAgent(ctx context.Context, agentID string) (*AgentStats, error) {
	ag, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if ag == nil {
		return nil, apperror.NewNotFound("agent", agentID)
	}

	year := s.now().Year()
	orders, err := s.orders.ListAgentYearNonGift(ctx, agentID, year)
	if err != nil {
		return nil, fmt.Errorf("load agent orders: %w", err)
	}

	completed := make(map[string]types.Quantity)
	var totalGifts types.Quantity
	for _, o := range orders {
		for _, item := range o.Items {
			if item.ProductID != "" {
				completed[item.ProductID] += item.Quantity
			}
		}
		for _, gift := range o.GiftItems {
			totalGifts += gift.Quantity
		}
	}

	sales, err := s.supplements.ListByAgentYear(ctx, agentID, year)
	if err != nil {
		return nil, fmt.Errorf("load supplement sales: %w", err)
	}
	for _, sale := range sales {
		// Legacy entries carry a product type instead of an id. Only
		// productA maps onto a catalog product; mixed entries cannot be
		// attributed and are skipped.
		if sale.ProductType == legacyProductAType {
			completed[legacyProductAID] += sale.Quantity
		}
	}

	transferred, err := s.transfers.TransferredQuantities(ctx, agentID, year)
	if err != nil {
		return nil, fmt.Errorf("load transfers: %w", err)
	}
	for productID, qty := range transferred {
		left := completed[productID] - qty
		if left < 0 {
			left = 0
		}
		completed[productID] = left
	}

	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	productNames := make(map[string]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.Name
	}
	groupNames, err := s.catalog.GroupNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	yearlyStats := make(map[string]TargetStat, len(ag.YearlyTargets))
	for key, target := range ag.YearlyTargets {
		if isGroupTargetKey(key) && target.IsGroup {
			var groupCompleted types.Quantity
			for _, productID := range target.Products {
				groupCompleted += completed[productID]
			}
			displayName := groupNames[target.GroupID]
			if displayName == "" {
				names := make([]string, len(target.Products))
				for i, pid := range target.Products {
					if name, ok := productNames[pid]; ok {
						names[i] = name
					} else {
						names[i] = pid
					}
				}
				displayName = strings.Join(names, " + ")
			}
			yearlyStats[key] = TargetStat{
				Target:       target.Target,
				Completed:    groupCompleted,
				Percentage:   percentage(groupCompleted, target.Target),
				IsGroup:      true,
				Products:     target.Products,
				ProductNames: displayName,
				GroupID:      target.GroupID,
			}
			continue
		}
		if target.IsGroup {
			continue
		}
		yearlyStats[key] = TargetStat{
			Target:     target.Target,
			Completed:  completed[key],
			Percentage: percentage(completed[key], target.Target),
		}
	}

	return &AgentStats{
		YearlyStats:        yearlyStats,
		TotalGiftsReceived: totalGifts,
	}, nil
}

// Legacy supplement entries use a coarse product type. productA has
// always meant the first catalog product.
const (
	legacyProductAType = "productA"
	legacyProductAID   = "p1"
)

func isGroupTargetKey(key string) bool {
	return strings.HasPrefix(key, "_group_") || strings.HasPrefix(key, "group_")
}

func percentage(completed, target types.Quantity) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(completed.Float64() / target.Float64() * 100))
}
