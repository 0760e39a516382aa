package promotion

import (
	"sort"

	"nomur/internal/core/types"
	"nomur/internal/domain/order"
)

// GroupMembers maps a product group id to its member product ids, used
// to match group conditions against order items.
type GroupMembers map[string][]string

// CalculateProgress computes per-promotion purchased totals and gift
// entitlements over an agent's orders.
//
// Orders referencing specific promotions contribute only to those;
// orders without a reference (legacy rows) are checked against every
// active promotion. For the multi-condition format an order contributes
// the minimum of its positive condition quantities, and contributes
// nothing when any condition matches zero. Legacy threshold promotions
// accumulate the order's total item quantity.
func CalculateProgress(orders []*order.Order, promotions []*Promotion, groups GroupMembers) []Progress {
	active := make(map[string]*Promotion, len(promotions))
	for _, p := range promotions {
		if p.IsActive {
			active[p.ID] = p
		}
	}

	totals := make(map[string]types.Quantity)

	for _, o := range orders {
		productQty := make(map[string]types.Quantity)
		var orderTotal types.Quantity
		for _, item := range o.Items {
			if item.ProductID == "" {
				continue
			}
			productQty[item.ProductID] += item.Quantity
			orderTotal += item.Quantity
		}

		var applicable []*Promotion
		if refs := o.PromotionRef.IDs(); len(refs) > 0 {
			for _, id := range refs {
				if p, ok := active[id]; ok {
					applicable = append(applicable, p)
				}
			}
		} else {
			for _, p := range active {
				applicable = append(applicable, p)
			}
		}

		for _, p := range applicable {
			if p.HasConditionDetails() {
				purchased, ok := matchConditions(p.ConditionDetails, productQty, groups)
				if !ok {
					continue
				}
				totals[p.ID] += purchased
			} else if orderTotal > 0 {
				totals[p.ID] += orderTotal
			}
		}
	}

	result := make([]Progress, 0, len(totals))
	for promoID, purchased := range totals {
		p := active[promoID]
		result = append(result, Progress{
			PromotionID:   promoID,
			Purchased:     purchased,
			GiftsReceived: giftsFor(p, purchased),
		})
	}

	// Map iteration order is random; keep the output stable.
	sort.Slice(result, func(i, j int) bool {
		return result[i].PromotionID < result[j].PromotionID
	})
	return result
}

// matchConditions evaluates all conditions against one order's product
// quantities. Returns the minimum of the positive matched quantities,
// or ok=false when every condition matched zero.
func matchConditions(conditions []Condition, productQty map[string]types.Quantity, groups GroupMembers) (types.Quantity, bool) {
	matched := make([]types.Quantity, 0, len(conditions))
	for _, c := range conditions {
		switch {
		case c.Type == ConditionProduct && c.ProductID != "":
			matched = append(matched, productQty[c.ProductID])
		case c.Type == ConditionGroup && c.GroupID != "":
			var sum types.Quantity
			for _, pid := range groups[c.GroupID] {
				sum += productQty[pid]
			}
			matched = append(matched, sum)
		default:
			matched = append(matched, 0)
		}
	}

	allZero := true
	var minPositive types.Quantity
	for _, q := range matched {
		if q > 0 {
			allZero = false
			if minPositive == 0 || q < minPositive {
				minPositive = q
			}
		}
	}
	if allZero {
		return 0, false
	}
	return minPositive, true
}

// giftsFor derives the entitlement from an accumulated purchased total.
// A zero or missing divisor yields zero times rather than an error.
func giftsFor(p *Promotion, purchased types.Quantity) types.Quantity {
	if p == nil {
		return 0
	}

	var times int64
	if p.HasConditionDetails() {
		for i, c := range p.ConditionDetails {
			t := purchased.DivFloor(c.Quantity)
			if i == 0 || t < times {
				times = t
			}
		}
	} else {
		times = purchased.DivFloor(p.Threshold)
	}

	var received types.Quantity
	for _, g := range p.Gifts {
		received += g.Quantity.MulInt(times)
	}
	return received
}
