package gift

import (
	"nomur/internal/core/types"
	"nomur/internal/domain/order"
)

// OrderAllocation holds one order's gift lines after redistribution.
type OrderAllocation struct {
	OrderID   string
	GiftItems []order.GiftItem
}

// Redistribute walks an agent's orders oldest-first and reassigns
// delivered quantities for the targeted gift keys. Each line gets
// min(lineQuantity, max(0, remaining)) so the total delivered for a key
// equals min(target, promised) and earliest orders fill first. Lines
// whose key is not targeted keep their delivered quantity. Orders must
// be sorted by creation time ascending.
//
// The result is deterministic: rerunning with the same targets and
// history yields the same split.
func Redistribute(orders []*order.Order, targets map[string]types.Quantity) []OrderAllocation {
	type state struct {
		target    types.Quantity
		allocated types.Quantity
	}
	states := make(map[string]*state, len(targets))
	for key, target := range targets {
		states[key] = &state{target: target}
	}

	var result []OrderAllocation
	for _, o := range orders {
		touched := false
		items := make([]order.GiftItem, len(o.GiftItems))
		copy(items, o.GiftItems)

		for i := range items {
			st, ok := states[items[i].Key()]
			if !ok {
				continue
			}

			remaining := st.target - st.allocated
			if remaining < 0 {
				remaining = 0
			}
			allocate := items[i].Quantity.Min(remaining)
			items[i].DeliveredQuantity = allocate
			st.allocated += allocate
			touched = true
		}

		if touched {
			result = append(result, OrderAllocation{OrderID: o.ID, GiftItems: items})
		}
	}

	return result
}

// Summarize aggregates gift lines over an agent's orders by key.
// Product names come from the names map; group entries carry the group
// name and member ids from the groups map. Group entries precede
// product entries, each set in first-seen order.
func Summarize(orders []*order.Order, productNames map[string]string, groups map[string]GroupInfo) []SummaryEntry {
	type agg struct {
		entry SummaryEntry
		seen  int
	}
	groupAggs := make(map[string]*agg)
	productAggs := make(map[string]*agg)
	var groupOrder, productOrder []string

	for _, o := range orders {
		for _, g := range o.GiftItems {
			if g.IsGroup && g.GroupID != "" {
				a, ok := groupAggs[g.GroupID]
				if !ok {
					info := groups[g.GroupID]
					name := info.Name
					if name == "" {
						name = g.GroupName
					}
					a = &agg{entry: SummaryEntry{
						GroupID:    g.GroupID,
						GroupName:  name,
						ProductIDs: info.ProductIDs,
						IsGroup:    true,
					}}
					groupAggs[g.GroupID] = a
					groupOrder = append(groupOrder, g.GroupID)
				}
				a.entry.TotalQuantity += g.Quantity
				a.entry.DeliveredQuantity += g.DeliveredQuantity
			} else if g.ProductID != "" {
				a, ok := productAggs[g.ProductID]
				if !ok {
					name := productNames[g.ProductID]
					if name == "" {
						name = g.ProductName
					}
					if name == "" {
						name = g.ProductID
					}
					a = &agg{entry: SummaryEntry{
						ProductID:   g.ProductID,
						ProductName: name,
					}}
					productAggs[g.ProductID] = a
					productOrder = append(productOrder, g.ProductID)
				}
				a.entry.TotalQuantity += g.Quantity
				a.entry.DeliveredQuantity += g.DeliveredQuantity
			}
		}
	}

	result := make([]SummaryEntry, 0, len(groupOrder)+len(productOrder))
	for _, id := range groupOrder {
		e := groupAggs[id].entry
		e.UndeliveredQuantity = e.TotalQuantity - e.DeliveredQuantity
		result = append(result, e)
	}
	for _, id := range productOrder {
		e := productAggs[id].entry
		e.UndeliveredQuantity = e.TotalQuantity - e.DeliveredQuantity
		result = append(result, e)
	}
	return result
}

// GroupInfo carries the group fields the summary needs.
type GroupInfo struct {
	Name       string
	ProductIDs []string
}
