package gift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomur/internal/core/types"
	"nomur/internal/domain/order"
)

func qty(n int) types.Quantity { return types.NewQuantityFromInt(n) }

func TestRedistributeFillsOldestFirst(t *testing.T) {
	orders := []*order.Order{
		{ID: "o1", GiftItems: []order.GiftItem{{ProductID: "p1", Quantity: qty(12)}}},
		{ID: "o2", GiftItems: []order.GiftItem{{ProductID: "p1", Quantity: qty(8)}}},
	}

	// Promised 20 in total, target 15: the first order takes its full 12,
	// the second gets the remaining 3.
	result := Redistribute(orders, map[string]types.Quantity{"product:p1": qty(15)})
	require.Len(t, result, 2)
	assert.Equal(t, "o1", result[0].OrderID)
	assert.Equal(t, qty(12), result[0].GiftItems[0].DeliveredQuantity)
	assert.Equal(t, "o2", result[1].OrderID)
	assert.Equal(t, qty(3), result[1].GiftItems[0].DeliveredQuantity)
}

func TestRedistributeTargetAbovePromisedCapsAtPromised(t *testing.T) {
	orders := []*order.Order{
		{ID: "o1", GiftItems: []order.GiftItem{{ProductID: "p1", Quantity: qty(5)}}},
	}

	result := Redistribute(orders, map[string]types.Quantity{"product:p1": qty(100)})
	require.Len(t, result, 1)
	assert.Equal(t, qty(5), result[0].GiftItems[0].DeliveredQuantity)
}

func TestRedistributeZeroTargetClearsDelivery(t *testing.T) {
	orders := []*order.Order{
		{ID: "o1", GiftItems: []order.GiftItem{
			{ProductID: "p1", Quantity: qty(5), DeliveredQuantity: qty(5)},
		}},
	}

	result := Redistribute(orders, map[string]types.Quantity{"product:p1": 0})
	require.Len(t, result, 1)
	assert.Equal(t, types.Quantity(0), result[0].GiftItems[0].DeliveredQuantity)
}

func TestRedistributeUntargetedKeysUntouched(t *testing.T) {
	orders := []*order.Order{
		{ID: "o1", GiftItems: []order.GiftItem{
			{ProductID: "p1", Quantity: qty(4)},
			{ProductID: "p2", Quantity: qty(6), DeliveredQuantity: qty(2)},
		}},
	}

	result := Redistribute(orders, map[string]types.Quantity{"product:p1": qty(4)})
	require.Len(t, result, 1)
	assert.Equal(t, qty(4), result[0].GiftItems[0].DeliveredQuantity)
	// p2 was not targeted and keeps its delivered quantity.
	assert.Equal(t, qty(2), result[0].GiftItems[1].DeliveredQuantity)
}

func TestRedistributeGroupKey(t *testing.T) {
	orders := []*order.Order{
		{ID: "o1", GiftItems: []order.GiftItem{
			{GroupID: "grp1", IsGroup: true, Quantity: qty(10)},
		}},
		{ID: "o2", GiftItems: []order.GiftItem{
			{GroupID: "grp1", IsGroup: true, Quantity: qty(10)},
		}},
	}

	result := Redistribute(orders, map[string]types.Quantity{"group:grp1": qty(13)})
	require.Len(t, result, 2)
	assert.Equal(t, qty(10), result[0].GiftItems[0].DeliveredQuantity)
	assert.Equal(t, qty(3), result[1].GiftItems[0].DeliveredQuantity)
}

func TestRedistributeDeterministic(t *testing.T) {
	orders := []*order.Order{
		{ID: "o1", GiftItems: []order.GiftItem{{ProductID: "p1", Quantity: qty(7)}}},
		{ID: "o2", GiftItems: []order.GiftItem{{ProductID: "p1", Quantity: qty(7)}}},
		{ID: "o3", GiftItems: []order.GiftItem{{ProductID: "p1", Quantity: qty(7)}}},
	}
	targets := map[string]types.Quantity{"product:p1": qty(10)}

	first := Redistribute(orders, targets)
	second := Redistribute(orders, targets)
	assert.Equal(t, first, second)
}

func TestRedistributeDoesNotMutateInput(t *testing.T) {
	orders := []*order.Order{
		{ID: "o1", GiftItems: []order.GiftItem{{ProductID: "p1", Quantity: qty(5)}}},
	}

	_ = Redistribute(orders, map[string]types.Quantity{"product:p1": qty(5)})
	assert.Equal(t, types.Quantity(0), orders[0].GiftItems[0].DeliveredQuantity)
}

func TestSummarizeAggregatesByKey(t *testing.T) {
	orders := []*order.Order{
		{GiftItems: []order.GiftItem{
			{ProductID: "p1", Quantity: qty(5), DeliveredQuantity: qty(2)},
			{GroupID: "grp1", IsGroup: true, Quantity: qty(3)},
		}},
		{GiftItems: []order.GiftItem{
			{ProductID: "p1", Quantity: qty(4), DeliveredQuantity: qty(4)},
		}},
	}
	names := map[string]string{"p1": "Premium Feed"}
	groups := map[string]GroupInfo{"grp1": {Name: "Starter Pack", ProductIDs: []string{"p2", "p3"}}}

	entries := Summarize(orders, names, groups)
	require.Len(t, entries, 2)

	// Group entries come first.
	assert.True(t, entries[0].IsGroup)
	assert.Equal(t, "grp1", entries[0].GroupID)
	assert.Equal(t, "Starter Pack", entries[0].GroupName)
	assert.Equal(t, []string{"p2", "p3"}, entries[0].ProductIDs)
	assert.Equal(t, qty(3), entries[0].TotalQuantity)
	assert.Equal(t, qty(3), entries[0].UndeliveredQuantity)

	assert.Equal(t, "p1", entries[1].ProductID)
	assert.Equal(t, "Premium Feed", entries[1].ProductName)
	assert.Equal(t, qty(9), entries[1].TotalQuantity)
	assert.Equal(t, qty(6), entries[1].DeliveredQuantity)
	assert.Equal(t, qty(3), entries[1].UndeliveredQuantity)
}

func TestSummarizeTreatsUnflaggedGroupIDAsProduct(t *testing.T) {
	// Legacy rows can carry a groupId without the isGroup flag; those
	// aggregate under the product key.
	orders := []*order.Order{
		{GiftItems: []order.GiftItem{
			{ProductID: "p1", GroupID: "grp1", Quantity: qty(5), DeliveredQuantity: qty(1)},
			{ProductID: "p1", Quantity: qty(2)},
		}},
	}
	names := map[string]string{"p1": "Premium Feed"}
	groups := map[string]GroupInfo{"grp1": {Name: "Starter Pack"}}

	entries := Summarize(orders, names, groups)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsGroup)
	assert.Equal(t, "p1", entries[0].ProductID)
	assert.Equal(t, qty(7), entries[0].TotalQuantity)
	assert.Equal(t, qty(1), entries[0].DeliveredQuantity)
}

func TestGiftItemKeyRequiresGroupFlag(t *testing.T) {
	grouped := order.GiftItem{GroupID: "grp1", IsGroup: true}
	assert.Equal(t, "group:grp1", grouped.Key())

	legacy := order.GiftItem{ProductID: "p1", GroupID: "grp1"}
	assert.Equal(t, "product:p1", legacy.Key())

	plain := order.GiftItem{ProductID: "p1"}
	assert.Equal(t, "product:p1", plain.Key())
}

func TestSummarizeFallsBackToLineNames(t *testing.T) {
	orders := []*order.Order{
		{GiftItems: []order.GiftItem{
			{ProductID: "p9", ProductName: "Old Label", Quantity: qty(1)},
		}},
	}

	entries := Summarize(orders, map[string]string{}, map[string]GroupInfo{})
	require.Len(t, entries, 1)
	assert.Equal(t, "Old Label", entries[0].ProductName)
}
