package promotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomur/internal/core/types"
	"nomur/internal/domain/jsonval"
	"nomur/internal/domain/order"
)

func qty(n int) types.Quantity { return types.NewQuantityFromInt(n) }

func orderWith(promoID string, items ...order.Item) *order.Order {
	o := &order.Order{ID: "o-" + promoID, Items: items}
	if promoID != "" {
		o.PromotionRef = jsonval.NewSinglePromotionRef(promoID)
	}
	return o
}

func TestCalculateProgressMultiCondition(t *testing.T) {
	// Buy 100 of p1 per round, get 8 gifts per round.
	promo := &Promotion{
		ID:       "promo1",
		IsActive: true,
		ConditionDetails: []Condition{
			{Type: ConditionProduct, ProductID: "p1", Quantity: qty(100)},
		},
		Gifts: []Gift{{ProductID: "g1", Quantity: qty(8)}},
	}

	orders := []*order.Order{
		orderWith("promo1", order.Item{ProductID: "p1", Quantity: qty(150)}),
		orderWith("promo1", order.Item{ProductID: "p1", Quantity: qty(100)}),
	}

	progress := CalculateProgress(orders, []*Promotion{promo}, nil)
	require.Len(t, progress, 1)
	assert.Equal(t, "promo1", progress[0].PromotionID)
	assert.Equal(t, qty(250), progress[0].Purchased)
	// 250/100 floors to 2 rounds, 16 gifts.
	assert.Equal(t, qty(16), progress[0].GiftsReceived)
}

func TestCalculateProgressMinimumAcrossConditions(t *testing.T) {
	promo := &Promotion{
		ID:       "promo1",
		IsActive: true,
		ConditionDetails: []Condition{
			{Type: ConditionProduct, ProductID: "p1", Quantity: qty(10)},
			{Type: ConditionProduct, ProductID: "p2", Quantity: qty(10)},
		},
		Gifts: []Gift{{ProductID: "g1", Quantity: qty(1)}},
	}

	orders := []*order.Order{
		orderWith("promo1",
			order.Item{ProductID: "p1", Quantity: qty(30)},
			order.Item{ProductID: "p2", Quantity: qty(12)},
		),
	}

	progress := CalculateProgress(orders, []*Promotion{promo}, nil)
	require.Len(t, progress, 1)
	// The order contributes the minimum positive matched quantity.
	assert.Equal(t, qty(12), progress[0].Purchased)
	assert.Equal(t, qty(1), progress[0].GiftsReceived)
}

func TestCalculateProgressAllZeroConditionsSkipsOrder(t *testing.T) {
	promo := &Promotion{
		ID:       "promo1",
		IsActive: true,
		ConditionDetails: []Condition{
			{Type: ConditionProduct, ProductID: "p9", Quantity: qty(10)},
		},
		Gifts: []Gift{{ProductID: "g1", Quantity: qty(1)}},
	}

	orders := []*order.Order{
		orderWith("promo1", order.Item{ProductID: "p1", Quantity: qty(50)}),
	}

	progress := CalculateProgress(orders, []*Promotion{promo}, nil)
	assert.Empty(t, progress)
}

func TestCalculateProgressGroupCondition(t *testing.T) {
	promo := &Promotion{
		ID:       "promo1",
		IsActive: true,
		ConditionDetails: []Condition{
			{Type: ConditionGroup, GroupID: "grp1", Quantity: qty(20)},
		},
		Gifts: []Gift{{ProductID: "g1", Quantity: qty(2)}},
	}
	groups := GroupMembers{"grp1": {"p1", "p2"}}

	orders := []*order.Order{
		orderWith("promo1",
			order.Item{ProductID: "p1", Quantity: qty(15)},
			order.Item{ProductID: "p2", Quantity: qty(10)},
		),
	}

	progress := CalculateProgress(orders, []*Promotion{promo}, groups)
	require.Len(t, progress, 1)
	assert.Equal(t, qty(25), progress[0].Purchased)
	assert.Equal(t, qty(2), progress[0].GiftsReceived)
}

func TestCalculateProgressLegacyThreshold(t *testing.T) {
	promo := &Promotion{
		ID:        "legacy",
		IsActive:  true,
		Threshold: qty(50),
		Gifts:     []Gift{{ProductID: "g1", Quantity: qty(5)}},
	}

	// Legacy orders carry no promotion reference; total item quantity
	// accumulates against every active promotion.
	orders := []*order.Order{
		orderWith("",
			order.Item{ProductID: "p1", Quantity: qty(40)},
			order.Item{ProductID: "p2", Quantity: qty(35)},
		),
	}

	progress := CalculateProgress(orders, []*Promotion{promo}, nil)
	require.Len(t, progress, 1)
	assert.Equal(t, qty(75), progress[0].Purchased)
	assert.Equal(t, qty(5), progress[0].GiftsReceived)
}

func TestCalculateProgressZeroDivisorYieldsNoGifts(t *testing.T) {
	promo := &Promotion{
		ID:       "promo1",
		IsActive: true,
		ConditionDetails: []Condition{
			{Type: ConditionProduct, ProductID: "p1", Quantity: 0},
		},
		Gifts: []Gift{{ProductID: "g1", Quantity: qty(3)}},
	}

	orders := []*order.Order{
		orderWith("promo1", order.Item{ProductID: "p1", Quantity: qty(100)}),
	}

	progress := CalculateProgress(orders, []*Promotion{promo}, nil)
	require.Len(t, progress, 1)
	assert.Equal(t, qty(100), progress[0].Purchased)
	assert.Equal(t, types.Quantity(0), progress[0].GiftsReceived)
}

func TestCalculateProgressIgnoresInactivePromotions(t *testing.T) {
	promo := &Promotion{
		ID:        "off",
		IsActive:  false,
		Threshold: qty(10),
		Gifts:     []Gift{{ProductID: "g1", Quantity: qty(1)}},
	}

	orders := []*order.Order{
		orderWith("off", order.Item{ProductID: "p1", Quantity: qty(100)}),
	}

	progress := CalculateProgress(orders, []*Promotion{promo}, nil)
	assert.Empty(t, progress)
}

func TestCalculateProgressMonotonicity(t *testing.T) {
	promo := &Promotion{
		ID:       "promo1",
		IsActive: true,
		ConditionDetails: []Condition{
			{Type: ConditionProduct, ProductID: "p1", Quantity: qty(100)},
		},
		Gifts: []Gift{{ProductID: "g1", Quantity: qty(8)}},
	}

	var orders []*order.Order
	var prev types.Quantity
	for i := 0; i < 10; i++ {
		orders = append(orders, orderWith("promo1", order.Item{ProductID: "p1", Quantity: qty(30)}))
		progress := CalculateProgress(orders, []*Promotion{promo}, nil)
		require.Len(t, progress, 1)
		got := progress[0].GiftsReceived
		// Entitlement never shrinks as the history grows.
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
	// 10 orders of 30 accumulate 300: three full rounds of 100.
	assert.Equal(t, qty(24), prev)
}
