package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomur/internal/core/apperror"
	"nomur/internal/core/types"
	"nomur/internal/domain/agent"
	"nomur/internal/domain/order"
	"nomur/internal/domain/supplement"
)

type fakeOrders struct {
	yearOrders      []*order.Order
	recentOrders    []*order.Order
	agentYearOrders map[string][]*order.Order
}

func (s *fakeOrders) ListYearNonGift(_ context.Context, _ int) ([]*order.Order, error) {
	return s.yearOrders, nil
}

func (s *fakeOrders) ListSinceNonGift(_ context.Context, _ time.Time) ([]*order.Order, error) {
	return s.recentOrders, nil
}

func (s *fakeOrders) ListAgentYearNonGift(_ context.Context, agentID string, _ int) ([]*order.Order, error) {
	return s.agentYearOrders[agentID], nil
}

type fakeTransfers struct {
	transferred map[string]types.Quantity
}

func (s *fakeTransfers) TransferredQuantities(_ context.Context, _ string, _ int) (map[string]types.Quantity, error) {
	return s.transferred, nil
}

type fakeCatalog struct {
	products []ProductInfo
	groups   map[string]string
}

func (s *fakeCatalog) Products(_ context.Context) ([]ProductInfo, error) {
	return s.products, nil
}

func (s *fakeCatalog) GroupNames(_ context.Context) (map[string]string, error) {
	return s.groups, nil
}

type fakeAgents struct {
	agents map[string]*agent.Agent
}

func (s *fakeAgents) GetByID(_ context.Context, id string) (*agent.Agent, error) {
	return s.agents[id], nil
}

type fakeSupplements struct {
	sales []*supplement.Sale
}

func (s *fakeSupplements) ListByAgentYear(_ context.Context, _ string, _ int) ([]*supplement.Sale, error) {
	return s.sales, nil
}

func qty(n int) types.Quantity { return types.NewQuantityFromInt(n) }

func items(pairs ...any) []order.Item {
	var out []order.Item
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, order.Item{
			ProductID: pairs[i].(string),
			Quantity:  qty(pairs[i+1].(int)),
		})
	}
	return out
}

func newTestService() (*Service, *fakeOrders, *fakeTransfers, *fakeAgents, *fakeSupplements) {
	orders := &fakeOrders{agentYearOrders: map[string][]*order.Order{}}
	transfers := &fakeTransfers{transferred: map[string]types.Quantity{}}
	catalog := &fakeCatalog{
		products: []ProductInfo{
			{ID: "p1", Name: "Flour 25kg"},
			{ID: "p2", Name: "Bran 25kg"},
			{ID: "p3", Name: "Flour 50kg"},
		},
		groups: map[string]string{"g1": "25kg bags"},
	}
	agents := &fakeAgents{agents: map[string]*agent.Agent{}}
	supplements := &fakeSupplements{}
	return NewService(orders, transfers, catalog, agents, supplements), orders, transfers, agents, supplements
}

func TestGlobalZeroFillsCatalog(t *testing.T) {
	svc, orders, _, _, _ := newTestService()

	orders.yearOrders = []*order.Order{
		{ID: "o1", Items: items("p1", 100, "p3", 40)},
		{ID: "o2", Items: items("p1", 50)},
	}
	orders.recentOrders = []*order.Order{
		{ID: "o2", Items: items("p1", 50)},
	}

	stats, err := svc.Global(context.Background())
	require.NoError(t, err)

	assert.Equal(t, qty(190), stats.TotalShipments)
	assert.Equal(t, qty(50), stats.Last30DaysShipments)

	// Every catalog product appears, in catalog order, zeros included.
	require.Len(t, stats.ProductStats, 3)
	assert.Equal(t, "p1", stats.ProductStats[0].ProductID)
	assert.Equal(t, qty(150), stats.ProductStats[0].Quantity)
	assert.Equal(t, "p2", stats.ProductStats[1].ProductID)
	assert.Equal(t, qty(0), stats.ProductStats[1].Quantity)
	assert.Equal(t, qty(40), stats.ProductStats[2].Quantity)

	require.Len(t, stats.Last30DaysProductStats, 3)
	assert.Equal(t, qty(50), stats.Last30DaysProductStats[0].Quantity)
}

func TestGlobalCountsUnknownProductsInTotal(t *testing.T) {
	svc, orders, _, _, _ := newTestService()

	orders.yearOrders = []*order.Order{
		{ID: "o1", Items: items("retired", 10, "p1", 5)},
	}

	stats, err := svc.Global(context.Background())
	require.NoError(t, err)
	assert.Equal(t, qty(15), stats.TotalShipments)
	assert.Equal(t, qty(5), stats.ProductStats[0].Quantity)
}

func TestForAgentTargetCompletion(t *testing.T) {
	svc, orders, _, agents, _ := newTestService()

	agents.agents["a1"] = &agent.Agent{
		ID:   "a1",
		Name: "North Depot",
		YearlyTargets: map[string]agent.TargetValue{
			"p1": {Target: qty(200)},
		},
	}
	orders.agentYearOrders["a1"] = []*order.Order{
		{ID: "o1", AgentID: "a1", Items: items("p1", 90)},
		{ID: "o2", AgentID: "a1", Items: items("p1", 60)},
	}

	stats, err := svc.ForAgent(context.Background(), "a1")
	require.NoError(t, err)

	stat, ok := stats.YearlyStats["p1"]
	require.True(t, ok)
	assert.Equal(t, qty(200), stat.Target)
	assert.Equal(t, qty(150), stat.Completed)
	assert.Equal(t, 75, stat.Percentage)
	assert.False(t, stat.IsGroup)
}

func TestForAgentSupplementsCountTowardFirstProduct(t *testing.T) {
	svc, orders, _, agents, supplements := newTestService()

	agents.agents["a1"] = &agent.Agent{
		ID: "a1",
		YearlyTargets: map[string]agent.TargetValue{
			"p1": {Target: qty(100)},
		},
	}
	orders.agentYearOrders["a1"] = []*order.Order{
		{ID: "o1", AgentID: "a1", Items: items("p1", 40)},
	}
	supplements.sales = []*supplement.Sale{
		{ID: "s1", AgentID: "a1", ProductType: "productA", Quantity: qty(25)},
		{ID: "s2", AgentID: "a1", ProductType: "mixed", Quantity: qty(99)},
	}

	stats, err := svc.ForAgent(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, qty(65), stats.YearlyStats["p1"].Completed)
}

func TestForAgentTransfersReduceCompletionFlooredAtZero(t *testing.T) {
	svc, orders, transfers, agents, _ := newTestService()

	agents.agents["a1"] = &agent.Agent{
		ID: "a1",
		YearlyTargets: map[string]agent.TargetValue{
			"p1": {Target: qty(100)},
			"p2": {Target: qty(100)},
		},
	}
	orders.agentYearOrders["a1"] = []*order.Order{
		{ID: "o1", AgentID: "a1", Items: items("p1", 50, "p2", 10)},
	}
	transfers.transferred = map[string]types.Quantity{
		"p1": qty(20),
		"p2": qty(40),
	}

	stats, err := svc.ForAgent(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, qty(30), stats.YearlyStats["p1"].Completed)
	assert.Equal(t, qty(0), stats.YearlyStats["p2"].Completed)
}

func TestForAgentGroupTargets(t *testing.T) {
	svc, orders, _, agents, _ := newTestService()

	agents.agents["a1"] = &agent.Agent{
		ID: "a1",
		YearlyTargets: map[string]agent.TargetValue{
			"_group_g1": {
				IsGroup:  true,
				Target:   qty(300),
				Products: []string{"p1", "p2"},
				GroupID:  "g1",
			},
		},
	}
	orders.agentYearOrders["a1"] = []*order.Order{
		{ID: "o1", AgentID: "a1", Items: items("p1", 70, "p2", 30)},
	}

	stats, err := svc.ForAgent(context.Background(), "a1")
	require.NoError(t, err)

	stat, ok := stats.YearlyStats["_group_g1"]
	require.True(t, ok)
	assert.True(t, stat.IsGroup)
	assert.Equal(t, qty(100), stat.Completed)
	assert.Equal(t, 33, stat.Percentage)
	assert.Equal(t, "25kg bags", stat.ProductNames)
	assert.Equal(t, []string{"p1", "p2"}, stat.Products)
	assert.Equal(t, "g1", stat.GroupID)
}

func TestForAgentGroupNameFallsBackToMembers(t *testing.T) {
	svc, orders, _, agents, _ := newTestService()

	agents.agents["a1"] = &agent.Agent{
		ID: "a1",
		YearlyTargets: map[string]agent.TargetValue{
			"group_unknown": {
				IsGroup:  true,
				Target:   qty(100),
				Products: []string{"p1", "p2"},
			},
		},
	}
	orders.agentYearOrders["a1"] = nil

	stats, err := svc.ForAgent(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Flour 25kg + Bran 25kg", stats.YearlyStats["group_unknown"].ProductNames)
}

func TestForAgentGiftsReportedSeparately(t *testing.T) {
	svc, orders, _, agents, _ := newTestService()

	agents.agents["a1"] = &agent.Agent{
		ID: "a1",
		YearlyTargets: map[string]agent.TargetValue{
			"p1": {Target: qty(100)},
		},
	}
	orders.agentYearOrders["a1"] = []*order.Order{
		{
			ID: "o1", AgentID: "a1",
			Items:     items("p1", 50),
			GiftItems: []order.GiftItem{{ProductID: "p1", Quantity: qty(8)}},
		},
	}

	stats, err := svc.ForAgent(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, qty(50), stats.YearlyStats["p1"].Completed)
	assert.Equal(t, qty(8), stats.TotalGiftsReceived)
}

func TestForAgentZeroTargetPercentage(t *testing.T) {
	svc, orders, _, agents, _ := newTestService()

	agents.agents["a1"] = &agent.Agent{
		ID: "a1",
		YearlyTargets: map[string]agent.TargetValue{
			"p1": {},
		},
	}
	orders.agentYearOrders["a1"] = []*order.Order{
		{ID: "o1", AgentID: "a1", Items: items("p1", 50)},
	}

	stats, err := svc.ForAgent(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.YearlyStats["p1"].Percentage)
}

func TestForAgentUnknownAgent(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.ForAgent(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
