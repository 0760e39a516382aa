package gift

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomur/internal/core/apperror"
	appctx "nomur/internal/core/context"
	"nomur/internal/domain/audit"
	"nomur/internal/domain/order"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRecords struct {
	records map[string]*DeliveryRecord
}

func (r *fakeRecords) Insert(_ context.Context, rec *DeliveryRecord) error {
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *fakeRecords) GetByID(_ context.Context, orderID, recordID string) (*DeliveryRecord, error) {
	rec, ok := r.records[recordID]
	if !ok || rec.OrderID != orderID {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRecords) ListByOrder(_ context.Context, orderID string) ([]*DeliveryRecord, error) {
	var out []*DeliveryRecord
	for _, rec := range r.records {
		if rec.OrderID == orderID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRecords) Delete(_ context.Context, recordID string) error {
	delete(r.records, recordID)
	return nil
}

type fakeOrders struct {
	orders map[string]*order.Order
}

func (s *fakeOrders) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.GiftItems = append([]order.GiftItem(nil), o.GiftItems...)
	return &cp, nil
}

func (s *fakeOrders) GetByIDForUpdate(ctx context.Context, id string) (*order.Order, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeOrders) ListByAgentAsc(_ context.Context, agentID string) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range s.orders {
		if o.AgentID == agentID {
			cp := *o
			cp.GiftItems = append([]order.GiftItem(nil), o.GiftItems...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeOrders) UpdateGiftItems(_ context.Context, orderID string, items []order.GiftItem) error {
	s.orders[orderID].GiftItems = append([]order.GiftItem(nil), items...)
	return nil
}

type fakeAgents struct {
	known map[string]bool
}

func (s *fakeAgents) AgentExists(_ context.Context, agentID string) (bool, error) {
	return s.known[agentID], nil
}

type fakeCatalog struct {
	names  map[string]string
	groups map[string]GroupInfo
}

func (s *fakeCatalog) ProductNames(_ context.Context) (map[string]string, error) {
	return s.names, nil
}

func (s *fakeCatalog) GroupInfos(_ context.Context) (map[string]GroupInfo, error) {
	return s.groups, nil
}

func newTestService() (*Service, *fakeRecords, *fakeOrders) {
	records := &fakeRecords{records: map[string]*DeliveryRecord{}}
	orders := &fakeOrders{orders: map[string]*order.Order{}}
	agents := &fakeAgents{known: map[string]bool{"a1": true}}
	catalog := &fakeCatalog{
		names:  map[string]string{"p1": "Flour 25kg"},
		groups: map[string]GroupInfo{"g1": {Name: "25kg bags", ProductIDs: []string{"p1", "p2"}}},
	}
	return NewService(records, orders, agents, catalog, audit.NopTrail{}, fakeTxManager{}), records, orders
}

func giftOrder(id string, items ...order.GiftItem) *order.Order {
	return &order.Order{ID: id, AgentID: "a1", GiftItems: items}
}

func TestUpdateOrderDeliveryAppendsRecords(t *testing.T) {
	svc, records, orders := newTestService()
	ctx := context.Background()

	orders.orders["o1"] = giftOrder("o1",
		order.GiftItem{ProductID: "p1", ProductName: "Flour 25kg", Quantity: qty(10), DeliveredQuantity: qty(2)},
	)

	err := svc.UpdateOrderDelivery(ctx, "o1", []DeliveryUpdate{
		{ProductID: "p1", DeliveredQuantity: qty(7)},
	}, "first truck")
	require.NoError(t, err)

	assert.Equal(t, qty(7), orders.orders["o1"].GiftItems[0].DeliveredQuantity)

	require.Len(t, records.records, 1)
	for _, rec := range records.records {
		assert.Equal(t, "o1", rec.OrderID)
		assert.Equal(t, "a1", rec.AgentID)
		assert.Equal(t, "p1", rec.ProductID)
		assert.Equal(t, "Flour 25kg", rec.ProductName)
		assert.Equal(t, qty(5), rec.Quantity)
		assert.Equal(t, "first truck", rec.Remark)
	}
}

func TestUpdateOrderDeliveryRecordsAbsoluteDelta(t *testing.T) {
	svc, records, orders := newTestService()
	ctx := context.Background()

	orders.orders["o1"] = giftOrder("o1",
		order.GiftItem{ProductID: "p1", Quantity: qty(10), DeliveredQuantity: qty(8)},
	)

	// Reducing the delivered total still logs a positive quantity.
	err := svc.UpdateOrderDelivery(ctx, "o1", []DeliveryUpdate{
		{ProductID: "p1", DeliveredQuantity: qty(3)},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, qty(3), orders.orders["o1"].GiftItems[0].DeliveredQuantity)
	for _, rec := range records.records {
		assert.Equal(t, qty(5), rec.Quantity)
	}
}

func TestUpdateOrderDeliverySkipsNoChange(t *testing.T) {
	svc, records, orders := newTestService()
	ctx := context.Background()

	orders.orders["o1"] = giftOrder("o1",
		order.GiftItem{ProductID: "p1", Quantity: qty(10), DeliveredQuantity: qty(4)},
	)

	err := svc.UpdateOrderDelivery(ctx, "o1", []DeliveryUpdate{
		{ProductID: "p1", DeliveredQuantity: qty(4)},
	}, "")
	require.NoError(t, err)
	assert.Empty(t, records.records)
}

func TestUpdateOrderDeliveryGroupFallback(t *testing.T) {
	svc, records, orders := newTestService()
	ctx := context.Background()

	orders.orders["o1"] = giftOrder("o1",
		order.GiftItem{GroupID: "g1", GroupName: "25kg bags", IsGroup: true, Quantity: qty(6)},
	)

	// The client sends the group id in the productId field.
	err := svc.UpdateOrderDelivery(ctx, "o1", []DeliveryUpdate{
		{ProductID: "g1", DeliveredQuantity: qty(2)},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, qty(2), orders.orders["o1"].GiftItems[0].DeliveredQuantity)
	for _, rec := range records.records {
		assert.Equal(t, "g1", rec.GroupID)
		assert.Equal(t, "25kg bags", rec.GroupName)
		assert.Empty(t, rec.ProductID)
	}
}

func TestUpdateOrderDeliveryUnmatchedLineFailsBatch(t *testing.T) {
	svc, records, orders := newTestService()
	ctx := context.Background()

	orders.orders["o1"] = giftOrder("o1",
		order.GiftItem{ProductID: "p1", Quantity: qty(10)},
	)

	err := svc.UpdateOrderDelivery(ctx, "o1", []DeliveryUpdate{
		{ProductID: "p1", DeliveredQuantity: qty(5)},
		{ProductID: "ghost", DeliveredQuantity: qty(1)},
	}, "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, records.records)
}

func TestUpdateOrderDeliveryStampsActingAdmin(t *testing.T) {
	svc, records, orders := newTestService()

	orders.orders["o1"] = giftOrder("o1",
		order.GiftItem{ProductID: "p1", Quantity: qty(10)},
	)

	ctx := appctx.WithAdmin(context.Background(), &appctx.AdminContext{AdminID: "adm1", Name: "Wang"})
	err := svc.UpdateOrderDelivery(ctx, "o1", []DeliveryUpdate{
		{ProductID: "p1", DeliveredQuantity: qty(1)},
	}, "")
	require.NoError(t, err)

	for _, rec := range records.records {
		assert.Equal(t, "adm1", rec.DeliveredBy)
		assert.Equal(t, "Wang", rec.DeliveredByName)
	}
}

func TestUpdateOrderDeliveryValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	err := svc.UpdateOrderDelivery(ctx, "o1", nil, "")
	require.Error(t, err)

	err = svc.UpdateOrderDelivery(ctx, "missing", []DeliveryUpdate{
		{ProductID: "p1", DeliveredQuantity: qty(1)},
	}, "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRedistributeForAgent(t *testing.T) {
	svc, _, orders := newTestService()
	ctx := context.Background()

	orders.orders["o1"] = giftOrder("o1",
		order.GiftItem{ProductID: "p1", Quantity: qty(10), DeliveredQuantity: qty(10)},
	)
	orders.orders["o2"] = giftOrder("o2",
		order.GiftItem{ProductID: "p1", Quantity: qty(10), DeliveredQuantity: qty(10)},
	)

	err := svc.RedistributeForAgent(ctx, "a1", []Target{
		{ProductID: "p1", DeliveredQuantity: qty(12)},
	})
	require.NoError(t, err)

	total := orders.orders["o1"].GiftItems[0].DeliveredQuantity +
		orders.orders["o2"].GiftItems[0].DeliveredQuantity
	assert.Equal(t, qty(12), total)

	err = svc.RedistributeForAgent(ctx, "a1", nil)
	require.Error(t, err)

	err = svc.RedistributeForAgent(ctx, "ghost", []Target{{ProductID: "p1"}})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteRecordRollsDeliveryBack(t *testing.T) {
	svc, records, orders := newTestService()
	ctx := context.Background()

	orders.orders["o1"] = giftOrder("o1",
		order.GiftItem{ProductID: "p1", Quantity: qty(10), DeliveredQuantity: qty(2)},
	)

	err := svc.UpdateOrderDelivery(ctx, "o1", []DeliveryUpdate{
		{ProductID: "p1", DeliveredQuantity: qty(9)},
	}, "")
	require.NoError(t, err)

	var recordID string
	for id := range records.records {
		recordID = id
	}

	require.NoError(t, svc.DeleteRecord(ctx, "o1", recordID))
	assert.Empty(t, records.records)
	assert.Equal(t, qty(2), orders.orders["o1"].GiftItems[0].DeliveredQuantity)

	err = svc.DeleteRecord(ctx, "o1", "missing")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAgentSummary(t *testing.T) {
	svc, _, orders := newTestService()
	ctx := context.Background()

	orders.orders["o1"] = giftOrder("o1",
		order.GiftItem{ProductID: "p1", Quantity: qty(10), DeliveredQuantity: qty(4)},
		order.GiftItem{GroupID: "g1", IsGroup: true, Quantity: qty(6), DeliveredQuantity: qty(1)},
	)

	entries, err := svc.AgentSummary(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Groups sort ahead of plain products.
	assert.True(t, entries[0].IsGroup)
	assert.Equal(t, "g1", entries[0].GroupID)
	assert.Equal(t, "25kg bags", entries[0].GroupName)
	assert.Equal(t, []string{"p1", "p2"}, entries[0].ProductIDs)
	assert.Equal(t, qty(5), entries[0].UndeliveredQuantity)

	assert.Equal(t, "p1", entries[1].ProductID)
	assert.Equal(t, "Flour 25kg", entries[1].ProductName)
	assert.Equal(t, qty(6), entries[1].UndeliveredQuantity)

	_, err = svc.AgentSummary(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
