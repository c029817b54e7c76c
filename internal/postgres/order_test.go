package postgres

import (
	"bytes"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skagen/norna/internal/domain"
)

func TestSortedByProductID(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	c := uuid.MustParse("00000000-0000-0000-0000-000000000003")

	items := []domain.OrderItem{
		{ProductID: c, Name: "Gelato", Quantity: 1},
		{ProductID: a, Name: "Blue Dream", Quantity: 2},
		{ProductID: b, Name: "Runtz", Quantity: 3},
	}

	sorted := sortedByProductID(items)

	require.Len(t, sorted, 3)
	for i := 1; i < len(sorted); i++ {
		assert.Negative(t, bytes.Compare(sorted[i-1].ProductID[:], sorted[i].ProductID[:]))
	}
	// The shopper's line order is preserved on the original slice.
	assert.Equal(t, c, items[0].ProductID)
	assert.Equal(t, "Blue Dream", sorted[0].Name)
	assert.Equal(t, int32(2), sorted[0].Quantity)
}

func checkoutParams(productID uuid.UUID, quantity int32, unitPriceCents int64, token string) domain.PlaceOrderParams {
	total := unitPriceCents * int64(quantity)
	return domain.PlaceOrderParams{
		Items: []domain.OrderItem{
			{ProductID: productID, Name: "Blue Dream", Quantity: quantity, UnitPriceCents: unitPriceCents},
		},
		SubtotalCents:    total,
		TotalCents:       total,
		PaymentMethod:    domain.PaymentCash,
		Fulfillment:      domain.FulfillmentPickup,
		TrackingToken:    token,
		CustomerName:     "Ana Silva",
		CustomerPhone:    "2085550001",
		PreferredContact: domain.ContactPhone,
	}
}

func TestPlaceOrder_LastUnitOneWinner(t *testing.T) {
	pool := testPool(t)
	sf := seedStorefront(t, pool)
	productID := seedProduct(t, pool, sf, "Blue Dream", 2000, 1)
	store := NewOrderStore(pool)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.PlaceOrder(sf.ctx, checkoutParams(productID, 1, 2000, "trk_"+uuid.NewString()))
		}(i)
	}
	wg.Wait()

	var wins, rejections int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		oos, ok := domain.IsOutOfStock(err)
		require.True(t, ok, "loser must see a stock rejection, got %v", err)
		assert.Equal(t, []uuid.UUID{productID}, oos.ProductIDs)
		rejections++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, rejections)
	assert.Equal(t, int32(0), productStock(t, pool, productID))
}

func TestPlaceOrder_SequentialOrderNumbers(t *testing.T) {
	pool := testPool(t)
	sf := seedStorefront(t, pool)
	productID := seedProduct(t, pool, sf, "Blue Dream", 2000, 10)
	store := NewOrderStore(pool)

	for want := int64(1); want <= 3; want++ {
		order, err := store.PlaceOrder(sf.ctx, checkoutParams(productID, 1, 2000, "trk_"+uuid.NewString()))
		require.NoError(t, err)
		assert.Equal(t, want, order.OrderNumber)
	}
}

func TestCancel_RestoresStockAndReversesAggregates(t *testing.T) {
	pool := testPool(t)
	sf := seedStorefront(t, pool)
	productID := seedProduct(t, pool, sf, "Blue Dream", 2000, 5)
	orders := NewOrderStore(pool)
	customers := NewCustomerStore(pool)

	order, err := orders.PlaceOrder(sf.ctx, checkoutParams(productID, 2, 2000, "trk_"+uuid.NewString()))
	require.NoError(t, err)
	require.Equal(t, int32(3), productStock(t, pool, productID))

	ok, err := orders.Cancel(sf.ctx, order.ID, domain.OrderPending, domain.CancelOutOfStock, "")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, int32(5), productStock(t, pool, productID))

	cancelled, err := orders.GetOrder(sf.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, cancelled.Status)
	assert.Equal(t, domain.CancelOutOfStock, cancelled.CancellationReason)

	// Aggregates track non-cancelled orders only.
	customer, err := customers.LookupByPhone(sf.ctx, "2085550001")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, int32(0), customer.TotalOrders)
	assert.Equal(t, int64(0), customer.TotalSpentCents)
}
