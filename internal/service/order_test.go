package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skagen/norna/internal/domain"
)

func pendingOrder(fm domain.FulfillmentMethod) *domain.Order {
	return &domain.Order{
		ID:          uuid.New(),
		TenantID:    testTenantID,
		StoreID:     testStoreID,
		OrderNumber: 7,
		Status:      domain.OrderPending,
		Fulfillment: fm,
		Items: []domain.OrderItem{
			{ProductID: uuid.New(), Name: "Salad Greens", Quantity: 2, UnitPriceCents: 800},
		},
		TotalCents: 1600,
	}
}

func TestUpdateStatus_ForwardStep(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	store := &mockOrderStore{order: order, updateApplied: true}
	svc := NewOrderService(store, testLogger())

	updated, err := svc.UpdateStatus(storefrontContext(), order.ID, domain.OrderConfirmed)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, updated.Status)
	assert.Equal(t, domain.OrderPending, store.lastFrom)
	assert.Equal(t, domain.OrderConfirmed, store.lastTo)
}

func TestUpdateStatus_IdempotentReissue(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	store := &mockOrderStore{order: order}
	svc := NewOrderService(store, testLogger())

	updated, err := svc.UpdateStatus(storefrontContext(), order.ID, domain.OrderPending)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, updated.Status)
	assert.False(t, store.updateCalled)
}

func TestUpdateStatus_RejectsSkip(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	store := &mockOrderStore{order: order, updateApplied: true}
	svc := NewOrderService(store, testLogger())

	_, err := svc.UpdateStatus(storefrontContext(), order.ID, domain.OrderReady)

	inv, ok := domain.IsInvalidTransition(err)
	require.True(t, ok)
	assert.Equal(t, domain.OrderPending, inv.From)
	assert.Equal(t, domain.OrderReady, inv.To)
	assert.False(t, store.updateCalled)
}

func TestUpdateStatus_PickupSkipsOutForDelivery(t *testing.T) {
	order := pendingOrder(domain.FulfillmentPickup)
	order.Status = domain.OrderReady
	store := &mockOrderStore{order: order, updateApplied: true}
	svc := NewOrderService(store, testLogger())

	updated, err := svc.UpdateStatus(storefrontContext(), order.ID, domain.OrderDelivered)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderDelivered, updated.Status)
}

func TestUpdateStatus_RejectsCancelledTarget(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	store := &mockOrderStore{order: order, updateApplied: true}
	svc := NewOrderService(store, testLogger())

	_, err := svc.UpdateStatus(storefrontContext(), order.ID, domain.OrderCancelled)

	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.False(t, store.updateCalled)
}

func TestUpdateStatus_ConcurrentFlip(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	// Another admin moved the order between our read and write.
	store := &mockOrderStore{order: order, updateApplied: false}
	svc := NewOrderService(store, testLogger())

	_, err := svc.UpdateStatus(storefrontContext(), order.ID, domain.OrderConfirmed)

	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestCancel_RestoresAndRecords(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	store := &mockOrderStore{order: order, cancelApplied: true}
	svc := NewOrderService(store, testLogger())

	cancelled, err := svc.Cancel(storefrontContext(), order.ID, domain.CancelCustomerRequest, "")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, cancelled.Status)
	assert.Equal(t, domain.CancelCustomerRequest, cancelled.CancellationReason)
	assert.Equal(t, domain.CancelCustomerRequest, store.lastReason)
}

func TestCancel_OtherRequiresNotes(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	store := &mockOrderStore{order: order, cancelApplied: true}
	svc := NewOrderService(store, testLogger())

	_, err := svc.Cancel(storefrontContext(), order.ID, domain.CancelOther, "")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.False(t, store.cancelCalled)

	cancelled, err := svc.Cancel(storefrontContext(), order.ID, domain.CancelOther, "customer moved away")
	require.NoError(t, err)
	assert.Equal(t, "customer moved away", cancelled.CancellationNotes)
}

func TestCancel_TerminalOrder(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	order.Status = domain.OrderDelivered
	store := &mockOrderStore{order: order}
	svc := NewOrderService(store, testLogger())

	_, err := svc.Cancel(storefrontContext(), order.ID, domain.CancelCustomerRequest, "")

	_, ok := domain.IsInvalidTransition(err)
	assert.True(t, ok)
	assert.False(t, store.cancelCalled)
}

func TestCancel_IdempotentOnCancelled(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	order.Status = domain.OrderCancelled
	store := &mockOrderStore{order: order}
	svc := NewOrderService(store, testLogger())

	cancelled, err := svc.Cancel(storefrontContext(), order.ID, domain.CancelCustomerRequest, "")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, cancelled.Status)
	assert.False(t, store.cancelCalled)
}

func TestTrack_ByToken(t *testing.T) {
	order := pendingOrder(domain.FulfillmentDelivery)
	order.TrackingToken = "tok-abc"
	store := &mockOrderStore{order: order}
	svc := NewOrderService(store, testLogger())

	// Tracking needs no tenant context; the token is the capability.
	found, err := svc.Track(t.Context(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = svc.Track(t.Context(), "tok-wrong")
	assert.Error(t, err)
}

func TestListOrders_RejectsUnknownStatusFilter(t *testing.T) {
	svc := NewOrderService(&mockOrderStore{}, testLogger())

	_, err := svc.ListOrders(storefrontContext(), domain.OrderFilter{Status: "shipped"})

	assert.ErrorIs(t, err, ErrUnknownStatus)
}
