package public

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/service"
)

// mockCheckoutService implements service.CheckoutService for testing
type mockCheckoutService struct {
	placeOrderFunc func(ctx context.Context, params service.CheckoutParams) (*domain.Order, error)
}

func (m *mockCheckoutService) PlaceOrder(ctx context.Context, params service.CheckoutParams) (*domain.Order, error) {
	if m.placeOrderFunc != nil {
		return m.placeOrderFunc(ctx, params)
	}
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func placedOrder() *domain.Order {
	return &domain.Order{
		ID:            uuid.MustParse("0d5f9a21-7e34-4c88-b1da-63f20a9c4e17"),
		OrderNumber:   42,
		Status:        domain.OrderPending,
		Items:         []domain.OrderItem{{ProductID: uuid.New(), Name: "Sourdough Loaf", Quantity: 2, UnitPriceCents: 800}},
		SubtotalCents: 1600,
		TotalCents:    1600,
		PaymentMethod: domain.PaymentCash,
		Fulfillment:   domain.FulfillmentPickup,
		TrackingToken: "trk_abc123",
		CustomerName:  "Jo Shopper",
		CustomerPhone: "208-555-0101",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

const validCheckoutBody = `{
	"items": [{"product_id": "7b0e2f64-9a31-4c5d-8e2f-1a6b3c9d0e4f", "quantity": 2, "price_snapshot_cents": 800}],
	"payment_method": "cash",
	"fulfillment": "pickup",
	"customer_name": "Jo Shopper",
	"customer_phone": "208-555-0101"
}`

func TestCheckoutHandler_Place(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		placeOrderFunc func(ctx context.Context, params service.CheckoutParams) (*domain.Order, error)
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "successful placement returns order with tracking token",
			body: validCheckoutBody,
			placeOrderFunc: func(ctx context.Context, params service.CheckoutParams) (*domain.Order, error) {
				return placedOrder(), nil
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"tracking_token":"trk_abc123"`)
				assert.Contains(t, body, `"order_number":42`)
				assert.Contains(t, body, `"status":"pending"`)
			},
		},
		{
			name: "oversell returns conflict with offending product ids",
			body: validCheckoutBody,
			placeOrderFunc: func(ctx context.Context, params service.CheckoutParams) (*domain.Order, error) {
				return nil, &domain.OutOfStockError{ProductIDs: []uuid.UUID{
					uuid.MustParse("7b0e2f64-9a31-4c5d-8e2f-1a6b3c9d0e4f"),
				}}
			},
			expectedStatus: http.StatusConflict,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "out_of_stock_product_ids")
				assert.Contains(t, body, "7b0e2f64-9a31-4c5d-8e2f-1a6b3c9d0e4f")
			},
		},
		{
			name: "service validation error maps to 400",
			body: validCheckoutBody,
			placeOrderFunc: func(ctx context.Context, params service.CheckoutParams) (*domain.Order, error) {
				return nil, service.ErrPaymentMethodNotAccepted
			},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"code":"invalid"`)
			},
		},
		{
			name:           "malformed JSON returns 400 without calling the service",
			body:           `{"items": [`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"code":"invalid"`)
			},
		},
		{
			name:           "missing required fields returns 400",
			body:           `{"items": [{"product_id": "7b0e2f64-9a31-4c5d-8e2f-1a6b3c9d0e4f", "quantity": 1, "price_snapshot_cents": 100}]}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"code":"invalid"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceCalled := false
			mock := &mockCheckoutService{
				placeOrderFunc: func(ctx context.Context, params service.CheckoutParams) (*domain.Order, error) {
					serviceCalled = true
					require.NotNil(t, tt.placeOrderFunc, "service should not have been called")
					return tt.placeOrderFunc(ctx, params)
				},
			}

			h := NewCheckoutHandler(mock, testLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.Place(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec.Body.String())
			}
			if tt.placeOrderFunc == nil {
				assert.False(t, serviceCalled, "service should not have been called")
			}
		})
	}
}

func TestCheckoutHandler_ForwardsAllFields(t *testing.T) {
	var got service.CheckoutParams
	mock := &mockCheckoutService{
		placeOrderFunc: func(ctx context.Context, params service.CheckoutParams) (*domain.Order, error) {
			got = params
			return placedOrder(), nil
		},
	}
	h := NewCheckoutHandler(mock, testLogger())

	body := `{
		"items": [{"product_id": "7b0e2f64-9a31-4c5d-8e2f-1a6b3c9d0e4f", "quantity": 1, "price_snapshot_cents": 500}],
		"payment_method": "venmo",
		"fulfillment": "delivery",
		"shipping_address": {"line1": "14 Cedar St", "city": "Sandpoint", "state": "ID", "zip": "83864"},
		"customer_name": "Jo Shopper",
		"customer_phone": "208-555-0101",
		"customer_email": "jo@example.com",
		"preferred_contact": "text"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Place(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.PaymentVenmo, got.PaymentMethod)
	assert.Equal(t, domain.FulfillmentDelivery, got.Fulfillment)
	require.NotNil(t, got.ShippingAddress)
	assert.Equal(t, "83864", got.ShippingAddress.Zip)
	assert.Equal(t, "jo@example.com", got.CustomerEmail)
	assert.Equal(t, domain.ContactText, got.PreferredContact)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int32(1), got.Items[0].Quantity)
}
