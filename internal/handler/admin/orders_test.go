package admin

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

// mockOrderService implements service.OrderService for testing
type mockOrderService struct {
	getOrderFunc     func(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	listOrdersFunc   func(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	trackFunc        func(ctx context.Context, token string) (*domain.Order, error)
	updateStatusFunc func(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error)
	cancelFunc       func(ctx context.Context, orderID uuid.UUID, reason domain.CancellationReason, notes string) (*domain.Order, error)
}

func (m *mockOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	if m.getOrderFunc != nil {
		return m.getOrderFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *mockOrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if m.listOrdersFunc != nil {
		return m.listOrdersFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockOrderService) Track(ctx context.Context, token string) (*domain.Order, error) {
	if m.trackFunc != nil {
		return m.trackFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, orderID, to)
	}
	return nil, nil
}

func (m *mockOrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason domain.CancellationReason, notes string) (*domain.Order, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, orderID, reason, notes)
	}
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testOrderID = uuid.MustParse("4a1e8f0b-6c2d-4d3e-9f5a-b7c8d9e0f1a2")

func sampleOrder(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:            testOrderID,
		OrderNumber:   7,
		Status:        status,
		Items:         []domain.OrderItem{{ProductID: uuid.New(), Name: "Focaccia", Quantity: 1, UnitPriceCents: 1200}},
		SubtotalCents: 1200,
		TotalCents:    1200,
		PaymentMethod: domain.PaymentCash,
		Fulfillment:   domain.FulfillmentPickup,
		TrackingToken: "trk_admin",
		CustomerName:  "Sam Baker",
		CustomerPhone: "208-555-0199",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// newRequestWithID builds a request carrying the {id} path value the way the
// ServeMux would after pattern matching.
func newRequestWithID(method, target, id, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.SetPathValue("id", id)
	return req
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	tests := []struct {
		name             string
		orderID          string
		body             string
		updateStatusFunc func(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error)
		expectedStatus   int
		checkBody        func(t *testing.T, body string)
	}{
		{
			name:    "advances order one step",
			orderID: testOrderID.String(),
			body:    `{"status": "confirmed"}`,
			updateStatusFunc: func(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
				assert.Equal(t, testOrderID, orderID)
				assert.Equal(t, domain.OrderConfirmed, to)
				return sampleOrder(domain.OrderConfirmed), nil
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"confirmed"`)
			},
		},
		{
			name:           "invalid uuid returns 400",
			orderID:        "not-a-uuid",
			body:           `{"status": "confirmed"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "skipping a step returns conflict with transition details",
			orderID: testOrderID.String(),
			body:    `{"status": "ready"}`,
			updateStatusFunc: func(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
				return nil, &domain.InvalidTransitionError{From: domain.OrderPending, To: domain.OrderReady}
			},
			expectedStatus: http.StatusConflict,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"from":"pending"`)
				assert.Contains(t, body, `"to":"ready"`)
			},
		},
		{
			name:    "concurrent status flip returns conflict",
			orderID: testOrderID.String(),
			body:    `{"status": "confirmed"}`,
			updateStatusFunc: func(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
				return nil, service.ErrStatusConflict
			},
			expectedStatus: http.StatusConflict,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"code":"conflict"`)
			},
		},
		{
			name:           "missing status returns 400",
			orderID:        testOrderID.String(),
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOrderHandler(&mockOrderService{updateStatusFunc: tt.updateStatusFunc}, testLogger())

			req := newRequestWithID(http.MethodPost, "/admin/api/orders/"+tt.orderID+"/status", tt.orderID, tt.body)
			rec := httptest.NewRecorder()

			h.UpdateStatus(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec.Body.String())
			}
		})
	}
}

func TestOrderHandler_Cancel(t *testing.T) {
	t.Run("cancels with reason and notes", func(t *testing.T) {
		var gotReason domain.CancellationReason
		var gotNotes string
		h := NewOrderHandler(&mockOrderService{
			cancelFunc: func(ctx context.Context, orderID uuid.UUID, reason domain.CancellationReason, notes string) (*domain.Order, error) {
				gotReason, gotNotes = reason, notes
				order := sampleOrder(domain.OrderCancelled)
				order.CancellationReason = reason
				order.CancellationNotes = notes
				return order, nil
			},
		}, testLogger())

		body := `{"reason": "other", "notes": "customer moved away"}`
		req := newRequestWithID(http.MethodPost, "/admin/api/orders/"+testOrderID.String()+"/cancel", testOrderID.String(), body)
		rec := httptest.NewRecorder()

		h.Cancel(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.CancelOther, gotReason)
		assert.Equal(t, "customer moved away", gotNotes)
		assert.Contains(t, rec.Body.String(), `"cancellation_reason":"other"`)
	})

	t.Run("missing reason returns 400", func(t *testing.T) {
		h := NewOrderHandler(&mockOrderService{}, testLogger())

		req := newRequestWithID(http.MethodPost, "/admin/api/orders/"+testOrderID.String()+"/cancel", testOrderID.String(), `{}`)
		rec := httptest.NewRecorder()

		h.Cancel(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderHandler_List(t *testing.T) {
	t.Run("passes status filter through", func(t *testing.T) {
		var gotFilter domain.OrderFilter
		h := NewOrderHandler(&mockOrderService{
			listOrdersFunc: func(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
				gotFilter = filter
				return []domain.Order{*sampleOrder(domain.OrderPending)}, nil
			},
		}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/admin/api/orders?status=pending", nil)
		rec := httptest.NewRecorder()

		h.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.OrderPending, gotFilter.Status)
		assert.Contains(t, rec.Body.String(), `"order_number":7`)
	})

	t.Run("unknown status filter returns 400", func(t *testing.T) {
		h := NewOrderHandler(&mockOrderService{
			listOrdersFunc: func(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
				return nil, service.ErrUnknownStatus
			},
		}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/admin/api/orders?status=bogus", nil)
		rec := httptest.NewRecorder()

		h.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
