package admin

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// OrderHandler handles operator order management.
type OrderHandler struct {
	orders service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates a new admin order handler.
func NewOrderHandler(orders service.OrderService, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderHandler{orders: orders, logger: logger}
}

// List handles GET /admin/api/orders?status=pending - the store's orders,
// newest first, optionally filtered by status.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.OrderFilter{
		Status: domain.OrderStatus(r.URL.Query().Get("status")),
	}

	orders, err := h.orders.ListOrders(r.Context(), filter)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"orders": handler.NewOrderViews(orders),
	})
}

// Get handles GET /admin/api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromPath(r)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

// UpdateStatus handles POST /admin/api/orders/{id}/status - advances the
// order one step through its lifecycle. Re-submitting the current status is
// a no-op; a concurrent change by another operator returns a conflict.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromPath(r)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}

type cancelRequest struct {
	Reason domain.CancellationReason `json:"reason" validate:"required"`
	Notes  string                    `json:"notes"`
}

// Cancel handles POST /admin/api/orders/{id}/cancel - cancels the order,
// restores stock, and reverses the customer's aggregates.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromPath(r)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	var req cancelRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	order, err := h.orders.Cancel(r.Context(), orderID, req.Reason, req.Notes)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}

func orderIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.Invalid("admin.orders", "invalid order id")
	}
	return id, nil
}
