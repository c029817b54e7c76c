package public

import (
	"log/slog"
	"net/http"

	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// TrackingHandler serves order status by tracking token.
type TrackingHandler struct {
	orders service.OrderService
	logger *slog.Logger
}

// NewTrackingHandler creates a new tracking handler.
func NewTrackingHandler(orders service.OrderService, logger *slog.Logger) *TrackingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingHandler{orders: orders, logger: logger}
}

// Track handles GET /api/orders/track/{token}. The token is the capability;
// no session or tenant scope is required, and an unknown token is a plain
// 404 with no hint of which store it might have belonged to.
func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	order, err := h.orders.Track(r.Context(), token)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewTrackingView(order))
}
