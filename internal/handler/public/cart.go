package public

import (
	"log/slog"
	"net/http"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// CartHandler reconciles client-held carts against the catalog.
type CartHandler struct {
	cart   service.CartService
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart service.CartService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{cart: cart, logger: logger}
}

type cartSyncRequest struct {
	Items []domain.CartLine `json:"items" validate:"required,min=1"`
}

// Sync handles POST /api/cart/sync - compares every cart line against
// authoritative price and stock and returns the per-item drift report.
func (h *CartHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req cartSyncRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	result, err := h.cart.Sync(r.Context(), req.Items)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, result)
}
