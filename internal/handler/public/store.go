// Package public contains the unauthenticated storefront API handlers.
// Every route here runs behind storefront resolution; the subdomain is the
// only tenant identifier a shopper ever supplies.
package public

import (
	"log/slog"
	"net/http"

	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// StoreHandler serves the public storefront configuration.
type StoreHandler struct {
	stores service.StoreService
	logger *slog.Logger
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(stores service.StoreService, logger *slog.Logger) *StoreHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreHandler{stores: stores, logger: logger}
}

// Get handles GET /api/store - the storefront's public configuration:
// payment and contact methods, delivery zones, and theme.
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.GetStore(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewStoreView(store))
}
