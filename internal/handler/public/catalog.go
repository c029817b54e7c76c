package public

import (
	"log/slog"
	"net/http"

	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// CatalogHandler serves the public product listing.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog service.CatalogService, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// List handles GET /api/products - active products only.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListPublicProducts(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"products": handler.NewProductViews(products),
	})
}
