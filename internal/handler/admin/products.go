package admin

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// ProductHandler handles operator catalog management.
type ProductHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new admin product handler.
func NewProductHandler(catalog service.CatalogService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{catalog: catalog, logger: logger}
}

// List handles GET /admin/api/products - the full catalog including
// inactive products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAllProducts(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"products": handler.NewProductViews(products),
	})
}

// Prices are accepted either as a dollar string ("12.50"), the way
// operators type them, or as raw cents for API clients. Never both.
type createProductRequest struct {
	Name          string `json:"name" validate:"required"`
	Price         string `json:"price"`
	PriceCents    int64  `json:"price_cents" validate:"gte=0"`
	StockQuantity int32  `json:"stock_quantity" validate:"gte=0"`
	IsActive      bool   `json:"is_active"`
}

func priceFromRequest(price string, priceCents int64) (int64, error) {
	if price == "" {
		return priceCents, nil
	}
	if priceCents != 0 {
		return 0, domain.Invalid("admin.products", "provide price or price_cents, not both")
	}
	return domain.ParsePriceCents(price)
}

// Create handles POST /admin/api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	priceCents, err := priceFromRequest(req.Price, req.PriceCents)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), domain.CreateProductParams{
		Name:          req.Name,
		PriceCents:    priceCents,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
	})
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, handler.NewProductView(product))
}

type updateProductRequest struct {
	Name          *string `json:"name"`
	Price         *string `json:"price"`
	PriceCents    *int64  `json:"price_cents"`
	StockQuantity *int32  `json:"stock_quantity"`
	IsActive      *bool   `json:"is_active"`
}

// Update handles PATCH /admin/api/products/{id} - partial update; absent
// fields are left unchanged.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("admin.products", "invalid product id"))
		return
	}

	var req updateProductRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	priceCents := req.PriceCents
	if req.Price != nil {
		if req.PriceCents != nil {
			handler.RespondError(w, r, domain.Invalid("admin.products", "provide price or price_cents, not both"))
			return
		}
		cents, err := domain.ParsePriceCents(*req.Price)
		if err != nil {
			handler.RespondError(w, r, err)
			return
		}
		priceCents = &cents
	}

	product, err := h.catalog.UpdateProduct(r.Context(), productID, domain.UpdateProductParams{
		Name:          req.Name,
		PriceCents:    priceCents,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
	})
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewProductView(product))
}
