package admin

import (
	"log/slog"
	"net/http"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// SettingsHandler handles store settings.
type SettingsHandler struct {
	stores service.StoreService
	logger *slog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(stores service.StoreService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{stores: stores, logger: logger}
}

// Get handles GET /admin/api/settings - the store's full configuration.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.GetStore(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewAdminStoreView(store))
}

type updateSettingsRequest struct {
	Name                    *string                `json:"name"`
	IsActive                *bool                  `json:"is_active"`
	PaymentMethods          []domain.PaymentMethod `json:"payment_methods"`
	ContactMethods          []domain.ContactMethod `json:"contact_methods"`
	DeliveryZones           []domain.DeliveryZone  `json:"delivery_zones"`
	DefaultDeliveryFeeCents *int64                 `json:"default_delivery_fee_cents"`
	Theme                   map[string]any         `json:"theme"`
}

// Update handles PUT /admin/api/settings - applies a settings update and
// returns the result. Absent fields are left unchanged; the admin client
// reads, edits, and writes back whole sections.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	store, err := h.stores.UpdateSettings(r.Context(), domain.StoreSettingsParams{
		Name:                    req.Name,
		IsActive:                req.IsActive,
		PaymentMethods:          req.PaymentMethods,
		ContactMethods:          req.ContactMethods,
		DeliveryZones:           req.DeliveryZones,
		DefaultDeliveryFeeCents: req.DefaultDeliveryFeeCents,
		Theme:                   req.Theme,
	})
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewAdminStoreView(store))
}
