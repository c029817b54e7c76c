package public

import (
	"log/slog"
	"net/http"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// CheckoutHandler places guest orders.
type CheckoutHandler struct {
	checkout service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

type checkoutRequest struct {
	Items            []domain.CartLine        `json:"items" validate:"required,min=1"`
	PaymentMethod    domain.PaymentMethod     `json:"payment_method" validate:"required"`
	Fulfillment      domain.FulfillmentMethod `json:"fulfillment" validate:"required"`
	ShippingAddress  *domain.ShippingAddress  `json:"shipping_address"`
	CustomerName     string                   `json:"customer_name" validate:"required"`
	CustomerPhone    string                   `json:"customer_phone" validate:"required"`
	CustomerEmail    string                   `json:"customer_email" validate:"omitempty,email"`
	PreferredContact domain.ContactMethod     `json:"preferred_contact"`
}

// checkoutResponse is the placement confirmation. The tracking token is
// handed out exactly once, here; the shopper's client must retain it.
type checkoutResponse struct {
	handler.TrackingView
	TrackingToken string `json:"tracking_token"`
}

// Place handles POST /api/checkout - validates against store configuration,
// reprices from the catalog, and places the order atomically.
func (h *CheckoutHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), service.CheckoutParams{
		Items:            req.Items,
		PaymentMethod:    req.PaymentMethod,
		Fulfillment:      req.Fulfillment,
		ShippingAddress:  req.ShippingAddress,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		CustomerEmail:    req.CustomerEmail,
		PreferredContact: req.PreferredContact,
	})
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, checkoutResponse{
		TrackingView:  handler.NewTrackingView(order),
		TrackingToken: order.TrackingToken,
	})
}
