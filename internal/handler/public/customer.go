package public

import (
	"log/slog"
	"net/http"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// CustomerHandler pre-fills checkout forms for returning shoppers.
type CustomerHandler struct {
	customers service.CustomerService
	logger    *slog.Logger
}

// NewCustomerHandler creates a new customer lookup handler.
func NewCustomerHandler(customers service.CustomerService, logger *slog.Logger) *CustomerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerHandler{customers: customers, logger: logger}
}

type customerLookupRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// customerLookupResponse exposes only the contact fields a checkout form
// pre-fills. Order counts and spend stay on the admin surface.
type customerLookupResponse struct {
	Found            bool                 `json:"found"`
	Name             string               `json:"name,omitempty"`
	Email            string               `json:"email,omitempty"`
	Address          string               `json:"address,omitempty"`
	PreferredContact domain.ContactMethod `json:"preferred_contact,omitempty"`
}

// Lookup handles POST /api/customers/lookup - returns contact details for a
// phone number known to this store, scoped to the resolved tenant.
func (h *CustomerHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req customerLookupRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	customer, err := h.customers.LookupByPhone(r.Context(), req.Phone)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	if customer == nil {
		handler.RespondJSON(w, http.StatusOK, customerLookupResponse{Found: false})
		return
	}

	name := customer.FirstName
	if customer.LastName != "" {
		name += " " + customer.LastName
	}
	handler.RespondJSON(w, http.StatusOK, customerLookupResponse{
		Found:            true,
		Name:             name,
		Email:            customer.Email,
		Address:          customer.Address,
		PreferredContact: customer.PreferredContact,
	})
}
