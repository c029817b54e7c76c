package admin

import (
	"log/slog"
	"net/http"

	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/service"
)

// CustomerHandler handles the operator customer list.
type CustomerHandler struct {
	customers service.CustomerService
	logger    *slog.Logger
}

// NewCustomerHandler creates a new admin customer handler.
func NewCustomerHandler(customers service.CustomerService, logger *slog.Logger) *CustomerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerHandler{customers: customers, logger: logger}
}

// List handles GET /admin/api/customers - every customer the store has seen,
// with their order count and lifetime spend.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"customers": handler.NewCustomerViews(customers),
	})
}
