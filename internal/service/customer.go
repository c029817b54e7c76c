package service

import (
	"context"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/telemetry"
)

// CustomerService serves the returning-customer lookup and the admin
// customer directory. Identity writes happen inside order placement, not
// here.
type CustomerService interface {
	// LookupByPhone returns the customer for the phone within the tenant in
	// context, or nil when no record exists.
	LookupByPhone(ctx context.Context, phone string) (*domain.Customer, error)

	// ListCustomers returns the tenant's customers for the admin view.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

type customerService struct {
	customers domain.CustomerStore
}

// NewCustomerService creates a new CustomerService instance
func NewCustomerService(customers domain.CustomerStore) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) LookupByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if phone == "" {
		return nil, domain.Invalid("customer.lookup", "phone is required")
	}

	customer, err := s.customers.LookupByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if telemetry.Business != nil {
		result := "found"
		if customer == nil {
			result = "not_found"
		}
		telemetry.Business.CustomerLookups.WithLabelValues(tenantID.String(), result).Inc()
	}
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.ListCustomers(ctx)
}
