package service

import (
	"context"

	"github.com/skagen/norna/internal/domain"
)

// StoreService exposes store configuration reads and admin settings updates.
type StoreService interface {
	// GetStore returns the store for the tenant in context.
	GetStore(ctx context.Context) (*domain.Store, error)

	// UpdateSettings validates and applies an admin settings update.
	UpdateSettings(ctx context.Context, params domain.StoreSettingsParams) (*domain.Store, error)
}

type storeService struct {
	registry domain.StoreRegistry
}

// NewStoreService creates a new StoreService instance
func NewStoreService(registry domain.StoreRegistry) StoreService {
	return &storeService{registry: registry}
}

func (s *storeService) GetStore(ctx context.Context) (*domain.Store, error) {
	return s.registry.GetStore(ctx)
}

func (s *storeService) UpdateSettings(ctx context.Context, params domain.StoreSettingsParams) (*domain.Store, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, domain.Invalid("store.settings", "store name cannot be blank")
	}
	for _, m := range params.PaymentMethods {
		if !domain.ValidPaymentMethod(m) {
			return nil, domain.Invalid("store.settings", "unknown payment method")
		}
	}
	for _, z := range params.DeliveryZones {
		if z.Zip == "" {
			return nil, domain.Invalid("store.settings", "delivery zone zip cannot be blank")
		}
		if z.FeeCents < 0 {
			return nil, domain.Invalid("store.settings", "delivery fee cannot be negative")
		}
	}
	if params.DefaultDeliveryFeeCents != nil && *params.DefaultDeliveryFeeCents < 0 {
		return nil, domain.Invalid("store.settings", "delivery fee cannot be negative")
	}
	return s.registry.UpdateSettings(ctx, params)
}
