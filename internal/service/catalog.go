package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/telemetry"
)

// CatalogService serves the public product listing and admin catalog
// management.
type CatalogService interface {
	// ListPublicProducts returns active products for the storefront.
	ListPublicProducts(ctx context.Context) ([]domain.Product, error)

	// ListAllProducts returns every product, active or not, for the admin.
	ListAllProducts(ctx context.Context) ([]domain.Product, error)

	// CreateProduct creates a catalog item.
	CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error)

	// UpdateProduct applies a partial update.
	UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error)
}

type catalogService struct {
	catalog domain.CatalogStore
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(catalog domain.CatalogStore) CatalogService {
	return &catalogService{catalog: catalog}
}

func (s *catalogService) ListPublicProducts(ctx context.Context) ([]domain.Product, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.catalog.ListProducts(ctx, true)
	if err != nil {
		return nil, err
	}
	if telemetry.Business != nil {
		telemetry.Business.CatalogViews.WithLabelValues(tenantID.String()).Inc()
	}
	return products, nil
}

func (s *catalogService) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.ListProducts(ctx, false)
}

func (s *catalogService) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	if params.Name == "" {
		return nil, domain.Invalid("catalog.create", "product name is required")
	}
	if params.PriceCents < 0 {
		return nil, domain.Invalid("catalog.create", "price cannot be negative")
	}
	if params.StockQuantity < 0 {
		return nil, domain.Invalid("catalog.create", "stock cannot be negative")
	}
	return s.catalog.CreateProduct(ctx, params)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, domain.Invalid("catalog.update", "product name cannot be blank")
	}
	if params.PriceCents != nil && *params.PriceCents < 0 {
		return nil, domain.Invalid("catalog.update", "price cannot be negative")
	}
	if params.StockQuantity != nil && *params.StockQuantity < 0 {
		return nil, domain.Invalid("catalog.update", "stock cannot be negative")
	}
	return s.catalog.UpdateProduct(ctx, id, params)
}
