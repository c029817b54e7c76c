package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is a sellable catalog item. Price and stock are authoritative here;
// anything the client holds is a snapshot that must be re-validated.
type Product struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	StoreID       uuid.UUID
	Name          string
	PriceCents    int64
	StockQuantity int32
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductPricing is the minimal authoritative read used by the cart
// synchronizer and the checkout orchestrator.
type ProductPricing struct {
	ProductID     uuid.UUID
	Name          string
	PriceCents    int64
	StockQuantity int32
	IsActive      bool
}

// CreateProductParams carries admin product creation input.
type CreateProductParams struct {
	Name          string
	PriceCents    int64
	StockQuantity int32
	IsActive      bool
}

// UpdateProductParams carries an admin product update. Nil fields are left
// unchanged.
type UpdateProductParams struct {
	Name          *string
	PriceCents    *int64
	StockQuantity *int32
	IsActive      *bool
}

// CatalogStore provides authoritative price and stock reads plus admin
// catalog mutations. All operations are scoped by the tenant in context.
type CatalogStore interface {
	// ListProducts returns products for the store. When activeOnly is set,
	// inactive products are omitted (public listing).
	ListProducts(ctx context.Context, activeOnly bool) ([]Product, error)

	// GetPricing resolves current price and stock for the given product IDs.
	// Unknown IDs are absent from the result map, not an error.
	GetPricing(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]ProductPricing, error)

	// CreateProduct creates a catalog item.
	CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error)

	// UpdateProduct applies a partial update.
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*Product, error)
}
