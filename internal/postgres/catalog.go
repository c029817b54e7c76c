package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skagen/norna/internal/domain"
)

// CatalogStore implements domain.CatalogStore using PostgreSQL.
type CatalogStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that CatalogStore implements domain.CatalogStore.
var _ domain.CatalogStore = (*CatalogStore)(nil)

// NewCatalogStore creates a new PostgreSQL-backed catalog store.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

const productColumns = `
	id, tenant_id, store_id, name, price_cents, stock_quantity, is_active,
	created_at, updated_at
`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.TenantID, &p.StoreID, &p.Name, &p.PriceCents,
		&p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products for the store in context.
func (s *CatalogStore) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	tenantID, storeID, err := domain.RequireScope(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND store_id = $2`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query, tenantID, storeID)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to list products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Internal(err, "catalog.list", "failed to scan product")
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to read products")
	}
	return products, nil
}

// GetPricing resolves current price and stock for the given product IDs.
// Unknown IDs are simply absent from the result map.
func (s *CatalogStore) GetPricing(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]domain.ProductPricing, error) {
	tenantID, storeID, err := domain.RequireScope(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, price_cents, stock_quantity, is_active
		FROM products
		WHERE tenant_id = $1 AND store_id = $2 AND id = ANY($3)`,
		tenantID, storeID, productIDs,
	)
	if err != nil {
		return nil, domain.Internal(err, "catalog.get_pricing", "failed to read pricing")
	}
	defer rows.Close()

	pricing := make(map[uuid.UUID]domain.ProductPricing, len(productIDs))
	for rows.Next() {
		var p domain.ProductPricing
		if err := rows.Scan(&p.ProductID, &p.Name, &p.PriceCents, &p.StockQuantity, &p.IsActive); err != nil {
			return nil, domain.Internal(err, "catalog.get_pricing", "failed to scan pricing")
		}
		pricing[p.ProductID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.get_pricing", "failed to read pricing")
	}
	return pricing, nil
}

// CreateProduct creates a catalog item for the store in context.
func (s *CatalogStore) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	tenantID, storeID, err := domain.RequireScope(ctx)
	if err != nil {
		return nil, err
	}
	if params.PriceCents < 0 {
		return nil, domain.Invalid("catalog.create", "price must not be negative")
	}
	if params.StockQuantity < 0 {
		return nil, domain.Invalid("catalog.create", "stock must not be negative")
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (tenant_id, store_id, name, price_cents, stock_quantity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		tenantID, storeID, params.Name, params.PriceCents, params.StockQuantity, params.IsActive,
	)

	product, err := scanProduct(row)
	if err != nil {
		return nil, domain.Internal(err, "catalog.create", "failed to create product")
	}
	return product, nil
}

// UpdateProduct applies a partial update to a product.
func (s *CatalogStore) UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error) {
	tenantID, storeID, err := domain.RequireScope(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := scanProduct(s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2 AND store_id = $3`,
		id, tenantID, storeID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("catalog.update", "product", id.String())
		}
		return nil, domain.Internal(err, "catalog.update", "failed to get existing product")
	}

	// Merge params with existing values.
	name := existing.Name
	if params.Name != nil {
		name = *params.Name
	}
	priceCents := existing.PriceCents
	if params.PriceCents != nil {
		priceCents = *params.PriceCents
	}
	stock := existing.StockQuantity
	if params.StockQuantity != nil {
		stock = *params.StockQuantity
	}
	isActive := existing.IsActive
	if params.IsActive != nil {
		isActive = *params.IsActive
	}

	if priceCents < 0 {
		return nil, domain.Invalid("catalog.update", "price must not be negative")
	}
	if stock < 0 {
		return nil, domain.Invalid("catalog.update", "stock must not be negative")
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $4, price_cents = $5, stock_quantity = $6, is_active = $7, updated_at = now()
		WHERE id = $1 AND tenant_id = $2 AND store_id = $3
		RETURNING `+productColumns,
		id, tenantID, storeID, name, priceCents, stock, isActive,
	)

	product, err := scanProduct(row)
	if err != nil {
		return nil, domain.Internal(err, "catalog.update", "failed to update product")
	}
	return product, nil
}
