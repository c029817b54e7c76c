package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skagen/norna/internal/domain"
)

// StoreRegistry implements domain.StoreRegistry using PostgreSQL.
type StoreRegistry struct {
	pool *pgxpool.Pool
}

// Compile-time check that StoreRegistry implements domain.StoreRegistry.
var _ domain.StoreRegistry = (*StoreRegistry)(nil)

// NewStoreRegistry creates a new PostgreSQL-backed store registry.
func NewStoreRegistry(pool *pgxpool.Pool) *StoreRegistry {
	return &StoreRegistry{pool: pool}
}

const storeColumns = `
	id, tenant_id, slug, name, is_active,
	payment_methods, contact_methods, delivery_zones,
	default_delivery_fee_cents, theme, created_at, updated_at
`

// scanStore reads one store row into the domain type.
func scanStore(row pgx.Row) (*domain.Store, error) {
	var (
		s              domain.Store
		paymentMethods []string
		contactMethods []string
		zonesJSON      []byte
		themeJSON      []byte
	)
	err := row.Scan(
		&s.ID, &s.TenantID, &s.Slug, &s.Name, &s.IsActive,
		&paymentMethods, &contactMethods, &zonesJSON,
		&s.DefaultDeliveryFeeCents, &themeJSON, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.PaymentMethods = paymentMethodsFromStrings(paymentMethods)
	s.ContactMethods = contactMethodsFromStrings(contactMethods)
	if err := unmarshalJSON(zonesJSON, &s.DeliveryZones); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(themeJSON, &s.Theme); err != nil {
		return nil, err
	}
	return &s, nil
}

// ResolveSlug resolves a public store slug to its store record.
func (r *StoreRegistry) ResolveSlug(ctx context.Context, slug string) (*domain.Store, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE slug = $1`, slug)

	store, err := scanStore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("store.resolve_slug", "store", slug)
		}
		return nil, domain.Internal(err, "store.resolve_slug", "failed to resolve store")
	}
	return store, nil
}

// GetStore retrieves the store for the tenant in context.
func (r *StoreRegistry) GetStore(ctx context.Context) (*domain.Store, error) {
	tenantID, storeID, err := domain.RequireScope(ctx)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id = $1 AND tenant_id = $2`,
		storeID, tenantID,
	)

	store, err := scanStore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("store.get", "store", storeID.String())
		}
		return nil, domain.Internal(err, "store.get", "failed to get store")
	}
	return store, nil
}

// UpdateSettings applies an admin settings update to the tenant's store.
func (r *StoreRegistry) UpdateSettings(ctx context.Context, params domain.StoreSettingsParams) (*domain.Store, error) {
	existing, err := r.GetStore(ctx)
	if err != nil {
		return nil, err
	}

	// Merge params with existing values.
	name := existing.Name
	if params.Name != nil {
		name = *params.Name
	}
	isActive := existing.IsActive
	if params.IsActive != nil {
		isActive = *params.IsActive
	}
	paymentMethods := existing.PaymentMethods
	if params.PaymentMethods != nil {
		paymentMethods = params.PaymentMethods
	}
	contactMethods := existing.ContactMethods
	if params.ContactMethods != nil {
		contactMethods = params.ContactMethods
	}
	zones := existing.DeliveryZones
	if params.DeliveryZones != nil {
		zones = params.DeliveryZones
	}
	defaultFee := existing.DefaultDeliveryFeeCents
	if params.DefaultDeliveryFeeCents != nil {
		defaultFee = *params.DefaultDeliveryFeeCents
	}
	theme := existing.Theme
	if params.Theme != nil {
		theme = params.Theme
	}

	zonesJSON, err := marshalJSON(zones, "[]")
	if err != nil {
		return nil, domain.Internal(err, "store.update_settings", "failed to encode delivery zones")
	}
	themeJSON, err := marshalJSON(theme, "{}")
	if err != nil {
		return nil, domain.Internal(err, "store.update_settings", "failed to encode theme")
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE stores
		SET name = $3,
		    is_active = $4,
		    payment_methods = $5,
		    contact_methods = $6,
		    delivery_zones = $7,
		    default_delivery_fee_cents = $8,
		    theme = $9,
		    updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+storeColumns,
		existing.ID, existing.TenantID, name, isActive,
		paymentMethodStrings(paymentMethods), contactMethodStrings(contactMethods),
		zonesJSON, defaultFee, themeJSON,
	)

	store, err := scanStore(row)
	if err != nil {
		return nil, domain.Internal(err, "store.update_settings", "failed to update store settings")
	}
	return store, nil
}
