package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/telemetry"
)

// rowQuerier is the slice of pgx shared by *pgxpool.Pool and pgx.Tx, so the
// checkout upsert can run standalone or inside the placement transaction.
// Begin yields a savepoint on a Tx and a fresh transaction on the pool.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CustomerStore implements domain.CustomerStore using PostgreSQL.
//
// The checkout upsert is written so that the insert path is a single
// ON CONFLICT statement with increments: two concurrent first checkouts for
// the same phone collapse onto one row carrying both totals, so upsert
// conflicts never escape this package.
type CustomerStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that CustomerStore implements domain.CustomerStore.
var _ domain.CustomerStore = (*CustomerStore)(nil)

// NewCustomerStore creates a new PostgreSQL-backed customer store.
func NewCustomerStore(pool *pgxpool.Pool) *CustomerStore {
	return &CustomerStore{pool: pool}
}

const customerColumns = `
	id, tenant_id, phone, email, first_name, last_name, preferred_contact,
	address, referral_source, customer_type, status, total_orders,
	total_spent_cents, last_purchase_at, created_at, updated_at
`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c                domain.Customer
		preferredContact string
	)
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Phone, &c.Email, &c.FirstName, &c.LastName,
		&preferredContact, &c.Address, &c.ReferralSource, &c.CustomerType,
		&c.Status, &c.TotalOrders, &c.TotalSpentCents, &c.LastPurchaseAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.PreferredContact = domain.ContactMethod(preferredContact)
	return &c, nil
}

// LookupByPhone returns the customer for the phone within the tenant in
// context, or nil when no record exists.
func (s *CustomerStore) LookupByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 AND phone = $2`,
		tenantID, phone,
	)

	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // not found is not an error
		}
		return nil, domain.Internal(err, "customer.lookup", "failed to look up customer")
	}
	return customer, nil
}

// updateOnCheckout is the shared increment-and-refresh applied when an
// existing customer matches. Non-blank new values overwrite; blanks never
// erase existing values.
const updateOnCheckout = `
	UPDATE customers
	SET total_orders = total_orders + 1,
	    total_spent_cents = total_spent_cents + $3,
	    last_purchase_at = now(),
	    email = CASE WHEN $4 <> '' THEN $4 ELSE email END,
	    phone = CASE WHEN $5 <> '' THEN $5 ELSE phone END,
	    address = CASE WHEN $6 <> '' THEN $6 ELSE address END,
	    preferred_contact = CASE WHEN $7 <> '' THEN $7 ELSE preferred_contact END,
	    updated_at = now()
`

// UpsertOnCheckout links or creates the customer for one completed checkout.
func (s *CustomerStore) UpsertOnCheckout(ctx context.Context, params domain.CustomerUpsertParams) (*domain.Customer, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return upsertCustomerOnCheckout(ctx, s.pool, tenantID, params)
}

// Postgres unique_violation, and the one index a valid checkout can trip
// deterministically: the submitted email already belongs to another customer.
const (
	uniqueViolationCode = "23505"
	customersEmailIndex = "idx_customers_tenant_email"
)

// upsertCustomerOnCheckout applies the checkout identity resolution against q,
// which is either the pool or an open placement transaction.
//
// Uniqueness collisions never escape. Each attempt runs under its own
// savepoint so a tripped unique index does not poison the surrounding
// placement transaction; the attempt is rolled back and resolution retried.
// A phone collision means a concurrent checkout created the row first, and
// the retry lands on it as an update. An email collision that survives a
// retry means another customer holds that email; the overwrite is dropped
// and the existing email kept. The order increment always lands.
func upsertCustomerOnCheckout(ctx context.Context, q rowQuerier, tenantID uuid.UUID, params domain.CustomerUpsertParams) (*domain.Customer, error) {
	if params.Phone == "" {
		return nil, domain.Invalid("customer.upsert", "phone is required")
	}

	const maxAttempts = 3
	for attempt := 1; ; attempt++ {
		customer, outcome, err := resolveCustomerAttempt(ctx, q, tenantID, params)
		if err == nil {
			recordCustomerUpsert(tenantID, outcome)
			return customer, nil
		}
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode || attempt == maxAttempts {
			return nil, err
		}
		if attempt > 1 && pgErr.ConstraintName == customersEmailIndex {
			params.Email = ""
		}
	}
}

// resolveCustomerAttempt runs one resolution pass under Begin/Commit so a
// failed pass leaves q usable.
func resolveCustomerAttempt(ctx context.Context, q rowQuerier, tenantID uuid.UUID, params domain.CustomerUpsertParams) (*domain.Customer, string, error) {
	sp, err := q.Begin(ctx)
	if err != nil {
		return nil, "", domain.Internal(err, "customer.upsert", "failed to begin resolution")
	}
	defer sp.Rollback(ctx) // no-op after commit

	customer, outcome, err := resolveCustomer(ctx, sp, tenantID, params)
	if err != nil {
		return nil, "", err
	}
	if err := sp.Commit(ctx); err != nil {
		return nil, "", domain.Internal(err, "customer.upsert", "failed to commit resolution")
	}
	return customer, outcome, nil
}

func resolveCustomer(ctx context.Context, q rowQuerier, tenantID uuid.UUID, params domain.CustomerUpsertParams) (*domain.Customer, string, error) {
	// Match precedence: (phone, tenant) first.
	row := q.QueryRow(ctx,
		updateOnCheckout+` WHERE tenant_id = $1 AND phone = $2 RETURNING `+customerColumns,
		tenantID, params.Phone, params.OrderTotalCents,
		params.Email, params.Phone, params.Address, string(params.PreferredContact),
	)
	customer, err := scanCustomer(row)
	if err == nil {
		return customer, "updated", nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", domain.Internal(err, "customer.upsert", "failed to update customer by phone")
	}

	// Then (email, tenant).
	if params.Email != "" {
		row = q.QueryRow(ctx,
			updateOnCheckout+` WHERE tenant_id = $1 AND email = $2 RETURNING `+customerColumns,
			tenantID, params.Email, params.OrderTotalCents,
			params.Email, params.Phone, params.Address, string(params.PreferredContact),
		)
		customer, err = scanCustomer(row)
		if err == nil {
			return customer, "updated", nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, "", domain.Internal(err, "customer.upsert", "failed to update customer by email")
		}
	}

	// No match: create. The ON CONFLICT increment absorbs the race where a
	// concurrent checkout created the row after our update missed it.
	firstName, lastName := domain.SplitName(params.Name)
	row = q.QueryRow(ctx, `
		INSERT INTO customers (
			tenant_id, phone, email, first_name, last_name, preferred_contact,
			address, referral_source, customer_type, status, total_orders,
			total_spent_cents, last_purchase_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, now())
		ON CONFLICT (tenant_id, phone) DO UPDATE
		SET total_orders = customers.total_orders + 1,
		    total_spent_cents = customers.total_spent_cents + EXCLUDED.total_spent_cents,
		    last_purchase_at = now(),
		    email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE customers.email END,
		    address = CASE WHEN EXCLUDED.address <> '' THEN EXCLUDED.address ELSE customers.address END,
		    preferred_contact = CASE WHEN EXCLUDED.preferred_contact <> '' THEN EXCLUDED.preferred_contact ELSE customers.preferred_contact END,
		    updated_at = now()
		RETURNING `+customerColumns,
		tenantID, params.Phone, params.Email, firstName, lastName,
		string(params.PreferredContact), params.Address,
		domain.ReferralSourceStorefront, domain.CustomerTypeRecreational,
		domain.CustomerStatusActive, params.OrderTotalCents,
	)
	customer, err = scanCustomer(row)
	if err != nil {
		return nil, "", domain.Internal(err, "customer.upsert", "failed to create customer")
	}
	return customer, "created", nil
}

func recordCustomerUpsert(tenantID uuid.UUID, outcome string) {
	if telemetry.Business != nil {
		telemetry.Business.CustomerUpserts.WithLabelValues(tenantID.String(), outcome).Inc()
	}
}

// ListCustomers returns the tenant's customers for the admin view.
func (s *CustomerStore) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 ORDER BY last_purchase_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, domain.Internal(err, "customer.list", "failed to list customers")
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, domain.Internal(err, "customer.list", "failed to scan customer")
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "customer.list", "failed to read customers")
	}
	return customers, nil
}
