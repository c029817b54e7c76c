package postgres

import (
	"bytes"
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skagen/norna/internal/domain"
)

// sortedByProductID clones the lines into a stable lock order for stock
// updates. The stored order keeps the shopper's original line order.
func sortedByProductID(items []domain.OrderItem) []domain.OrderItem {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b domain.OrderItem) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})
	return sorted
}

// OrderStore implements domain.OrderStore using PostgreSQL.
//
// Placement and cancellation are single transactions: the conditional stock
// update (WHERE stock_quantity >= quantity) is what closes the oversell race,
// so two concurrent checkouts for the last unit see exactly one winner.
type OrderStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that OrderStore implements domain.OrderStore.
var _ domain.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates a new PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `
	id, tenant_id, store_id, customer_id, order_number, items,
	subtotal_cents, delivery_fee_cents, tax_cents, total_cents,
	payment_method, fulfillment_method, shipping_address, status,
	cancellation_reason, cancellation_notes, tracking_token,
	customer_name, customer_phone, customer_email, preferred_contact,
	created_at, updated_at
`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                domain.Order
		customerID       uuid.NullUUID
		itemsJSON        []byte
		shippingJSON     []byte
		paymentMethod    string
		fulfillment      string
		status           string
		cancelReason     string
		preferredContact string
	)
	err := row.Scan(
		&o.ID, &o.TenantID, &o.StoreID, &customerID, &o.OrderNumber, &itemsJSON,
		&o.SubtotalCents, &o.DeliveryFeeCents, &o.TaxCents, &o.TotalCents,
		&paymentMethod, &fulfillment, &shippingJSON, &status,
		&cancelReason, &o.CancellationNotes, &o.TrackingToken,
		&o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &preferredContact,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerID.Valid {
		o.CustomerID = customerID.UUID
	}
	if err := unmarshalJSON(itemsJSON, &o.Items); err != nil {
		return nil, err
	}
	if len(shippingJSON) > 0 {
		var addr domain.ShippingAddress
		if err := unmarshalJSON(shippingJSON, &addr); err != nil {
			return nil, err
		}
		o.ShippingAddress = &addr
	}
	o.PaymentMethod = domain.PaymentMethod(paymentMethod)
	o.Fulfillment = domain.FulfillmentMethod(fulfillment)
	o.Status = domain.OrderStatus(status)
	o.CancellationReason = domain.CancellationReason(cancelReason)
	o.PreferredContact = domain.ContactMethod(preferredContact)
	return &o, nil
}

// PlaceOrder decrements stock for each line, resolves the customer identity,
// and inserts the order with a freshly allocated tenant-scoped order number,
// all in one transaction.
func (s *OrderStore) PlaceOrder(ctx context.Context, params domain.PlaceOrderParams) (*domain.Order, error) {
	tenantID, storeID, err := domain.RequireScope(ctx)
	if err != nil {
		return nil, err
	}
	if len(params.Items) == 0 {
		return nil, domain.Invalid("order.place", "order has no items")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "order.place", "failed to begin transaction")
	}
	defer tx.Rollback(ctx) // no-op after commit

	// Reserve stock with conditional decrements, locking rows in product-ID
	// order so two orders sharing products cannot deadlock. Walk every line
	// so a rejection reports the complete set of offending products.
	var outOfStock []uuid.UUID
	for _, item := range sortedByProductID(params.Items) {
		tag, err := tx.Exec(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $4, updated_at = now()
			WHERE id = $1 AND tenant_id = $2 AND store_id = $3
			  AND is_active AND stock_quantity >= $4`,
			item.ProductID, tenantID, storeID, item.Quantity,
		)
		if err != nil {
			return nil, domain.Internal(err, "order.place", "failed to reserve stock")
		}
		if tag.RowsAffected() == 0 {
			outOfStock = append(outOfStock, item.ProductID)
		}
	}
	if len(outOfStock) > 0 {
		// Rollback releases the partial decrements; no order is created.
		return nil, &domain.OutOfStockError{ProductIDs: outOfStock}
	}

	// Resolve the customer inside the same transaction: the aggregate
	// increments commit only if the order does.
	customer, err := upsertCustomerOnCheckout(ctx, tx, tenantID, domain.CustomerUpsertParams{
		Name:             params.CustomerName,
		Phone:            params.CustomerPhone,
		Email:            params.CustomerEmail,
		PreferredContact: params.PreferredContact,
		Address:          params.CustomerAddress,
		OrderTotalCents:  params.TotalCents,
	})
	if err != nil {
		return nil, err
	}

	// Allocate the tenant-scoped sequential order number inside the same
	// transaction so numbers are strictly monotonic with creation order.
	var orderNumber int64
	err = tx.QueryRow(ctx, `
		INSERT INTO order_counters (tenant_id, next_number)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE SET next_number = order_counters.next_number + 1
		RETURNING next_number`,
		tenantID,
	).Scan(&orderNumber)
	if err != nil {
		return nil, domain.Internal(err, "order.place", "failed to allocate order number")
	}

	itemsJSON, err := marshalJSON(params.Items, "[]")
	if err != nil {
		return nil, domain.Internal(err, "order.place", "failed to encode items")
	}
	var shippingJSON []byte
	if params.ShippingAddress != nil {
		shippingJSON, err = marshalJSON(params.ShippingAddress, "{}")
		if err != nil {
			return nil, domain.Internal(err, "order.place", "failed to encode shipping address")
		}
	}
	customerID := uuid.NullUUID{UUID: customer.ID, Valid: true}

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (
			tenant_id, store_id, customer_id, order_number, items,
			subtotal_cents, delivery_fee_cents, tax_cents, total_cents,
			payment_method, fulfillment_method, shipping_address, status,
			tracking_token, customer_name, customer_phone, customer_email,
			preferred_contact
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+orderColumns,
		tenantID, storeID, customerID, orderNumber, itemsJSON,
		params.SubtotalCents, params.DeliveryFeeCents, params.TaxCents, params.TotalCents,
		string(params.PaymentMethod), string(params.Fulfillment), shippingJSON,
		string(domain.OrderPending), params.TrackingToken,
		params.CustomerName, params.CustomerPhone, params.CustomerEmail,
		string(params.PreferredContact),
	)

	order, err := scanOrder(row)
	if err != nil {
		return nil, domain.Internal(err, "order.place", "failed to insert order")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "order.place", "failed to commit order")
	}
	return order, nil
}

// GetOrder retrieves one order by ID with tenant scoping.
func (s *OrderStore) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND tenant_id = $2`,
		orderID, tenantID,
	)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("order.get", "order", orderID.String())
		}
		return nil, domain.Internal(err, "order.get", "failed to get order")
	}
	return order, nil
}

// GetOrderByTrackingToken retrieves one order by its tracking token. The
// token is the capability; no tenant context is consulted.
func (s *OrderStore) GetOrderByTrackingToken(ctx context.Context, token string) (*domain.Order, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tracking_token = $1`,
		token,
	)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("order.track", "order", "tracking token")
		}
		return nil, domain.Internal(err, "order.track", "failed to get order")
	}
	return order, nil
}

// ListOrders returns the tenant's orders, newest first.
func (s *OrderStore) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1`
	args := []any{tenantID}
	if filter.Status != "" {
		query += ` AND status = $2`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY order_number DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, domain.Internal(err, "order.list", "failed to scan order")
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list", "failed to read orders")
	}
	return orders, nil
}

// UpdateStatus flips the order from one status to another, conditional on
// the current status still being from.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return false, err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE orders
		SET status = $4, updated_at = now()
		WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		orderID, tenantID, string(from), string(to),
	)
	if err != nil {
		return false, domain.Internal(err, "order.update_status", "failed to update order status")
	}
	return tag.RowsAffected() == 1, nil
}

// Cancel sets status=cancelled and restores each line quantity onto product
// stock, atomically. Conditional on the current status still being from.
func (s *OrderStore) Cancel(ctx context.Context, orderID uuid.UUID, from domain.OrderStatus, reason domain.CancellationReason, notes string) (bool, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return false, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, domain.Internal(err, "order.cancel", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var (
		itemsJSON  []byte
		customerID uuid.NullUUID
		totalCents int64
	)
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $4, cancellation_reason = $5, cancellation_notes = $6, updated_at = now()
		WHERE id = $1 AND tenant_id = $2 AND status = $3
		RETURNING items, customer_id, total_cents`,
		orderID, tenantID, string(from), string(domain.OrderCancelled),
		string(reason), notes,
	).Scan(&itemsJSON, &customerID, &totalCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil // status moved under us; caller re-reads
		}
		return false, domain.Internal(err, "order.cancel", "failed to cancel order")
	}

	var items []domain.OrderItem
	if err := unmarshalJSON(itemsJSON, &items); err != nil {
		return false, domain.Internal(err, "order.cancel", "failed to decode order items")
	}

	// Restore the reserved quantities in the same transaction as the flip,
	// in the same lock order placement uses.
	for _, item := range sortedByProductID(items) {
		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + $3, updated_at = now()
			WHERE id = $1 AND tenant_id = $2`,
			item.ProductID, tenantID, item.Quantity,
		); err != nil {
			return false, domain.Internal(err, "order.cancel", "failed to restore stock")
		}
	}

	// Customer aggregates track non-cancelled orders only.
	if customerID.Valid {
		if _, err := tx.Exec(ctx, `
			UPDATE customers
			SET total_orders = total_orders - 1,
			    total_spent_cents = total_spent_cents - $3,
			    updated_at = now()
			WHERE id = $1 AND tenant_id = $2`,
			customerID.UUID, tenantID, totalCents,
		); err != nil {
			return false, domain.Internal(err, "order.cancel", "failed to adjust customer totals")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, domain.Internal(err, "order.cancel", "failed to commit cancellation")
	}
	return true, nil
}
