package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is an order's position in the lifecycle state machine.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderReady          OrderStatus = "ready"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// FulfillmentMethod is how the shopper receives the order.
type FulfillmentMethod string

const (
	FulfillmentDelivery FulfillmentMethod = "delivery"
	FulfillmentPickup   FulfillmentMethod = "pickup"
)

// forwardNext maps each status to its single-step successor. Pickup orders
// skip out_for_delivery: ready advances straight to delivered.
var forwardNext = map[FulfillmentMethod]map[OrderStatus]OrderStatus{
	FulfillmentDelivery: {
		OrderPending:        OrderConfirmed,
		OrderConfirmed:      OrderPreparing,
		OrderPreparing:      OrderReady,
		OrderReady:          OrderOutForDelivery,
		OrderOutForDelivery: OrderDelivered,
	},
	FulfillmentPickup: {
		OrderPending:   OrderConfirmed,
		OrderConfirmed: OrderPreparing,
		OrderPreparing: OrderReady,
		OrderReady:     OrderDelivered,
	},
}

// ValidOrderStatus reports whether s is a known status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
		OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// NextStatus returns the single forward step from s for the given fulfillment
// method. ok is false when s has no forward successor.
func NextStatus(s OrderStatus, fm FulfillmentMethod) (OrderStatus, bool) {
	next, ok := forwardNext[fm][s]
	return next, ok
}

// CanTransition validates an admin-requested transition from -> to.
// Forward transitions are single-step only; re-issuing the current status is
// an idempotent no-op handled by the caller; cancellation is reachable from
// any non-terminal state.
func CanTransition(from, to OrderStatus, fm FulfillmentMethod) bool {
	if from.Terminal() {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	next, ok := forwardNext[fm][from]
	return ok && next == to
}

// CancellationReason is the closed set of reasons an admin may cancel with.
type CancellationReason string

const (
	CancelOutOfStock      CancellationReason = "out_of_stock"
	CancelCustomerRequest CancellationReason = "customer_request"
	CancelUnableToDeliver CancellationReason = "unable_to_deliver"
	CancelPaymentIssue    CancellationReason = "payment_issue"
	CancelOther           CancellationReason = "other"
)

// ValidateCancellation checks the reason against the closed set and enforces
// that "other" carries free-text notes.
func ValidateCancellation(reason CancellationReason, notes string) error {
	switch reason {
	case CancelOutOfStock, CancelCustomerRequest, CancelUnableToDeliver, CancelPaymentIssue:
		return nil
	case CancelOther:
		if notes == "" {
			return Invalid("order.cancel", "notes are required when reason is \"other\"")
		}
		return nil
	}
	return Invalid("order.cancel", "unknown cancellation reason")
}

// OrderItem is an immutable line-item snapshot taken at placement time.
type OrderItem struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// ShippingAddress is the delivery destination. Nil for pickup orders.
type ShippingAddress struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// Order is a placed marketplace order. Items and totals are immutable after
// creation; only status (and cancellation fields) mutate, through the state
// machine.
type Order struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	StoreID     uuid.UUID
	CustomerID  uuid.UUID // uuid.Nil until identity resolution links it
	OrderNumber int64     // sequential, tenant-scoped, customer-visible

	Items              []OrderItem
	SubtotalCents      int64
	DeliveryFeeCents   int64
	TaxCents           int64
	TotalCents         int64
	PaymentMethod      PaymentMethod
	Fulfillment        FulfillmentMethod
	ShippingAddress    *ShippingAddress
	Status             OrderStatus
	CancellationReason CancellationReason
	CancellationNotes  string

	// TrackingToken grants unauthenticated read access to this order's
	// status. Opaque and unguessable.
	TrackingToken string

	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	PreferredContact ContactMethod

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlaceOrderParams is the fully-validated input to the atomic placement
// operation: every price here has already been re-read from the catalog.
type PlaceOrderParams struct {
	Items            []OrderItem
	SubtotalCents    int64
	DeliveryFeeCents int64
	TaxCents         int64
	TotalCents       int64
	PaymentMethod    PaymentMethod
	Fulfillment      FulfillmentMethod
	ShippingAddress  *ShippingAddress
	TrackingToken    string

	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	CustomerAddress  string
	PreferredContact ContactMethod
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status OrderStatus // empty = all
}

// OrderStore persists orders. PlaceOrder and Cancel are single atomic units:
// stock movement and the order row commit together or not at all.
type OrderStore interface {
	// PlaceOrder decrements stock for each line, resolves the customer
	// identity (upsert with aggregate increments), and inserts the order with
	// a freshly allocated tenant-scoped order number, all in one transaction.
	// Any stock shortfall aborts the whole placement with OutOfStockError.
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*Order, error)

	// GetOrder retrieves one order by ID with tenant scoping.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)

	// GetOrderByTrackingToken retrieves one order by its tracking token.
	// No tenant context required: the token itself is the capability.
	GetOrderByTrackingToken(ctx context.Context, token string) (*Order, error)

	// ListOrders returns the tenant's orders, newest first.
	ListOrders(ctx context.Context, filter OrderFilter) ([]Order, error)

	// UpdateStatus flips the order from one status to another, conditional on
	// the current status still being from. Returns false when the row was not
	// in from anymore (lost race or stale admin view).
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to OrderStatus) (bool, error)

	// Cancel sets status=cancelled with the given reason/notes, restores each
	// line quantity onto product stock, and reverses the linked customer's
	// order count and spend aggregates, atomically. Conditional on the
	// current status still being from.
	Cancel(ctx context.Context, orderID uuid.UUID, from OrderStatus, reason CancellationReason, notes string) (bool, error)
}
