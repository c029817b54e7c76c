package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer-related constants. Storefront checkouts always tag provenance so
// admin reporting can tell storefront-originated customers from other channels.
const (
	ReferralSourceStorefront = "storefront"
	CustomerTypeRecreational = "recreational"
	CustomerStatusActive     = "active"
)

// Customer aggregates a shopper's identity and order statistics within one
// tenant. total_orders/total_spent must equal the count/sum of all
// non-cancelled orders linked to the customer.
type Customer struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	Phone            string
	Email            string
	FirstName        string
	LastName         string
	PreferredContact ContactMethod
	Address          string
	ReferralSource   string
	CustomerType     string
	Status           string
	TotalOrders      int32
	TotalSpentCents  int64
	LastPurchaseAt   time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CustomerUpsertParams carries one checkout's contact fields into the
// identity resolver. OrderTotalCents is accumulated onto the customer record.
type CustomerUpsertParams struct {
	Name             string
	Phone            string
	Email            string
	PreferredContact ContactMethod
	Address          string
	OrderTotalCents  int64
}

// SplitName splits a full name into first/last on the first space-delimited
// token. "Ana Maria Silva" -> ("Ana", "Maria Silva").
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}

// CustomerStore persists customer identity within a tenant. Implementations
// must make UpsertOnCheckout a single atomic insert-or-update-with-increment:
// two concurrent checkouts for the same phone must yield one row holding both
// totals, never duplicates or lost increments.
type CustomerStore interface {
	// LookupByPhone returns the customer for the phone within the tenant in
	// context, or nil (not an error) when no record exists. Existence is
	// never revealed across tenants.
	LookupByPhone(ctx context.Context, phone string) (*Customer, error)

	// UpsertOnCheckout links or creates the customer for one completed
	// checkout. Match precedence: (phone, tenant) then (email, tenant), else
	// create. Non-blank new values overwrite; blanks never erase.
	UpsertOnCheckout(ctx context.Context, params CustomerUpsertParams) (*Customer, error)

	// ListCustomers returns the tenant's customers for the admin view.
	ListCustomers(ctx context.Context) ([]Customer, error)
}
