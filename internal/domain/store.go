package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is the closed set of payment methods a store may enable.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentVenmo PaymentMethod = "venmo"
	PaymentZelle PaymentMethod = "zelle"
	PaymentCard  PaymentMethod = "card"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentVenmo, PaymentZelle, PaymentCard:
		return true
	}
	return false
}

// ContactMethod is how a shopper prefers to be reached about an order.
type ContactMethod string

const (
	ContactPhone ContactMethod = "phone"
	ContactText  ContactMethod = "text"
	ContactEmail ContactMethod = "email"
)

// DeliveryZone maps a zip code to a delivery fee for one store.
type DeliveryZone struct {
	Zip      string `json:"zip"`
	FeeCents int64  `json:"fee_cents"`
}

// Store is a published storefront instance under a tenant.
// Read-heavy; mutated only through admin settings.
type Store struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Slug     string
	Name     string
	IsActive bool

	PaymentMethods          []PaymentMethod
	ContactMethods          []ContactMethod
	DeliveryZones           []DeliveryZone
	DefaultDeliveryFeeCents int64

	// Theme is an opaque client-side theming document. The service stores and
	// returns it verbatim; it never influences order processing.
	Theme map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentMethodEnabled reports whether the store accepts the given method.
func (s *Store) PaymentMethodEnabled(m PaymentMethod) bool {
	for _, pm := range s.PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// DeliveryFeeCents returns the delivery fee for a zip code, falling back to
// the store default when no zone matches.
func (s *Store) DeliveryFeeCents(zip string) int64 {
	for _, z := range s.DeliveryZones {
		if z.Zip == zip {
			return z.FeeCents
		}
	}
	return s.DefaultDeliveryFeeCents
}

// StoreSettingsParams carries an admin settings update. Nil fields are left
// unchanged; the round-trip contract is read-modify-write on the admin side.
type StoreSettingsParams struct {
	Name                    *string
	IsActive                *bool
	PaymentMethods          []PaymentMethod
	ContactMethods          []ContactMethod
	DeliveryZones           []DeliveryZone
	DefaultDeliveryFeeCents *int64
	Theme                   map[string]any
}

// StoreRegistry resolves public store slugs and serves store configuration.
// It is the leaf dependency of every other component.
type StoreRegistry interface {
	// ResolveSlug resolves a public store slug to its store record.
	// Inactive stores are still returned; callers gate on IsActive.
	ResolveSlug(ctx context.Context, slug string) (*Store, error)

	// GetStore retrieves the store for the tenant in context.
	GetStore(ctx context.Context) (*Store, error)

	// UpdateSettings applies an admin settings update to the tenant's store
	// and returns the updated record.
	UpdateSettings(ctx context.Context, params StoreSettingsParams) (*Store, error)
}
