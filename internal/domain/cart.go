package domain

import (
	"github.com/google/uuid"
)

// CartLine is one line of the client-held cart. The cart is an untrusted
// client-submitted document: PriceSnapshotCents is what the shopper last saw,
// never what the server charges.
type CartLine struct {
	ProductID          uuid.UUID `json:"product_id"`
	Quantity           int32     `json:"quantity"`
	PriceSnapshotCents int64     `json:"price_snapshot_cents"`
}

// CartItemState classifies one cart line against the authoritative catalog.
type CartItemState string

const (
	CartItemUnchanged    CartItemState = "unchanged"
	CartItemPriceChanged CartItemState = "price_changed"
	CartItemOutOfStock   CartItemState = "now_out_of_stock"
	CartItemLimited      CartItemState = "now_limited"
)

// CartItemSync is the per-item comparison result.
type CartItemSync struct {
	ProductID uuid.UUID     `json:"product_id"`
	State     CartItemState `json:"state"`

	// OldPriceCents/NewPriceCents are populated for price_changed.
	OldPriceCents int64 `json:"old_price_cents,omitempty"`
	NewPriceCents int64 `json:"new_price_cents,omitempty"`

	// Remaining is populated for now_limited: the stock still available.
	Remaining int32 `json:"remaining,omitempty"`
}

// CartSyncResult is the synchronizer output. WorkingTotalCents is always
// derived from authoritative prices; price changes are non-blocking warnings,
// while out-of-stock or limited items block proceeding to payment.
type CartSyncResult struct {
	Items             []CartItemSync `json:"items"`
	WorkingTotalCents int64          `json:"working_total_cents"`
	Blocked           bool           `json:"blocked"`
}
