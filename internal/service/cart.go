package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/telemetry"
)

// CartService reconciles client-held carts against the authoritative catalog.
type CartService interface {
	// Sync compares each cart line against current price and stock and
	// returns the per-item drift plus a server-computed working total.
	Sync(ctx context.Context, lines []domain.CartLine) (*domain.CartSyncResult, error)
}

type cartService struct {
	catalog domain.CatalogStore
}

// NewCartService creates a new CartService instance
func NewCartService(catalog domain.CatalogStore) CartService {
	return &cartService{catalog: catalog}
}

// Sync classifies every line and prices the cart from the catalog read. The
// client's price snapshots are echoed back for display but never priced.
//
// Price changes are warnings; out-of-stock and limited lines set Blocked so
// the client cannot proceed to payment until the shopper adjusts the cart.
func (s *cartService) Sync(ctx context.Context, lines []domain.CartLine) (*domain.CartSyncResult, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		ids = append(ids, line.ProductID)
	}

	pricing, err := s.catalog.GetPricing(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &domain.CartSyncResult{Items: make([]domain.CartItemSync, 0, len(lines))}
	for _, line := range lines {
		item := domain.CartItemSync{ProductID: line.ProductID}
		p, ok := pricing[line.ProductID]
		switch {
		case !ok || !p.IsActive || p.StockQuantity <= 0:
			// Removed, deactivated, and sold-out products all read the same
			// to the shopper: the item can no longer be bought.
			item.State = domain.CartItemOutOfStock
			result.Blocked = true
		case p.StockQuantity < line.Quantity:
			item.State = domain.CartItemLimited
			item.Remaining = p.StockQuantity
			item.NewPriceCents = p.PriceCents
			result.Blocked = true
			result.WorkingTotalCents += p.PriceCents * int64(p.StockQuantity)
		case p.PriceCents != line.PriceSnapshotCents:
			item.State = domain.CartItemPriceChanged
			item.OldPriceCents = line.PriceSnapshotCents
			item.NewPriceCents = p.PriceCents
			result.WorkingTotalCents += p.PriceCents * int64(line.Quantity)
		default:
			item.State = domain.CartItemUnchanged
			result.WorkingTotalCents += p.PriceCents * int64(line.Quantity)
		}
		result.Items = append(result.Items, item)
	}

	if telemetry.Business != nil {
		telemetry.Business.CartSyncs.WithLabelValues(tenantID.String()).Inc()
		for _, item := range result.Items {
			if item.State != domain.CartItemUnchanged {
				telemetry.Business.CartSyncDrift.WithLabelValues(tenantID.String(), string(item.State)).Inc()
			}
		}
	}
	return result, nil
}
