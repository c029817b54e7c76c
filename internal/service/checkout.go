package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/notify"
	"github.com/skagen/norna/internal/telemetry"
)

// CheckoutParams is the guest checkout request after transport-level
// validation. Prices inside Items are client snapshots and are ignored.
type CheckoutParams struct {
	Items            []domain.CartLine
	PaymentMethod    domain.PaymentMethod
	Fulfillment      domain.FulfillmentMethod
	ShippingAddress  *domain.ShippingAddress
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	PreferredContact domain.ContactMethod
}

// CheckoutService orchestrates guest checkout: validation, authoritative
// repricing, atomic placement, and post-placement notification.
type CheckoutService interface {
	// PlaceOrder validates the request against store configuration, reprices
	// every line from the catalog, and places the order atomically.
	PlaceOrder(ctx context.Context, params CheckoutParams) (*domain.Order, error)
}

type checkoutService struct {
	registry  domain.StoreRegistry
	catalog   domain.CatalogStore
	orders    domain.OrderStore
	dispatch  *notify.Dispatcher
	logger    *slog.Logger
	notifyTTL time.Duration
}

// NewCheckoutService creates a new CheckoutService instance. dispatch may be
// nil when no notification channels are configured.
func NewCheckoutService(registry domain.StoreRegistry, catalog domain.CatalogStore, orders domain.OrderStore, dispatch *notify.Dispatcher, logger *slog.Logger) CheckoutService {
	return &checkoutService{
		registry:  registry,
		catalog:   catalog,
		orders:    orders,
		dispatch:  dispatch,
		logger:    logger,
		notifyTTL: 30 * time.Second,
	}
}

// taxCents computes the tax line for an order. Orders settle out of band
// (cash, venmo, zelle) so no tax is collected at placement today.
// TODO(taxes): wire a per-store rate once stores start collecting sales tax.
func taxCents(subtotalCents, deliveryFeeCents int64) int64 {
	return 0
}

func (s *checkoutService) PlaceOrder(ctx context.Context, params CheckoutParams) (*domain.Order, error) {
	tenantID, err := domain.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	if len(params.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if params.CustomerPhone == "" {
		return nil, ErrMissingCustomerPhone
	}

	store, err := s.registry.GetStore(ctx)
	if err != nil {
		return nil, err
	}
	if !domain.ValidPaymentMethod(params.PaymentMethod) || !store.PaymentMethodEnabled(params.PaymentMethod) {
		s.reject(tenantID, "payment_method")
		return nil, ErrPaymentMethodNotAccepted
	}

	var customerAddress string
	switch params.Fulfillment {
	case domain.FulfillmentDelivery:
		if params.ShippingAddress == nil || params.ShippingAddress.Zip == "" {
			s.reject(tenantID, "validation")
			return nil, ErrMissingShippingAddress
		}
		a := params.ShippingAddress
		customerAddress = a.Line1 + ", " + a.City + ", " + a.State + " " + a.Zip
	case domain.FulfillmentPickup:
		params.ShippingAddress = nil
	default:
		s.reject(tenantID, "validation")
		return nil, ErrInvalidFulfillment
	}

	// Reprice every line from the catalog. The client's snapshots are not
	// trusted; a stale cart pays current prices or fails stock validation.
	ids := make([]uuid.UUID, 0, len(params.Items))
	for _, line := range params.Items {
		if line.Quantity <= 0 {
			s.reject(tenantID, "validation")
			return nil, ErrInvalidQuantity
		}
		ids = append(ids, line.ProductID)
	}
	pricing, err := s.catalog.GetPricing(ctx, ids)
	if err != nil {
		return nil, err
	}

	var (
		items         []domain.OrderItem
		subtotalCents int64
		unavailable   []uuid.UUID
	)
	for _, line := range params.Items {
		p, ok := pricing[line.ProductID]
		if !ok || !p.IsActive || p.StockQuantity < line.Quantity {
			unavailable = append(unavailable, line.ProductID)
			continue
		}
		items = append(items, domain.OrderItem{
			ProductID:      p.ProductID,
			Name:           p.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: p.PriceCents,
		})
		subtotalCents += p.PriceCents * int64(line.Quantity)
	}
	if len(unavailable) > 0 {
		s.reject(tenantID, "out_of_stock")
		return nil, &domain.OutOfStockError{ProductIDs: unavailable}
	}

	var deliveryFeeCents int64
	if params.Fulfillment == domain.FulfillmentDelivery {
		deliveryFeeCents = store.DeliveryFeeCents(params.ShippingAddress.Zip)
	}
	tax := taxCents(subtotalCents, deliveryFeeCents)
	totalCents := subtotalCents + deliveryFeeCents + tax

	token, err := domain.GenerateTrackingToken()
	if err != nil {
		return nil, domain.Internal(err, "checkout.place", "failed to generate tracking token")
	}

	order, err := s.orders.PlaceOrder(ctx, domain.PlaceOrderParams{
		Items:            items,
		SubtotalCents:    subtotalCents,
		DeliveryFeeCents: deliveryFeeCents,
		TaxCents:         tax,
		TotalCents:       totalCents,
		PaymentMethod:    params.PaymentMethod,
		Fulfillment:      params.Fulfillment,
		ShippingAddress:  params.ShippingAddress,
		TrackingToken:    token,
		CustomerName:     params.CustomerName,
		CustomerPhone:    params.CustomerPhone,
		CustomerEmail:    params.CustomerEmail,
		CustomerAddress:  customerAddress,
		PreferredContact: params.PreferredContact,
	})
	if err != nil {
		if _, ok := domain.IsOutOfStock(err); ok {
			// A concurrent checkout won the conditional decrement.
			if telemetry.Business != nil {
				telemetry.Business.OversellRejections.WithLabelValues(tenantID.String()).Inc()
			}
			s.reject(tenantID, "out_of_stock")
		}
		return nil, err
	}

	s.logger.Info("order placed",
		"tenant_id", tenantID,
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"total_cents", order.TotalCents,
		"fulfillment", order.Fulfillment,
	)
	if telemetry.Business != nil {
		t := tenantID.String()
		telemetry.Business.CheckoutCompleted.WithLabelValues(t, string(order.PaymentMethod), string(order.Fulfillment)).Inc()
		telemetry.Business.OrdersCreated.WithLabelValues(t, string(order.Fulfillment)).Inc()
		telemetry.Business.OrderValue.WithLabelValues(t).Observe(float64(order.TotalCents))
		telemetry.Business.OrderItemCount.WithLabelValues(t).Observe(float64(len(order.Items)))
	}

	// Fire and forget: the order is committed, notifications must not block
	// or fail the response. Detached context so the HTTP cancel doesn't
	// abort an in-flight send.
	if s.dispatch != nil {
		go func(store domain.Store, order domain.Order) {
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTTL)
			defer cancel()
			s.dispatch.OrderCreated(nctx, &store, &order)
		}(*store, *order)
	}

	return order, nil
}

func (s *checkoutService) reject(tenantID uuid.UUID, reason string) {
	if telemetry.Business != nil {
		telemetry.Business.CheckoutRejected.WithLabelValues(tenantID.String(), reason).Inc()
	}
}
