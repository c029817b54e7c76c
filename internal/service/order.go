package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/telemetry"
)

// OrderService provides admin order lifecycle operations and the public
// tracking lookup.
type OrderService interface {
	// GetOrder retrieves a single order by ID with tenant scoping.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)

	// ListOrders returns the tenant's orders, newest first, optionally
	// filtered by status.
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// Track resolves a tracking token to its order. No tenant context is
	// required: the token itself is the capability.
	Track(ctx context.Context, token string) (*domain.Order, error)

	// UpdateStatus moves the order to the requested status. Re-issuing the
	// current status is an idempotent no-op; any other target must be the
	// single next forward step for the order's fulfillment method.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error)

	// Cancel cancels the order with a reason, restoring reserved stock.
	Cancel(ctx context.Context, orderID uuid.UUID, reason domain.CancellationReason, notes string) (*domain.Order, error)
}

type orderService struct {
	orders domain.OrderStore
	logger *slog.Logger
}

// NewOrderService creates a new OrderService instance
func NewOrderService(orders domain.OrderStore, logger *slog.Logger) OrderService {
	return &orderService{orders: orders, logger: logger}
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

func (s *orderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !domain.ValidOrderStatus(filter.Status) {
		return nil, ErrUnknownStatus
	}
	return s.orders.ListOrders(ctx, filter)
}

func (s *orderService) Track(ctx context.Context, token string) (*domain.Order, error) {
	order, err := s.orders.GetOrderByTrackingToken(ctx, token)
	if telemetry.Business != nil {
		result := "found"
		if err != nil {
			result = "not_found"
		}
		telemetry.Business.TrackingLookups.WithLabelValues(result).Inc()
	}
	return order, err
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(to) {
		return nil, ErrUnknownStatus
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == to {
		return order, nil // idempotent re-issue
	}
	if to == domain.OrderCancelled {
		// Cancellation carries a reason; route through Cancel.
		return nil, domain.Invalid("order.update_status", "use the cancel operation to cancel an order")
	}
	if !domain.CanTransition(order.Status, to, order.Fulfillment) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: to}
	}

	applied, err := s.orders.UpdateStatus(ctx, orderID, order.Status, to)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrStatusConflict
	}

	s.logger.Info("order status updated",
		"order_id", orderID,
		"order_number", order.OrderNumber,
		"from", order.Status,
		"to", to,
	)
	if telemetry.Business != nil {
		telemetry.Business.OrdersAdvanced.WithLabelValues(order.TenantID.String(), string(to)).Inc()
	}

	order.Status = to
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID, reason domain.CancellationReason, notes string) (*domain.Order, error) {
	if err := domain.ValidateCancellation(reason, notes); err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.OrderCancelled {
		return order, nil // idempotent re-issue
	}
	if !domain.CanTransition(order.Status, domain.OrderCancelled, order.Fulfillment) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: domain.OrderCancelled}
	}

	applied, err := s.orders.Cancel(ctx, orderID, order.Status, reason, notes)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrStatusConflict
	}

	var restored int32
	for _, item := range order.Items {
		restored += item.Quantity
	}
	s.logger.Info("order cancelled",
		"order_id", orderID,
		"order_number", order.OrderNumber,
		"reason", reason,
		"restored_units", restored,
	)
	if telemetry.Business != nil {
		t := order.TenantID.String()
		telemetry.Business.OrdersCancelled.WithLabelValues(t, string(reason)).Inc()
		telemetry.Business.StockRestored.WithLabelValues(t).Add(float64(restored))
	}

	order.Status = domain.OrderCancelled
	order.CancellationReason = reason
	order.CancellationNotes = notes
	return order, nil
}
