// Package notify delivers post-placement notifications. Delivery is best
// effort: a placed order is already committed, so failures here are logged
// and counted, never propagated back to the shopper.
package notify

import (
	"context"
	"log/slog"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/telemetry"
)

// Notifier delivers one notification about a newly placed order.
type Notifier interface {
	// Channel names the delivery channel for logging and metrics.
	Channel() string

	// OrderCreated notifies about a newly placed order.
	OrderCreated(ctx context.Context, store *domain.Store, order *domain.Order) error
}

// Dispatcher fans an order event out to every configured channel.
type Dispatcher struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over the given channels. Nil notifiers
// are skipped so callers can pass optionally-configured channels directly.
func NewDispatcher(logger *slog.Logger, notifiers ...Notifier) *Dispatcher {
	d := &Dispatcher{logger: logger}
	for _, n := range notifiers {
		if n != nil {
			d.notifiers = append(d.notifiers, n)
		}
	}
	return d
}

// OrderCreated delivers to every channel. Each failure is logged and counted;
// the dispatcher never returns an error.
func (d *Dispatcher) OrderCreated(ctx context.Context, store *domain.Store, order *domain.Order) {
	for _, n := range d.notifiers {
		if err := n.OrderCreated(ctx, store, order); err != nil {
			d.logger.Error("notification delivery failed",
				"channel", n.Channel(),
				"order_id", order.ID,
				"order_number", order.OrderNumber,
				"error", err,
			)
			if telemetry.Business != nil {
				telemetry.Business.NotificationFailures.WithLabelValues(
					order.TenantID.String(), n.Channel(),
				).Inc()
			}
		}
	}
}
