package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/telemetry"
)

// OrderCreatedEvent is the message published to the bus when an order is
// placed. Downstream consumers (fulfillment dashboards, SMS relays) subscribe
// per store slug.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   int64     `json:"order_number"`
	TenantID      uuid.UUID `json:"tenant_id"`
	StoreSlug     string    `json:"store_slug"`
	TotalCents    int64     `json:"total_cents"`
	ItemCount     int       `json:"item_count"`
	Fulfillment   string    `json:"fulfillment"`
	PaymentMethod string    `json:"payment_method"`
	PlacedAt      time.Time `json:"placed_at"`
}

// EventPublisher publishes order events to NATS.
type EventPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewEventPublisher connects to NATS and returns a publisher. subjectPrefix
// defaults to "orders" when empty.
func NewEventPublisher(url, subjectPrefix string) (*EventPublisher, error) {
	if subjectPrefix == "" {
		subjectPrefix = "orders"
	}
	conn, err := nats.Connect(url,
		nats.Name("norna-server"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return &EventPublisher{conn: conn, subjectPrefix: subjectPrefix}, nil
}

// Channel names the delivery channel.
func (p *EventPublisher) Channel() string { return "events" }

// OrderCreated publishes the order to <prefix>.created.<store-slug>.
func (p *EventPublisher) OrderCreated(ctx context.Context, store *domain.Store, order *domain.Order) error {
	event := OrderCreatedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		TenantID:      order.TenantID,
		StoreSlug:     store.Slug,
		TotalCents:    order.TotalCents,
		ItemCount:     len(order.Items),
		Fulfillment:   string(order.Fulfillment),
		PaymentMethod: string(order.PaymentMethod),
		PlacedAt:      order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}

	subject := fmt.Sprintf("%s.created.%s", p.subjectPrefix, store.Slug)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	if telemetry.Business != nil {
		telemetry.Business.EventsPublished.WithLabelValues(order.TenantID.String(), subject).Inc()
	}
	return nil
}

// Close drains the connection, flushing pending publishes.
func (p *EventPublisher) Close() error {
	return p.conn.Drain()
}
