package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
// All metrics include tenant_id label for multi-tenant dashboard segmentation.
type BusinessMetrics struct {
	// Storefront engagement
	StorefrontResolved *prometheus.CounterVec
	CatalogViews       *prometheus.CounterVec
	CartSyncs          *prometheus.CounterVec
	CartSyncDrift      *prometheus.CounterVec

	// Checkout funnel
	CheckoutCompleted  *prometheus.CounterVec
	CheckoutRejected   *prometheus.CounterVec
	OversellRejections *prometheus.CounterVec

	// Orders
	OrdersCreated    *prometheus.CounterVec
	OrderValue       *prometheus.HistogramVec
	OrderItemCount   *prometheus.HistogramVec
	OrdersAdvanced   *prometheus.CounterVec
	OrdersCancelled  *prometheus.CounterVec
	StockRestored    *prometheus.CounterVec
	TrackingLookups  *prometheus.CounterVec

	// Customers
	CustomerUpserts *prometheus.CounterVec
	CustomerLookups *prometheus.CounterVec

	// Auth
	Logins      *prometheus.CounterVec
	LoginFailed *prometheus.CounterVec

	// Notifications
	EventsPublished      *prometheus.CounterVec
	EmailSent            *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "norna"
	}

	subsystem := "business"

	m := &BusinessMetrics{
		// =======================================================================
		// Storefront Engagement
		// =======================================================================
		StorefrontResolved: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "storefront_resolved_total",
				Help:      "Total successful slug to storefront resolutions",
			},
			[]string{"tenant_id"},
		),
		CatalogViews: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_views_total",
				Help:      "Total product catalog list requests",
			},
			[]string{"tenant_id"},
		),
		CartSyncs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_syncs_total",
				Help:      "Total cart reconciliation requests",
			},
			[]string{"tenant_id"},
		),
		CartSyncDrift: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_sync_drift_total",
				Help:      "Total cart lines that drifted from their client snapshot",
			},
			[]string{"tenant_id", "reason"}, // reason: price_changed, now_out_of_stock, now_limited
		),

		// =======================================================================
		// Checkout Funnel
		// =======================================================================
		CheckoutCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_completed_total",
				Help:      "Total successful checkouts",
			},
			[]string{"tenant_id", "payment_method", "fulfillment"},
		),
		CheckoutRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_rejected_total",
				Help:      "Total checkouts rejected at validation",
			},
			[]string{"tenant_id", "reason"}, // reason: payment_method, validation, out_of_stock
		),
		OversellRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "oversell_rejections_total",
				Help:      "Total placements aborted by the conditional stock reservation",
			},
			[]string{"tenant_id"},
		),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders created",
			},
			[]string{"tenant_id", "fulfillment"}, // fulfillment: delivery, pickup
		),
		OrderValue: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_cents",
				Help:      "Order value distribution in cents",
				Buckets:   []float64{1000, 2500, 5000, 7500, 10000, 15000, 25000, 50000, 100000},
			},
			[]string{"tenant_id"},
		),
		OrderItemCount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of items per order",
				Buckets:   []float64{1, 2, 3, 5, 10, 15, 20},
			},
			[]string{"tenant_id"},
		),
		OrdersAdvanced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_advanced_total",
				Help:      "Total forward status transitions applied by admins",
			},
			[]string{"tenant_id", "to_status"},
		),
		OrdersCancelled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_cancelled_total",
				Help:      "Total orders cancelled",
			},
			[]string{"tenant_id", "reason"},
		),
		StockRestored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stock_restored_units_total",
				Help:      "Total units returned to stock by cancellations",
			},
			[]string{"tenant_id"},
		),
		TrackingLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tracking_lookups_total",
				Help:      "Total order lookups by tracking token",
			},
			[]string{"result"}, // result: found, not_found
		),

		// =======================================================================
		// Customers
		// =======================================================================
		CustomerUpserts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "customer_upserts_total",
				Help:      "Total customer records created or updated at checkout",
			},
			[]string{"tenant_id", "outcome"}, // outcome: created, updated
		),
		CustomerLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "customer_lookups_total",
				Help:      "Total returning-customer phone lookups",
			},
			[]string{"tenant_id", "result"}, // result: found, not_found
		),

		// =======================================================================
		// Auth
		// =======================================================================
		Logins: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Total successful operator logins",
			},
			[]string{"tenant_id"},
		),
		LoginFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "login_failed_total",
				Help:      "Total failed operator login attempts",
			},
			[]string{"reason"}, // reason: invalid_password, operator_not_found
		),

		// =======================================================================
		// Notifications
		// =======================================================================
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_published_total",
				Help:      "Total order events published to the message bus",
			},
			[]string{"tenant_id", "subject"},
		),
		EmailSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "emails_sent_total",
				Help:      "Total confirmation emails sent",
			},
			[]string{"tenant_id"},
		),
		NotificationFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notification_failures_total",
				Help:      "Total notification deliveries that failed (order placement unaffected)",
			},
			[]string{"tenant_id", "channel"}, // channel: events, email
		),
	}

	return m
}

// Global instance for easy access from handlers
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics instance
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace)
	return Business
}
