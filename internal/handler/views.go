package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/skagen/norna/internal/domain"
)

// View types shape API responses. Domain structs stay JSON-free; every
// surface decides what it exposes here.

// StoreView is the public storefront configuration document.
type StoreView struct {
	Slug                    string                 `json:"slug"`
	Name                    string                 `json:"name"`
	PaymentMethods          []domain.PaymentMethod `json:"payment_methods"`
	ContactMethods          []domain.ContactMethod `json:"contact_methods"`
	DeliveryZones           []domain.DeliveryZone  `json:"delivery_zones"`
	DefaultDeliveryFeeCents int64                  `json:"default_delivery_fee_cents"`
	Theme                   map[string]any         `json:"theme,omitempty"`
}

// NewStoreView builds the public view of a store.
func NewStoreView(s *domain.Store) StoreView {
	return StoreView{
		Slug:                    s.Slug,
		Name:                    s.Name,
		PaymentMethods:          s.PaymentMethods,
		ContactMethods:          s.ContactMethods,
		DeliveryZones:           s.DeliveryZones,
		DefaultDeliveryFeeCents: s.DefaultDeliveryFeeCents,
		Theme:                   s.Theme,
	}
}

// AdminStoreView extends the public view with operator-only fields.
type AdminStoreView struct {
	StoreView
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAdminStoreView builds the admin view of a store.
func NewAdminStoreView(s *domain.Store) AdminStoreView {
	return AdminStoreView{
		StoreView: NewStoreView(s),
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ProductView is a catalog item as both surfaces expose it. The public
// listing only ever contains active products, so is_active adds no signal
// there but keeps the two surfaces' documents interchangeable.
type ProductView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	PriceCents    int64     `json:"price_cents"`
	StockQuantity int32     `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProductView builds a product view.
func NewProductView(p *domain.Product) ProductView {
	return ProductView{
		ID:            p.ID,
		Name:          p.Name,
		PriceCents:    p.PriceCents,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewProductViews builds views for a product list.
func NewProductViews(products []domain.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = NewProductView(&products[i])
	}
	return views
}

// OrderView is the admin order document.
type OrderView struct {
	ID                 uuid.UUID                 `json:"id"`
	OrderNumber        int64                     `json:"order_number"`
	Status             domain.OrderStatus        `json:"status"`
	Items              []domain.OrderItem        `json:"items"`
	SubtotalCents      int64                     `json:"subtotal_cents"`
	DeliveryFeeCents   int64                     `json:"delivery_fee_cents"`
	TaxCents           int64                     `json:"tax_cents"`
	TotalCents         int64                     `json:"total_cents"`
	PaymentMethod      domain.PaymentMethod      `json:"payment_method"`
	Fulfillment        domain.FulfillmentMethod  `json:"fulfillment"`
	ShippingAddress    *domain.ShippingAddress   `json:"shipping_address,omitempty"`
	CancellationReason domain.CancellationReason `json:"cancellation_reason,omitempty"`
	CancellationNotes  string                    `json:"cancellation_notes,omitempty"`
	TrackingToken      string                    `json:"tracking_token"`
	CustomerID         *uuid.UUID                `json:"customer_id,omitempty"`
	CustomerName       string                    `json:"customer_name"`
	CustomerPhone      string                    `json:"customer_phone"`
	CustomerEmail      string                    `json:"customer_email,omitempty"`
	PreferredContact   domain.ContactMethod      `json:"preferred_contact"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// NewOrderView builds the admin view of an order.
func NewOrderView(o *domain.Order) OrderView {
	v := OrderView{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		Status:             o.Status,
		Items:              o.Items,
		SubtotalCents:      o.SubtotalCents,
		DeliveryFeeCents:   o.DeliveryFeeCents,
		TaxCents:           o.TaxCents,
		TotalCents:         o.TotalCents,
		PaymentMethod:      o.PaymentMethod,
		Fulfillment:        o.Fulfillment,
		ShippingAddress:    o.ShippingAddress,
		CancellationReason: o.CancellationReason,
		CancellationNotes:  o.CancellationNotes,
		TrackingToken:      o.TrackingToken,
		CustomerName:       o.CustomerName,
		CustomerPhone:      o.CustomerPhone,
		CustomerEmail:      o.CustomerEmail,
		PreferredContact:   o.PreferredContact,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.CustomerID != uuid.Nil {
		id := o.CustomerID
		v.CustomerID = &id
	}
	return v
}

// NewOrderViews builds views for an order list.
func NewOrderViews(orders []domain.Order) []OrderView {
	views := make([]OrderView, len(orders))
	for i := range orders {
		views[i] = NewOrderView(&orders[i])
	}
	return views
}

// TrackingView is the unauthenticated order status document. The tracking
// token grants the shopper a read on their own order, not on the store's
// operational data, so customer contact details and internal IDs stay out.
type TrackingView struct {
	OrderNumber        int64                     `json:"order_number"`
	Status             domain.OrderStatus        `json:"status"`
	Items              []domain.OrderItem        `json:"items"`
	SubtotalCents      int64                     `json:"subtotal_cents"`
	DeliveryFeeCents   int64                     `json:"delivery_fee_cents"`
	TaxCents           int64                     `json:"tax_cents"`
	TotalCents         int64                     `json:"total_cents"`
	PaymentMethod      domain.PaymentMethod      `json:"payment_method"`
	Fulfillment        domain.FulfillmentMethod  `json:"fulfillment"`
	ShippingAddress    *domain.ShippingAddress   `json:"shipping_address,omitempty"`
	CancellationReason domain.CancellationReason `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// NewTrackingView builds the shopper-facing view of an order.
func NewTrackingView(o *domain.Order) TrackingView {
	return TrackingView{
		OrderNumber:        o.OrderNumber,
		Status:             o.Status,
		Items:              o.Items,
		SubtotalCents:      o.SubtotalCents,
		DeliveryFeeCents:   o.DeliveryFeeCents,
		TaxCents:           o.TaxCents,
		TotalCents:         o.TotalCents,
		PaymentMethod:      o.PaymentMethod,
		Fulfillment:        o.Fulfillment,
		ShippingAddress:    o.ShippingAddress,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// CustomerView is the admin customer document.
type CustomerView struct {
	ID               uuid.UUID            `json:"id"`
	Phone            string               `json:"phone"`
	Email            string               `json:"email,omitempty"`
	FirstName        string               `json:"first_name"`
	LastName         string               `json:"last_name"`
	PreferredContact domain.ContactMethod `json:"preferred_contact"`
	Address          string               `json:"address,omitempty"`
	ReferralSource   string               `json:"referral_source"`
	CustomerType     string               `json:"customer_type"`
	Status           string               `json:"status"`
	TotalOrders      int32                `json:"total_orders"`
	TotalSpentCents  int64                `json:"total_spent_cents"`
	LastPurchaseAt   *time.Time           `json:"last_purchase_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// NewCustomerView builds the admin view of a customer.
func NewCustomerView(c *domain.Customer) CustomerView {
	v := CustomerView{
		ID:               c.ID,
		Phone:            c.Phone,
		Email:            c.Email,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		PreferredContact: c.PreferredContact,
		Address:          c.Address,
		ReferralSource:   c.ReferralSource,
		CustomerType:     c.CustomerType,
		Status:           c.Status,
		TotalOrders:      c.TotalOrders,
		TotalSpentCents:  c.TotalSpentCents,
		CreatedAt:        c.CreatedAt,
	}
	if !c.LastPurchaseAt.IsZero() {
		t := c.LastPurchaseAt
		v.LastPurchaseAt = &t
	}
	return v
}

// NewCustomerViews builds views for a customer list.
func NewCustomerViews(customers []domain.Customer) []CustomerView {
	views := make([]CustomerView, len(customers))
	for i := range customers {
		views[i] = NewCustomerView(&customers[i])
	}
	return views
}
