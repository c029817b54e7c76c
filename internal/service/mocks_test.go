package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/skagen/norna/internal/domain"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockStoreRegistry implements domain.StoreRegistry for testing
type mockStoreRegistry struct {
	store    *domain.Store
	storeErr error

	updateCalled     bool
	lastUpdateParams domain.StoreSettingsParams
}

func (m *mockStoreRegistry) ResolveSlug(ctx context.Context, slug string) (*domain.Store, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	return m.store, nil
}

func (m *mockStoreRegistry) GetStore(ctx context.Context) (*domain.Store, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	return m.store, nil
}

func (m *mockStoreRegistry) UpdateSettings(ctx context.Context, params domain.StoreSettingsParams) (*domain.Store, error) {
	m.updateCalled = true
	m.lastUpdateParams = params
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	return m.store, nil
}

// mockCatalogStore implements domain.CatalogStore for testing
type mockCatalogStore struct {
	products   []domain.Product
	pricing    map[uuid.UUID]domain.ProductPricing
	pricingErr error
}

func (m *mockCatalogStore) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	if !activeOnly {
		return m.products, nil
	}
	var active []domain.Product
	for _, p := range m.products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (m *mockCatalogStore) GetPricing(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]domain.ProductPricing, error) {
	if m.pricingErr != nil {
		return nil, m.pricingErr
	}
	out := make(map[uuid.UUID]domain.ProductPricing)
	for _, id := range productIDs {
		if p, ok := m.pricing[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *mockCatalogStore) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *mockCatalogStore) UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error) {
	return nil, errors.New("not implemented in mock")
}

// mockOrderStore implements domain.OrderStore for testing
type mockOrderStore struct {
	order    *domain.Order
	orders   []domain.Order
	placeErr error
	getErr   error

	placeCalled     bool
	lastPlaceParams domain.PlaceOrderParams

	updateApplied bool
	updateErr     error
	updateCalled  bool
	lastFrom      domain.OrderStatus
	lastTo        domain.OrderStatus

	cancelApplied bool
	cancelErr     error
	cancelCalled  bool
	lastReason    domain.CancellationReason
	lastNotes     string
}

func (m *mockOrderStore) PlaceOrder(ctx context.Context, params domain.PlaceOrderParams) (*domain.Order, error) {
	m.placeCalled = true
	m.lastPlaceParams = params
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	if m.order != nil {
		return m.order, nil
	}
	order := &domain.Order{
		ID:               uuid.New(),
		TenantID:         domain.TenantIDFromContext(ctx),
		StoreID:          domain.StoreIDFromContext(ctx),
		OrderNumber:      1,
		Items:            params.Items,
		SubtotalCents:    params.SubtotalCents,
		DeliveryFeeCents: params.DeliveryFeeCents,
		TaxCents:         params.TaxCents,
		TotalCents:       params.TotalCents,
		PaymentMethod:    params.PaymentMethod,
		Fulfillment:      params.Fulfillment,
		ShippingAddress:  params.ShippingAddress,
		Status:           domain.OrderPending,
		TrackingToken:    params.TrackingToken,
		CustomerName:     params.CustomerName,
		CustomerPhone:    params.CustomerPhone,
		CustomerEmail:    params.CustomerEmail,
		PreferredContact: params.PreferredContact,
	}
	return order, nil
}

func (m *mockOrderStore) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.order == nil {
		return nil, ErrOrderNotFound
	}
	return m.order, nil
}

func (m *mockOrderStore) GetOrderByTrackingToken(ctx context.Context, token string) (*domain.Order, error) {
	if m.order == nil || m.order.TrackingToken != token {
		return nil, ErrOrderNotFound
	}
	return m.order, nil
}

func (m *mockOrderStore) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return m.orders, nil
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	m.updateCalled = true
	m.lastFrom = from
	m.lastTo = to
	if m.updateErr != nil {
		return false, m.updateErr
	}
	return m.updateApplied, nil
}

func (m *mockOrderStore) Cancel(ctx context.Context, orderID uuid.UUID, from domain.OrderStatus, reason domain.CancellationReason, notes string) (bool, error) {
	m.cancelCalled = true
	m.lastFrom = from
	m.lastReason = reason
	m.lastNotes = notes
	if m.cancelErr != nil {
		return false, m.cancelErr
	}
	return m.cancelApplied, nil
}

// mockCustomerStore implements domain.CustomerStore for testing
type mockCustomerStore struct {
	customer  *domain.Customer
	customers []domain.Customer
	lookupErr error
}

func (m *mockCustomerStore) LookupByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if m.customer != nil && m.customer.Phone == phone {
		return m.customer, nil
	}
	return nil, nil
}

func (m *mockCustomerStore) UpsertOnCheckout(ctx context.Context, params domain.CustomerUpsertParams) (*domain.Customer, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *mockCustomerStore) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return m.customers, nil
}

// ============================================================================
// Test Fixtures
// ============================================================================

var (
	testTenantID = uuid.MustParse("0e8c9a46-3f3a-4f8e-9c52-9a51b8a3f7d1")
	testStoreID  = uuid.MustParse("f0b5c1de-8f34-4c7e-9a3b-2e6d1c5a9f42")
)

func storefrontContext() context.Context {
	return domain.NewContextWithStorefront(context.Background(), &domain.Storefront{
		TenantID:  testTenantID,
		StoreID:   testStoreID,
		StoreSlug: "sandpoint",
		Active:    true,
	})
}

func testStore() *domain.Store {
	return &domain.Store{
		ID:             testStoreID,
		TenantID:       testTenantID,
		Slug:           "sandpoint",
		Name:           "Sandpoint Greens",
		IsActive:       true,
		PaymentMethods: []domain.PaymentMethod{domain.PaymentCash, domain.PaymentVenmo},
		ContactMethods: []domain.ContactMethod{domain.ContactPhone, domain.ContactText},
		DeliveryZones: []domain.DeliveryZone{
			{Zip: "83864", FeeCents: 500},
		},
		DefaultDeliveryFeeCents: 1000,
	}
}
