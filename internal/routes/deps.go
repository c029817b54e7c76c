// Package routes wires handlers onto the router. Route registration is kept
// separate from handler construction so main stays a straight-line wiring of
// config into dependencies.
package routes

import (
	"github.com/skagen/norna/internal/handler/admin"
	"github.com/skagen/norna/internal/handler/public"
	"github.com/skagen/norna/internal/middleware"
	"github.com/skagen/norna/internal/service"
)

// PublicDeps contains dependencies for the shopper-facing storefront API.
type PublicDeps struct {
	// Storefront resolution
	Storefront middleware.StorefrontConfig

	// Store configuration
	StoreHandler *public.StoreHandler

	// Catalog
	CatalogHandler *public.CatalogHandler

	// Cart synchronization
	CartHandler *public.CartHandler

	// Checkout
	CheckoutHandler *public.CheckoutHandler

	// Order tracking
	TrackingHandler *public.TrackingHandler

	// Returning-customer lookup
	CustomerHandler *public.CustomerHandler
}

// AdminDeps contains dependencies for the operator API.
type AdminDeps struct {
	// Storefront resolution (shared with the public surface; admin requests
	// arriving on a storefront subdomain are pinned to that tenant)
	Storefront middleware.StorefrontConfig

	// Session authentication
	Operators service.OperatorService

	// Auth
	AuthHandler *admin.AuthHandler

	// Orders
	OrderHandler *admin.OrderHandler

	// Customers
	CustomerHandler *admin.CustomerHandler

	// Products
	ProductHandler *admin.ProductHandler

	// Settings
	SettingsHandler *admin.SettingsHandler
}
