package routes

import (
	"github.com/skagen/norna/internal/middleware"
	"github.com/skagen/norna/internal/router"
)

// RegisterPublicRoutes registers the shopper-facing storefront API.
// Every route resolves the storefront from the request subdomain; order
// tracking alone also works without one, because the tracking token is the
// capability.
func RegisterPublicRoutes(r *router.Router, deps PublicDeps) {
	resolved := r.Group(middleware.ResolveStorefront(deps.Storefront))

	// Order tracking (token is the only credential)
	resolved.Get("/api/orders/track/{token}", deps.TrackingHandler.Track)

	// Everything else needs a resolved storefront
	storefront := resolved.Group(middleware.RequireStorefront)

	// Store configuration
	storefront.Get("/api/store", deps.StoreHandler.Get)

	// Product catalog
	storefront.Get("/api/products", deps.CatalogHandler.List)

	// Cart synchronization
	storefront.Post("/api/cart/sync", deps.CartHandler.Sync)

	// Returning-customer pre-fill
	storefront.Post("/api/customers/lookup", deps.CustomerHandler.Lookup)

	// Checkout
	storefront.Post("/api/checkout", deps.CheckoutHandler.Place)
}
