package routes

import (
	"github.com/skagen/norna/internal/middleware"
	"github.com/skagen/norna/internal/router"
)

// RegisterAdminRoutes registers the operator API at /admin/api/*.
// All routes except login resolve the session to a tenant-scoped operator;
// when the request arrives on a storefront subdomain the session must belong
// to that storefront's tenant.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	resolved := r.Group(middleware.ResolveStorefront(deps.Storefront))

	// Auth
	resolved.Post("/admin/api/login", deps.AuthHandler.Login)
	resolved.Post("/admin/api/logout", deps.AuthHandler.Logout)

	admin := resolved.Group(middleware.RequireOperator(deps.Operators))

	admin.Get("/admin/api/me", deps.AuthHandler.Me)

	// Order management
	admin.Get("/admin/api/orders", deps.OrderHandler.List)
	admin.Get("/admin/api/orders/{id}", deps.OrderHandler.Get)
	admin.Post("/admin/api/orders/{id}/status", deps.OrderHandler.UpdateStatus)
	admin.Post("/admin/api/orders/{id}/cancel", deps.OrderHandler.Cancel)

	// Customer management
	admin.Get("/admin/api/customers", deps.CustomerHandler.List)

	// Catalog management
	admin.Get("/admin/api/products", deps.ProductHandler.List)
	admin.Post("/admin/api/products", deps.ProductHandler.Create)
	admin.Patch("/admin/api/products/{id}", deps.ProductHandler.Update)

	// Store settings (owner only)
	admin.Get("/admin/api/settings", deps.SettingsHandler.Get)
	admin.Put("/admin/api/settings", deps.SettingsHandler.Update, middleware.RequireOwner)
}
