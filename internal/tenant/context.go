// Package tenant resolves public store slugs to tenant/store scope.
//
// Resolution happens once per request in middleware; everything downstream
// reads the scope from context through the domain helpers.
package tenant

import (
	"context"

	"github.com/skagen/norna/internal/domain"
)

// NewContext returns a new context carrying the resolved storefront.
func NewContext(ctx context.Context, sf *domain.Storefront) context.Context {
	return domain.NewContextWithStorefront(ctx, sf)
}

// FromContext retrieves the resolved storefront, or nil.
func FromContext(ctx context.Context) *domain.Storefront {
	return domain.StorefrontFromContext(ctx)
}
