package tenant

import (
	"context"
	"errors"

	"github.com/skagen/norna/internal/domain"
)

// Resolver resolves a public store slug to tenant/store scope.
type Resolver interface {
	// BySlug resolves the storefront for a store slug.
	// Returns ErrStoreNotFound when no store exists for the slug and
	// ErrStoreInactive when the store exists but is unpublished.
	BySlug(ctx context.Context, slug string) (*domain.Storefront, error)
}

// RegistryResolver implements Resolver on top of the store registry.
type RegistryResolver struct {
	registry domain.StoreRegistry
}

// NewRegistryResolver creates a registry-backed storefront resolver.
func NewRegistryResolver(registry domain.StoreRegistry) *RegistryResolver {
	return &RegistryResolver{registry: registry}
}

// BySlug resolves the storefront for a store slug.
func (r *RegistryResolver) BySlug(ctx context.Context, slug string) (*domain.Storefront, error) {
	store, err := r.registry.ResolveSlug(ctx, slug)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if !store.IsActive {
		return nil, ErrStoreInactive
	}

	return &domain.Storefront{
		TenantID:  store.TenantID,
		StoreID:   store.ID,
		StoreSlug: store.Slug,
		Active:    store.IsActive,
	}, nil
}

// Compile-time check that RegistryResolver implements Resolver.
var _ Resolver = (*RegistryResolver)(nil)

// IsNotFound reports whether err means the storefront should 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStoreNotFound) || errors.Is(err, ErrStoreInactive)
}
