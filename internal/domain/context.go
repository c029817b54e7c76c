// Package domain provides core business types and context helpers for Norna.
//
// Context helpers centralize request-scoped data access, making tenant isolation
// bugs harder to write and providing consistent patterns throughout the codebase.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// storefrontContextKey stores the resolved storefront in context.
	storefrontContextKey contextKey = iota

	// operatorContextKey stores operator (admin user) information in context.
	operatorContextKey

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Storefront is the resolved tenant/store pair stored in context by the
// storefront resolution middleware. It is the mandatory capability object
// every data-access call derives its tenant scope from.
type Storefront struct {
	TenantID  uuid.UUID
	StoreID   uuid.UUID
	StoreSlug string
	Active    bool
}

// Operator represents operator (admin) information stored in context.
// Operators manage one tenant's store through the admin interface; their
// tenant binding is fixed at login and never widened per request.
type Operator struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	StoreID  uuid.UUID
	Email    string
	Role     string // "owner", "staff"
}

// --- Storefront context helpers ---

// NewContextWithStorefront returns a new context with the storefront attached.
func NewContextWithStorefront(ctx context.Context, sf *Storefront) context.Context {
	return context.WithValue(ctx, storefrontContextKey, sf)
}

// StorefrontFromContext retrieves the storefront from context.
// Returns nil if no storefront is present.
func StorefrontFromContext(ctx context.Context) *Storefront {
	sf, _ := ctx.Value(storefrontContextKey).(*Storefront)
	return sf
}

// TenantIDFromContext retrieves the tenant ID from context, from either the
// storefront (public routes) or the operator session (admin routes).
// Returns uuid.Nil if neither is present.
func TenantIDFromContext(ctx context.Context) uuid.UUID {
	if sf := StorefrontFromContext(ctx); sf != nil {
		return sf.TenantID
	}
	if op := OperatorFromContext(ctx); op != nil {
		return op.TenantID
	}
	return uuid.Nil
}

// StoreIDFromContext retrieves the store ID from context.
// Returns uuid.Nil if no scope is present.
func StoreIDFromContext(ctx context.Context) uuid.UUID {
	if sf := StorefrontFromContext(ctx); sf != nil {
		return sf.StoreID
	}
	if op := OperatorFromContext(ctx); op != nil {
		return op.StoreID
	}
	return uuid.Nil
}

// RequireTenantID retrieves the tenant ID from context, returning
// ErrTenantRequired when absent. Services call this at the top of every
// operation; the tenant scope is never an optional filter.
func RequireTenantID(ctx context.Context) (uuid.UUID, error) {
	id := TenantIDFromContext(ctx)
	if id == uuid.Nil {
		return uuid.Nil, ErrTenantRequired
	}
	return id, nil
}

// RequireScope retrieves both tenant and store IDs, returning
// ErrTenantRequired if either is missing.
func RequireScope(ctx context.Context) (tenantID, storeID uuid.UUID, err error) {
	tenantID = TenantIDFromContext(ctx)
	storeID = StoreIDFromContext(ctx)
	if tenantID == uuid.Nil || storeID == uuid.Nil {
		return uuid.Nil, uuid.Nil, ErrTenantRequired
	}
	return tenantID, storeID, nil
}

// --- Operator context helpers ---

// NewContextWithOperator returns a new context with the operator attached.
func NewContextWithOperator(ctx context.Context, operator *Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey, operator)
}

// OperatorFromContext retrieves the operator from context.
// Returns nil if no operator is present.
func OperatorFromContext(ctx context.Context) *Operator {
	operator, _ := ctx.Value(operatorContextKey).(*Operator)
	return operator
}

// --- Request ID context helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
