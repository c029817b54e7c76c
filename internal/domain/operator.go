package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Operator roles.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// OperatorAccount is a store operator's credential record. The Operator type
// in context.go is the authenticated projection carried on requests; this is
// the stored account.
type OperatorAccount struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	StoreID      uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Authenticated converts the account to its request-context projection.
func (a *OperatorAccount) Authenticated() *Operator {
	return &Operator{
		ID:       a.ID,
		TenantID: a.TenantID,
		StoreID:  a.StoreID,
		Email:    a.Email,
		Role:     a.Role,
	}
}

// OperatorStore persists operator accounts and their sessions. Lookups here
// run before any tenant is established, so they are keyed globally; the
// account's own TenantID becomes the request's tenant capability afterwards.
type OperatorStore interface {
	// GetByEmail returns the account for the email, or ENOTFOUND.
	GetByEmail(ctx context.Context, email string) (*OperatorAccount, error)

	// CreateSession records a session token hash with an expiry.
	CreateSession(ctx context.Context, operatorID uuid.UUID, tokenHash string, expiresAt time.Time) error

	// GetBySessionTokenHash resolves an unexpired session to its account.
	GetBySessionTokenHash(ctx context.Context, tokenHash string) (*OperatorAccount, error)

	// DeleteSession removes a session. Deleting an unknown hash is a no-op.
	DeleteSession(ctx context.Context, tokenHash string) error
}
