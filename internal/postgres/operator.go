package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skagen/norna/internal/domain"
)

// OperatorStore implements domain.OperatorStore using PostgreSQL.
type OperatorStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that OperatorStore implements domain.OperatorStore.
var _ domain.OperatorStore = (*OperatorStore)(nil)

// NewOperatorStore creates a new PostgreSQL-backed operator store.
func NewOperatorStore(pool *pgxpool.Pool) *OperatorStore {
	return &OperatorStore{pool: pool}
}

const operatorColumns = `
	id, tenant_id, store_id, email, password_hash, role, is_active,
	created_at, updated_at
`

func scanOperator(row pgx.Row) (*domain.OperatorAccount, error) {
	var a domain.OperatorAccount
	err := row.Scan(
		&a.ID, &a.TenantID, &a.StoreID, &a.Email, &a.PasswordHash, &a.Role,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByEmail returns the account for the email. Login runs before any tenant
// is established, so the lookup is global.
func (s *OperatorStore) GetByEmail(ctx context.Context, email string) (*domain.OperatorAccount, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE email = $1`,
		email,
	)
	account, err := scanOperator(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("operator.get", "operator", email)
		}
		return nil, domain.Internal(err, "operator.get", "failed to get operator")
	}
	return account, nil
}

// CreateSession records a session token hash with an expiry.
func (s *OperatorStore) CreateSession(ctx context.Context, operatorID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO operator_sessions (operator_id, token_hash, expires_at)
		VALUES ($1, $2, $3)`,
		operatorID, tokenHash, expiresAt,
	)
	if err != nil {
		return domain.Internal(err, "operator.session", "failed to create session")
	}
	return nil
}

// GetBySessionTokenHash resolves an unexpired session to its account.
func (s *OperatorStore) GetBySessionTokenHash(ctx context.Context, tokenHash string) (*domain.OperatorAccount, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT o.id, o.tenant_id, o.store_id, o.email, o.password_hash, o.role,
		       o.is_active, o.created_at, o.updated_at
		FROM operators o
		JOIN operator_sessions s ON s.operator_id = o.id
		WHERE s.token_hash = $1 AND s.expires_at > now()`,
		tokenHash,
	)
	account, err := scanOperator(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Unauthorized("operator.session", "session not found or expired")
		}
		return nil, domain.Internal(err, "operator.session", "failed to resolve session")
	}
	return account, nil
}

// DeleteSession removes a session. Deleting an unknown hash is a no-op.
func (s *OperatorStore) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM operator_sessions WHERE token_hash = $1`,
		tokenHash,
	)
	if err != nil {
		return domain.Internal(err, "operator.session", "failed to delete session")
	}
	return nil
}
