package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/skagen/norna/internal/auth"
	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/telemetry"
)

// Operator auth errors. Login failures collapse onto one message so the
// response never reveals whether the email exists.
var (
	ErrInvalidCredentials = domain.Errorf(domain.EUNAUTHORIZED, "", "Invalid email or password")
	ErrSessionExpired     = domain.Errorf(domain.EUNAUTHORIZED, "", "Session expired, log in again")
)

// OperatorService authenticates store operators and resolves their sessions.
type OperatorService interface {
	// Login verifies credentials and mints a session token.
	Login(ctx context.Context, email, password string) (string, *domain.Operator, error)

	// Logout invalidates the session token. Unknown tokens are a no-op.
	Logout(ctx context.Context, token string) error

	// OperatorByToken resolves a session token to its operator.
	OperatorByToken(ctx context.Context, token string) (*domain.Operator, error)
}

type operatorService struct {
	operators domain.OperatorStore
	logger    *slog.Logger
}

// NewOperatorService creates a new OperatorService instance
func NewOperatorService(operators domain.OperatorStore, logger *slog.Logger) OperatorService {
	return &operatorService{operators: operators, logger: logger}
}

func (s *operatorService) Login(ctx context.Context, email, password string) (string, *domain.Operator, error) {
	account, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		s.loginFailed("operator_not_found")
		return "", nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		s.loginFailed("account_inactive")
		return "", nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(password, account.PasswordHash); err != nil {
		s.loginFailed("invalid_password")
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", nil, domain.Internal(err, "operator.login", "failed to generate session token")
	}
	expiresAt := time.Now().Add(auth.SessionTTL)
	if err := s.operators.CreateSession(ctx, account.ID, auth.HashSessionToken(token), expiresAt); err != nil {
		return "", nil, err
	}

	s.logger.Info("operator logged in",
		"operator_id", account.ID,
		"tenant_id", account.TenantID,
	)
	if telemetry.Business != nil {
		telemetry.Business.Logins.WithLabelValues(account.TenantID.String()).Inc()
	}
	return token, account.Authenticated(), nil
}

func (s *operatorService) Logout(ctx context.Context, token string) error {
	return s.operators.DeleteSession(ctx, auth.HashSessionToken(token))
}

func (s *operatorService) OperatorByToken(ctx context.Context, token string) (*domain.Operator, error) {
	account, err := s.operators.GetBySessionTokenHash(ctx, auth.HashSessionToken(token))
	if err != nil {
		return nil, ErrSessionExpired
	}
	if !account.IsActive {
		return nil, ErrSessionExpired
	}
	return account.Authenticated(), nil
}

func (s *operatorService) loginFailed(reason string) {
	if telemetry.Business != nil {
		telemetry.Business.LoginFailed.WithLabelValues(reason).Inc()
	}
}
