// Package admin contains the operator-facing API handlers. Every route
// except login runs behind session authentication; the session fixes the
// tenant scope for the whole request.
package admin

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skagen/norna/internal/auth"
	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/handler"
	"github.com/skagen/norna/internal/middleware"
	"github.com/skagen/norna/internal/service"
)

// AuthHandler handles operator login and logout.
type AuthHandler struct {
	operators service.OperatorService
	logger    *slog.Logger

	// secureCookies disables the Secure cookie flag for local development
	// over plain HTTP.
	secureCookies bool
}

// NewAuthHandler creates a new operator auth handler.
func NewAuthHandler(operators service.OperatorService, secureCookies bool, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{operators: operators, secureCookies: secureCookies, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type operatorView struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	StoreID uuid.UUID `json:"store_id"`
}

type loginResponse struct {
	Token    string       `json:"token"`
	Operator operatorView `json:"operator"`
}

// Login handles POST /admin/api/login - verifies credentials, mints a
// session, and sets the session cookie. The token is also returned in the
// body for non-browser clients that prefer the Authorization header.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	token, operator, err := h.operators.Login(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	handler.RespondJSON(w, http.StatusOK, loginResponse{
		Token: token,
		Operator: operatorView{
			ID:      operator.ID,
			Email:   operator.Email,
			Role:    operator.Role,
			StoreID: operator.StoreID,
		},
	})
}

// Logout handles POST /admin/api/logout - invalidates the session and clears
// the cookie. Succeeds even when the token is already gone.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := sessionTokenFromRequest(r)
	if token != "" {
		if err := h.operators.Logout(r.Context(), token); err != nil {
			handler.RespondError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	handler.RespondJSON(w, http.StatusNoContent, nil)
}

// Me handles GET /admin/api/me - the authenticated operator's identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	operator := domain.OperatorFromContext(r.Context())
	if operator == nil {
		handler.RespondError(w, r, domain.Unauthorized("admin.me", "Authentication required"))
		return
	}
	handler.RespondJSON(w, http.StatusOK, operatorView{
		ID:      operator.ID,
		Email:   operator.Email,
		Role:    operator.Role,
		StoreID: operator.StoreID,
	})
}

// sessionTokenFromRequest extracts the session token from the cookie or a
// bearer Authorization header.
func sessionTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, prefix) {
		return strings.TrimPrefix(h, prefix)
	}
	return ""
}
