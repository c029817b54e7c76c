package middleware

import (
	"net/http"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/service"
	"github.com/skagen/norna/internal/tenant"
)

// SessionCookieName is the operator session cookie.
const SessionCookieName = "norna_session"

// sessionToken extracts the session token from the cookie or, for API
// clients, a bearer Authorization header.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

// RequireOperator authenticates the operator session and installs the
// operator's own tenant/store scope on the context. Admin requests carry no
// client-supplied tenant identifiers; the session is the only source of
// scope, so a stolen admin URL for another store resolves nothing.
func RequireOperator(operators service.OperatorService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				respondUnauthorized(w, r)
				return
			}

			operator, err := operators.OperatorByToken(r.Context(), token)
			if err != nil {
				respondUnauthorized(w, r)
				return
			}

			// When the admin API is reached through a storefront subdomain,
			// the session must belong to that storefront's tenant. Fail
			// closed on any mismatch.
			if sf := tenant.FromContext(r.Context()); sf != nil && sf.TenantID != operator.TenantID {
				respondForbidden(w, r)
				return
			}

			ctx := domain.NewContextWithOperator(r.Context(), operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOwner ensures the operator has the owner role.
// Must be used after RequireOperator middleware.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator := domain.OperatorFromContext(r.Context())
		if operator == nil {
			respondUnauthorized(w, r)
			return
		}
		if operator.Role != domain.RoleOwner {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
