package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/skagen/norna/internal/telemetry"
	"github.com/skagen/norna/internal/tenant"
)

// StorefrontConfig holds configuration for storefront resolution middleware.
type StorefrontConfig struct {
	// BaseDomain is the root domain for subdomain extraction (e.g.,
	// "norna.shop" or "lvh.me:3000"). Store subdomains are extracted as:
	// {slug}.BaseDomain
	BaseDomain string

	// Resolver is the storefront resolver for database lookups.
	Resolver tenant.Resolver

	// Logger is the structured logger for middleware operations.
	// If nil, uses slog.Default().
	Logger *slog.Logger
}

// ResolveStorefront creates middleware that resolves the storefront from the
// request host.
//
// Resolution order:
//  1. Check if host is BaseDomain (apex) - skip resolution (marketing site)
//  2. Check for "www" subdomain - redirect to BaseDomain
//  3. Check if host is a subdomain of BaseDomain - resolve by slug
//
// Unknown slugs and unpublished stores both respond 404: the public surface
// never distinguishes "does not exist" from "not live yet".
func ResolveStorefront(cfg StorefrontConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := stripPort(r.Host)
			baseDomainHost := stripPort(cfg.BaseDomain)

			// Apex requests carry no storefront; routes gate with
			// RequireStorefront.
			if host == baseDomainHost {
				next.ServeHTTP(w, r)
				return
			}

			subdomain := extractSubdomain(host, baseDomainHost)
			if subdomain == "www" {
				redirectURL := "https://" + cfg.BaseDomain + r.URL.Path
				if r.URL.RawQuery != "" {
					redirectURL += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, redirectURL, http.StatusMovedPermanently)
				return
			}
			if subdomain == "" {
				respondNotFound(w, r)
				return
			}

			sf, err := cfg.Resolver.BySlug(r.Context(), subdomain)
			if err != nil {
				if tenant.IsNotFound(err) {
					respondNotFound(w, r)
					return
				}
				logger.Error("storefront resolution failed", "host", host, "error", err)
				respondInternalError(w, r, err)
				return
			}

			if telemetry.Business != nil {
				telemetry.Business.StorefrontResolved.WithLabelValues(sf.TenantID.String()).Inc()
			}

			ctx := tenant.NewContext(r.Context(), sf)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStorefront ensures a storefront is present in context. Returns 404
// if none was resolved. Apply AFTER ResolveStorefront.
func RequireStorefront(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tenant.FromContext(r.Context()) == nil {
			respondNotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractSubdomain extracts the subdomain from a host given a base domain.
// Returns empty string if host doesn't have a subdomain or doesn't match
// base domain. Nested subdomains are rejected.
//
// Examples:
//
//	extractSubdomain("sandpoint.norna.shop", "norna.shop") -> "sandpoint"
//	extractSubdomain("norna.shop", "norna.shop") -> ""
//	extractSubdomain("a.b.norna.shop", "norna.shop") -> ""
func extractSubdomain(host, baseDomain string) string {
	suffix := "." + baseDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}

	subdomain := strings.TrimSuffix(host, suffix)
	if subdomain == "" || strings.Contains(subdomain, ".") {
		return ""
	}

	return subdomain
}

// stripPort removes the port from a host string.
// Returns the host unchanged if no port is present.
func stripPort(host string) string {
	if colonIndex := strings.Index(host, ":"); colonIndex != -1 {
		return host[:colonIndex]
	}
	return host
}
