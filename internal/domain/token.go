package domain

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateTrackingToken generates a cryptographically secure, URL-safe
// tracking token for customer-facing order access.
func GenerateTrackingToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
