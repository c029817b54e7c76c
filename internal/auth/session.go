package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

// SessionTTL is how long an operator session stays valid.
const SessionTTL = 30 * 24 * time.Hour

// GenerateSessionToken generates a cryptographically secure session token.
// Uses 32 bytes of random data encoded as base64 URL-safe string.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HashSessionToken returns the hex SHA-256 of a token. Only the hash is
// stored, so a database read never yields usable session tokens.
func HashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
