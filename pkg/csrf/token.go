// Package csrf issues the opaque anti-forgery tokens handed out by
// GET /api/csrf-token. The gateway checks only that state-changing
// requests carry *a* token; issued values are not stored server-side.
package csrf

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenBytes is the entropy of an issued token (64 hex chars on the wire).
const TokenBytes = 32

// NewToken returns a fresh random token.
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HeaderName is the request header the gateway inspects for a token.
const HeaderName = "X-CSRF-Token"
