// Package jwt implements generation and parsing of session tokens.
//
// The session claims carry the signed-in reader's email, user uid and the
// precomputed entitlement flag. The flag is stamped at sign-in, so its
// staleness is bounded by the token TTL.
package jwt

import (
	"time"
)

// Maker describes the interface for generating and parsing session tokens.
type Maker interface {
	// GenerateToken issues a token for the given user.
	GenerateToken(email, userUID string, activeSubscription bool) (string, error)
	// ParseToken validates a token and returns its SessionClaims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl implements Maker with an HMAC secret key and a token TTL.
type MakerImpl struct {
	secretKey string        // Secret key used to sign tokens
	tokenTTL  time.Duration // Token lifetime
}

// NewMaker creates a MakerImpl from a secret key and TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
