package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims extends the standard JWT claims with the reader identity
// and the entitlement flag used by the access gate.
type SessionClaims struct {
	Email                string `json:"email"`               // Reader email
	UserUID              string `json:"user_uid"`            // Internal user id
	ActiveSubscription   bool   `json:"active_subscription"` // Entitlement flag stamped at sign-in
	jwt.RegisteredClaims        // Standard claims (ExpiresAt, IssuedAt, ...)
}

// GenerateToken creates a session token for the given user, signed with
// the secret key. The token lifetime is defined by tokenTTL.
func (j *MakerImpl) GenerateToken(email, userUID string, activeSubscription bool) (string, error) {
	claims := SessionClaims{
		Email:              email,
		UserUID:            userUID,
		ActiveSubscription: activeSubscription,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken parses a session token, checks its signature and validity,
// and returns the SessionClaims when the token is correct.
func (j *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
