// Package auth signs and verifies the session identifier carried by the
// cookie, and defines the identity value threaded through request contexts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

// IdentityKey is the request-context key for the authenticated identity.
const IdentityKey ctxKey = 1

// Identity is what a valid session resolves to. Handlers read it from the
// request context; no database round-trip is involved.
type Identity struct {
	UserID   int64
	Username string
	Email    string
}

// CookieName is the session cookie, kept from the original deployment.
const CookieName = "farmnav.sid"

var ErrInvalidToken = errors.New("invalid session token")

// Keys signs session identifiers with an HMAC secret. The token's subject is
// the session id and nothing else of substance.
type Keys struct {
	secret []byte
}

func NewKeys(secret string) (*Keys, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is empty")
	}
	return &Keys{secret: []byte(secret)}, nil
}

// SignSessionID wraps the session id in a signed token for the cookie.
func (k *Keys) SignSessionID(sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session id: %w", err)
	}
	return signed, nil
}

// ParseSessionID verifies the cookie value and returns the embedded session
// id. Tampered, expired or otherwise malformed tokens all come back as
// ErrInvalidToken.
func (k *Keys) ParseSessionID(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return k.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
