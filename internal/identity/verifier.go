// Package identity verifies bearer credentials issued by the external
// identity provider and resolves them to a tenant identifier.
package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("token invalido o expirado")
	ErrNoSubject    = errors.New("token sin identificador de usuario")
)

// Verifier validates HS256 bearer tokens against the shared provider secret.
// Constructed once at startup and immutable afterwards; a malformed secret
// fails the process at boot instead of on the first request.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("identity: JWT secret must be at least 16 bytes")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// VerifyToken parses and validates the credential and returns the stable
// tenant identifier (the token subject, falling back to a user_id claim).
func (v *Verifier) VerifyToken(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	if uid, ok := claims["user_id"].(string); ok && uid != "" {
		return uid, nil
	}
	return "", ErrNoSubject
}
