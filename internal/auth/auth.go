package auth

import (
	"context"
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

// ClaimsKey is the request-context key the authentication middleware stores
// validated claims under.
const ClaimsKey ctxKey = "claims"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Claims is the token payload issued by the user service. This service only
// verifies tokens, it never issues them.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// WithClaims stores validated claims in the context under ClaimsKey.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// HasRole reports whether the token carries the given role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Keys holds the RSA public key used to verify bearer tokens.
type Keys struct {
	pubKey *rsa.PublicKey
}

func NewKeys(pubPEM []byte) (*Keys, error) {
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing auth public key: %w", err)
	}
	return &Keys{pubKey: pubKey}, nil
}

// ValidateToken parses and verifies an RS256 token, returning its claims.
func (k *Keys) ValidateToken(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return k.pubKey, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("parsing token: %w", err)
	}
	if !parsed.Valid {
		return Claims{}, fmt.Errorf("invalid token")
	}
	return claims, nil
}
