package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cdportal/admin-console/internal/core/domain"
)

// Claims is the subset of the credential's payload the console relies on.
type Claims struct {
	Subject   string
	Role      domain.Role
	ExpiresAt time.Time
}

// DecodeClaims reads the credential's claim set without verifying its
// signature. The console never holds the signing key; the backend remains
// the only verifier.
func DecodeClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("decode credential: %w", err)
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if raw, ok := mc["role"].(string); ok {
		if r, ok := domain.ParseRole(raw); ok {
			c.Role = r
		}
	}
	return c, nil
}

// Expired reports whether the credential declared an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
