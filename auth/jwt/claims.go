package jwt

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload accepted by the HTTP surface. Only the
// registered claims are used; the subject names the caller in logs.
type Claims struct {
	gojwt.RegisteredClaims
}

// NewClaims returns empty claims for parsing.
func NewClaims() *Claims { return &Claims{} }

// SetDefaults stamps the time, issuer and audience claims that are unset.
func (c *Claims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	if c.IssuedAt == nil {
		c.IssuedAt = gojwt.NewNumericDate(now)
	}
	if c.ExpiresAt == nil && ttl > 0 {
		c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	if c.Issuer == "" {
		c.Issuer = issuer
	}
	if len(c.Audience) == 0 && len(audience) > 0 {
		c.Audience = audience
	}
}
