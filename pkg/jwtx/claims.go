package jwtx

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of a session credential when none is
// configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims are the session-credential claims. Only sub, iat and exp are
// minted; the registered claim set is embedded so the parser can validate
// expiry for us.
type Claims struct {
	jwt.RegisteredClaims
}

// NewSessionClaims builds claims for an account id, valid for ttl from now.
func NewSessionClaims(accountID int64, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// AccountID parses the subject as a positive account id.
func (c *Claims) AccountID() (int64, error) {
	if c.Subject == "" {
		return 0, ErrInvalidClaim
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidClaim
	}
	return id, nil
}

// ValidateExpiry ensures the token hasn't expired at the given instant.
// A missing exp is treated as invalid, never as "no expiry".
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
