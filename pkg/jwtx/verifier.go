package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// HMACVerifier validates tokens signed with a shared secret. Only the
// configured algorithm is accepted and there is no leeway on exp: a token
// is still valid at the exact instant it expires.
type HMACVerifier struct {
	method *jwt.SigningMethodHMAC
	secret []byte

	// Now is the clock used for expiry checks. Defaults to time.Now.
	Now func() time.Time
}

// NewVerifierHMAC creates a verifier for the given algorithm tag.
func NewVerifierHMAC(alg string, secret []byte) (*HMACVerifier, error) {
	method, err := hmacMethod(alg)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, ErrWeakSecret
	}
	return &HMACVerifier{method: method, secret: secret, Now: time.Now}, nil
}

// Verify validates the JWT string and returns its parsed Claims. The
// signature is checked before any claim, so a forged token never reports
// ErrExpired.
func (v *HMACVerifier) Verify(tokenStr string) (Claims, error) {
	now := v.Now
	if now == nil {
		now = time.Now
	}

	// Claims are checked below with ValidateExpiry; the parser's own check
	// rejects now == exp.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if err := claims.ValidateExpiry(now()); err != nil {
		return Claims{}, err
	}
	if _, err := claims.AccountID(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
