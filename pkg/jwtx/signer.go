package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// ErrWeakSecret is returned when an HMAC secret is empty.
var ErrWeakSecret = errors.New("jwtx: empty hmac secret")

// HMACSigner signs tokens with a shared secret (HS256, HS384 or HS512).
type HMACSigner struct {
	method *jwt.SigningMethodHMAC
	secret []byte
}

// NewSignerHMAC creates an HMAC signer for the given algorithm tag.
func NewSignerHMAC(alg string, secret []byte) (*HMACSigner, error) {
	method, err := hmacMethod(alg)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, ErrWeakSecret
	}
	return &HMACSigner{method: method, secret: secret}, nil
}

func (s *HMACSigner) Alg() string { return s.method.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HMACSigner) Sign(claims Claims) (string, error) {
	if claims.ExpiresAt == nil {
		return "", ErrInvalidClaim
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// SupportedAlgorithms lists the algorithm tags accepted by NewSignerHMAC and
// NewVerifierHMAC.
func SupportedAlgorithms() []string {
	return []string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	}
}

func hmacMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAlgMismatch, alg)
	}
}
