package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/pkg/jwtx"
)

// TokenType is the credential type reported to clients.
const TokenType = "bearer"

// TokenService mints and verifies session credentials. It holds no state
// beyond its keys and is safe for concurrent use.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	TTL      time.Duration

	// Now is the clock used for issuance. Defaults to time.Now.
	Now func() time.Time
}

// NewTokenService builds an HMAC token service. The verifier shares the
// service clock so tests can move time for both sides at once.
func NewTokenService(alg string, secret []byte, ttl time.Duration) (*TokenService, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	signer, err := jwtx.NewSignerHMAC(alg, secret)
	if err != nil {
		return nil, err
	}
	verifier, err := jwtx.NewVerifierHMAC(alg, secret)
	if err != nil {
		return nil, err
	}

	s := &TokenService{Signer: signer, Verifier: verifier, TTL: ttl, Now: time.Now}
	verifier.Now = func() time.Time { return s.now() }
	return s, nil
}

func (s *TokenService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Issue mints a credential for accountID that expires TTL from now.
func (s *TokenService) Issue(accountID int64) (domain.Credential, error) {
	if accountID <= 0 {
		return domain.Credential{}, domain.ErrMalformedClaim
	}

	now := s.now().Truncate(time.Second)
	claims := jwtx.NewSessionClaims(accountID, s.TTL, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("sign session: %w", err)
	}

	return domain.Credential{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Verify checks a credential and returns its claim. Errors are one of
// domain.ErrBadSignature, domain.ErrExpired or domain.ErrMalformedClaim.
func (s *TokenService) Verify(token string) (domain.SessionClaim, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			return domain.SessionClaim{}, domain.ErrExpired
		case errors.Is(err, jwtx.ErrInvalidClaim):
			return domain.SessionClaim{}, domain.ErrMalformedClaim
		default:
			return domain.SessionClaim{}, domain.ErrBadSignature
		}
	}

	id, err := claims.AccountID()
	if err != nil {
		return domain.SessionClaim{}, domain.ErrMalformedClaim
	}

	claim := domain.SessionClaim{
		Subject:   id,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		claim.IssuedAt = claims.IssuedAt.Time
	}
	return claim, nil
}
