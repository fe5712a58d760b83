package service

import (
	"testing"
	"time"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("HS256", []byte(testSecret), 0)
	require.Error(t, err)

	_, err = NewTokenService("RS256", []byte(testSecret), time.Hour)
	require.ErrorIs(t, err, jwtx.ErrAlgMismatch)

	_, err = NewTokenService("HS256", nil, time.Hour)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	for _, alg := range jwtx.SupportedAlgorithms() {
		_, err := NewTokenService(alg, []byte(testSecret), time.Hour)
		require.NoError(t, err, alg)
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	tokens := newTestTokens(t)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens.Now = func() time.Time { return now }

	for _, id := range []int64{1, 42, 1 << 40} {
		cred, err := tokens.Issue(id)
		require.NoError(t, err)
		require.Equal(t, "bearer", cred.TokenType)
		require.Equal(t, now.Add(7*24*time.Hour), cred.ExpiresAt)

		claim, err := tokens.Verify(cred.AccessToken)
		require.NoError(t, err)
		require.Equal(t, id, claim.Subject)
		require.Equal(t, now, claim.IssuedAt)
		require.Equal(t, claim.IssuedAt.Add(tokens.TTL), claim.ExpiresAt)
	}

	_, err := tokens.Issue(0)
	require.ErrorIs(t, err, domain.ErrMalformedClaim)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()
	tokens := newTestTokens(t)

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens.Now = func() time.Time { return issued }
	cred, err := tokens.Issue(7)
	require.NoError(t, err)

	tokens.Now = func() time.Time { return issued.Add(tokens.TTL - time.Second) }
	_, err = tokens.Verify(cred.AccessToken)
	require.NoError(t, err)

	tokens.Now = func() time.Time { return cred.ExpiresAt }
	_, err = tokens.Verify(cred.AccessToken)
	require.NoError(t, err, "still valid at the expiry instant")

	tokens.Now = func() time.Time { return issued.Add(tokens.TTL + time.Second) }
	_, err = tokens.Verify(cred.AccessToken)
	require.ErrorIs(t, err, domain.ErrExpired)
}

func TestVerifyAnyFlippedByteFails(t *testing.T) {
	t.Parallel()
	tokens := newTestTokens(t)

	cred, err := tokens.Issue(99)
	require.NoError(t, err)
	tok := cred.AccessToken

	for i := range len(tok) {
		replacement := byte('A')
		if tok[i] == 'A' {
			replacement = 'B'
		}
		mutated := tok[:i] + string(replacement) + tok[i+1:]

		_, err := tokens.Verify(mutated)
		require.ErrorIs(t, err, domain.ErrBadSignature, "position %d", i)
	}
}

func TestVerifyRejectsOtherSecretAndAlgorithm(t *testing.T) {
	t.Parallel()
	tokens := newTestTokens(t)

	other, err := NewTokenService("HS256", []byte("another-secret"), time.Hour)
	require.NoError(t, err)
	cred, err := other.Issue(1)
	require.NoError(t, err)
	_, err = tokens.Verify(cred.AccessToken)
	require.ErrorIs(t, err, domain.ErrBadSignature)

	hs512, err := NewTokenService("HS512", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	cred, err = hs512.Issue(1)
	require.NoError(t, err)
	_, err = tokens.Verify(cred.AccessToken)
	require.ErrorIs(t, err, domain.ErrBadSignature)

	_, err = tokens.Verify("not-a-jwt")
	require.ErrorIs(t, err, domain.ErrBadSignature)
}

func TestVerifyMalformedClaims(t *testing.T) {
	t.Parallel()
	tokens := newTestTokens(t)
	exp := time.Now().Add(time.Hour).Unix()

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"missing sub", jwt.MapClaims{"exp": exp}},
		{"non-numeric sub", jwt.MapClaims{"sub": "alice", "exp": exp}},
		{"zero sub", jwt.MapClaims{"sub": "0", "exp": exp}},
		{"negative sub", jwt.MapClaims{"sub": "-4", "exp": exp}},
		{"missing exp", jwt.MapClaims{"sub": "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(sign(tt.claims))
			require.ErrorIs(t, err, domain.ErrMalformedClaim)
		})
	}
}
