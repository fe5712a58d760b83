package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/provider"
	"github.com/stretchr/testify/require"
)

type fakeGoogle struct {
	tokenStatus    int
	userInfoStatus int
	accessToken    string
	profile        map[string]any
	delay          time.Duration

	gotForm url.Values
	gotAuth string
}

func (f *fakeGoogle) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.gotForm = r.PostForm
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		if f.tokenStatus != 0 && f.tokenStatus != http.StatusOK {
			w.WriteHeader(f.tokenStatus)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": f.accessToken,
			"token_type":   "Bearer",
			"expires_in":   3599,
		})
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		f.gotAuth = r.Header.Get("Authorization")
		if f.userInfoStatus != 0 && f.userInfoStatus != http.StatusOK {
			w.WriteHeader(f.userInfoStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.profile)
	})
	return mux
}

func newGoogle(t *testing.T, f *fakeGoogle, timeout time.Duration) *provider.Google {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	return provider.NewGoogle(provider.GoogleConfig{
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
		Timeout:      timeout,
	})
}

func TestAuthCodeURL(t *testing.T) {
	g := provider.NewGoogle(provider.GoogleConfig{ClientID: "client-123"})
	require.True(t, g.Configured())

	raw := g.AuthCodeURL("https://app.example.com/api/v1/auth/google/callback")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", u.Host)

	q := u.Query()
	require.Equal(t, "client-123", q.Get("client_id"))
	require.Equal(t, "https://app.example.com/api/v1/auth/google/callback", q.Get("redirect_uri"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "openid email profile", q.Get("scope"))
	require.Equal(t, "offline", q.Get("access_type"))
	require.Equal(t, "select_account", q.Get("prompt"))
	require.False(t, q.Has("state"))
}

func TestNotConfigured(t *testing.T) {
	require.False(t, provider.NewGoogle(provider.GoogleConfig{}).Configured())
}

func TestExchangeAndProfile(t *testing.T) {
	f := &fakeGoogle{
		accessToken: "ya29.token",
		profile: map[string]any{
			"id":             "1094",
			"email":          "Student@Example.com",
			"verified_email": true,
			"name":           " Sam Student ",
			"given_name":     "Sam",
		},
	}
	g := newGoogle(t, f, time.Second)
	ctx := context.Background()

	tok, err := g.Exchange(ctx, "auth-code", "https://app.example.com/cb")
	require.NoError(t, err)
	require.Equal(t, "ya29.token", tok)
	require.Equal(t, "auth-code", f.gotForm.Get("code"))
	require.Equal(t, "https://app.example.com/cb", f.gotForm.Get("redirect_uri"))
	require.Equal(t, "client-123", f.gotForm.Get("client_id"))
	require.Equal(t, "secret-456", f.gotForm.Get("client_secret"))
	require.Equal(t, "authorization_code", f.gotForm.Get("grant_type"))

	p, err := g.Profile(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, "Bearer ya29.token", f.gotAuth)
	require.Equal(t, domain.ProviderProfile{
		Subject:       "1094",
		Email:         "student@example.com",
		EmailVerified: true,
		Name:          "Sam Student",
		GivenName:     "Sam",
	}, p)
}

func TestExchangeFailures(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		g := newGoogle(t, &fakeGoogle{tokenStatus: http.StatusBadRequest}, time.Second)
		_, err := g.Exchange(context.Background(), "bad", "https://x/cb")
		require.ErrorIs(t, err, domain.ErrProviderExchangeFailed)
	})

	t.Run("missing access token", func(t *testing.T) {
		g := newGoogle(t, &fakeGoogle{}, time.Second)
		_, err := g.Exchange(context.Background(), "code", "https://x/cb")
		require.ErrorIs(t, err, domain.ErrProviderExchangeFailed)
	})

	t.Run("timeout", func(t *testing.T) {
		g := newGoogle(t, &fakeGoogle{accessToken: "t", delay: 200 * time.Millisecond}, 50*time.Millisecond)
		_, err := g.Exchange(context.Background(), "code", "https://x/cb")
		require.ErrorIs(t, err, domain.ErrProviderExchangeFailed)
	})
}

func TestProfileFailures(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		g := newGoogle(t, &fakeGoogle{userInfoStatus: http.StatusUnauthorized}, time.Second)
		_, err := g.Profile(context.Background(), "t")
		require.ErrorIs(t, err, domain.ErrProviderProfileFailed)
	})

	t.Run("no subject", func(t *testing.T) {
		g := newGoogle(t, &fakeGoogle{profile: map[string]any{"email": "a@b.c"}}, time.Second)
		_, err := g.Profile(context.Background(), "t")
		require.ErrorIs(t, err, domain.ErrProviderProfileFailed)
	})

	t.Run("sub fallback", func(t *testing.T) {
		g := newGoogle(t, &fakeGoogle{profile: map[string]any{"sub": "s-1", "email_verified": true}}, time.Second)
		p, err := g.Profile(context.Background(), "t")
		require.NoError(t, err)
		require.Equal(t, "s-1", p.Subject)
		require.True(t, p.EmailVerified)
		require.Empty(t, p.Email)
	})
}
