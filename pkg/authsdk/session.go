package authsdk

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Session is an authenticated client. Credentials are not refreshed; once
// ExpiresAt passes, sign in again.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
	user        AccountSummary
}

func newSession(client *SDKClient, data *AuthData) *Session {
	return &Session{
		client:      client,
		accessToken: data.AccessToken,
		expiresAt:   data.ExpiresAt,
		user:        data.User,
	}
}

// AccessToken returns the bearer credential.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// ExpiresAt is zero when the session was built from a bare token.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Me fetches the current account and caches it on the session.
func (s *Session) Me(ctx context.Context) (*AccountSummary, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, APIPrefix+"/auth/student/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var env Envelope[AccountSummary]
	if err := decodeJSON(resp, &env, http.StatusOK); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = env.Data
	s.mu.Unlock()
	return &env.Data, nil
}
