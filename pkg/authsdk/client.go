package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// APIPrefix is the path prefix of the versioned API.
const APIPrefix = "/api/v1"

// SDKClient is a client for the EduNexia API. It covers the unauthenticated
// operations and creates Sessions for authenticated ones.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// ValidateRequests runs RegisterRequest.Validate before sending and
	// returns ErrValidation without a round trip. Default: true.
	ValidateRequests bool
}

// NewSDKClient creates a client for baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		ValidateRequests: true,
	}
}

// AuthenticateWithPassword logs in and returns a Session for the account.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, username, password string) (*Session, error) {
	data, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, data), nil
}

// NewSessionFromToken wraps a credential obtained elsewhere, such as the
// token query parameter of the Google callback redirect.
func (c *SDKClient) NewSessionFromToken(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}
