// Package provider adapts external OAuth2 identity providers to the
// federation flow.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	// CallTimeout bounds each outbound call to the provider.
	CallTimeout = 15 * time.Second

	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	maxProfileBytes = 1 << 20
)

// GoogleConfig configures the Google adapter. The URL fields default to
// Google's production endpoints and exist so tests can point at a fake.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	HTTPClient *http.Client
	Timeout    time.Duration
}

// Google runs the authorization-code flow against Google.
type Google struct {
	oauth       oauth2.Config
	userInfoURL string
	client      *http.Client
	timeout     time.Duration
}

func NewGoogle(cfg GoogleConfig) *Google {
	endpoint := oauth2.Endpoint{
		AuthURL:   googleAuthURL,
		TokenURL:  endpoints.Google.TokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	userInfoURL := googleUserInfoURL
	if cfg.UserInfoURL != "" {
		userInfoURL = cfg.UserInfoURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = CallTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &Google{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
		client:      client,
		timeout:     timeout,
	}
}

// Configured reports whether a client id is present.
func (g *Google) Configured() bool { return g.oauth.ClientID != "" }

// AuthCodeURL builds the consent-screen URL for the given callback.
func (g *Google) AuthCodeURL(redirectURI string) string {
	cfg := g.withRedirect(redirectURI)
	return cfg.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades an authorization code for a provider access token.
// redirectURI must equal the one used to start the flow.
func (g *Google) Exchange(ctx context.Context, code, redirectURI string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)

	cfg := g.withRedirect(redirectURI)
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrProviderExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", domain.ErrProviderExchangeFailed)
	}
	return tok.AccessToken, nil
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	VerifiedEmail *bool  `json:"verified_email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

// Profile fetches the signed-in user's profile with a provider access token.
func (g *Google) Profile(ctx context.Context, accessToken string) (domain.ProviderProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("%w: build request: %w", domain.ErrProviderProfileFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("%w: %w", domain.ErrProviderProfileFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("%w: read body: %w", domain.ErrProviderProfileFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ProviderProfile{}, fmt.Errorf("%w: status=%d", domain.ErrProviderProfileFailed, resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("%w: decode: %w", domain.ErrProviderProfileFailed, err)
	}

	subject := info.ID
	if subject == "" {
		subject = info.Sub
	}
	if subject == "" {
		return domain.ProviderProfile{}, fmt.Errorf("%w: profile has no subject", domain.ErrProviderProfileFailed)
	}

	verified := false
	switch {
	case info.VerifiedEmail != nil:
		verified = *info.VerifiedEmail
	case info.EmailVerified != nil:
		verified = *info.EmailVerified
	}

	return domain.ProviderProfile{
		Subject:       subject,
		Email:         domain.NormalizeEmail(info.Email),
		EmailVerified: verified,
		Name:          strings.TrimSpace(info.Name),
		GivenName:     strings.TrimSpace(info.GivenName),
		Picture:       info.Picture,
	}, nil
}

func (g *Google) withRedirect(redirectURI string) *oauth2.Config {
	cfg := g.oauth
	cfg.RedirectURL = redirectURI
	return &cfg
}
