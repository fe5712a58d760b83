package domain

import "time"

// SessionClaim is the verified content of a session credential.
type SessionClaim struct {
	Subject   int64 // account id
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Credential is a freshly minted session credential.
type Credential struct {
	AccessToken string
	TokenType   string // always "bearer"
	ExpiresAt   time.Time
}

// ExchangeContext carries what the OAuth callback needs for a single request.
// It is never persisted.
type ExchangeContext struct {
	Code          string
	ProviderError string
	RedirectURI   string
	FrontendURL   string
}

// ProviderProfile is the identity returned by the external provider.
type ProviderProfile struct {
	Subject       string // provider-unique user id
	Email         string
	EmailVerified bool
	Name          string
	GivenName     string
	Picture       string
}

// Registration holds the fields needed to create a password account.
type Registration struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}
