package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/store"
	"github.com/edunexia/edunexia-api/pkg/httpx"
	"github.com/edunexia/edunexia-api/pkg/slogx"
)

// FlowState is the externally visible state of a federated sign-in.
type FlowState string

const (
	FlowAwaitingRedirect FlowState = "AWAITING_REDIRECT"
	FlowAwaitingCallback FlowState = "AWAITING_CALLBACK"
	FlowCompleted        FlowState = "COMPLETED"
	FlowFailed           FlowState = "FAILED"
)

// Error tags placed in the frontend redirect. Nothing else about a failure
// leaves the server.
const (
	TagAccessDenied   = "access_denied"
	TagMissingCode    = "missing_code"
	TagTokenFailed    = "token_failed"
	TagUserInfoFailed = "user_info_failed"
	TagEmailMissing   = "email_missing"
	TagCallbackFailed = "callback_failed"
)

// maxResolveAttempts bounds re-resolution after losing a uniqueness race.
const maxResolveAttempts = 3

// IdentityProvider is the external OAuth2 provider.
type IdentityProvider interface {
	Configured() bool
	AuthCodeURL(redirectURI string) string
	Exchange(ctx context.Context, code, redirectURI string) (accessToken string, err error)
	Profile(ctx context.Context, accessToken string) (domain.ProviderProfile, error)
}

// FederationService drives the authorization-code flow with the provider.
type FederationService struct {
	Store     store.Store
	Tokens    *TokenService
	Provider  IdentityProvider
	Redirects RedirectResolver
}

// CallbackResult is the outcome of a callback. Redirect is always set.
type CallbackResult struct {
	State     FlowState
	Redirect  string
	AccountID int64
	Linked    bool
	Created   bool
	Err       error
}

// Initiate returns the provider URL the browser should be sent to.
func (s *FederationService) Initiate(ctx context.Context, origin httpx.RequestOrigin) (string, error) {
	l := slogx.FromContext(ctx)

	if s.Provider == nil || !s.Provider.Configured() {
		l.Warn("oauth flow", slog.String("state", string(FlowFailed)), slog.String("reason", "provider not configured"))
		return "", domain.ErrProviderNotConfigured
	}

	urls := s.Redirects.Resolve(origin)
	l.Info("oauth flow",
		slog.String("state", string(FlowAwaitingRedirect)),
		slog.String("redirect_uri", urls.RedirectURI),
	)
	return s.Provider.AuthCodeURL(urls.RedirectURI), nil
}

// ExchangeContext captures everything the callback needs from one request.
func (s *FederationService) ExchangeContext(origin httpx.RequestOrigin, code, providerError string) domain.ExchangeContext {
	urls := s.Redirects.Resolve(origin)
	return domain.ExchangeContext{
		Code:          strings.TrimSpace(code),
		ProviderError: strings.TrimSpace(providerError),
		RedirectURI:   urls.RedirectURI,
		FrontendURL:   urls.FrontendURL,
	}
}

// Callback completes the flow. Every outcome, success or failure, is a
// redirect to the frontend.
func (s *FederationService) Callback(ctx context.Context, ec domain.ExchangeContext) CallbackResult {
	l := slogx.FromContext(ctx)
	l.Info("oauth flow", slog.String("state", string(FlowAwaitingCallback)))

	fail := func(tag string, err error) CallbackResult {
		l.Warn("oauth flow",
			slog.String("state", string(FlowFailed)),
			slog.String("error_tag", tag),
			slog.Any("err", err),
		)
		return CallbackResult{
			State:    FlowFailed,
			Redirect: ec.FrontendURL + "/login?error=" + url.QueryEscape(tag),
			Err:      err,
		}
	}

	if ec.ProviderError != "" {
		return fail(TagAccessDenied, fmt.Errorf("provider returned error %q", ec.ProviderError))
	}
	if ec.Code == "" {
		return fail(TagMissingCode, errors.New("callback without code"))
	}
	// No credentials means no exchange is possible; the frontend only
	// knows the fixed tag set, so this reports as a failed exchange.
	if s.Provider == nil || !s.Provider.Configured() {
		return fail(TagTokenFailed, domain.ErrProviderNotConfigured)
	}

	accessToken, err := s.Provider.Exchange(ctx, ec.Code, ec.RedirectURI)
	if err != nil {
		return fail(TagTokenFailed, err)
	}

	profile, err := s.Provider.Profile(ctx, accessToken)
	if err != nil {
		return fail(TagUserInfoFailed, err)
	}

	profile.Email = domain.NormalizeEmail(profile.Email)
	if profile.Email == "" {
		return fail(TagEmailMissing, domain.ErrEmailMissing)
	}

	res, err := s.resolveAccount(ctx, profile)
	if err != nil {
		return fail(TagCallbackFailed, err)
	}

	cred, err := s.Tokens.Issue(res.AccountID)
	if err != nil {
		return fail(TagCallbackFailed, err)
	}

	l.Info("oauth flow",
		slog.String("state", string(FlowCompleted)),
		slog.Int64("account_id", res.AccountID),
		slog.Bool("linked", res.Linked),
		slog.Bool("created", res.Created),
	)

	res.State = FlowCompleted
	res.Redirect = ec.FrontendURL + "/auth/callback?token=" + url.QueryEscape(cred.AccessToken)
	return res
}

// resolveAccount finds or creates the account for a provider profile. A
// uniqueness violation means a concurrent callback created or linked the
// account first, so resolution runs again and picks that record up.
func (s *FederationService) resolveAccount(ctx context.Context, p domain.ProviderProfile) (CallbackResult, error) {
	var lastErr error
	for range maxResolveAttempts {
		res, err := store.Retry(ctx, func() (CallbackResult, error) {
			return s.resolveOnce(ctx, p)
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			lastErr = err
			continue
		}
		return res, err
	}
	return CallbackResult{}, fmt.Errorf("%w: %w", domain.ErrConflict, lastErr)
}

func (s *FederationService) resolveOnce(ctx context.Context, p domain.ProviderProfile) (CallbackResult, error) {
	var res CallbackResult

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		accounts := tx.Accounts()

		a, err := accounts.FindByGoogleID(ctx, p.Subject)
		if err == nil {
			res.AccountID = a.ID
			return requireActive(a)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		a, err = accounts.FindByEmail(ctx, p.Email)
		switch {
		case err == nil:
			if a.GoogleID != "" {
				return fmt.Errorf("%w: email is linked to a different google account", domain.ErrConflict)
			}
			if !p.EmailVerified {
				return fmt.Errorf("%w: refusing to link an unverified email", domain.ErrForbidden)
			}
			if err := requireActive(a); err != nil {
				return err
			}
			if err := accounts.LinkGoogleID(ctx, a.ID, p.Subject); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					// Linked by someone else between the read and the update.
					return store.ErrAlreadyExists
				}
				return err
			}
			res.AccountID = a.ID
			res.Linked = true
			return nil

		case errors.Is(err, store.ErrNotFound):
			created, err := accounts.Create(ctx, domain.Account{
				Email:       p.Email,
				DisplayName: displayNameFor(p),
				Role:        domain.RoleStudent,
				GoogleID:    p.Subject,
				Active:      true,
			})
			if err != nil {
				return err
			}
			res.AccountID = created.ID
			res.Created = true
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return CallbackResult{}, err
	}
	return res, nil
}

func requireActive(a domain.Account) error {
	if !a.Active {
		return fmt.Errorf("%w: account %d is inactive", domain.ErrForbidden, a.ID)
	}
	return nil
}

// displayNameFor picks the profile name, then the given name, then the
// local part of the email.
func displayNameFor(p domain.ProviderProfile) string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	if n := strings.TrimSpace(p.GivenName); n != "" {
		return n
	}
	local, _, _ := strings.Cut(p.Email, "@")
	return local
}
