package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/store"
	"github.com/edunexia/edunexia-api/pkg/authsdk"
	"github.com/edunexia/edunexia-api/pkg/cryptox"
	"github.com/edunexia/edunexia-api/pkg/slogx"
)

// ValidationError lists per-field problems with a request. It matches
// domain.ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Session is the result of a successful sign-in.
type Session struct {
	Credential domain.Credential
	Account    domain.Account
}

// CredentialService implements username/password sign-in and registration.
type CredentialService struct {
	Store  store.Store
	Tokens *TokenService
}

// Authenticate checks a username/password pair and mints a credential.
// Unknown users, federated-only accounts and wrong passwords are all
// reported as domain.ErrInvalidCredentials.
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (Session, error) {
	l := slogx.FromContext(ctx)
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		cryptox.VerifyDummy(password)
		return Session{}, domain.ErrInvalidCredentials
	}

	account, err := store.Retry(ctx, func() (domain.Account, error) {
		return s.Store.Accounts().FindByUsername(ctx, username)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.VerifyDummy(password)
			l.Info("login failed", slog.String("reason", "unknown_user"))
			return Session{}, domain.ErrInvalidCredentials
		}
		return Session{}, err
	}

	if !account.HasPassword() {
		cryptox.VerifyDummy(password)
		l.Info("login failed", slog.String("reason", "federated_only"), slog.Int64("account_id", account.ID))
		return Session{}, domain.ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMalformedHash) {
			l.Warn("login failed", slog.String("reason", "unreadable_hash"), slog.Int64("account_id", account.ID), slog.Any("err", err))
			return Session{}, domain.ErrInvalidCredentials
		}
		l.Info("login failed", slog.String("reason", "password_mismatch"), slog.Int64("account_id", account.ID))
		return Session{}, domain.ErrInvalidCredentials
	}

	if !account.Active {
		l.Info("login refused for inactive account", slog.Int64("account_id", account.ID))
		return Session{}, domain.ErrForbidden
	}

	cred, err := s.Tokens.Issue(account.ID)
	if err != nil {
		return Session{}, err
	}

	l.Info("login succeeded", slog.Int64("account_id", account.ID))
	return Session{Credential: cred, Account: account}, nil
}

// Register creates a password account with the student role and signs it in.
func (s *CredentialService) Register(ctx context.Context, reg domain.Registration) (Session, error) {
	l := slogx.FromContext(ctx)

	reg = normalizeRegistration(reg)
	if err := validateRegistration(reg); err != nil {
		return Session{}, err
	}

	if err := s.checkAvailable(ctx, reg); err != nil {
		return Session{}, err
	}

	hash, err := cryptox.HashPassword(reg.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	displayName := reg.DisplayName
	if displayName == "" {
		displayName = reg.Username
	}

	account, err := store.Retry(ctx, func() (domain.Account, error) {
		return s.Store.Accounts().Create(ctx, domain.Account{
			Username:     reg.Username,
			Email:        reg.Email,
			PasswordHash: hash,
			DisplayName:  displayName,
			Role:         domain.RoleStudent,
			Active:       true,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent registration.
			return Session{}, fmt.Errorf("%w: username or email already registered", domain.ErrConflict)
		}
		return Session{}, err
	}

	cred, err := s.Tokens.Issue(account.ID)
	if err != nil {
		return Session{}, err
	}

	l.Info("account registered", slog.Int64("account_id", account.ID))
	return Session{Credential: cred, Account: account}, nil
}

func (s *CredentialService) checkAvailable(ctx context.Context, reg domain.Registration) error {
	_, err := store.Retry(ctx, func() (domain.Account, error) {
		return s.Store.Accounts().FindByUsername(ctx, reg.Username)
	})
	switch {
	case err == nil:
		return fmt.Errorf("%w: username already registered", domain.ErrConflict)
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	_, err = store.Retry(ctx, func() (domain.Account, error) {
		return s.Store.Accounts().FindByEmail(ctx, reg.Email)
	})
	switch {
	case err == nil:
		return fmt.Errorf("%w: email already registered", domain.ErrConflict)
	case !errors.Is(err, store.ErrNotFound):
		return err
	}
	return nil
}

func normalizeRegistration(reg domain.Registration) domain.Registration {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = domain.NormalizeEmail(reg.Email)
	reg.DisplayName = strings.TrimSpace(reg.DisplayName)
	return reg
}

func validateRegistration(reg domain.Registration) error {
	fields := authsdk.RegisterRequest{
		Username: reg.Username,
		Email:    reg.Email,
		Password: reg.Password,
		FullName: reg.DisplayName,
	}.Validate()
	if fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}
