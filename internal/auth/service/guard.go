package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/store"
	"github.com/edunexia/edunexia-api/pkg/httpx"
)

// Guard resolves the account behind a bearer credential.
type Guard struct {
	Store  store.Store
	Tokens *TokenService
}

// Resolve verifies the Authorization header value and loads the account.
// Any credential problem is domain.ErrUnauthenticated (wrapping the
// verification error); an inactive account is domain.ErrForbidden.
func (g *Guard) Resolve(ctx context.Context, authorization string) (domain.Account, error) {
	token, ok := httpx.BearerToken(authorization)
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: missing bearer credential", domain.ErrUnauthenticated)
	}

	claim, err := g.Tokens.Verify(token)
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	account, err := store.Retry(ctx, func() (domain.Account, error) {
		return g.Store.Accounts().FindByID(ctx, claim.Subject)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthenticated)
		}
		return domain.Account{}, err
	}

	if !account.Active {
		return domain.Account{}, fmt.Errorf("%w: account is inactive", domain.ErrForbidden)
	}
	return account, nil
}

// RequireRole fails with domain.ErrForbidden unless a has one of roles.
func RequireRole(a domain.Account, roles ...domain.Role) error {
	if slices.Contains(roles, a.Role) {
		return nil
	}
	return fmt.Errorf("%w: role %q not permitted", domain.ErrForbidden, a.Role)
}
