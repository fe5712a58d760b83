package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/service"
	"github.com/edunexia/edunexia-api/pkg/httpx"
)

// accountPrincipal is the verified account placed in the request context.
type accountPrincipal struct {
	domain.Account
}

func (p accountPrincipal) PrincipalID() string { return strconv.FormatInt(p.ID, 10) }

// guardAuthenticator adapts service.Guard to httpx.AuthnMiddleware.
type guardAuthenticator struct {
	guard *service.Guard
}

func (a guardAuthenticator) Authenticate(ctx context.Context, authorization string) (httpx.Principal, error) {
	account, err := a.guard.Resolve(ctx, authorization)
	if err != nil {
		return nil, err
	}
	return accountPrincipal{Account: account}, nil
}

// accountFrom returns the account resolved by the authentication middleware.
func accountFrom(ctx context.Context) (domain.Account, bool) {
	p, ok := httpx.PrincipalFrom(ctx)
	if !ok {
		return domain.Account{}, false
	}
	ap, ok := p.(accountPrincipal)
	return ap.Account, ok
}

func requireRole(roles ...domain.Role) func(httpx.Principal) error {
	return func(p httpx.Principal) error {
		ap, ok := p.(accountPrincipal)
		if !ok {
			return errors.Join(domain.ErrUnauthenticated, errors.New("unexpected principal type"))
		}
		return service.RequireRole(ap.Account, roles...)
	}
}
