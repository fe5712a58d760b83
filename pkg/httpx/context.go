package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeyPrincipal ctxKey = "principal"
)

// Principal is an authenticated caller attached to the request context by
// AuthnMiddleware.
type Principal interface {
	PrincipalID() string
}

// WithPrincipal stores p (and its id for rate limiting) in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, p.PrincipalID())
	ctx = context.WithValue(ctx, CtxKeyPrincipal, p)
	return ctx
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok
}
