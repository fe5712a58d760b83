package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/edunexia/edunexia-api/pkg/slogx"
)

// Authenticator turns the raw Authorization header into a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (Principal, error)
}

// ErrorWriter renders a failed authentication or authorization check.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// AuthnMiddleware resolves the caller with a and injects the Principal into
// the request context. On failure onError renders the response; when it is
// nil a bare RFC 6750 challenge is written.
func AuthnMiddleware(a Authenticator, onError ErrorWriter) Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			WriteBearerChallenge(w, "invalid_token")
			w.WriteHeader(http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			p, err := a.Authenticate(ctx, r.Header.Get("Authorization"))
			if err != nil {
				log.Debug("authentication failed", "err", err)
				onError(w, r, err)
				return
			}

			// Inject into context for downstream handlers.
			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(authorization string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// WriteBearerChallenge sets an RFC 6750 WWW-Authenticate header.
func WriteBearerChallenge(w http.ResponseWriter, code string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="`+code+`"`)
}
