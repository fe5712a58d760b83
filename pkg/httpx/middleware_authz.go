package httpx

import (
	"errors"
	"net/http"
)

var errNoPrincipal = errors.New("httpx: no principal in context")

// Authorize runs allow against the principal placed in the context by
// AuthnMiddleware. It must be chained after AuthnMiddleware.
func Authorize(allow func(Principal) error, onError ErrorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				onError(w, r, errNoPrincipal)
				return
			}
			if err := allow(p); err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
