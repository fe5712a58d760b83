package http

import (
	"errors"
	"net/http"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/service"
	"github.com/edunexia/edunexia-api/pkg/authsdk"
	"github.com/edunexia/edunexia-api/pkg/httpx"
	"github.com/edunexia/edunexia-api/pkg/slogx"
)

// writeError renders err as an error envelope. It is the only place that
// maps domain errors to status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		authsdk.ErrValidation.WithDetails(verr.Fields).WriteError(w)
	case errors.Is(err, domain.ErrInvalidInput):
		authsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, domain.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, domain.ErrUnauthenticated):
		httpx.WriteBearerChallenge(w, "invalid_token")
		authsdk.ErrUnauthenticated.WriteError(w)
	case errors.Is(err, domain.ErrForbidden):
		authsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, domain.ErrConflict):
		authsdk.ErrConflict.WriteError(w)
	case errors.Is(err, domain.ErrProviderNotConfigured):
		authsdk.ErrNotConfigured.WriteError(w)
	case errors.Is(err, service.ErrAccountNotFound):
		authsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Error("store unavailable", "err", err)
		w.Header().Set("Retry-After", "1")
		authsdk.ErrUnavailable.WriteError(w)
	default:
		log.Error("unhandled error", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
