package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/edunexia/edunexia-api/pkg/httpx"
)

// Error codes carried in ErrorEnvelope.Code.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidation         = "validation_error"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthenticated    = "unauthenticated"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeConflict           = "conflict"
	ErrorCodeNotConfigured      = "provider_not_configured"
	ErrorCodeUnavailable        = "service_unavailable"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeServerError        = "server_error"
)

// APIError is an error envelope with its HTTP status. The server writes it
// with WriteError; the client returns it from failed calls.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on code so errors.Is(err, authsdk.ErrConflict) works for
// errors decoded from a response.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of e with a different message.
func (e *APIError) WithMessage(msg string) *APIError {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithDetails returns a copy of e carrying per-field details.
func (e *APIError) WithDetails(details map[string]string) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

// WriteError writes e as a JSON error envelope.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorEnvelope{
		Status:  StatusError,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
		Message:    "the request body is malformed",
	}

	ErrValidation = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeValidation,
		Message:    "one or more fields are invalid",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidCredentials,
		Message:    "incorrect username or password",
	}

	ErrUnauthenticated = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthenticated,
		Message:    "could not validate credentials",
	}

	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeForbidden,
		Message:    "not enough privileges",
	}

	ErrConflict = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeConflict,
		Message:    "username or email already registered",
	}

	ErrNotConfigured = &APIError{
		StatusCode: http.StatusNotImplemented,
		Code:       ErrorCodeNotConfigured,
		Message:    "google sign-in is not configured",
	}

	ErrUnavailable = &APIError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       ErrorCodeUnavailable,
		Message:    "service temporarily unavailable, try again",
	}

	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "not found",
	}

	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response body into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       env.Code,
			Message:    env.Message,
			Details:    env.Details,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
