package authsdk

import "time"

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON response from the API.
type Envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// ErrorEnvelope is the body of every non-2xx JSON response.
type ErrorEnvelope struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// AccountSummary is the public view of an account.
type AccountSummary struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	Federated bool      `json:"federated"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthData is returned by login and register.
type AuthData struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        AccountSummary `json:"user"`
}

// SetActiveRequest is the body of PATCH /api/v1/accounts/{id}/active.
// Active is required.
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// LoginRequest is the body of POST /api/v1/auth/student/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/v1/auth/student/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Service string        `json:"service,omitempty"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
}
