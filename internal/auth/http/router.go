package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/service"
	"github.com/edunexia/edunexia-api/internal/auth/store"
	"github.com/edunexia/edunexia-api/pkg/httpx"
	"github.com/edunexia/edunexia-api/pkg/slogx"

	_ "github.com/edunexia/edunexia-api/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits selects the limiter profile for each class of route.
type RateLimits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
	Public   httpx.RateLimitConfig
}

// DefaultRateLimits returns the pkg/httpx profiles with RATELIMIT_*
// overrides from the environment.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.RateLimitProfile(httpx.ProfileStrict, os.Getenv),
		Moderate: httpx.RateLimitProfile(httpx.ProfileModerate, os.Getenv),
		Lenient:  httpx.RateLimitProfile(httpx.ProfileLenient, os.Getenv),
		Public:   httpx.RateLimitProfile(httpx.ProfilePublic, os.Getenv),
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	apiPrefix    string
	serviceName  string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// Limits defaults to DefaultRateLimits and may be replaced before
	// ApplyRoutes.
	Limits RateLimits

	CredentialService *service.CredentialService
	FederationService *service.FederationService
	Guard             *service.Guard
	AccountService    *service.AccountService
}

func NewRouter(
	apiPrefix, serviceName, buildVersion string,
	corsOrigins []string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		apiPrefix:    apiPrefix,
		serviceName:  serviceName,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	// Logging runs first so CORS rejections are logged too.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(corsOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerStudentAuth()
	r.registerGoogle()
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/",
		httpx.Chain(httpSwagger.Handler(),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			EduNexia API
//	@version		1.0.0
//	@description	Authentication and identity service for the EduNexia practice-test platform.
//	@description
//	@description				Session credentials are HMAC-signed JWTs passed as "Authorization: Bearer {token}".
//
//	@host						localhost:8000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session credential. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerStudentAuth() {
	h := &StudentAuthHandler{Credentials: r.CredentialService}

	// Login - strict per username from one address (password guessing),
	// moderate per address so a classroom behind one NAT can still sign in
	r.Mux.Handle("POST "+r.apiPrefix+"/auth/student/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.Limits.Moderate),
			httpx.RateLimitByIPAndField(r.Limits.Strict, "username"),
		),
	)

	// Registration - strict rate limit by IP
	r.Mux.Handle("POST "+r.apiPrefix+"/auth/student/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)

	// Current account - any role, moderate rate limit by account
	r.Mux.Handle("GET "+r.apiPrefix+"/auth/student/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(guardAuthenticator{guard: r.Guard}, writeError),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{Accounts: r.AccountService}

	// Operator endpoints - admin only
	r.Mux.Handle("PATCH "+r.apiPrefix+"/accounts/{id}/active",
		httpx.Chain(http.HandlerFunc(h.HandleSetActive),
			httpx.AuthnMiddleware(guardAuthenticator{guard: r.Guard}, writeError),
			httpx.Authorize(requireRole(domain.RoleAdmin), writeError),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)
}

func (r *Router) registerGoogle() {
	h := &GoogleHandler{Federation: r.FederationService}

	// Browser redirects - lenient rate limit by IP
	r.Mux.Handle("GET "+r.apiPrefix+"/auth/google/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET "+r.apiPrefix+service.CallbackPath,
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /health",
		httpx.Chain(HealthHandler(r.serviceName, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}
