package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/edunexia/edunexia-api/pkg/jwtx"
)

const (
	DefaultSecretKey   = "development_secret_key_change_me_in_production"
	DefaultTokenTTL    = 7 * 24 * time.Hour
	DefaultSQLiteFile  = "edunexia.db"
	DefaultAPIPrefix   = "/api/v1"
	DefaultProjectName = "EduNexia API"
)

// Database drivers selected from DATABASE_URL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var defaultFileExtensions = []string{"jpg", "jpeg", "png", "pdf"}

// Config is resolved once at startup and never mutated afterwards.
type Config struct {
	ProjectName string // PROJECT_NAME (default: EduNexia API)
	APIPrefix   string // fixed: /api/v1
	Env         string // ENVIRONMENT (default: development)

	SecretKey string        // SECRET_KEY; required outside development
	Algorithm string        // ALGORITHM: HS256, HS384 or HS512 (default: HS256)
	TokenTTL  time.Duration // ACCESS_TOKEN_EXPIRE_MINUTES, minutes or Go duration (default: 7 days)

	// CORSOrigins is ordered and de-duplicated. Empty means any origin,
	// without credentials.
	CORSOrigins []string

	GoogleClientID     string // GOOGLE_CLIENT_ID; empty disables Google sign-in
	GoogleClientSecret string // GOOGLE_CLIENT_SECRET
	GoogleRedirectURI  string // GOOGLE_REDIRECT_URI; blank or localhost is a placeholder
	FrontendURL        string // FRONTEND_URL (default: http://localhost:3000)

	DatabaseDriver string // sqlite or postgres, derived from DATABASE_URL
	DatabaseDSN    string // normalized connection string or sqlite path

	PasswordPepper string // PASSWORD_PEPPER

	UploadDir         string   // UPLOAD_DIR (default: uploads)
	MaxFileSizeMB     int      // MAX_FILE_SIZE_MB (default: 10)
	AllowedExtensions []string // ALLOWED_FILE_EXTENSIONS (default: jpg,jpeg,png,pdf)

	LogLevel            string        // LOG_LEVEL (default: info)
	LogFormat           string        // LOG_FORMAT (default: json)
	Port                int           // PORT (default: 8000)
	ShutdownGracePeriod time.Duration // SHUTDOWN_GRACE_PERIOD (default: 10s)
}

// IsDevelopment reports whether the development-only defaults may apply.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// LoadConfig resolves the configuration from the process environment.
func LoadConfig() (Config, error) {
	return Resolve(os.Getenv)
}

// Resolve builds a Config from lookup. It fails on unusable token settings
// or a DATABASE_URL no driver can serve; everything else falls back to a
// default.
func Resolve(lookup func(string) string) (Config, error) {
	env := envReader(lookup)

	cfg := Config{
		ProjectName: env.stringOr("PROJECT_NAME", DefaultProjectName),
		APIPrefix:   DefaultAPIPrefix,
		Env:         env.stringOr("ENVIRONMENT", "development"),

		SecretKey: env.string("SECRET_KEY"),
		Algorithm: strings.ToUpper(env.stringOr("ALGORITHM", "HS256")),
		TokenTTL:  env.durationOr("ACCESS_TOKEN_EXPIRE_MINUTES", DefaultTokenTTL),

		GoogleClientID:     env.string("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: env.string("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  env.string("GOOGLE_REDIRECT_URI"),
		FrontendURL:        env.stringOr("FRONTEND_URL", "http://localhost:3000"),

		PasswordPepper: env.string("PASSWORD_PEPPER"),

		UploadDir:     env.stringOr("UPLOAD_DIR", "uploads"),
		MaxFileSizeMB: env.intOr("MAX_FILE_SIZE_MB", 10),

		LogLevel:            env.stringOr("LOG_LEVEL", "info"),
		LogFormat:           env.stringOr("LOG_FORMAT", "json"),
		Port:                env.intOr("PORT", 8000),
		ShutdownGracePeriod: env.durationOr("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	origins := env.string("BACKEND_CORS_ORIGINS")
	if strings.TrimSpace(origins) == "" {
		origins = env.string("ALLOWED_ORIGINS")
	}
	corsOrigins, err := parseList(origins, func(s string) string {
		return strings.TrimRight(s, "/")
	})
	if err != nil {
		return Config{}, fmt.Errorf("BACKEND_CORS_ORIGINS: %w", err)
	}
	cfg.CORSOrigins = corsOrigins

	if raw := env.string("ALLOWED_FILE_EXTENSIONS"); strings.TrimSpace(raw) != "" {
		exts, err := parseList(raw, func(s string) string {
			return strings.ToLower(strings.TrimLeft(s, "."))
		})
		if err != nil {
			return Config{}, fmt.Errorf("ALLOWED_FILE_EXTENSIONS: %w", err)
		}
		cfg.AllowedExtensions = exts
	} else {
		cfg.AllowedExtensions = slices.Clone(defaultFileExtensions)
	}

	driver, dsn, err := normalizeDatabaseURL(env.string("DATABASE_URL"))
	if err != nil {
		return Config{}, err
	}
	cfg.DatabaseDriver, cfg.DatabaseDSN = driver, dsn

	if cfg.SecretKey == "" {
		if !cfg.IsDevelopment() {
			return Config{}, fmt.Errorf("SECRET_KEY is required when ENVIRONMENT=%s", cfg.Env)
		}
		cfg.SecretKey = DefaultSecretKey
	}
	if !slices.Contains(jwtx.SupportedAlgorithms(), cfg.Algorithm) {
		return Config{}, fmt.Errorf("unsupported ALGORITHM %q (want one of %s)",
			cfg.Algorithm, strings.Join(jwtx.SupportedAlgorithms(), ", "))
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}

// parseList accepts a JSON array of strings or a comma separated string.
// A value starting with "[" must be a valid JSON array. Entries are
// trimmed, passed through clean, and de-duplicated keeping the first
// occurrence. "" and "[]" yield an empty list.
func parseList(raw string, clean func(string) string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("invalid JSON list %q: %w", raw, err)
		}
	} else {
		items = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if clean != nil {
			it = clean(it)
		}
		if it == "" || slices.Contains(out, it) {
			continue
		}
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

var postgresSchemes = []string{
	"postgres://",
	"postgresql://",
	"postgresql+psycopg2://",
	"postgresql+psycopg://",
}

// normalizeDatabaseURL maps DATABASE_URL onto a driver and a DSN it accepts.
func normalizeDatabaseURL(raw string) (driver, dsn string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DriverSQLite, DefaultSQLiteFile, nil
	}

	lower := strings.ToLower(raw)
	for _, scheme := range postgresSchemes {
		if strings.HasPrefix(lower, scheme) {
			return DriverPostgres, "postgres://" + raw[len(scheme):], nil
		}
	}

	switch {
	case strings.HasPrefix(lower, "sqlite:///"):
		return DriverSQLite, raw[len("sqlite:///"):], nil
	case strings.HasPrefix(lower, "sqlite://"):
		return DriverSQLite, raw[len("sqlite://"):], nil
	case strings.HasPrefix(lower, "file:"):
		return DriverSQLite, raw[len("file:"):], nil
	case strings.Contains(raw, "://"):
		return "", "", errors.New("DATABASE_URL: unsupported scheme")
	}
	return DriverSQLite, raw, nil
}

// envReader wraps a lookup function with typed, defaulting accessors.
type envReader func(string) string

func (e envReader) string(key string) string {
	return strings.TrimSpace(e(key))
}

func (e envReader) stringOr(key, defaultValue string) string {
	if value := e.string(key); value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) intOr(key string, defaultValue int) int {
	value := e.string(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func (e envReader) durationOr(key string, defaultValue time.Duration) time.Duration {
	value := e.string(key)
	if value == "" {
		return defaultValue
	}

	// Plain integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	// Otherwise a duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
