package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/edunexia/edunexia-api/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket: RequestsPerWindow refill evenly over
// Window, and up to Burst may be spent at once.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

func (c RateLimitConfig) every() rate.Limit {
	if c.RequestsPerWindow <= 0 || c.Window <= 0 {
		return rate.Inf
	}
	return rate.Every(c.Window / time.Duration(c.RequestsPerWindow))
}

// Profile names. Each can be tuned with RATELIMIT_<NAME>_REQUESTS,
// RATELIMIT_<NAME>_WINDOW_SEC and RATELIMIT_<NAME>_BURST.
const (
	ProfileStrict   = "STRICT"   // login, register
	ProfileModerate = "MODERATE" // authenticated account calls
	ProfileLenient  = "LENIENT"  // OAuth redirects, health
	ProfilePublic   = "PUBLIC"   // swagger
)

var profiles = map[string]RateLimitConfig{
	ProfileStrict:   {RequestsPerWindow: 5, Window: time.Minute, Burst: 5},
	ProfileModerate: {RequestsPerWindow: 20, Window: time.Minute, Burst: 20},
	ProfileLenient:  {RequestsPerWindow: 100, Window: time.Minute, Burst: 100},
	ProfilePublic:   {RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
}

// RateLimitProfile returns the named profile with overrides read through
// getenv. Values that are not positive integers are ignored. An unknown
// name yields the zero config.
func RateLimitProfile(name string, getenv func(string) string) RateLimitConfig {
	cfg := profiles[name]

	positive := func(field string) (int, bool) {
		n, err := strconv.Atoi(strings.TrimSpace(getenv("RATELIMIT_" + name + "_" + field)))
		return n, err == nil && n > 0
	}
	if n, ok := positive("REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positive("WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positive("BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

// KeyFunc buckets requests. An empty key exempts the request from that
// limiter.
type KeyFunc func(*http.Request) string

// ClientIP is the left-most X-Forwarded-For entry, then X-Real-IP, then the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if ip := firstHeaderValue(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// PrincipalKey is the id stored by AuthnMiddleware, or "" when anonymous.
func PrincipalKey(r *http.Request) string {
	id, _ := r.Context().Value(CtxKeyUserID).(string)
	return id
}

// JSONFieldKey keys on a top-level string field of a JSON body, lower-cased
// and trimmed. The body is buffered and put back for the handler. Anything
// that is not a JSON object with that string field yields "".
func JSONFieldKey(field string) KeyFunc {
	return func(r *http.Request) string {
		if r.Body == nil || r.Body == http.NoBody {
			return ""
		}
		buf, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONBody+1))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(buf))
		if err != nil {
			return ""
		}

		var fields map[string]json.RawMessage
		if json.Unmarshal(buf, &fields) != nil {
			return ""
		}
		var v string
		if json.Unmarshal(fields[field], &v) != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(v))
	}
}

// JoinKeys concatenates the non-empty keys of fns with "|". It is empty
// only when every part is.
func JoinKeys(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, "|")
	}
}

// requireAll is like JoinKeys but exempts the request unless every part is
// present.
func requireAll(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, len(fns))
		for i, fn := range fns {
			if parts[i] = fn(r); parts[i] == "" {
				return ""
			}
		}
		return strings.Join(parts, "|")
	}
}

// minIdle is the shortest time a bucket may go untouched before it is
// dropped. Buckets idle for a full Window have refilled anyway.
const minIdle = 5 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type buckets struct {
	cfg  RateLimitConfig
	idle time.Duration
	now  func() time.Time

	mu        sync.Mutex
	byKey     map[string]*bucket
	lastSweep time.Time
}

func newBuckets(cfg RateLimitConfig, now func() time.Time) *buckets {
	return &buckets{
		cfg:       cfg,
		idle:      max(cfg.Window, minIdle),
		now:       now,
		byKey:     make(map[string]*bucket),
		lastSweep: now(),
	}
}

// take spends one token for key. When none is left it reports how long
// until the next one.
func (b *buckets) take(key string) (time.Duration, bool) {
	now := b.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastSweep) >= b.idle {
		for k, e := range b.byKey {
			if now.Sub(e.lastSeen) >= b.idle {
				delete(b.byKey, k)
			}
		}
		b.lastSweep = now
	}

	e, ok := b.byKey[key]
	if !ok {
		e = &bucket{lim: rate.NewLimiter(b.cfg.every(), b.cfg.Burst)}
		b.byKey[key] = e
	}
	e.lastSeen = now

	if e.lim.AllowN(now, 1) {
		return 0, true
	}
	res := e.lim.ReserveN(now, 1)
	wait := res.DelayFrom(now)
	res.CancelAt(now)
	return wait, false
}

// RateLimit rejects requests with 429 once their key has spent its bucket.
func RateLimit(cfg RateLimitConfig, key KeyFunc) Middleware {
	return rateLimit(newBuckets(cfg, time.Now), key)
}

func rateLimit(b *buckets, key KeyFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			wait, ok := b.take(k)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			secs := max(int((wait+time.Second-1)/time.Second), 1)
			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", k,
				"path", r.URL.Path,
				"retry_after", secs,
			)

			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(b.cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", b.cfg.Window.String())
			WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"status":  "error",
				"code":    "rate_limit_exceeded",
				"message": "Too many requests. Please try again later.",
			})
		})
	}
}

// RateLimitByIP buckets by client address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, ClientIP)
}

// RateLimitByUser buckets by authenticated account and address, so it must
// run after AuthnMiddleware. Anonymous requests fall back to the address.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, JoinKeys(PrincipalKey, ClientIP))
}

// RateLimitByIPAndField buckets by client address plus a JSON body field,
// such as the username on a login. Requests without the field are left to
// the other limiters on the route.
func RateLimitByIPAndField(cfg RateLimitConfig, field string) Middleware {
	return RateLimit(cfg, requireAll(ClientIP, JSONFieldKey(field)))
}
