package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rackworks/rackdoc/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines a token-bucket rate limit profile.
type RateLimitConfig struct {
	// RequestsPerWindow is the sustained number of requests allowed per Window.
	RequestsPerWindow int
	// Window is the averaging window for the sustained rate.
	Window time.Duration
	// Burst is the bucket capacity available immediately.
	Burst int
}

// Profiles for different endpoint sensitivities.
var (
	// StrictLimit protects credential-bearing endpoints (login, invite accept).
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit covers authenticated admin operations.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit covers read-heavy authenticated endpoints and health probes.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
)

// KeyExtractor derives the bucketing key for a request (IP, user id, ...).
type KeyExtractor func(*http.Request) string

// IPKey extracts the client IP, honoring X-Forwarded-For and X-Real-IP for
// proxied deployments.
func IPKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserKey extracts the authenticated user id, falling back to the client IP
// for unauthenticated requests.
func UserKey(r *http.Request) string {
	if uid := UserIDFromContext(r.Context()); uid != "" {
		return uid
	}
	return IPKey(r)
}

// limiterSet lazily creates one rate.Limiter per key and prunes idle entries.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	pruned   time.Time
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.limiters[key]; ok {
		return l
	}

	s.maybePruneLocked()

	l := rate.NewLimiter(s.rate, s.burst)
	s.limiters[key] = l
	return l
}

// maybePruneLocked drops limiters whose buckets are full again, at most once
// every five minutes. A full bucket means the key has been idle long enough
// that recreating the limiter later loses nothing.
func (s *limiterSet) maybePruneLocked() {
	if time.Since(s.pruned) < 5*time.Minute {
		return
	}
	s.pruned = time.Now()
	for key, l := range s.limiters {
		if l.Tokens() >= float64(s.burst) {
			delete(s.limiters, key)
		}
	}
}

// RateLimit builds a rate limiting middleware over the given profile and key
// extractor.
func RateLimit(cfg RateLimitConfig, key KeyExtractor) Middleware {
	set := &limiterSet{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:    cfg.Burst,
		pruned:   time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			k := key(r)
			if k == "" {
				// No key means no bucket; allow rather than block everyone.
				log.Warn("rate limit: empty key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := set.get(k)
			if !limiter.Allow() {
				res := limiter.Reserve()
				delay := res.Delay()
				res.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))

				log.Warn("rate limit exceeded", "key", k, "path", r.URL.Path)
				WriteError(w, http.StatusTooManyRequests,
					"rate_limit_exceeded", "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by client IP.
func RateLimitByIP(cfg RateLimitConfig) Middleware { return RateLimit(cfg, IPKey) }

// RateLimitByUser limits by authenticated user, falling back to IP.
func RateLimitByUser(cfg RateLimitConfig) Middleware { return RateLimit(cfg, UserKey) }
