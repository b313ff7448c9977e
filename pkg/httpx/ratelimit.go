package httpx

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cartelera/cartelera/pkg/slogx"
)

// RatePolicy defines a fixed-window rate limit for one route class.
type RatePolicy struct {
	// Limit is the number of requests allowed per window per client key.
	Limit int
	// Window is the fixed time slice attempts are counted within.
	Window time.Duration
}

// Default policies for the protected route classes. Deployments override
// these via configuration; the values mirror the abuse thresholds the login
// and review-submission endpoints have always carried.
var (
	// LoginPolicy bounds credential-guessing attempts.
	LoginPolicy = RatePolicy{Limit: 5, Window: 15 * time.Minute}

	// ReviewPolicy bounds review submissions.
	ReviewPolicy = RatePolicy{Limit: 15, Window: time.Hour}
)

// Limiter decides whether a request from the given client key is allowed.
// Implementations must be safe for concurrent use. Limiter instances are
// explicitly constructed and injected into the router, never package-level
// singletons, so tests get isolated state and deployments can swap in a
// shared backend.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// KeyExtractor derives the client key a request is counted under.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor keys the request by the socket's remote address.
// Forwarding headers are ignored: they arrive from the client, and a caller
// who controls its own key resets its counter on every request. Deployments
// behind a proxy that overwrites them use ForwardedIPKeyExtractor instead.
func IPKeyExtractor(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ForwardedIPKeyExtractor prefers X-Forwarded-For, then X-Real-IP, falling
// back to the remote address. Only safe behind a trusted proxy that strips
// inbound copies of these headers and sets its own.
func ForwardedIPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return IPKeyExtractor(r)
}

// FixedWindowLimiter counts requests per client key inside fixed windows:
// windowIndex = floor(now / window), and a request landing in a new window
// resets the count before counting itself. Bursts straddling a window
// boundary can therefore briefly exceed the limit; that is a documented
// property of fixed-window counting, not a bug.
type FixedWindowLimiter struct {
	policy  RatePolicy
	buckets sync.Map // map[string]*bucket

	mu          sync.Mutex
	lastCleanup time.Time

	now func() time.Time // overridable for tests
}

// bucket is the counter for one client key. Each bucket has its own lock so
// contention stays scoped to the single client being counted.
type bucket struct {
	mu     sync.Mutex
	window int64
	count  int
}

// NewFixedWindowLimiter builds an in-process limiter for one route class.
func NewFixedWindowLimiter(policy RatePolicy) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		policy:      policy,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Allow counts the request and reports whether it is within the limit.
func (l *FixedWindowLimiter) Allow(_ context.Context, key string) (bool, error) {
	idx := l.windowIndex(l.now())

	b := l.getBucket(key)
	b.mu.Lock()
	if b.window != idx {
		b.window = idx
		b.count = 0
	}
	b.count++
	allowed := b.count <= l.policy.Limit
	b.mu.Unlock()

	l.maybeCleanup(idx)
	return allowed, nil
}

func (l *FixedWindowLimiter) windowIndex(t time.Time) int64 {
	return t.UnixNano() / int64(l.policy.Window)
}

func (l *FixedWindowLimiter) getBucket(key string) *bucket {
	if b, ok := l.buckets.Load(key); ok {
		return b.(*bucket)
	}
	actual, _ := l.buckets.LoadOrStore(key, &bucket{})
	return actual.(*bucket)
}

// maybeCleanup drops buckets whose window has elapsed so the map does not
// grow without bound across ephemeral client keys.
func (l *FixedWindowLimiter) maybeCleanup(currentIdx int64) {
	l.mu.Lock()
	if time.Since(l.lastCleanup) < 5*time.Minute {
		l.mu.Unlock()
		return
	}
	l.lastCleanup = time.Now()
	l.mu.Unlock()

	l.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		stale := b.window < currentIdx
		b.mu.Unlock()
		if stale {
			l.buckets.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware rejects requests once the client key exceeds the
// limiter's policy. The denial carries a generic retry message only: no
// remaining-time detail, so callers cannot probe for the window reset.
func RateLimitMiddleware(l Limiter, keyExtractor KeyExtractor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			key := keyExtractor(r)
			if key == "" {
				// Without a key there is nothing to count against; let the
				// request through but leave a trace.
				log.Warn("rate limit: unable to extract client key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := l.Allow(ctx, key)
			if err != nil {
				// A broken limiter backend must not take down login for
				// everyone; fail open and log loudly.
				log.Error("rate limit backend error, allowing request", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				log.Warn("rate limit exceeded", "key", key, "endpoint", r.URL.Path)
				WriteError(w, http.StatusTooManyRequests,
					"rate_limited", "Too many requests, please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by the socket's client IP, the client identity both
// protected route classes count against.
func RateLimitByIP(l Limiter) Middleware {
	return RateLimitMiddleware(l, IPKeyExtractor)
}
