package security

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/github-mcp-bridge/oauthmodel"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultMaxRegistrationsPerWindow = 10
	DefaultRegistrationWindow        = time.Hour
	DefaultCleanupInterval           = 15 * time.Minute
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter is a token bucket per client IP. limit events are allowed per
// window, refilling evenly across it.
type RateLimiter struct {
	mu       sync.Mutex
	entries  map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	window   time.Duration
	nowFunc  func() time.Time
	onReject func(r *http.Request)

	trustProxy        bool
	trustedProxyCount int

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

type Option func(*RateLimiter)

func WithNowFunc(now func() time.Time) Option {
	return func(rl *RateLimiter) {
		rl.nowFunc = now
	}
}

// WithRejectHook is called for every rejected request, for metrics.
func WithRejectHook(hook func(r *http.Request)) Option {
	return func(rl *RateLimiter) {
		rl.onReject = hook
	}
}

// WithTrustedProxies keys requests on the forwarded client address, assuming
// count reverse proxies in front of the server. Without it only RemoteAddr is used.
func WithTrustedProxies(count int) Option {
	return func(rl *RateLimiter) {
		rl.trustProxy = true
		rl.trustedProxyCount = count
	}
}

func NewRateLimiter(maxPerWindow int, window time.Duration, options ...Option) *RateLimiter {
	if maxPerWindow <= 0 {
		maxPerWindow = DefaultMaxRegistrationsPerWindow
	}
	if window <= 0 {
		window = DefaultRegistrationWindow
	}
	rl := &RateLimiter{
		entries:     make(map[string]*limiterEntry),
		limit:       rate.Every(window / time.Duration(maxPerWindow)),
		burst:       maxPerWindow,
		window:      window,
		nowFunc:     time.Now,
		stopCleanup: make(chan struct{}),
	}
	for _, opt := range options {
		opt(rl)
	}
	return rl
}

// Allow consumes one token for key and reports whether the request may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.nowFunc()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	entry, ok := rl.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.entries[key] = entry
	}
	entry.lastAccess = now
	return entry.limiter.AllowN(now, 1)
}

// Cleanup drops limiters idle for longer than maxIdle. An idle limiter has
// refilled completely, so dropping it loses no state once maxIdle >= window.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	cutoff := rl.nowFunc().Add(-maxIdle)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for key, entry := range rl.entries {
		if entry.lastAccess.Before(cutoff) {
			delete(rl.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

// Start prunes idle limiters every interval until Stop.
func (rl *RateLimiter) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-rl.stopCleanup:
				return
			case <-ticker.C:
				rl.Cleanup(rl.window)
			}
		}
	}()
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, rl.trustProxy, rl.trustedProxyCount)
		if !rl.Allow(ip) {
			log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
			if rl.onReject != nil {
				rl.onReject(r)
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": oauthmodel.CodeTooManyRequests})
			return
		}
		next(w, r)
	}
}
