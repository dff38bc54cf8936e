package authflowrepo

import (
	"context"
	"time"
)

const (
	// DefaultTTL bounds the life of pending authorizations and issued codes.
	DefaultTTL = 10 * time.Minute
	// DefaultSweepInterval is how often in-memory stores drop expired entries.
	DefaultSweepInterval = time.Minute
)

// PendingAuthorization is created by /oauth/authorize, keyed by the client's state,
// and consumed by /oauth/callback.
type PendingAuthorization struct {
	ClientID      string `json:"clientId,omitempty"`
	CodeChallenge string `json:"codeChallenge"`
	RedirectURI   string `json:"redirectUri"`
}

// IssuedCode is the one-time authorization code minted by the callback and
// redeemed by the token endpoint.
type IssuedCode struct {
	ClientID      string `json:"clientId,omitempty"`
	CodeChallenge string `json:"codeChallenge"`
	RedirectURI   string `json:"redirectUri"`
	Email         string `json:"email"`
}

// Store maps short-lived keys to records. Put stamps the record with the
// current time; Get and Take report errors.ErrNotFound once the TTL has passed.
type Store[T any] interface {
	Put(ctx context.Context, key string, record T) error
	// Get may delete an expired entry as a side effect.
	Get(ctx context.Context, key string) (T, error)
	// Take returns the record and removes it in one step.
	Take(ctx context.Context, key string) (T, error)
	Delete(ctx context.Context, key string) error
}

// Repo groups the two namespaces of the authorization flow.
type Repo struct {
	Pending Store[PendingAuthorization]
	Codes   Store[IssuedCode]
}

type sweeper interface {
	Start()
	Stop()
}

// Start begins background expiry on stores that support it.
func (r *Repo) Start() {
	for _, s := range []any{r.Pending, r.Codes} {
		if sw, ok := s.(sweeper); ok {
			sw.Start()
		}
	}
}

// Stop halts background expiry. Safe to call more than once.
func (r *Repo) Stop() {
	for _, s := range []any{r.Pending, r.Codes} {
		if sw, ok := s.(sweeper); ok {
			sw.Stop()
		}
	}
}

type options struct {
	ttl           time.Duration
	sweepInterval time.Duration
	nowFunc       func() time.Time
}

type Option func(*options)

func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

func WithSweepInterval(interval time.Duration) Option {
	return func(o *options) {
		o.sweepInterval = interval
	}
}

// WithNowFunc replaces the clock, primarily for tests.
func WithNowFunc(now func() time.Time) Option {
	return func(o *options) {
		o.nowFunc = now
	}
}

func buildOptions(opts []Option) options {
	o := options{
		ttl:           DefaultTTL,
		sweepInterval: DefaultSweepInterval,
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ttl <= 0 {
		o.ttl = DefaultTTL
	}
	if o.sweepInterval <= 0 {
		o.sweepInterval = DefaultSweepInterval
	}
	return o
}

// entry wraps a record with its creation time.
type entry[T any] struct {
	Record    T         `json:"record"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e entry[T]) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) > ttl
}
