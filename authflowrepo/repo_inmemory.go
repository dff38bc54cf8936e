package authflowrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
)

// MemoryStore is a thread-safe in-process Store. State is lost on restart,
// which is acceptable for a single instance.
type MemoryStore[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	opts    options

	lifecycle sync.Mutex
	stop      chan struct{}
	done      chan struct{}
}

var _ Store[IssuedCode] = (*MemoryStore[IssuedCode])(nil)

func NewMemoryStore[T any](opts ...Option) *MemoryStore[T] {
	return &MemoryStore[T]{
		entries: make(map[string]entry[T]),
		opts:    buildOptions(opts),
	}
}

// NewInMemoryRepo creates a Repo backed by two MemoryStores. Call Start to enable the sweep.
func NewInMemoryRepo(opts ...Option) *Repo {
	return &Repo{
		Pending: NewMemoryStore[PendingAuthorization](opts...),
		Codes:   NewMemoryStore[IssuedCode](opts...),
	}
}

func (s *MemoryStore[T]) Put(_ context.Context, key string, record T) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{Record: record, CreatedAt: s.opts.nowFunc()}
	return nil
}

func (s *MemoryStore[T]) Get(_ context.Context, key string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(key, false)
}

func (s *MemoryStore[T]) Take(_ context.Context, key string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(key, true)
}

// lookup must be called with mu held.
func (s *MemoryStore[T]) lookup(key string, remove bool) (T, error) {
	var zero T
	e, ok := s.entries[key]
	if !ok {
		return zero, apperrors.ErrNotFound
	}
	if e.expired(s.opts.nowFunc(), s.opts.ttl) {
		delete(s.entries, key)
		return zero, apperrors.ErrNotFound
	}
	if remove {
		delete(s.entries, key)
	}
	return e.Record, nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len reports the number of retained entries, expired or not.
func (s *MemoryStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes every expired entry in a single pass and returns how many were removed.
func (s *MemoryStore[T]) Sweep() int {
	now := s.opts.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, e := range s.entries {
		if e.expired(now, s.opts.ttl) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Start runs Sweep on the configured interval until Stop is called.
func (s *MemoryStore[T]) Start() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.sweepLoop(s.stop, s.done)
}

func (s *MemoryStore[T]) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.done = nil
}

func (s *MemoryStore[T]) sweepLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.opts.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
