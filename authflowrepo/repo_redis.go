package authflowrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
	"github.com/redis/go-redis/v9"
)

const (
	pendingNamespace = "pendingAuth:"
	codesNamespace   = "authCodes:"
)

// RedisStore is a durable Store shared by every instance pointing at the same
// redis. Keys also carry a redis TTL so abandoned entries disappear without a sweep.
type RedisStore[T any] struct {
	client redis.UniversalClient
	prefix string
	opts   options
}

var _ Store[IssuedCode] = (*RedisStore[IssuedCode])(nil)

func NewRedisStore[T any](client redis.UniversalClient, prefix string, opts ...Option) *RedisStore[T] {
	return &RedisStore[T]{
		client: client,
		prefix: prefix,
		opts:   buildOptions(opts),
	}
}

// NewRedisRepo creates a Repo with both namespaces under keyPrefix.
func NewRedisRepo(client redis.UniversalClient, keyPrefix string, opts ...Option) *Repo {
	return &Repo{
		Pending: NewRedisStore[PendingAuthorization](client, keyPrefix+pendingNamespace, opts...),
		Codes:   NewRedisStore[IssuedCode](client, keyPrefix+codesNamespace, opts...),
	}
}

func (s *RedisStore[T]) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore[T]) Put(ctx context.Context, key string, record T) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	data, err := json.Marshal(entry[T]{Record: record, CreatedAt: s.opts.nowFunc()})
	if err != nil {
		return fmt.Errorf("[RedisStore.Put] marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, s.opts.ttl).Err(); err != nil {
		return fmt.Errorf("[RedisStore.Put] set: %w", err)
	}
	return nil
}

func (s *RedisStore[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		return zero, notFound(err, "Get")
	}

	e, err := s.decode(data)
	if err != nil {
		return zero, err
	}
	if e.expired(s.opts.nowFunc(), s.opts.ttl) {
		if err := s.Delete(ctx, key); err != nil {
			return zero, err
		}
		return zero, apperrors.ErrNotFound
	}
	return e.Record, nil
}

func (s *RedisStore[T]) Take(ctx context.Context, key string) (T, error) {
	var zero T
	data, err := s.client.GetDel(ctx, s.key(key)).Bytes()
	if err != nil {
		return zero, notFound(err, "Take")
	}

	e, err := s.decode(data)
	if err != nil {
		return zero, err
	}
	if e.expired(s.opts.nowFunc(), s.opts.ttl) {
		return zero, apperrors.ErrNotFound
	}
	return e.Record, nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("[RedisStore.Delete] del: %w", err)
	}
	return nil
}

func (s *RedisStore[T]) decode(data []byte) (entry[T], error) {
	var e entry[T]
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("[RedisStore] corrupt entry: %w", err)
	}
	return e, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, redis.Nil) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("[RedisStore.%s] %w", op, err)
}
