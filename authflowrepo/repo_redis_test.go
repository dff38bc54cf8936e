package authflowrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/github-mcp-bridge/authflowrepo"
	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	repo := authflowrepo.NewRedisRepo(client, "test:")

	pending := authflowrepo.PendingAuthorization{ClientID: "cid", CodeChallenge: "c1", RedirectURI: "https://app/cb"}
	require.NoError(t, repo.Pending.Put(ctx, "s1", pending))
	require.True(t, mr.Exists("test:pendingAuth:s1"))

	got, err := repo.Pending.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, pending, got)

	require.NoError(t, repo.Pending.Delete(ctx, "s1"))
	_, err = repo.Pending.Get(ctx, "s1")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisRepo_TakeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	repo := authflowrepo.NewRedisRepo(client, "test:")

	code := authflowrepo.IssuedCode{CodeChallenge: "c", RedirectURI: "https://app/cb", Email: "me@example.com"}
	require.NoError(t, repo.Codes.Put(ctx, "abc", code))

	got, err := repo.Codes.Take(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, code, got)

	_, err = repo.Codes.Take(ctx, "abc")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisStore_ClockExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	clock := newFakeClock()
	store := authflowrepo.NewRedisStore[authflowrepo.IssuedCode](client, "codes:", authflowrepo.WithNowFunc(clock.Now))

	require.NoError(t, store.Put(ctx, "abc", authflowrepo.IssuedCode{}))
	clock.Advance(authflowrepo.DefaultTTL + time.Second)

	_, err := store.Get(ctx, "abc")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.False(t, mr.Exists("codes:abc"), "expired entry should be deleted on read")
}

func TestRedisStore_KeyTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := authflowrepo.NewRedisStore[authflowrepo.PendingAuthorization](client, "p:", authflowrepo.WithTTL(time.Minute))

	require.NoError(t, store.Put(ctx, "s1", authflowrepo.PendingAuthorization{}))
	require.Equal(t, time.Minute, mr.TTL("p:s1"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "s1")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := authflowrepo.NewRedisStore[authflowrepo.PendingAuthorization](client, "p:")

	require.NoError(t, mr.Set("p:bad", "not-json"))
	_, err := store.Get(ctx, "bad")
	require.Error(t, err)
	require.NotErrorIs(t, err, apperrors.ErrNotFound)
}
