package clients_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/github-mcp-bridge/clients"
	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("defaults the name", func(t *testing.T) {
		c, secret, err := clients.New("", nil, now)
		require.NoError(t, err)
		require.Equal(t, "Claude", c.Name)
		require.NotNil(t, c.RedirectURIs)
		require.Len(t, secret, 36)
		require.NotEmpty(t, c.ID)
		require.Equal(t, now, c.CreatedAt)
	})

	t.Run("identifiers are unique", func(t *testing.T) {
		a, secretA, err := clients.New("a", nil, now)
		require.NoError(t, err)
		b, secretB, err := clients.New("b", nil, now)
		require.NoError(t, err)
		require.NotEqual(t, a.ID, b.ID)
		require.NotEqual(t, secretA, secretB)
	})
}

func TestClient_VerifySecret(t *testing.T) {
	c, secret, err := clients.New("app", []string{"https://app/cb"}, time.Now())
	require.NoError(t, err)

	require.True(t, c.VerifySecret(secret))
	require.False(t, c.VerifySecret("wrong"))
	require.False(t, c.VerifySecret(""))
	require.NotContains(t, string(c.SecretHash), secret)
}

func TestClient_HasRedirectURI(t *testing.T) {
	c := &clients.Client{RedirectURIs: []string{"https://app/cb", "http://localhost:3000/cb"}}

	require.True(t, c.HasRedirectURI("https://app/cb"))
	require.False(t, c.HasRedirectURI("https://app/cb/"))
	require.False(t, c.HasRedirectURI("https://evil/cb"))
}

func testRepo(t *testing.T, repo clients.Repo) {
	ctx := context.Background()
	c, _, err := clients.New("app", []string{"https://app/cb"}, time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, c))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.ID, got.ID)
	require.Equal(t, c.Name, got.Name)
	require.Equal(t, c.RedirectURIs, got.RedirectURIs)
	require.Equal(t, c.SecretHash, got.SecretHash)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, apperrors.ErrClientNotFound)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.Get(ctx, c.ID)
	require.ErrorIs(t, err, apperrors.ErrClientNotFound)

	require.Error(t, repo.Upsert(ctx, &clients.Client{}))
}

func TestInMemoryRepo(t *testing.T) {
	testRepo(t, clients.NewInMemoryRepo())
}

func TestRedisRepo(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	testRepo(t, clients.NewRedisRepo(rdb, "test:"))
}
