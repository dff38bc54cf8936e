package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
	"github.com/jrsteele09/github-mcp-bridge/token"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "https://bridge.example.com"
	testEmail  = "me@example.com"
)

func newManager(t *testing.T, secret string, now func() time.Time) *token.Manager {
	t.Helper()
	signer, err := token.NewHMACSigner(secret)
	require.NoError(t, err)
	return token.New(signer, testIssuer, token.WithNowFunc(now))
}

func TestNewHMACSigner_EmptySecret(t *testing.T) {
	_, err := token.NewHMACSigner("")
	require.Error(t, err)
}

func TestManager_AccessToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := newManager(t, "secret", func() time.Time { return now })

	raw, err := m.CreateAccessToken(testEmail)
	require.NoError(t, err)

	claims, err := m.Verify(raw, token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testEmail, claims.Email)
	require.Equal(t, testEmail, claims.Subject)
	require.Equal(t, testIssuer, claims.Issuer)
	require.Equal(t, token.AccessToken, claims.Type)
	require.NotEmpty(t, claims.ID)
	require.Equal(t, now.Add(token.DefaultAccessTokenExpiry), claims.ExpiresAt.Time)
}

func TestManager_TokenTypesAreNotInterchangeable(t *testing.T) {
	m := newManager(t, "secret", time.Now)

	access, err := m.CreateAccessToken(testEmail)
	require.NoError(t, err)
	refresh, err := m.CreateRefreshToken(testEmail)
	require.NoError(t, err)

	_, err = m.Verify(refresh, token.AccessToken)
	require.ErrorIs(t, err, apperrors.ErrWrongTokenType)

	_, err = m.Verify(access, token.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrWrongTokenType)

	claims, err := m.Verify(refresh, token.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, token.RefreshToken, claims.Type)
}

func TestManager_UniqueIDs(t *testing.T) {
	m := newManager(t, "secret", time.Now)

	a, err := m.CreateAccessToken(testEmail)
	require.NoError(t, err)
	b, err := m.CreateAccessToken(testEmail)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestManager_VerifyRejects(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := newManager(t, "secret", clock)

	valid, err := m.CreateAccessToken(testEmail)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := m.Verify("  ", token.AccessToken)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verify("not.a.jwt", token.AccessToken)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newManager(t, "other-secret", clock)
		_, err := other.Verify(valid, token.AccessToken)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := newManager(t, "secret", func() time.Time { return now.Add(token.DefaultAccessTokenExpiry + time.Minute) })
		_, err := later.Verify(valid, token.AccessToken)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		signer, err := token.NewHMACSigner("secret")
		require.NoError(t, err)
		other := token.New(signer, "https://elsewhere.example.com", token.WithNowFunc(clock))
		_, err = other.Verify(valid, token.AccessToken)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, token.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    testIssuer,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			Type:  token.AccessToken,
			Email: testEmail,
		})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Verify(raw, token.AccessToken)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestManager_CustomExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	signer, err := token.NewHMACSigner("secret")
	require.NoError(t, err)
	m := token.New(signer, testIssuer,
		token.WithNowFunc(func() time.Time { return now }),
		token.WithTokenExpiry(time.Hour, 2*time.Hour),
	)
	require.Equal(t, time.Hour, m.AccessTokenExpiry())

	raw, err := m.CreateRefreshToken(testEmail)
	require.NoError(t, err)
	claims, err := m.Verify(raw, token.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, now.Add(2*time.Hour), claims.ExpiresAt.Time)
}
