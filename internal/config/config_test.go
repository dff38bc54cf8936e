package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/github-mcp-bridge/internal/config"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("BASE_URL", "https://bridge.example.com/")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("ALLOWED_EMAIL", "me@example.com")
	t.Setenv("GITHUB_PAT", "ghp_test")
	t.Setenv("GITHUB_OWNER", "acme")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestValidateReportsMissingVariables(t *testing.T) {
	t.Setenv("BASE_URL", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("ALLOWED_EMAIL", "")
	t.Setenv("GITHUB_PAT", "")
	t.Setenv("GITHUB_OWNER", "")
	t.Setenv("JWT_SECRET", "")

	err := config.Validate(config.New())
	require.EqualError(t, err, "missing required environment variables: BASE_URL, GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, ALLOWED_EMAIL, GITHUB_PAT, GITHUB_OWNER, JWT_SECRET")
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	setRequired(t)
	require.NoError(t, config.Validate(config.New()))
}

func TestValidateRejectsUnknownStateStore(t *testing.T) {
	setRequired(t)
	t.Setenv("STATE_STORE", "firestore")

	require.ErrorContains(t, config.Validate(config.New()), "unsupported STATE_STORE")
}

func TestDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("STATE_STORE", "")
	t.Setenv("DEFAULT_ISSUE_LABEL", "")

	c := config.New()
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "https://bridge.example.com", c.GetBaseURL())
	require.Equal(t, "claude-task", c.GetDefaultIssueLabel())
	require.Equal(t, config.StateStoreMemory, c.GetStateStore())
	require.Equal(t, 10*time.Minute, c.GetAuthStateTTL())
	require.Equal(t, 7*24*time.Hour, c.GetAccessTokenExpiry())
	require.Equal(t, 30*24*time.Hour, c.GetRefreshTokenExpiry())
	require.Equal(t, 10, c.GetRegistrationLimit())
	require.Equal(t, time.Hour, c.GetRegistrationWindow())
	require.False(t, c.GetRequirePKCE())
	require.False(t, c.GetRequireClientAuth())
	require.False(t, c.GetMetricsEnabled())
	require.False(t, c.GetTrustProxy())
	require.Equal(t, 1, c.GetTrustedProxyCount())
}

func TestEnvironmentOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", ":9000")
	t.Setenv("STATE_STORE", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REQUIRE_PKCE", "true")
	t.Setenv("METRICS_ENABLED", "not-a-bool")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("TRUSTED_PROXY_COUNT", "2")

	c := config.New()
	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, config.StateStoreRedis, c.GetStateStore())
	require.Equal(t, 3, c.GetRedisDB())
	require.True(t, c.GetRequirePKCE())
	require.False(t, c.GetMetricsEnabled())
	require.True(t, c.GetTrustProxy())
	require.Equal(t, 2, c.GetTrustedProxyCount())
}

func TestTrustedProxyCountFallsBackToOne(t *testing.T) {
	for _, v := range []string{"0", "-3", "many"} {
		t.Setenv("TRUSTED_PROXY_COUNT", v)
		require.Equal(t, 1, config.New().GetTrustedProxyCount(), v)
	}
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,,")

	origins := config.New().GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://c.example.com"))
	require.Len(t, origins, 2)
}

func TestFlagsTakePrecedenceOverEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("STATE_STORE", "memory")

	overrides, err := config.ParseFlags("bridge", []string{"--port", "7000", "--store", "redis", "--redis-addr", "redis:6379"})
	require.NoError(t, err)

	c := config.New(overrides...)
	require.Equal(t, ":7000", c.GetPort())
	require.Equal(t, config.StateStoreRedis, c.GetStateStore())
	require.Equal(t, "redis:6379", c.GetRedisAddr())
	require.Equal(t, "https://bridge.example.com", c.GetBaseURL())
}

func TestParseFlagsRejectsUnknownFlag(t *testing.T) {
	_, err := config.ParseFlags("bridge", []string{"--nope"})
	require.Error(t, err)
}
