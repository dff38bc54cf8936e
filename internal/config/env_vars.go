package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	portEnvVar            = "PORT"
	appNameVar            = "APP_NAME"
	envVar                = "ENV"
	logLevelVar           = "LOG_LEVEL"
	baseURLVar            = "BASE_URL"
	googleClientIDVar     = "GOOGLE_CLIENT_ID"
	googleClientSecretVar = "GOOGLE_CLIENT_SECRET"
	allowedEmailVar       = "ALLOWED_EMAIL"
	jwtSecretVar          = "JWT_SECRET"
	githubTokenVar        = "GITHUB_PAT"
	githubOwnerVar        = "GITHUB_OWNER"
	defaultIssueLabelVar  = "DEFAULT_ISSUE_LABEL"
	stateStoreVar         = "STATE_STORE"
	redisAddrVar          = "REDIS_ADDR"
	redisPasswordVar      = "REDIS_PASSWORD"
	redisDBVar            = "REDIS_DB"
	redisKeyPrefixVar     = "REDIS_KEY_PREFIX"
	metricsEnabledVar     = "METRICS_ENABLED"
	allowedOriginsVar     = "ALLOWED_ORIGINS"
	requirePKCEVar        = "REQUIRE_PKCE"
	requireClientAuthVar  = "REQUIRE_CLIENT_AUTH"
	trustProxyVar         = "TRUST_PROXY"
	trustedProxyCountVar  = "TRUSTED_PROXY_COUNT"
)

// Supported STATE_STORE values
const (
	StateStoreMemory = "memory"
	StateStoreRedis  = "redis"
)

var requiredVars = []string{
	baseURLVar,
	googleClientIDVar,
	googleClientSecretVar,
	allowedEmailVar,
	githubTokenVar,
	githubOwnerVar,
	jwtSecretVar,
}

type EnvVars struct {
	overrides map[string]string
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) get(name, defaultValue string) string {
	if v, ok := e.overrides[name]; ok && v != "" {
		return v
	}
	return GetEnv(name, defaultValue)
}

func (e EnvVars) GetPort() string {
	port := e.get(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.get(appNameVar, "GitHub MCP")
}

func (e EnvVars) GetEnv() string {
	return e.get(envVar, "DEV")
}

func (e EnvVars) GetLogLevel() string {
	return e.get(logLevelVar, "info")
}

// GetBaseURL returns the externally visible URL of this server (e.g., "https://mcp.example.com").
// It is the token issuer and the prefix of every advertised endpoint.
func (e EnvVars) GetBaseURL() string {
	return strings.TrimSuffix(e.get(baseURLVar, ""), "/")
}

func (e EnvVars) GetGoogleClientID() string {
	return e.get(googleClientIDVar, "")
}

func (e EnvVars) GetGoogleClientSecret() string {
	return e.get(googleClientSecretVar, "")
}

func (e EnvVars) GetAllowedEmail() string {
	return e.get(allowedEmailVar, "")
}

func (e EnvVars) GetJWTSecret() string {
	return e.get(jwtSecretVar, "")
}

func (e EnvVars) GetGitHubToken() string {
	return e.get(githubTokenVar, "")
}

func (e EnvVars) GetGitHubOwner() string {
	return e.get(githubOwnerVar, "")
}

func (e EnvVars) GetDefaultIssueLabel() string {
	return e.get(defaultIssueLabelVar, "claude-task")
}

func (e EnvVars) GetStateStore() string {
	return strings.ToLower(e.get(stateStoreVar, StateStoreMemory))
}

func (e EnvVars) GetRedisAddr() string {
	return e.get(redisAddrVar, "localhost:6379")
}

func (e EnvVars) GetRedisPassword() string {
	return e.get(redisPasswordVar, "")
}

func (e EnvVars) GetRedisDB() int {
	db, err := strconv.Atoi(e.get(redisDBVar, "0"))
	if err != nil {
		return 0
	}
	return db
}

func (e EnvVars) GetRedisKeyPrefix() string {
	return e.get(redisKeyPrefixVar, "github-mcp:")
}

func (e EnvVars) GetMetricsEnabled() bool {
	return e.getBool(metricsEnabledVar, false)
}

func (e EnvVars) getBool(name string, defaultValue bool) bool {
	b, err := strconv.ParseBool(e.get(name, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return b
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
