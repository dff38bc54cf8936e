package config

import (
	"fmt"
	"strings"
)

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetBaseURL() string
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetAllowedEmail() string
	GetJWTSecret() string
	GetGitHubToken() string
	GetGitHubOwner() string
	GetDefaultIssueLabel() string
	GetStateStore() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKeyPrefix() string
	GetMetricsEnabled() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Security
}

// New returns a Config backed by the process environment. Overrides, usually
// parsed from command-line flags, take precedence over environment variables.
func New(overrides ...Override) Config {
	env := EnvVars{overrides: make(map[string]string)}
	for _, o := range overrides {
		o(env.overrides)
	}
	return mainConfig{
		EnvVars:  env,
		Cors:     Cors{env: env},
		Security: Security{env: env},
	}
}

// Validate reports every required setting that is missing.
func Validate(c Config) error {
	required := map[string]string{
		baseURLVar:            c.GetBaseURL(),
		googleClientIDVar:     c.GetGoogleClientID(),
		googleClientSecretVar: c.GetGoogleClientSecret(),
		allowedEmailVar:       c.GetAllowedEmail(),
		githubTokenVar:        c.GetGitHubToken(),
		githubOwnerVar:        c.GetGitHubOwner(),
		jwtSecretVar:          c.GetJWTSecret(),
	}

	var missing []string
	for _, name := range requiredVars {
		if required[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch c.GetStateStore() {
	case StateStoreMemory, StateStoreRedis:
	default:
		return fmt.Errorf("unsupported %s %q (want %q or %q)", stateStoreVar, c.GetStateStore(), StateStoreMemory, StateStoreRedis)
	}
	return nil
}
