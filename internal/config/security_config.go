package config

import (
	"strconv"
	"time"
)

type SecurityConfig interface {
	GetRequirePKCE() bool
	GetRequireClientAuth() bool
	GetRegistrationLimit() int
	GetRegistrationWindow() time.Duration
	GetTrustProxy() bool
	GetTrustedProxyCount() int
}

type Security struct {
	env EnvVars
}

var _ SecurityConfig = Security{}

// GetRequirePKCE makes code_verifier mandatory at the token endpoint.
// When false a supplied verifier is still checked.
func (s Security) GetRequirePKCE() bool {
	return s.env.getBool(requirePKCEVar, false)
}

// GetRequireClientAuth makes client_id/client_secret mandatory at the token endpoint.
// When false supplied credentials are still checked.
func (s Security) GetRequireClientAuth() bool {
	return s.env.getBool(requireClientAuthVar, false)
}

func (Security) GetRegistrationLimit() int {
	return 10
}

func (Security) GetRegistrationWindow() time.Duration {
	return time.Hour
}

// GetTrustProxy lets the registration rate limiter key on X-Forwarded-For.
// Only enable it behind a reverse proxy that sets the header.
func (s Security) GetTrustProxy() bool {
	return s.env.getBool(trustProxyVar, false)
}

// GetTrustedProxyCount is the number of proxies in front of the server whose
// X-Forwarded-For entries are skipped from the right.
func (s Security) GetTrustedProxyCount() int {
	n, err := strconv.Atoi(s.env.get(trustedProxyCountVar, "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
