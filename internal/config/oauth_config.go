package config

import "time"

type OAuthConfig interface {
	GetAuthStateTTL() time.Duration
	GetStateSweepInterval() time.Duration
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetIdentityIssuer() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetAuthStateTTL applies to both pending authorizations and issued codes.
func (OAuth) GetAuthStateTTL() time.Duration {
	return 10 * time.Minute
}

func (OAuth) GetStateSweepInterval() time.Duration {
	return time.Minute
}

func (OAuth) GetAccessTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}

func (OAuth) GetRefreshTokenExpiry() time.Duration {
	return 30 * 24 * time.Hour // 30 days
}

func (OAuth) GetIdentityIssuer() string {
	return "https://accounts.google.com"
}
