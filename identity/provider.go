package identity

import "context"

// Identity is the verified caller returned by the upstream provider.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// Provider sends the user to an upstream consent screen and turns the
// resulting authorization code into a verified Identity.
type Provider interface {
	// AuthCodeURL returns the consent URL, echoing state back on the callback.
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}
