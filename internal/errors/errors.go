package errors

import (
	"errors"
	"fmt"
)

// Common error types for the bridge
var (
	// Storage errors
	ErrNotFound       = errors.New("not found")
	ErrClientNotFound = errors.New("client not found")

	// Token errors
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")

	// Client errors
	ErrInvalidClient      = errors.New("invalid client")
	ErrInvalidRedirectURI = errors.New("invalid redirect URI")

	// Authorization errors
	ErrInvalidGrant        = errors.New("invalid grant")
	ErrInvalidState        = errors.New("invalid or expired state")
	ErrInvalidCodeVerifier = errors.New("code verifier does not match code challenge")
	ErrAccessDenied        = errors.New("access denied")
	ErrUnverifiedEmail     = errors.New("email not verified")
	ErrIdentityProvider    = errors.New("identity provider failure")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
