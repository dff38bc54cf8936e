package oauthmodel

import (
	"strings"

	"github.com/jrsteele09/github-mcp-bridge/oauth2"
)

// AuthorizationParameters holds the query parameters of GET /oauth/authorize.
type AuthorizationParameters struct {
	// ClientID identifies the registered client. Optional: the flow tolerates
	// clients that were registered against a previous process.
	ClientID string

	// ResponseType must be "code".
	ResponseType oauth2.ResponseType

	// RedirectURI is where the authorization code is sent once the user has logged in.
	// Required. Must be one of the client's registered URIs when the client is known.
	RedirectURI string

	// State is the client's correlation value. Required.
	// It keys the pending authorization and is echoed back unchanged on the final redirect.
	// Treated as untrusted input.
	State string

	// CodeChallenge is BASE64URL(SHA256(code_verifier)). Required.
	CodeChallenge string

	// CodeChallengeMethod must be "S256".
	CodeChallengeMethod oauth2.CodeMethodType

	// Scope is accepted and ignored; every token grants the full tool catalog.
	Scope string
}

// Validate checks the request in the order the errors are reported to the client.
func (p *AuthorizationParameters) Validate() *Error {
	if p.ResponseType != oauth2.CodeResponseType {
		return UnsupportedResponseType()
	}
	if p.CodeChallengeMethod != oauth2.CodeMethodTypeS256 {
		return InvalidRequest("S256 required")
	}

	var missing []string
	if strings.TrimSpace(p.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(p.CodeChallenge) == "" {
		missing = append(missing, "code_challenge")
	}
	if strings.TrimSpace(p.RedirectURI) == "" {
		missing = append(missing, "redirect_uri")
	}
	if len(missing) > 0 {
		return InvalidRequest("missing " + strings.Join(missing, ", "))
	}
	return nil
}

// CallbackParameters holds the query parameters the identity provider sends to /oauth/callback.
type CallbackParameters struct {
	Code  string
	State string
	Error string
}
