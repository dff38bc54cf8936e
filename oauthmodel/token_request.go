package oauthmodel

import "github.com/jrsteele09/github-mcp-bridge/oauth2"

// TokenRequest holds the body of POST /oauth/token.
// Supports the authorization_code and refresh_token grant types.
type TokenRequest struct {
	// GrantType selects the flow.
	GrantType oauth2.GrantType

	// ClientID and ClientSecret are optional unless client authentication is enforced.
	// When present they are checked against the registry.
	ClientID     string
	ClientSecret string

	// Code is the one-time authorization code (authorization_code grant).
	Code string

	// CodeVerifier is the PKCE verifier (authorization_code grant).
	// Compared as BASE64URL(SHA256(code_verifier)) against the stored code_challenge.
	CodeVerifier string

	// RedirectURI, when supplied, must match the URI the code was issued for.
	RedirectURI string

	// RefreshToken is the signed refresh token (refresh_token grant).
	RefreshToken string
}
