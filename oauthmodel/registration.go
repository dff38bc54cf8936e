package oauthmodel

import "github.com/jrsteele09/github-mcp-bridge/oauth2"

// RegistrationRequest is the body of POST /oauth/register (RFC 7591).
// Both fields are caller supplied and not checked against any allow-list.
type RegistrationRequest struct {
	ClientName   string   `json:"client_name"`
	RedirectURIs []string `json:"redirect_uris"`
}

// RegistrationResponse returns the client credentials. The secret is never shown again.
type RegistrationResponse struct {
	ClientID                string                         `json:"client_id"`
	ClientSecret            string                         `json:"client_secret"`
	ClientName              string                         `json:"client_name"`
	RedirectURIs            []string                       `json:"redirect_uris"`
	ClientIDIssuedAt        int64                          `json:"client_id_issued_at"`
	TokenEndpointAuthMethod oauth2.TokenEndpointAuthMethod `json:"token_endpoint_auth_method"`
}
