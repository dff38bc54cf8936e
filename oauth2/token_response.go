package oauth2

// TokenResponse is the token endpoint response (RFC 6749 section 5.1).
type TokenResponse struct {
	// AccessToken is the signed JWT presented as "Authorization: Bearer <access_token>".
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// The authoritative expiry is the JWT "exp" claim.
	ExpiresIn int `json:"expires_in"`

	// RefreshToken is only present on the authorization_code grant.
	// Send it back with grant_type=refresh_token to obtain a new access token.
	RefreshToken string `json:"refresh_token,omitempty"`
}
