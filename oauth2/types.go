package oauth2

// ResponseType represents the OAuth 2.0 response type.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow, the only flow this server offers.
	// Example: /oauth/authorize?response_type=code&...
	CodeResponseType ResponseType = "code"
)

// CodeMethodType represents the PKCE (Proof Key for Code Exchange) challenge method.
type CodeMethodType string

const (
	// CodeMethodTypeS256 indicates SHA-256 hashing is used for the code challenge.
	// Client sends: code_challenge = BASE64URL(SHA256(code_verifier))
	// Server validates: SHA256(provided code_verifier) == stored code_challenge
	// OAuth 2.1 drops "plain", so S256 is the only accepted method.
	CodeMethodTypeS256 CodeMethodType = "S256"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges a one-time authorization code for an access and refresh token.
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenCodeGrant exchanges a refresh token for a new access token.
	// Refresh tokens are not rotated.
	RefreshTokenCodeGrant GrantType = "refresh_token"
)

// TokenEndpointAuthMethod is how a client authenticates at the token endpoint.
type TokenEndpointAuthMethod string

const (
	// ClientSecretPost sends client_id and client_secret in the request body.
	ClientSecretPost TokenEndpointAuthMethod = "client_secret_post"
)

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "Bearer"
