package oauth2

// ProtectedResourceMetadata is served at /.well-known/oauth-protected-resource (RFC 9728).
type ProtectedResourceMetadata struct {
	Resource             string   `json:"resource"`
	AuthorizationServers []string `json:"authorization_servers"`
}

// AuthorizationServerMetadata is served at /.well-known/oauth-authorization-server (RFC 8414).
type AuthorizationServerMetadata struct {
	Issuer                            string                    `json:"issuer"`
	AuthorizationEndpoint             string                    `json:"authorization_endpoint"`
	TokenEndpoint                     string                    `json:"token_endpoint"`
	RegistrationEndpoint              string                    `json:"registration_endpoint"`
	ResponseTypesSupported            []ResponseType            `json:"response_types_supported"`
	GrantTypesSupported               []GrantType               `json:"grant_types_supported"`
	CodeChallengeMethodsSupported     []CodeMethodType          `json:"code_challenge_methods_supported"`
	TokenEndpointAuthMethodsSupported []TokenEndpointAuthMethod `json:"token_endpoint_auth_methods_supported"`
}
