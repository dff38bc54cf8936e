package auth

import "github.com/jrsteele09/github-mcp-bridge/oauth2"

// Endpoint paths advertised in the metadata documents.
const (
	AuthorizePath = "/oauth/authorize"
	TokenPath     = "/oauth/token"
	RegisterPath  = "/oauth/register"
	CallbackPath  = "/oauth/callback"

	ProtectedResourceMetadataPath   = "/.well-known/oauth-protected-resource"
	AuthorizationServerMetadataPath = "/.well-known/oauth-authorization-server"
)

func (as *AuthorizationService) ProtectedResourceMetadata() oauth2.ProtectedResourceMetadata {
	return oauth2.ProtectedResourceMetadata{
		Resource:             as.config.BaseURL,
		AuthorizationServers: []string{as.config.BaseURL},
	}
}

func (as *AuthorizationService) AuthorizationServerMetadata() oauth2.AuthorizationServerMetadata {
	base := as.config.BaseURL
	return oauth2.AuthorizationServerMetadata{
		Issuer:                            base,
		AuthorizationEndpoint:             base + AuthorizePath,
		TokenEndpoint:                     base + TokenPath,
		RegistrationEndpoint:              base + RegisterPath,
		ResponseTypesSupported:            []oauth2.ResponseType{oauth2.CodeResponseType},
		GrantTypesSupported:               []oauth2.GrantType{oauth2.AuthorizationCodeGrant, oauth2.RefreshTokenCodeGrant},
		CodeChallengeMethodsSupported:     []oauth2.CodeMethodType{oauth2.CodeMethodTypeS256},
		TokenEndpointAuthMethodsSupported: []oauth2.TokenEndpointAuthMethod{oauth2.ClientSecretPost},
	}
}

// ResourceMetadataURL is advertised in WWW-Authenticate on 401 responses.
func (as *AuthorizationService) ResourceMetadataURL() string {
	return as.config.BaseURL + ProtectedResourceMetadataPath
}
