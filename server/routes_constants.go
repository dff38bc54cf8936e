package server

import "github.com/jrsteele09/github-mcp-bridge/auth"

// Route path constants
const (
	RouteIndex  = "/{$}"
	RouteHealth = "/health"
	RouteMCP    = "/mcp"

	// OAuth 2.1 authorization server
	RouteOAuthRegister  = auth.RegisterPath
	RouteOAuthAuthorize = auth.AuthorizePath
	RouteOAuthCallback  = auth.CallbackPath
	RouteOAuthToken     = auth.TokenPath

	// Discovery documents
	RouteWellKnownProtectedResource   = auth.ProtectedResourceMetadataPath
	RouteWellKnownAuthorizationServer = auth.AuthorizationServerMetadataPath
)
