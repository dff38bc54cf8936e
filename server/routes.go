package server

func (s *Server) initRoutes() error {
	index, err := s.IndexHandler()
	if err != nil {
		return err
	}
	s.RegisterRouteFunc("GET "+RouteIndex, ChainMiddleware(index, s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealth, ChainMiddleware(s.Health(), s.APIMiddleware()...))

	// Discovery
	s.RegisterRouteFunc("GET "+RouteWellKnownProtectedResource, ChainMiddleware(s.WellKnownProtectedResource(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteWellKnownAuthorizationServer, ChainMiddleware(s.WellKnownAuthorizationServer(), s.APIMiddleware()...))

	// OAuth 2.1
	s.RegisterRouteFunc("POST "+RouteOAuthRegister, ChainMiddleware(s.Register(), s.APIMiddleware(s.limiter.Middleware)...))
	s.RegisterRouteFunc("GET "+RouteOAuthAuthorize, ChainMiddleware(s.Authorize(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteOAuthCallback, ChainMiddleware(s.Callback(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteOAuthToken, ChainMiddleware(s.Token(), s.APIMiddleware()...))

	// MCP JSON-RPC, mounted on the root as well because some clients post there.
	s.RegisterRouteFunc("POST "+RouteIndex, ChainMiddleware(s.dispatcher.ServeHTTP, s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("POST "+RouteMCP, ChainMiddleware(s.dispatcher.ServeHTTP, s.APIMiddleware(s.RequireAuth())...))

	// CORS preflight for the routes browsers call cross-origin
	for _, path := range []string{
		RouteIndex, RouteMCP, RouteOAuthRegister, RouteOAuthToken,
		RouteWellKnownProtectedResource, RouteWellKnownAuthorizationServer,
	} {
		s.RegisterRouteFunc("OPTIONS "+path, ChainMiddleware(noContent, s.APIMiddleware()...))
	}
	return nil
}
