package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/github-mcp-bridge/auth"
	"github.com/jrsteele09/github-mcp-bridge/internal/config"
	"github.com/jrsteele09/github-mcp-bridge/mcp"
	"github.com/jrsteele09/github-mcp-bridge/security"
	"github.com/rs/zerolog/log"
)

// Dependencies are the services the HTTP layer routes requests to.
type Dependencies struct {
	Auth                *auth.AuthorizationService
	Registry            *mcp.Registry
	Dispatcher          *mcp.Dispatcher
	RegistrationLimiter *security.RateLimiter
}

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	auth       *auth.AuthorizationService
	registry   *mcp.Registry
	dispatcher *mcp.Dispatcher
	limiter    *security.RateLimiter
}

func New(config config.Config, deps Dependencies) (*Server, error) {
	if deps.Auth == nil || deps.Registry == nil || deps.Dispatcher == nil || deps.RegistrationLimiter == nil {
		return nil, errors.New("[Server New] auth service, tool registry, dispatcher and registration limiter are required")
	}

	s := &Server{
		env:        config.GetEnv(),
		mux:        http.NewServeMux(),
		config:     config,
		auth:       deps.Auth,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		limiter:    deps.RegistrationLimiter,
	}

	if err := s.initRoutes(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise routes: %w", err)
	}
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Debug().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}
