package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/github-mcp-bridge/oauthmodel"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyEmail stores the email of the verified access token
const ContextKeyEmail ContextKey = "email"

// EmailFromContext returns the email placed on the context by RequireAuth.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ContextKeyEmail).(string)
	return email, ok
}

// RequireAuth is middleware that validates a Bearer access token. Tokens are
// self-verifying so no store is consulted.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rawToken, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				s.unauthorized(w, oauthmodel.CodeUnauthorized)
				return
			}

			claims, err := s.auth.VerifyAccessToken(rawToken)
			if err != nil {
				log.Debug().Err(err).Msg("rejected bearer token")
				s.unauthorized(w, oauthmodel.CodeInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyEmail, claims.Email)
			next(w, r.WithContext(ctx))
		}
	}
}

// unauthorized writes a 401 that points MCP clients at the protected
// resource metadata (RFC 9728 section 5.1).
func (s *Server) unauthorized(w http.ResponseWriter, code string) {
	challenge := fmt.Sprintf(`Bearer resource_metadata=%q`, s.auth.ResourceMetadataURL())
	if code == oauthmodel.CodeInvalidToken {
		challenge += `, error="invalid_token"`
	}
	w.Header().Set("WWW-Authenticate", challenge)
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": code})
}
