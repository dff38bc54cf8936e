package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/jrsteele09/github-mcp-bridge/oauth2"
	"github.com/jrsteele09/github-mcp-bridge/oauthmodel"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"

	maxFormBodyBytes = 64 << 10
)

// WellKnownProtectedResource serves the RFC 9728 protected resource metadata.
func (s *Server) WellKnownProtectedResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.auth.ProtectedResourceMetadata())
	}
}

// WellKnownAuthorizationServer serves the RFC 8414 authorization server metadata.
func (s *Server) WellKnownAuthorizationServer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.auth.AuthorizationServerMetadata())
	}
}

// Register performs dynamic client registration. JSON and form bodies are accepted.
func (s *Server) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req oauthmodel.RegistrationRequest
		if isJSONRequest(r) {
			if err := decodeJSONBody(r, &req); err != nil {
				writeJSONError(w, oauthmodel.CodeInvalidRequest, "Malformed registration request", http.StatusBadRequest)
				return
			}
		} else {
			if err := parseForm(w, r); err != nil {
				writeJSONError(w, oauthmodel.CodeInvalidRequest, "Failed to parse form data", http.StatusBadRequest)
				return
			}
			req.ClientName = r.PostFormValue("client_name")
			req.RedirectURIs = r.PostForm["redirect_uris"]
		}

		resp, err := s.auth.Register(r.Context(), req)
		if err != nil {
			writeOAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// Authorize validates the request and redirects the user to the identity provider.
func (s *Server) Authorize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := &oauthmodel.AuthorizationParameters{
			ClientID:            q.Get("client_id"),
			ResponseType:        oauth2.ResponseType(q.Get("response_type")),
			RedirectURI:         q.Get("redirect_uri"),
			State:               q.Get("state"),
			CodeChallenge:       q.Get("code_challenge"),
			CodeChallengeMethod: oauth2.CodeMethodType(q.Get("code_challenge_method")),
			Scope:               q.Get("scope"),
		}

		consentURL, err := s.auth.Authorize(r.Context(), params)
		if err != nil {
			writeOAuthError(w, err)
			return
		}
		http.Redirect(w, r, consentURL, http.StatusFound)
	}
}

// Callback receives the identity provider's redirect. Failures are reported
// to the browser as plain text.
func (s *Server) Callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		redirectURL, err := s.auth.Callback(r.Context(), oauthmodel.CallbackParameters{
			Code:  q.Get("code"),
			State: q.Get("state"),
			Error: q.Get("error"),
		})
		if err != nil {
			var oauthErr *oauthmodel.Error
			if !errors.As(err, &oauthErr) {
				log.Err(err).Msg("OAuth callback failed")
				writeText(w, http.StatusInternalServerError, "Authentication failed")
				return
			}
			writeText(w, oauthErr.Status, oauthErr.Description)
			return
		}
		http.Redirect(w, r, redirectURL, http.StatusFound)
	}
}

type tokenRequestBody struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
	RedirectURI  string `json:"redirect_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// Token exchanges an authorization code or refresh token. JSON and form
// bodies are accepted, client credentials may also arrive as HTTP Basic auth.
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body tokenRequestBody
		if isJSONRequest(r) {
			if err := decodeJSONBody(r, &body); err != nil {
				writeJSONError(w, oauthmodel.CodeInvalidRequest, "Malformed token request", http.StatusBadRequest)
				return
			}
		} else {
			if err := parseForm(w, r); err != nil {
				writeJSONError(w, oauthmodel.CodeInvalidRequest, "Failed to parse form data", http.StatusBadRequest)
				return
			}
			body = tokenRequestBody{
				GrantType:    r.PostFormValue("grant_type"),
				Code:         r.PostFormValue("code"),
				CodeVerifier: r.PostFormValue("code_verifier"),
				RedirectURI:  r.PostFormValue("redirect_uri"),
				ClientID:     r.PostFormValue("client_id"),
				ClientSecret: r.PostFormValue("client_secret"),
				RefreshToken: r.PostFormValue("refresh_token"),
			}
		}
		if body.ClientID == "" {
			if id, secret, ok := r.BasicAuth(); ok {
				body.ClientID, body.ClientSecret = id, secret
			}
		}

		tokenResponse, err := s.auth.Token(r.Context(), oauthmodel.TokenRequest{
			GrantType:    oauth2.GrantType(body.GrantType),
			ClientID:     body.ClientID,
			ClientSecret: body.ClientSecret,
			Code:         body.Code,
			CodeVerifier: body.CodeVerifier,
			RedirectURI:  body.RedirectURI,
			RefreshToken: body.RefreshToken,
		})
		if err != nil {
			writeOAuthError(w, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		writeJSON(w, http.StatusOK, tokenResponse)
	}
}

// Health is an unauthenticated liveness check.
func (s *Server) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func decodeJSONBody(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxFormBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodyBytes)
	return r.ParseForm()
}

// writeOAuthError reports protocol errors as {"error", "error_description"}
// and anything else as a logged server_error.
func writeOAuthError(w http.ResponseWriter, err error) {
	var oauthErr *oauthmodel.Error
	if !errors.As(err, &oauthErr) {
		log.Err(err).Msg("OAuth request failed")
		writeJSONError(w, oauthmodel.CodeServerError, "", http.StatusInternalServerError)
		return
	}
	if oauthErr.Err != nil {
		log.Debug().Err(oauthErr.Err).Str("error", oauthErr.Code).Msg("OAuth request rejected")
	}
	writeJSONError(w, oauthErr.Code, oauthErr.Description, oauthErr.Status)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	body := map[string]string{"error": errorCode}
	if description != "" {
		body["error_description"] = description
	}
	writeJSON(w, statusCode, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to write JSON response")
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", contentTypeText)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
