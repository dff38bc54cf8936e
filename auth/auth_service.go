package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/github-mcp-bridge/authflowrepo"
	"github.com/jrsteele09/github-mcp-bridge/clients"
	"github.com/jrsteele09/github-mcp-bridge/identity"
	"github.com/jrsteele09/github-mcp-bridge/instrumentation"
	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
	"github.com/jrsteele09/github-mcp-bridge/oauth2"
	"github.com/jrsteele09/github-mcp-bridge/oauthmodel"
	"github.com/jrsteele09/github-mcp-bridge/token"
	"github.com/rs/zerolog/log"
)

// Repos holds all repository dependencies for the AuthorizationService
type Repos struct {
	Flow    *authflowrepo.Repo // Pending authorizations and issued codes
	Clients clients.Repo       // Dynamically registered clients
}

// Config is the deployment specific behaviour of the service.
type Config struct {
	// BaseURL is the public URL of the bridge and the issuer of its tokens.
	BaseURL string
	// AllowedEmail is the only identity permitted to complete a login.
	AllowedEmail string
	// RequirePKCE rejects code redemptions that omit code_verifier.
	RequirePKCE bool
	// RequireClientAuth rejects token requests without valid client credentials.
	RequireClientAuth bool
}

// AuthorizationService runs the single-user OAuth 2.1 authorization server.
// Login itself is delegated to an upstream identity provider.
type AuthorizationService struct {
	repos    Repos
	tokens   *token.Manager
	provider identity.Provider
	config   Config
	metrics  *instrumentation.Metrics
	nowTime  func() time.Time
}

// AuthorizationServiceOption defines a function type to modify the AuthorizationService instance.
type AuthorizationServiceOption func(*AuthorizationService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.nowTime = nowFunc
	}
}

func WithMetrics(metrics *instrumentation.Metrics) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		if metrics != nil {
			as.metrics = metrics
		}
	}
}

// NewAuthorizationService initializes a new AuthorizationService with required dependencies.
func NewAuthorizationService(
	repos Repos,
	tokens *token.Manager,
	provider identity.Provider,
	config Config,
	options ...AuthorizationServiceOption,
) (*AuthorizationService, error) {
	if repos.Flow == nil || repos.Flow.Pending == nil || repos.Flow.Codes == nil {
		return nil, errors.New("[NewAuthorizationService] Flow repo is required")
	}
	if repos.Clients == nil {
		return nil, errors.New("[NewAuthorizationService] Clients repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewAuthorizationService] token manager is required")
	}
	if provider == nil {
		return nil, errors.New("[NewAuthorizationService] identity provider is required")
	}
	if config.BaseURL == "" || config.AllowedEmail == "" {
		return nil, errors.New("[NewAuthorizationService] base URL and allowed email are required")
	}

	authService := &AuthorizationService{
		repos:    repos,
		tokens:   tokens,
		provider: provider,
		config:   config,
		metrics:  instrumentation.NoopMetrics(),
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(authService)
	}
	return authService, nil
}

// Register performs dynamic client registration (RFC 7591). The secret is
// only ever returned here.
func (as *AuthorizationService) Register(ctx context.Context, req oauthmodel.RegistrationRequest) (*oauthmodel.RegistrationResponse, error) {
	client, secret, err := clients.New(req.ClientName, req.RedirectURIs, as.nowTime())
	if err != nil {
		return nil, fmt.Errorf("[AuthorizationService.Register] %w", err)
	}
	if err := as.repos.Clients.Upsert(ctx, client); err != nil {
		return nil, fmt.Errorf("[AuthorizationService.Register] Upsert: %w", err)
	}
	as.metrics.RecordClientRegistration(ctx)

	log.Info().Str("client_id", client.ID).Str("client_name", client.Name).Msg("client registered")

	return &oauthmodel.RegistrationResponse{
		ClientID:                client.ID,
		ClientSecret:            secret,
		ClientName:              client.Name,
		RedirectURIs:            client.RedirectURIs,
		ClientIDIssuedAt:        client.CreatedAt.Unix(),
		TokenEndpointAuthMethod: oauth2.ClientSecretPost,
	}, nil
}

// Authorize validates the request, records it under the caller's state and
// returns the upstream consent URL to redirect the user to.
func (as *AuthorizationService) Authorize(ctx context.Context, params *oauthmodel.AuthorizationParameters) (string, error) {
	if oauthErr := params.Validate(); oauthErr != nil {
		return "", oauthErr
	}

	if params.ClientID != "" {
		client, err := as.repos.Clients.Get(ctx, params.ClientID)
		switch {
		case errors.Is(err, apperrors.ErrClientNotFound):
			log.Warn().Str("client_id", params.ClientID).Msg("authorize for unregistered client")
		case err != nil:
			return "", fmt.Errorf("[AuthorizationService.Authorize] client lookup: %w", err)
		case len(client.RedirectURIs) > 0 && !client.HasRedirectURI(params.RedirectURI):
			return "", oauthmodel.InvalidRequest("redirect_uri is not registered for this client")
		}
	}

	if err := as.repos.Flow.Pending.Put(ctx, params.State, authflowrepo.PendingAuthorization{
		ClientID:      params.ClientID,
		CodeChallenge: params.CodeChallenge,
		RedirectURI:   params.RedirectURI,
	}); err != nil {
		return "", fmt.Errorf("[AuthorizationService.Authorize] store pending: %w", err)
	}
	as.metrics.RecordAuthorizationStarted(ctx, params.ClientID)

	return as.provider.AuthCodeURL(params.State), nil
}

// Callback completes the upstream login. On success it returns the caller's
// redirect URI carrying a fresh one-time code and the original state. Failures
// are *oauthmodel.Error values whose Description is the plain text response body.
func (as *AuthorizationService) Callback(ctx context.Context, params oauthmodel.CallbackParameters) (string, error) {
	redirect, err := as.callback(ctx, params)
	result := instrumentation.ResultSuccess
	if err != nil {
		result = callbackResult(err)
	}
	as.metrics.RecordCallbackProcessed(ctx, result)
	return redirect, err
}

func (as *AuthorizationService) callback(ctx context.Context, params oauthmodel.CallbackParameters) (string, error) {
	if params.Error != "" {
		return "", oauthmodel.NewError(http.StatusBadRequest, oauthmodel.CodeInvalidRequest, "OAuth error: "+params.Error, nil)
	}
	if params.State == "" || params.Code == "" {
		return "", oauthmodel.NewError(http.StatusBadRequest, oauthmodel.CodeInvalidRequest, "Missing state or code", nil)
	}

	pending, err := as.repos.Flow.Pending.Get(ctx, params.State)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", oauthmodel.NewError(http.StatusBadRequest, oauthmodel.CodeInvalidRequest, "Invalid or expired state", apperrors.ErrInvalidState)
	}
	if err != nil {
		return "", authenticationFailed(err)
	}

	id, err := as.provider.Exchange(ctx, params.Code)
	if err != nil {
		log.Err(err).Msg("identity provider exchange failed")
		return "", authenticationFailed(err)
	}

	if id.Email != as.config.AllowedEmail {
		log.Warn().Str("email", id.Email).Msg("login rejected: email not allowed")
		return "", oauthmodel.NewError(http.StatusForbidden, oauthmodel.CodeAccessDenied,
			fmt.Sprintf("Access denied. Only %s can use this server.", as.config.AllowedEmail), apperrors.ErrAccessDenied)
	}
	if !id.EmailVerified {
		log.Warn().Str("email", id.Email).Msg("login rejected: email not verified")
		return "", oauthmodel.NewError(http.StatusForbidden, oauthmodel.CodeAccessDenied,
			"Access denied. The email address is not verified.", apperrors.ErrUnverifiedEmail)
	}

	redirect, err := url.Parse(pending.RedirectURI)
	if err != nil {
		return "", oauthmodel.NewError(http.StatusBadRequest, oauthmodel.CodeInvalidRequest, "Invalid redirect_uri", err)
	}

	code := uuid.New().String()
	if err := as.repos.Flow.Codes.Put(ctx, code, authflowrepo.IssuedCode{
		ClientID:      pending.ClientID,
		CodeChallenge: pending.CodeChallenge,
		RedirectURI:   pending.RedirectURI,
		Email:         id.Email,
	}); err != nil {
		return "", authenticationFailed(err)
	}
	if err := as.repos.Flow.Pending.Delete(ctx, params.State); err != nil {
		log.Err(err).Msg("failed to delete pending authorization")
	}

	q := redirect.Query()
	q.Set("code", code)
	q.Set("state", params.State)
	redirect.RawQuery = q.Encode()
	return redirect.String(), nil
}

func authenticationFailed(err error) *oauthmodel.Error {
	return oauthmodel.NewError(http.StatusInternalServerError, oauthmodel.CodeServerError, "Authentication failed", err)
}

func callbackResult(err error) string {
	var oauthErr *oauthmodel.Error
	if errors.As(err, &oauthErr) {
		switch oauthErr.Status {
		case http.StatusForbidden:
			return instrumentation.ResultDenied
		case http.StatusBadRequest:
			return instrumentation.ResultInvalid
		}
	}
	return instrumentation.ResultError
}

// Token handles the OAuth 2.0 token request.
func (as *AuthorizationService) Token(ctx context.Context, req oauthmodel.TokenRequest) (*oauth2.TokenResponse, error) {
	switch req.GrantType {
	case oauth2.AuthorizationCodeGrant:
		resp, err := as.authorizationCodeGrant(ctx, req)
		as.metrics.RecordCodeExchange(ctx, grantResult(err))
		return resp, err
	case oauth2.RefreshTokenCodeGrant:
		resp, err := as.refreshTokenGrant(ctx, req)
		as.metrics.RecordTokenRefresh(ctx, grantResult(err))
		return resp, err
	default:
		return nil, oauthmodel.UnsupportedGrantType()
	}
}

func grantResult(err error) string {
	if err == nil {
		return instrumentation.ResultSuccess
	}
	var oauthErr *oauthmodel.Error
	if errors.As(err, &oauthErr) {
		return instrumentation.ResultInvalid
	}
	return instrumentation.ResultError
}

func (as *AuthorizationService) authorizationCodeGrant(ctx context.Context, req oauthmodel.TokenRequest) (*oauth2.TokenResponse, error) {
	if err := as.authenticateClient(ctx, req); err != nil {
		return nil, err
	}
	if req.Code == "" {
		return nil, oauthmodel.InvalidGrant(apperrors.ErrInvalidGrant)
	}

	issued, err := as.repos.Flow.Codes.Take(ctx, req.Code)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, oauthmodel.InvalidGrant(apperrors.ErrInvalidGrant)
	}
	if err != nil {
		return nil, fmt.Errorf("[AuthorizationService.Token] take code: %w", err)
	}

	if req.ClientID != "" && issued.ClientID != "" && req.ClientID != issued.ClientID {
		return nil, oauthmodel.InvalidGrant(errors.New("code was issued to another client"))
	}
	if req.RedirectURI != "" && req.RedirectURI != issued.RedirectURI {
		return nil, oauthmodel.InvalidGrant(apperrors.ErrInvalidRedirectURI)
	}
	if err := as.verifyPKCE(issued.CodeChallenge, req.CodeVerifier); err != nil {
		return nil, err
	}

	return as.issueTokens(issued.Email, true)
}

func (as *AuthorizationService) verifyPKCE(challenge, verifier string) error {
	if verifier == "" {
		if as.config.RequirePKCE {
			return oauthmodel.InvalidGrant(errors.New("code_verifier is required"))
		}
		return nil
	}
	if !checkCodeChallenge(challenge, verifier) {
		return oauthmodel.InvalidGrant(apperrors.ErrInvalidCodeVerifier)
	}
	return nil
}

func (as *AuthorizationService) refreshTokenGrant(ctx context.Context, req oauthmodel.TokenRequest) (*oauth2.TokenResponse, error) {
	if err := as.authenticateClient(ctx, req); err != nil {
		return nil, err
	}

	claims, err := as.tokens.Verify(req.RefreshToken, token.RefreshToken)
	if err != nil {
		return nil, oauthmodel.InvalidGrant(err)
	}
	if claims.Email != as.config.AllowedEmail {
		return nil, oauthmodel.InvalidGrant(apperrors.ErrAccessDenied)
	}
	return as.issueTokens(claims.Email, false)
}

// authenticateClient checks client credentials when presented. Unknown
// clients are tolerated unless client authentication is required.
func (as *AuthorizationService) authenticateClient(ctx context.Context, req oauthmodel.TokenRequest) error {
	if req.ClientID == "" {
		if as.config.RequireClientAuth {
			return oauthmodel.InvalidClient(errors.New("client_id is required"))
		}
		return nil
	}

	client, err := as.repos.Clients.Get(ctx, req.ClientID)
	if errors.Is(err, apperrors.ErrClientNotFound) {
		if as.config.RequireClientAuth {
			return oauthmodel.InvalidClient(apperrors.ErrClientNotFound)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("[AuthorizationService.authenticateClient] %w", err)
	}

	if req.ClientSecret == "" {
		if as.config.RequireClientAuth {
			return oauthmodel.InvalidClient(errors.New("client_secret is required"))
		}
		return nil
	}
	if !client.VerifySecret(req.ClientSecret) {
		return oauthmodel.InvalidClient(apperrors.ErrInvalidClient)
	}
	return nil
}

func (as *AuthorizationService) issueTokens(email string, withRefresh bool) (*oauth2.TokenResponse, error) {
	accessToken, err := as.tokens.CreateAccessToken(email)
	if err != nil {
		return nil, fmt.Errorf("[AuthorizationService.issueTokens] %w", err)
	}

	resp := &oauth2.TokenResponse{
		AccessToken: accessToken,
		TokenType:   oauth2.TokenTypeBearer,
		ExpiresIn:   int(as.tokens.AccessTokenExpiry().Seconds()),
	}
	if withRefresh {
		resp.RefreshToken, err = as.tokens.CreateRefreshToken(email)
		if err != nil {
			return nil, fmt.Errorf("[AuthorizationService.issueTokens] %w", err)
		}
	}
	return resp, nil
}

// VerifyAccessToken returns the claims of a valid access token.
func (as *AuthorizationService) VerifyAccessToken(rawToken string) (*token.Claims, error) {
	return as.tokens.Verify(rawToken, token.AccessToken)
}
