package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
	"golang.org/x/oauth2"
)

// GoogleIssuer is the default upstream issuer.
const GoogleIssuer = "https://accounts.google.com"

type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	// RedirectURL is the bridge's own /oauth/callback.
	RedirectURL string
}

// OIDCProvider implements Provider against any OpenID Connect issuer.
type OIDCProvider struct {
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

var _ Provider = (*OIDCProvider)(nil)

// NewOIDCProvider performs issuer discovery and builds the provider.
func NewOIDCProvider(ctx context.Context, cfg Config) (*OIDCProvider, error) {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = GoogleIssuer
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("[identity.NewOIDCProvider] discovery for %s: %w", issuer, err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	return NewOIDCProviderFromParts(oauthCfg, verifier), nil
}

// NewOIDCProviderFromParts builds the provider without discovery.
func NewOIDCProviderFromParts(oauthCfg *oauth2.Config, verifier *oidc.IDTokenVerifier) *OIDCProvider {
	return &OIDCProvider{
		oauth2Config: oauthCfg,
		verifier:     verifier,
	}
}

func (p *OIDCProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades the upstream code for tokens and verifies the ID token's
// signature, issuer, audience and expiry. The upstream refresh token is discarded.
func (p *OIDCProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	oauth2Token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", apperrors.ErrIdentityProvider, err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: no id_token in response", apperrors.ErrIdentityProvider)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: id_token verification: %v", apperrors.ErrIdentityProvider, err)
	}

	var claims struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: claims: %v", apperrors.ErrIdentityProvider, err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: id_token has no email claim", apperrors.ErrIdentityProvider)
	}

	return &Identity{
		Subject:       claims.Sub,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}
