package identity_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/github-mcp-bridge/identity"
	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testClientID = "google-client-id"
	testIssuer   = "https://issuer.example.com"
)

type upstream struct {
	server  *httptest.Server
	key     *rsa.PrivateKey
	idToken jwt.MapClaims
	fail    bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	u := &upstream{
		key: key,
		idToken: jwt.MapClaims{
			"iss":            testIssuer,
			"aud":            testClientID,
			"sub":            "12345",
			"email":          "me@example.com",
			"email_verified": true,
			"name":           "Me",
			"iat":            time.Now().Unix(),
			"exp":            time.Now().Add(time.Hour).Unix(),
		},
	}

	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if u.fail || r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}

		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, u.idToken)
		signed, err := tok.SignedString(u.key)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "upstream-access",
			"refresh_token": "upstream-refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"id_token":      signed,
		})
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) provider() *identity.OIDCProvider {
	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{u.key.Public()}}
	verifier := oidc.NewVerifier(testIssuer, keySet, &oidc.Config{ClientID: testClientID})
	return identity.NewOIDCProviderFromParts(&oauth2.Config{
		ClientID:     testClientID,
		ClientSecret: "google-secret",
		RedirectURL:  "https://bridge.example.com/oauth/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://issuer.example.com/auth",
			TokenURL: u.server.URL + "/token",
		},
		Scopes: []string{oidc.ScopeOpenID, "email", "profile"},
	}, verifier)
}

func TestOIDCProvider_AuthCodeURL(t *testing.T) {
	p := newUpstream(t).provider()

	raw := p.AuthCodeURL("client-state")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	require.Equal(t, "client-state", q.Get("state"))
	require.Equal(t, "offline", q.Get("access_type"))
	require.Equal(t, "select_account", q.Get("prompt"))
	require.Equal(t, "openid email profile", q.Get("scope"))
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "https://bridge.example.com/oauth/callback", q.Get("redirect_uri"))
}

func TestOIDCProvider_Exchange(t *testing.T) {
	ctx := context.Background()

	t.Run("verified identity", func(t *testing.T) {
		p := newUpstream(t).provider()
		id, err := p.Exchange(ctx, "good-code")
		require.NoError(t, err)
		require.Equal(t, "me@example.com", id.Email)
		require.True(t, id.EmailVerified)
		require.Equal(t, "12345", id.Subject)
		require.Equal(t, "Me", id.Name)
	})

	t.Run("unverified email is reported", func(t *testing.T) {
		u := newUpstream(t)
		u.idToken["email_verified"] = false
		id, err := u.provider().Exchange(ctx, "good-code")
		require.NoError(t, err)
		require.False(t, id.EmailVerified)
	})

	t.Run("upstream rejects code", func(t *testing.T) {
		p := newUpstream(t).provider()
		_, err := p.Exchange(ctx, "bad-code")
		require.ErrorIs(t, err, apperrors.ErrIdentityProvider)
	})

	t.Run("wrong audience", func(t *testing.T) {
		u := newUpstream(t)
		u.idToken["aud"] = "someone-else"
		_, err := u.provider().Exchange(ctx, "good-code")
		require.ErrorIs(t, err, apperrors.ErrIdentityProvider)
	})

	t.Run("expired id token", func(t *testing.T) {
		u := newUpstream(t)
		u.idToken["exp"] = time.Now().Add(-time.Hour).Unix()
		_, err := u.provider().Exchange(ctx, "good-code")
		require.ErrorIs(t, err, apperrors.ErrIdentityProvider)
	})

	t.Run("signed by another key", func(t *testing.T) {
		u := newUpstream(t)
		p := u.provider()
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		u.key = other
		_, err = p.Exchange(ctx, "good-code")
		require.ErrorIs(t, err, apperrors.ErrIdentityProvider)
	})

	t.Run("missing email", func(t *testing.T) {
		u := newUpstream(t)
		delete(u.idToken, "email")
		_, err := u.provider().Exchange(ctx, "good-code")
		require.ErrorIs(t, err, apperrors.ErrIdentityProvider)
	})
}

func TestNewOIDCProvider_Discovery(t *testing.T) {
	var issuer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/.well-known/openid-configuration", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/auth",
			"token_endpoint":         issuer + "/token",
			"jwks_uri":               issuer + "/certs",
		})
	}))
	defer srv.Close()
	issuer = srv.URL

	p, err := identity.NewOIDCProvider(context.Background(), identity.Config{
		Issuer:      issuer,
		ClientID:    testClientID,
		RedirectURL: "https://bridge.example.com/oauth/callback",
	})
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("s"))
	require.NoError(t, err)
	require.Equal(t, issuer+"/auth", u.Scheme+"://"+u.Host+u.Path)
}
