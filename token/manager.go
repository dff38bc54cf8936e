package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
)

// Type distinguishes access tokens from refresh tokens. Each is rejected where
// the other is expected.
type Type string

const (
	AccessToken  Type = "access"
	RefreshToken Type = "refresh"
)

const (
	DefaultAccessTokenExpiry  = 7 * 24 * time.Hour
	DefaultRefreshTokenExpiry = 30 * 24 * time.Hour
)

// Claims carried by every token the bridge issues.
type Claims struct {
	jwt.RegisteredClaims
	Type  Type   `json:"type"`
	Email string `json:"email"`
}

type Manager struct {
	signer             Signer
	issuer             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry time.Duration, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		if accessTokenExpiry > 0 {
			m.accessTokenExpiry = accessTokenExpiry
		}
		if refreshTokenExpiry > 0 {
			m.refreshTokenExpiry = refreshTokenExpiry
		}
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// New creates a Manager whose tokens carry issuer as iss. The issuer is the
// bridge's public base URL.
func New(signer Signer, issuer string, options ...ManagerOption) *Manager {
	m := &Manager{
		signer:             signer,
		issuer:             issuer,
		accessTokenExpiry:  DefaultAccessTokenExpiry,
		refreshTokenExpiry: DefaultRefreshTokenExpiry,
		nowFunc:            time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// AccessTokenExpiry is reported to clients as expires_in.
func (m *Manager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

func (m *Manager) CreateAccessToken(email string) (string, error) {
	return m.create(email, AccessToken, m.accessTokenExpiry)
}

func (m *Manager) CreateRefreshToken(email string) (string, error) {
	return m.create(email, RefreshToken, m.refreshTokenExpiry)
}

func (m *Manager) create(email string, tokenType Type, expiry time.Duration) (string, error) {
	now := m.nowFunc()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.New().String(),
		},
		Type:  tokenType,
		Email: email,
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("[Manager.create] %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and that the token is of the wanted type.
// It returns ErrInvalidToken for anything unverifiable and ErrWrongTokenType
// for a valid token of the other type.
func (m *Manager) Verify(rawToken string, want Type) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.nowFunc),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	if claims.Type != want {
		return nil, apperrors.ErrWrongTokenType
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", apperrors.ErrInvalidToken)
	}
	return claims, nil
}
