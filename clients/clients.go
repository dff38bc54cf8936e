package clients

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultName is used when a registration omits client_name.
const DefaultName = "Claude"

// Client is a dynamically registered OAuth client. The plaintext secret is
// returned once at registration and never stored.
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SecretHash   []byte    `json:"secretHash"`
	RedirectURIs []string  `json:"redirectUris"`
	CreatedAt    time.Time `json:"createdAt"`
}

// New mints a client with a fresh identifier and secret.
func New(name string, redirectURIs []string, now time.Time) (*Client, string, error) {
	if name == "" {
		name = DefaultName
	}

	secret := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("[clients.New] hash secret: %w", err)
	}

	uris := redirectURIs
	if uris == nil {
		uris = []string{}
	}

	return &Client{
		ID:           uuid.New().String(),
		Name:         name,
		SecretHash:   hash,
		RedirectURIs: uris,
		CreatedAt:    now.UTC(),
	}, secret, nil
}

// VerifySecret reports whether secret matches the stored hash.
func (c *Client) VerifySecret(secret string) bool {
	if len(c.SecretHash) == 0 || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.SecretHash, []byte(secret)) == nil
}

// HasRedirectURI reports whether uri exactly matches a registered redirect URI.
func (c *Client) HasRedirectURI(uri string) bool {
	return slices.Contains(c.RedirectURIs, uri)
}
