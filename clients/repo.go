package clients

import "context"

// Repo persists registered clients. Get returns errors.ErrClientNotFound for unknown IDs.
type Repo interface {
	Upsert(ctx context.Context, client *Client) error
	Get(ctx context.Context, clientID string) (*Client, error)
	Delete(ctx context.Context, clientID string) error
}
