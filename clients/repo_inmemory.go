package clients

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	clients map[string]*Client
	lock    sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		clients: make(map[string]*Client),
	}
}

func (r *InMemoryRepo) Upsert(_ context.Context, client *Client) error {
	if client == nil || client.ID == "" {
		return errors.New("client id cannot be empty")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.clients[client.ID] = client
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, clientID string) (*Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	client, ok := r.clients[clientID]
	if !ok {
		return nil, apperrors.ErrClientNotFound
	}
	return client, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, clientID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.clients, clientID)
	return nil
}
