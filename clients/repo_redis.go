package clients

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "github.com/jrsteele09/github-mcp-bridge/internal/errors"
	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

// RedisRepo keeps clients in redis without expiry so registrations survive restarts.
type RedisRepo struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRepo(client redis.UniversalClient, keyPrefix string) *RedisRepo {
	return &RedisRepo{
		client: client,
		prefix: keyPrefix + "clients:",
	}
}

func (r *RedisRepo) Upsert(ctx context.Context, client *Client) error {
	if client == nil || client.ID == "" {
		return errors.New("client id cannot be empty")
	}
	data, err := json.Marshal(client)
	if err != nil {
		return apperrors.Wrapf(err, "[RedisRepo.Upsert] marshal")
	}
	if err := r.client.Set(ctx, r.prefix+client.ID, data, 0).Err(); err != nil {
		return apperrors.Wrapf(err, "[RedisRepo.Upsert] set %s", client.ID)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, clientID string) (*Client, error) {
	data, err := r.client.Get(ctx, r.prefix+clientID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrClientNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[RedisRepo.Get] get %s", clientID)
	}

	var client Client
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, apperrors.Wrapf(err, "[RedisRepo.Get] unmarshal %s", clientID)
	}
	return &client, nil
}

func (r *RedisRepo) Delete(ctx context.Context, clientID string) error {
	if err := r.client.Del(ctx, r.prefix+clientID).Err(); err != nil {
		return apperrors.Wrapf(err, "[RedisRepo.Delete] del %s", clientID)
	}
	return nil
}
