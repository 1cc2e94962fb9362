package storage

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/wardroomhq/wardroom/internal/domain"
	"github.com/wardroomhq/wardroom/internal/session"
)

// Redis persists the session in Redis under the standard keyring keys,
// namespaced by prefix so several consoles can share an instance.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a Redis keyring. An empty prefix defaults to "wardroom:".
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "wardroom:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) tokenKey() string { return r.prefix + session.TokenKey }
func (r *Redis) userKey() string  { return r.prefix + session.UserKey }

func (r *Redis) Load(ctx context.Context) (string, *domain.Identity, error) {
	vals, err := r.client.MGet(ctx, r.tokenKey(), r.userKey()).Result()
	if err != nil {
		return "", nil, err
	}
	token, _ := vals[0].(string)
	raw, _ := vals[1].(string)
	if token == "" || raw == "" {
		return "", nil, nil
	}
	var ident domain.Identity
	if err := json.Unmarshal([]byte(raw), &ident); err != nil {
		return "", nil, nil
	}
	return token, &ident, nil
}

func (r *Redis) Save(ctx context.Context, token string, identity *domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.tokenKey(), token, 0)
	pipe.Set(ctx, r.userKey(), string(raw), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.tokenKey(), r.userKey()).Err()
}

var _ session.Storage = (*Redis)(nil)
