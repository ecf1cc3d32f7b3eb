package localstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 500 * time.Millisecond

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisStore struct {
	client redisKV
	prefix string
}

// NewRedisStore guarda las claves sin expiracion bajo el prefijo "localstore:".
func NewRedisStore(client *redis.Client) Store {
	if client == nil {
		return nil
	}
	return &redisStore{
		client: client,
		prefix: "localstore:",
	}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *redisStore) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.client.Del(ctx, s.prefix+key).Err()
}
