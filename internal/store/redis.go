package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Slot returns a slot stored as the string key name.
func (r *Redis) Slot(name string) *RedisSlot {
	return &RedisSlot{r: r, key: name}
}

// RedisSlot keeps the payload in a single string key.
type RedisSlot struct {
	r   *Redis
	key string
}

func (s *RedisSlot) Get(ctx context.Context) ([]byte, error) {
	b, err := s.r.Client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *RedisSlot) Put(ctx context.Context, payload []byte) error {
	return s.r.Client.Set(ctx, s.key, payload, 0).Err()
}

func (s *RedisSlot) Healthy(ctx context.Context) bool { return s.r.Healthy(ctx) }

func (s *RedisSlot) Close() error { return s.r.Client.Close() }
