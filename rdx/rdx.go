// Package rdx is the read-through cache in front of the account store and the
// recipe search API.
package rdx

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores string values by key. Get reports a miss with ok=false and a
// nil error.
type Cache interface {
	Get(ctx context.Context, key string) (val string, ok bool, err error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type RedisCache struct {
	Conn *redis.Client
}

// NewRedisCache connects to addr and checks the connection with PING.
func NewRedisCache(ctx context.Context, addr, password string) (*RedisCache, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, err
	}
	return &RedisCache{Conn: conn}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.Conn.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	return c.Conn.Set(ctx, key, val, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.Conn.Del(ctx, keys...).Err()
}

func (c *RedisCache) Close() error {
	return c.Conn.Close()
}

// NopCache never stores anything. It is used when REDIS_ADDR is unset.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (string, bool, error)         { return "", false, nil }
func (NopCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (NopCache) Del(context.Context, ...string) error                     { return nil }
