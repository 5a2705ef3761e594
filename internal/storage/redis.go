package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions addresses the server backing the redis adapter.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis stores values with SET ... EX so expiry is enforced server side.
type Redis struct {
	client *redis.Client
	opts   options
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, ro RedisOptions, opts ...Option) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     ro.Addr,
		Password: ro.Password,
		DB:       ro.DB,
	})

	pingCtx, cancel := context.WithTimeout(ensureContext(ctx), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: connect redis %s: %w", ErrUnavailable, ro.Addr, err)
	}
	return &Redis{client: client, opts: buildOptions(opts)}, nil
}

func (r *Redis) Read(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ensureContext(ctx), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("read", key, err)
	}
	return value, true, nil
}

func (r *Redis) Write(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.opts.checkValue(key, value); err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ensureContext(ctx), key, value, ttl).Err(); err != nil {
		return unavailable("write", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ensureContext(ctx), key).Err(); err != nil {
		return unavailable("delete", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
