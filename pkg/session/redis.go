package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glintwash/glintwash-client/pkg/config"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace  = "gw"
	sessionPrefix = "session"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisStore keeps the session mirror in Redis under namespaced keys, which
// lets several kiosk processes share one logged-in session.
type RedisStore struct {
	store cmdable
}

// NewRedisStore bootstraps a Redis-backed session store and verifies
// connectivity.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func (r *RedisStore) Get(ctx context.Context, key Key) (string, error) {
	if r.store == nil {
		return "", errors.New("redis store not initialized")
	}
	value, err := r.store.Get(ctx, r.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *RedisStore) Set(ctx context.Context, key Key, value string) error {
	if r.store == nil {
		return errors.New("redis store not initialized")
	}
	return r.store.Set(ctx, r.redisKey(key), value, 0).Err()
}

func (r *RedisStore) Del(ctx context.Context, keys ...Key) error {
	if r.store == nil {
		return errors.New("redis store not initialized")
	}
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		redisKeys = append(redisKeys, r.redisKey(key))
	}
	return r.store.Del(ctx, redisKeys...).Err()
}

func (r *RedisStore) redisKey(key Key) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, sessionPrefix, key)
}
