package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobscout-engine/internal/config"
	"jobscout-engine/pkg/utils"
)

func marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Redis is a Cache backed by a redis instance, for deployments where several
// engine processes share one enrichment cache.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects a redis-backed cache from the configured URL.
func NewRedis(cfg *config.Config) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	return &Redis{
		client: redis.NewClient(opts),
		prefix: "jobscout:enrich:",
	}, nil
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, unmarshal(data, v)
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, data, ttl).Err()
}

// Close releases the redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// NewFromConfig picks the redis cache when a URL is configured and falls
// back to the in-memory cache otherwise.
func NewFromConfig(cfg *config.Config) Cache {
	if cfg.Redis.URL == "" {
		return NewMemory()
	}
	c, err := NewRedis(cfg)
	if err != nil {
		utils.GetLogger().WithError(err).Warn("Redis cache unavailable, using in-memory cache")
		return NewMemory()
	}
	return c
}
