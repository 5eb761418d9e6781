package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fieldops-service/internal/platform/obs"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReportCache stores JSON report payloads in Redis.
type RedisReportCache struct {
	client *redis.Client
	prefix string
}

func NewRedisReportCache(client *redis.Client, prefix string) *RedisReportCache {
	return &RedisReportCache{client: client, prefix: prefix}
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}

	return client, nil
}

// Get decodes the cached value into dst and reports whether it was present.
func (r *RedisReportCache) Get(ctx context.Context, key string, dst any) (_ bool, err error) {
	defer obs.Time(ctx, "report.cache.Get")(&err)

	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("report cache get %q: %w", key, err)
	}

	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("report cache decode %q: %w", key, err)
	}

	return true, nil
}

// Set stores v as JSON for ttl.
func (r *RedisReportCache) Set(ctx context.Context, key string, v any, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "report.cache.Set")(&err)

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("report cache encode %q: %w", key, err)
	}

	if err := r.client.Set(ctx, r.prefix+key, b, ttl).Err(); err != nil {
		return fmt.Errorf("report cache set %q: %w", key, err)
	}

	return nil
}
