package services

import (
	"context"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"time"
)

// loadCached returns the cached value for key, or calls load and caches its
// result for ttl. Cache failures are logged and never fail the request.
func loadCached[T any](
	ctx context.Context,
	cache ports.ReportCache,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	if cache == nil || ttl <= 0 {
		return load(ctx)
	}

	var cached T
	ok, err := cache.Get(ctx, key, &cached)
	if err != nil {
		obs.Warn("req_id", obs.RequestID(ctx), "msg", "report cache read failed", "key", key, "err", err)
	} else if ok {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if err := cache.Set(ctx, key, v, ttl); err != nil {
		obs.Warn("req_id", obs.RequestID(ctx), "msg", "report cache write failed", "key", key, "err", err)
	}

	return v, nil
}
