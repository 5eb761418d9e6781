package ports

import (
	"context"
	"fieldops-service/internal/domain"
	"time"
)

// Optional cache of resolved routing paths keyed by an opaque request key.
type RouteCache interface {
	GetPath(ctx context.Context, key string) (domain.RoutePath, bool, error)
	PutPath(ctx context.Context, key string, path domain.RoutePath) error
}

// Optional cache for JSON-serialisable report payloads.
type ReportCache interface {
	// Get decodes the cached value into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}
