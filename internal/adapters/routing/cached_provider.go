package routing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"strconv"
	"strings"
)

// CachedProvider decorates a RoutingProvider with a persistent path cache.
// Only successful paths are stored; failures always reach the provider again.
type CachedProvider struct {
	next  ports.RoutingProvider
	cache ports.RouteCache
}

func NewCachedProvider(next ports.RoutingProvider, cache ports.RouteCache) *CachedProvider {
	return &CachedProvider{next: next, cache: cache}
}

func (c *CachedProvider) Name() string { return c.next.Name() }

func (c *CachedProvider) MaxWaypoints() int { return c.next.MaxWaypoints() }

func (c *CachedProvider) Ping(ctx context.Context) error { return c.next.Ping(ctx) }

func (c *CachedProvider) Route(ctx context.Context, req ports.RouteRequest) (domain.RoutePath, error) {
	if c.cache == nil {
		return c.next.Route(ctx, req)
	}

	key := CacheKey(c.next.Name(), req)

	path, ok, err := c.cache.GetPath(ctx, key)
	if err != nil {
		// Read failures fall through to the provider.
		obs.Warn("req_id", obs.RequestID(ctx), "msg", "route cache read failed", "err", err)
	} else if ok {
		return path, nil
	}

	path, err = c.next.Route(ctx, req)
	if err != nil {
		return domain.RoutePath{}, err
	}

	if err := c.cache.PutPath(ctx, key, path); err != nil {
		obs.Warn("req_id", obs.RequestID(ctx), "msg", "route cache write failed", "err", err)
	}

	return path, nil
}

// CacheKey identifies a request by provider, travel mode and the ordered
// coordinate list, rounded to six decimals.
func CacheKey(provider string, req ports.RouteRequest) string {
	mode := req.Mode
	if mode == "" {
		mode = ports.TravelDriving
	}

	var b strings.Builder
	b.WriteString(provider)
	b.WriteByte('|')
	b.WriteString(string(mode))
	for _, p := range req.Points() {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(p.Lon, 'f', 6, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Lat, 'f', 6, 64))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return provider + ":" + hex.EncodeToString(sum[:])
}
