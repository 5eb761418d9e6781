package cache

import (
	"context"
	"database/sql"
	"errors"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// SQLiteRouteCache is a SQLite-backed cache of resolved routing paths.
// Geometries are stored as WKB. Keys are expected to be stable and
// collision-free (see routing.CacheKey).
type SQLiteRouteCache struct {
	DB *sql.DB
	// Entries older than MaxAge are treated as misses. Zero keeps entries forever.
	MaxAge time.Duration
}

func NewSQLiteRouteCache(db *sql.DB, maxAge time.Duration) *SQLiteRouteCache {
	return &SQLiteRouteCache{DB: db, MaxAge: maxAge}
}

// Initialize the routing cache schema.
func InitRouteCacheSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init route cache schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init route cache schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		geometry BLOB NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_cache_created_at
	ON route_cache(created_at);
	`

	statements := []string{
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init route cache schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init route cache schema: commit tx: %w", err)
	}

	return nil
}

// GetPath returns the cached path for key.
func (s *SQLiteRouteCache) GetPath(ctx context.Context, key string) (_ domain.RoutePath, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.GetPath")(&err)

	if s.DB == nil {
		return domain.RoutePath{}, false, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return domain.RoutePath{}, false, errors.New("get route cache: key must not be empty")
	}

	query := `
	SELECT
		geometry,
		distance_meters,
		duration_seconds,
		created_at
	FROM route_cache
	WHERE cache_key = ?;
	`

	var (
		blob      []byte
		meters    int
		seconds   int
		createdAt int64
	)
	err = s.DB.QueryRowContext(ctx, query, key).Scan(&blob, &meters, &seconds, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoutePath{}, false, nil
	}
	if err != nil {
		return domain.RoutePath{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if s.MaxAge > 0 && time.Since(time.Unix(createdAt, 0)) > s.MaxAge {
		return domain.RoutePath{}, false, nil
	}

	geom, err := wkb.Unmarshal(blob)
	if err != nil {
		return domain.RoutePath{}, false, fmt.Errorf("get route cache: decode geometry key=%q: %w", key, err)
	}

	line, ok := geom.(orb.LineString)
	if !ok {
		return domain.RoutePath{}, false, fmt.Errorf("get route cache: key=%q: unexpected geometry %T", key, geom)
	}

	return domain.RoutePath{
		Line:            line,
		DistanceMeters:  meters,
		DurationSeconds: seconds,
	}, true, nil
}

// PutPath stores or replaces the path for key.
func (s *SQLiteRouteCache) PutPath(ctx context.Context, key string, path domain.RoutePath) (err error) {
	defer obs.Time(ctx, "route.cache.PutPath")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	blob, err := wkb.Marshal(path.Line)
	if err != nil {
		return fmt.Errorf("insert route cache: encode geometry: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO route_cache (
		cache_key,
		geometry,
		distance_meters,
		duration_seconds,
		created_at
	)
	VALUES (?, ?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, query, key, blob, path.DistanceMeters, path.DurationSeconds, time.Now().Unix()); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}

// Purge deletes entries older than MaxAge and returns how many were removed.
func (s *SQLiteRouteCache) Purge(ctx context.Context) (_ int64, err error) {
	defer obs.Time(ctx, "route.cache.Purge")(&err)

	if s.MaxAge <= 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-s.MaxAge).Unix()
	res, err := s.DB.ExecContext(ctx, `DELETE FROM route_cache WHERE created_at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge route cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge route cache: rows affected: %w", err)
	}
	return n, nil
}
