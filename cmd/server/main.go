package main

import (
	"context"
	"errors"
	"fieldops-service/internal/adapters/cache"
	"fieldops-service/internal/adapters/export"
	"fieldops-service/internal/adapters/repositories"
	"fieldops-service/internal/adapters/routing"
	"fieldops-service/internal/api"
	"fieldops-service/internal/config"
	"fieldops-service/internal/platform/db"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fieldops-service/internal/services"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (PostgreSQL, SQLite, Redis, routing provider)
// behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		obs.Error("msg", "server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, loaded, err := config.Load()
	if err != nil {
		return err
	}
	obs.Configure(os.Stderr, cfg.LogLevel)
	if !loaded {
		obs.Info("msg", "no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	routeDB, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer routeDB.Close()

	if err := cache.InitRouteCacheSchema(ctx, routeDB); err != nil {
		return err
	}
	routeCache := cache.NewSQLiteRouteCache(routeDB, cfg.RouteCacheMaxAge)
	if n, err := routeCache.Purge(ctx); err != nil {
		obs.Warn("msg", "route cache purge failed", "err", err)
	} else if n > 0 {
		obs.Info("msg", "purged expired routes", "removed", n)
	}

	reportCache, closeCache := openReportCache(ctx, cfg.RedisURL)
	defer closeCache()

	provider := newRoutingProvider(cfg)
	cached := routing.NewCachedProvider(provider, routeCache)

	// A missing key fails initialization, not startup. Routes report
	// api-error until the key is set and POST /routing/reset is called.
	apiKey := func() string {
		key := config.ProviderAPIKey(cfg.RoutingProvider)
		provider.SetAPIKey(key)
		return key
	}
	initializer := services.NewProviderInitializer(
		services.CredentialedInit(apiKey, cached.Ping),
		cfg.ProviderInitAttempts,
	)
	resolver := services.NewRouteResolver(
		cached,
		initializer,
		cfg.MaxWaypoints,
		ports.TravelMode(cfg.TravelMode),
		cfg.MaxParallelSegments,
	)

	go func() {
		if err := initializer.EnsureReady(ctx); err != nil {
			obs.Warn("msg", "routing provider not ready at startup", "err", err)
		}
	}()

	visits := repositories.NewPostgresVisitRepository(pg)
	transactions := repositories.NewPostgresTransactionRepository(pg)
	purchaseOrders := repositories.NewPostgresPurchaseOrderRepository(pg)

	sessions := services.NewSessionStore(resolver)
	go sessions.RunPruner(ctx, time.Minute, cfg.SessionIdleTimeout)

	router := api.NewRouter(api.Deps{
		Tracking: services.NewTrackingService(visits, transactions, reportCache, cfg.TrackingCacheTTL, cfg.DisplayLocation),
		Reports:  services.NewReportService(visits, transactions, purchaseOrders, reportCache, cfg.DisplayLocation),
		Resolver: resolver,
		Provider: initializer,
		Sessions: sessions,
		Exporter: export.NewExcelExporter(cfg.DisplayLocation),
		Location: cfg.DisplayLocation,
	})

	// Write timeout covers a cold-cache multi-segment route resolution.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		obs.Info("msg", "server listening", "addr", srv.Addr, "provider", cached.Name())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	obs.Info("msg", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// keyedProvider is a routing provider whose API key can be replaced.
type keyedProvider interface {
	ports.RoutingProvider
	SetAPIKey(key string)
}

func newRoutingProvider(cfg config.Config) keyedProvider {
	if cfg.RoutingProvider == "ors" {
		return routing.NewORSDirectionsProvider(cfg.ORSAPIKey, cfg.RoutingBaseURL)
	}
	return routing.NewGoogleDirectionsProvider(cfg.GoogleMapsAPIKey, cfg.RoutingBaseURL)
}

// openReportCache connects to Redis when configured. Reports are served
// uncached when Redis is absent or unreachable.
func openReportCache(ctx context.Context, redisURL string) (ports.ReportCache, func()) {
	if redisURL == "" {
		obs.Info("msg", "REDIS_URL not set; report caching disabled")
		return nil, func() {}
	}

	client, err := cache.OpenRedis(ctx, redisURL)
	if err != nil {
		obs.Warn("msg", "report caching disabled", "err", err)
		return nil, func() {}
	}

	return cache.NewRedisReportCache(client, "fieldops:"), func() { _ = client.Close() }
}
