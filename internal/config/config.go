package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment and an
// optional .env file.
type Config struct {
	Port        string
	DatabaseURL string
	DBPath      string
	RedisURL    string
	LogLevel    string

	RoutingProvider      string
	GoogleMapsAPIKey     string
	ORSAPIKey            string
	RoutingBaseURL       string
	TravelMode           string
	MaxWaypoints         int
	ProviderInitAttempts int
	MaxParallelSegments  int

	TrackingCacheTTL   time.Duration
	RouteCacheMaxAge   time.Duration
	SessionIdleTimeout time.Duration
	DisplayLocation    *time.Location

	SeedPath string
}

// Load reads .env (when present) and the environment.
// It reports whether a .env file was loaded.
func Load() (Config, bool, error) {
	loaded := godotenv.Load() == nil

	cfg := Config{
		Port:             Get("PORT", "8080"),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBPath:           Get("DB_PATH", "data/routing-cache.db"),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		LogLevel:         Get("LOG_LEVEL", "info"),
		RoutingProvider:  strings.ToLower(Get("ROUTING_PROVIDER", "google")),
		GoogleMapsAPIKey: strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		ORSAPIKey:        strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		RoutingBaseURL:   strings.TrimSpace(os.Getenv("ROUTING_BASE_URL")),
		TravelMode:       strings.ToLower(Get("ROUTING_TRAVEL_MODE", "driving")),
		SeedPath:         Get("SEED_PATH", "data/seeds/sample.json"),
	}

	var err error
	if cfg.MaxWaypoints, err = getInt("MAX_WAYPOINTS_PER_REQUEST", 0); err != nil {
		return Config{}, loaded, err
	}
	if cfg.ProviderInitAttempts, err = getInt("ROUTING_INIT_ATTEMPTS", 3); err != nil {
		return Config{}, loaded, err
	}
	if cfg.MaxParallelSegments, err = getInt("ROUTING_MAX_PARALLEL", 0); err != nil {
		return Config{}, loaded, err
	}

	if cfg.TrackingCacheTTL, err = getDuration("TRACKING_CACHE_TTL", "2m"); err != nil {
		return Config{}, loaded, err
	}
	if cfg.RouteCacheMaxAge, err = getDuration("ROUTE_CACHE_MAX_AGE", "168h"); err != nil {
		return Config{}, loaded, err
	}
	if cfg.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", "30m"); err != nil {
		return Config{}, loaded, err
	}

	tz := Get("DISPLAY_TIMEZONE", "Asia/Dubai")
	if cfg.DisplayLocation, err = time.LoadLocation(tz); err != nil {
		return Config{}, loaded, fmt.Errorf("config: DISPLAY_TIMEZONE=%q: %w", tz, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, loaded, err
	}

	return cfg, loaded, nil
}

// ProviderAPIKey reads the key of the named routing provider from the
// environment, then from .env. It may be empty. Unlike Load it is cheap to
// call again, so a key added after startup is picked up.
func ProviderAPIKey(provider string) string {
	name := "GOOGLE_MAPS_API_KEY"
	if provider == "ors" {
		name = "ORS_API_KEY"
	}
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	if env, err := godotenv.Read(); err == nil {
		return strings.TrimSpace(env[name])
	}
	return ""
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required")
	}

	switch c.RoutingProvider {
	case "google", "ors":
	default:
		return fmt.Errorf("config: ROUTING_PROVIDER must be google or ors, got %q", c.RoutingProvider)
	}

	if c.MaxWaypoints < 0 {
		return fmt.Errorf("config: MAX_WAYPOINTS_PER_REQUEST must not be negative, got %d", c.MaxWaypoints)
	}
	if c.ProviderInitAttempts < 1 {
		return fmt.Errorf("config: ROUTING_INIT_ATTEMPTS must be at least 1, got %d", c.ProviderInitAttempts)
	}
	switch c.TravelMode {
	case "driving", "walking":
	default:
		return fmt.Errorf("config: ROUTING_TRAVEL_MODE must be driving or walking, got %q", c.TravelMode)
	}

	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("config: SESSION_IDLE_TIMEOUT must be positive, got %s", c.SessionIdleTimeout)
	}

	if c.MaxParallelSegments < 0 {
		return fmt.Errorf("config: ROUTING_MAX_PARALLEL must not be negative, got %d", c.MaxParallelSegments)
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key, fallback string) (time.Duration, error) {
	v := Get(key, fallback)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return d, nil
}
