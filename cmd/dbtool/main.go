package main

import (
	"context"
	"database/sql"
	"fieldops-service/internal/adapters/repositories"
	"fieldops-service/internal/config"
	"fieldops-service/internal/platform/db"
	"fieldops-service/internal/platform/obs"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		obs.Info("msg", "no .env file found (using environment variables)")
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		obs.Error("msg", "DATABASE_URL is required")
		os.Exit(1)
	}

	tz := config.Get("DISPLAY_TIMEZONE", "Asia/Dubai")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		obs.Error("msg", "invalid DISPLAY_TIMEZONE", "tz", tz, "err", err)
		os.Exit(1)
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		obs.Error("msg", "open database failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/sample.json")
	if err := initAndSeed(context.Background(), db, seedPath, loc); err != nil {
		obs.Error("err", err)
		db.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, db *sql.DB, seedPath string, loc *time.Location) error {
	obs.Info("msg", "initializing database schema")
	if err := repositories.InitSchema(ctx, db); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	obs.Info("msg", "schema ready")

	obs.Info("msg", "seeding database", "path", seedPath)
	if err := repositories.SeedFromJSON(ctx, db, seedPath, loc); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	obs.Info("msg", "seeding complete")

	return nil
}
