// Package bootstrap wires the runtime dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"filmorate/internal/cache"
	"filmorate/internal/config"
	"filmorate/internal/database"
	"filmorate/internal/middleware"
	"filmorate/internal/models"
	"filmorate/internal/observability"
	"filmorate/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// FixturePath, when set, is applied to an empty database outside production.
	FixturePath string
}

// InitRuntime connects to DB and Redis and optionally loads a fixture.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := seedFixture(cfg, db, r, opts.FixturePath); err != nil {
		return nil, nil, fmt.Errorf("failed to load fixture: %w", err)
	}

	return db, r, nil
}

// InitTracing configures the tracer provider from cfg.
func InitTracing(cfg *config.Config) (func(context.Context) error, error) {
	return observability.InitTracing(observability.TracingConfig{
		ServiceName:    "filmorate-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
}

func seedFixture(cfg *config.Config, db *gorm.DB, rdb *redis.Client, path string) error {
	if path == "" || cfg.IsProduction() {
		return nil
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.Info("database already populated, skipping fixture", "path", path)
		return nil
	}

	f, err := seed.LoadFixture(path)
	if err != nil {
		return err
	}
	ttl := time.Duration(cfg.PopularCacheTTLSeconds) * time.Second
	s := seed.NewSeeder(db, cache.NewPopularCache(rdb, ttl))
	if err := s.ApplyFixture(context.Background(), f); err != nil {
		return err
	}
	middleware.Logger.Info("fixture loaded", "path", path, "users", len(f.Users), "films", len(f.Films))
	return nil
}
