package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"filmorate/internal/middleware"
	"filmorate/internal/models"
	"filmorate/internal/observability"

	"github.com/redis/go-redis/v9"
)

// PopularCache stores computed popular-film lists. Every like mutation bumps a
// generation counter, so entries written before the mutation are never read again.
// A nil Redis client turns every method into a no-op.
type PopularCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPopularCache returns a cache backed by rdb. A non-positive ttl falls back to PopularTTL.
func NewPopularCache(rdb *redis.Client, ttl time.Duration) *PopularCache {
	if ttl <= 0 {
		ttl = PopularTTL
	}
	return &PopularCache{rdb: rdb, ttl: ttl}
}

func (c *PopularCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, PopularGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached list for the query, if present in the current generation.
// The returned generation is the one the caller must hand back to Set; it is -1
// when the generation could not be read.
func (c *PopularCache) Get(ctx context.Context, genreID *uint, year *int, limit *int) ([]models.Film, int64, bool) {
	if c == nil || c.rdb == nil {
		return nil, -1, false
	}
	ctx, span := observability.TraceRedisOperation(ctx, "popular.get", PopularGenerationKey)
	defer span.End()

	gen, err := c.generation(ctx)
	if err != nil {
		return nil, -1, false
	}
	raw, err := c.rdb.Get(ctx, PopularKey(gen, genreID, year, limit)).Bytes()
	if err != nil {
		observability.PopularCacheResults.WithLabelValues("miss").Inc()
		return nil, gen, false
	}

	var films []models.Film
	if err := json.Unmarshal(raw, &films); err != nil {
		middleware.Logger.WarnContext(ctx, "discarding corrupt popular cache entry", slog.String("error", err.Error()))
		return nil, gen, false
	}
	observability.PopularCacheResults.WithLabelValues("hit").Inc()
	return films, gen, true
}

// Set stores a list computed after Get returned gen. The entry is keyed by gen, so a
// list that raced with an Invalidate lands in a generation nobody reads any more.
// Errors are logged and dropped.
func (c *PopularCache) Set(ctx context.Context, gen int64, genreID *uint, year *int, limit *int, films []models.Film) {
	if c == nil || c.rdb == nil || gen < 0 {
		return
	}
	key := PopularKey(gen, genreID, year, limit)
	ctx, span := observability.TraceRedisOperation(ctx, "popular.set", key)
	defer span.End()

	raw, err := json.Marshal(films)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to cache popular films", slog.String("error", err.Error()))
	}
}

// Invalidate starts a new generation; callers invoke it after the mutation has committed.
func (c *PopularCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, PopularGenerationKey).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to invalidate popular cache", slog.String("error", err.Error()))
	}
}
