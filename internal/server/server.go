// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	_ "filmorate/docs" // swagger docs
	"filmorate/internal/cache"
	"filmorate/internal/config"
	"filmorate/internal/database"
	"filmorate/internal/middleware"
	"filmorate/internal/models"
	"filmorate/internal/repository"
	"filmorate/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	store          *repository.Store

	userService           *service.UserService
	filmService           *service.FilmService
	genreService          *service.GenreService
	likeService           *service.LikeService
	friendService         *service.FriendService
	similarityService     *service.SimilarityService
	recommendationService *service.RecommendationService
	popularityService     *service.PopularityService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redis client disables the popular cache and the per-route rate limits.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	store := repository.NewStore(db)
	ttl := time.Duration(cfg.PopularCacheTTLSeconds) * time.Second
	popular := cache.NewPopularCache(redisClient, ttl)

	return &Server{
		config:                cfg,
		db:                    db,
		redis:                 redisClient,
		promMiddleware:        middleware.InitMetrics("filmorate-api"),
		store:                 store,
		userService:           service.NewUserService(store, popular),
		filmService:           service.NewFilmService(store, popular),
		genreService:          service.NewGenreService(store),
		likeService:           service.NewLikeService(store, popular),
		friendService:         service.NewFriendService(store),
		similarityService:     service.NewSimilarityService(store),
		recommendationService: service.NewRecommendationService(store),
		popularityService:     service.NewPopularityService(store, popular),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Context Middleware to propagate the request ID to services
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		MaxAge:       86400,
	}))

	maxPerMinute := s.config.RateLimitPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 100
	}
	app.Use(limiter.New(limiter.Config{
		Max:        maxPerMinute,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Filmorate Metrics Dashboard",
	}))

	api.Get("/swagger/*", swagger.HandlerDefault)

	users := api.Group("/users")
	users.Post("/", middleware.RateLimit(s.redis, 10, time.Minute, "create_user"), s.CreateUser)
	users.Get("/", s.GetUsers)
	// Specific /:id/:resource routes before generic /:id
	users.Get("/:id/friends/common/:otherId", s.GetCommonFriends)
	users.Get("/:id/friends/:friendId/status", s.GetFriendshipStatus)
	users.Put("/:id/friends/:friendId", middleware.RateLimitByUser(
		s.redis, 30, time.Minute, "id", "friend_request"), s.AddFriend)
	users.Delete("/:id/friends/:friendId", s.DeleteFriend)
	users.Get("/:id/friends", s.GetFriends)
	users.Get("/:id/likes", s.GetUserLikes)
	users.Get("/:id/similar", s.GetSimilarUsers)
	users.Get("/:id/recommendations", s.GetRecommendations)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	films := api.Group("/films")
	films.Post("/", middleware.RateLimit(s.redis, 10, time.Minute, "create_film"), s.CreateFilm)
	films.Get("/", s.GetFilms)
	// Static segments before /:id
	films.Get("/popular", s.GetPopularFilms)
	films.Get("/common", s.GetCommonFilms)
	films.Put("/:id/like/:userId", middleware.RateLimitByUser(
		s.redis, 60, time.Minute, "userId", "like"), s.AddLike)
	films.Delete("/:id/like/:userId", s.RemoveLike)
	films.Get("/:id/likes", s.GetFilmLikes)
	films.Get("/:id", s.GetFilm)
	films.Put("/:id", s.UpdateFilm)
	films.Delete("/:id", s.DeleteFilm)

	genres := api.Group("/genres")
	genres.Post("/", s.CreateGenre)
	genres.Get("/", s.GetGenres)
	genres.Get("/:id", s.GetGenre)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: when it is
// not configured the service is still ready, with caching disabled.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName: "Filmorate API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
