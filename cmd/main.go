package main

import (
	"context"
	"log"
	"time"

	"github.com/ccabucoo/chick-n-needs/config"
	"github.com/ccabucoo/chick-n-needs/db"
	"github.com/ccabucoo/chick-n-needs/internal/auth/handler"
	"github.com/ccabucoo/chick-n-needs/internal/auth/lockout"
	repo "github.com/ccabucoo/chick-n-needs/internal/auth/repository/postgres"
	"github.com/ccabucoo/chick-n-needs/internal/auth/service"
	"github.com/ccabucoo/chick-n-needs/internal/auth/session"
	"github.com/ccabucoo/chick-n-needs/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.Init(cfg.IsProduction())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		zlog.Fatal("connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	accessTTL := time.Duration(cfg.AccessExpiryMin) * time.Minute
	lockDuration := time.Duration(cfg.LockoutMinutes) * time.Minute

	// Lockout and session state live in-process by default; with a Redis
	// URL both are shared across replicas.
	var (
		tracker  lockout.Tracker
		registry session.Registry
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zlog.Fatal("parse redis URL", zap.Error(err))
		}
		client := redis.NewClient(opts)
		defer func() { _ = client.Close() }()

		tracker = lockout.NewRedisTracker(client, cfg.LoginMaxAttempts, lockDuration)
		registry = session.NewRedisRegistry(client, accessTTL)
		zlog.Info("using redis-backed lockout and session stores")
	} else {
		tracker = lockout.NewMemoryTracker(cfg.LoginMaxAttempts, lockDuration)
		registry = session.NewMemoryRegistry(accessTTL)
	}
	defer tracker.Close()
	defer registry.Close()

	userRepo := repo.NewPostgresUserRepository(dbPool)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := service.NewUserService(userRepo, tokenService, registry, tracker, cfg, zlog)
	authHandler := handler.NewAuthHandler(userService, cfg, zlog)

	app := fiber.New()

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())

	// Global limiter, plus a stricter one on the auth endpoints.
	app.Use(limiter.New(limiter.Config{
		Max:                    1000,
		Expiration:             15 * time.Minute,
		SkipSuccessfulRequests: true,
	}))
	app.Use("/api/auth", limiter.New(limiter.Config{
		Max:                    10,
		Expiration:             15 * time.Minute,
		SkipSuccessfulRequests: true,
	}))

	handler.RegisterRoutes(app, authHandler)

	zlog.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
