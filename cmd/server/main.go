package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-marketplace-api/internal/app"
	"task-marketplace-api/internal/auth"
	"task-marketplace-api/internal/cache"
	"task-marketplace-api/internal/config"
	"task-marketplace-api/internal/database"
	"task-marketplace-api/internal/events"
	"task-marketplace-api/internal/logger"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/verification"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log := logger.Must(cfg.IsProduction())
	defer func() { _ = log.Sync() }()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to access sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	profileCache, err := cache.NewRistrettoCache[models.Profile](cfg.ProfileCacheItems)
	if err != nil {
		log.Fatal("failed to create profile cache", zap.Error(err))
	}
	defer profileCache.Close()

	limiter, closeLimiter := newLimiter(cfg, log)
	defer closeLimiter()

	publisher := newPublisher(cfg, log)
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(ctx, app.Deps{
		DB:             db,
		Tokens:         auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, auth.DefaultTokenTTL),
		Log:            log,
		Limiter:        limiter,
		Publisher:      publisher,
		ProfileCache:   profileCache,
		ProfileTTL:     cfg.ProfileCacheTTL,
		MaxActiveTasks: cfg.MaxActiveTasks,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr), zap.String("db_driver", cfg.DBDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("http server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	log.Info("task marketplace API stopped")
}

// newLimiter picks the verification limiter: Redis when REDIS_ADDR is set, memory
// otherwise, none when VERIFY_MAX_ATTEMPTS is 0.
func newLimiter(cfg config.Config, log *zap.Logger) (verification.Limiter, func()) {
	policy := verification.Policy{
		MaxAttempts: cfg.VerifyMaxAttempts,
		Window:      cfg.VerifyWindow,
		Lockout:     cfg.VerifyLockout,
	}
	if !policy.Enabled() {
		log.Warn("verification attempt limit disabled")
		return verification.NopLimiter{}, func() {}
	}
	if cfg.RedisAddr == "" {
		return verification.NewMemoryLimiter(policy), func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	log.Info("verification limiter uses redis", zap.String("addr", cfg.RedisAddr))
	return verification.NewRedisLimiter(rdb, policy), func() { _ = rdb.Close() }
}

func newPublisher(cfg config.Config, log *zap.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	log.Info("publishing lifecycle events to kafka",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic))
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, func(err error) {
		log.Warn("kafka write failed", zap.Error(err))
	})
}
