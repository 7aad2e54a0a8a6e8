// Package app assembles the marketplace services into an HTTP application.
package app

import (
	"context"
	"time"

	"task-marketplace-api/internal/auth"
	"task-marketplace-api/internal/cache"
	"task-marketplace-api/internal/chat"
	"task-marketplace-api/internal/events"
	"task-marketplace-api/internal/handlers"
	"task-marketplace-api/internal/lifecycle"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/realtime"
	"task-marketplace-api/internal/routes"
	"task-marketplace-api/internal/store"
	"task-marketplace-api/internal/verification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the backends the application runs on. Nil optional fields fall back to
// in-process implementations.
type Deps struct {
	DB     *gorm.DB
	Tokens *auth.Tokens
	Log    *zap.Logger

	Limiter        verification.Limiter
	Publisher      events.Publisher
	ProfileCache   cache.Cache[string, models.Profile]
	ProfileTTL     time.Duration
	Codes          lifecycle.CodeGenerator
	MaxActiveTasks int
}

// App is a wired marketplace application.
type App struct {
	Store     *store.Store
	Feed      *realtime.Feed
	Hub       *realtime.Hub
	Lifecycle *lifecycle.Service
	Chat      *chat.Service
	Auth      *auth.Service
	Router    *gin.Engine
}

// New wires the services over deps. Background forwarding stops when ctx is done.
func New(ctx context.Context, deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	profileCache := deps.ProfileCache
	if profileCache == nil {
		profileCache = cache.NewTTLCache[string, models.Profile]()
	}

	feed := realtime.NewFeed(256)
	hub := realtime.NewHub()
	st := store.New(deps.DB, feed)
	profiles := store.NewProfileCache(st, profileCache, deps.ProfileTTL)
	profiles.Watch(ctx, feed)
	realtime.Forward(ctx, feed, hub)

	opts := []lifecycle.Option{
		lifecycle.WithLogger(log.Named("lifecycle")),
		lifecycle.WithNotifier(hub),
		lifecycle.WithMaxActiveTasks(deps.MaxActiveTasks),
	}
	if deps.Limiter != nil {
		opts = append(opts, lifecycle.WithLimiter(deps.Limiter))
	}
	if deps.Publisher != nil {
		opts = append(opts, lifecycle.WithPublisher(deps.Publisher))
	}
	if deps.Codes != nil {
		opts = append(opts, lifecycle.WithCodeGenerator(deps.Codes))
	}

	a := &App{
		Store:     st,
		Feed:      feed,
		Hub:       hub,
		Lifecycle: lifecycle.NewService(st, profiles, opts...),
		Chat:      chat.NewService(st, profiles, log.Named("chat")),
		Auth:      auth.NewService(st, deps.Tokens),
	}
	a.Router = routes.SetupRoutes(&handlers.Handler{
		Auth:      a.Auth,
		Lifecycle: a.Lifecycle,
		Chat:      a.Chat,
		Profiles:  profiles,
		Hub:       hub,
		Log:       log.Named("http"),
	}, log.Named("http"))
	return a
}
