// Package handlers exposes the marketplace services over HTTP.
package handlers

import (
	"task-marketplace-api/internal/auth"
	"task-marketplace-api/internal/chat"
	"task-marketplace-api/internal/lifecycle"
	"task-marketplace-api/internal/realtime"
	"task-marketplace-api/internal/store"

	"go.uber.org/zap"
)

// Handler holds the services the HTTP endpoints delegate to.
type Handler struct {
	Auth      *auth.Service
	Lifecycle *lifecycle.Service
	Chat      *chat.Service
	Profiles  *store.ProfileCache
	Hub       *realtime.Hub
	Log       *zap.Logger
}

func (h *Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
