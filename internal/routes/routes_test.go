package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task-marketplace-api/internal/auth"
	"task-marketplace-api/internal/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &handlers.Handler{Auth: auth.NewService(nil, auth.NewTokens("secret", "iss", "aud", time.Hour))}
	return SetupRoutes(h, zap.NewNop())
}

func TestHealth(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newRouter()
	for _, path := range []string{"/api/tasks", "/api/applications", "/api/chats", "/api/ratings/pending", "/api/ws"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/tasks", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
