package routes

import (
	"net/http"

	"task-marketplace-api/internal/handlers"
	"task-marketplace-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(h *handlers.Handler, log *zap.Logger) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.New()
	ginRouter.Use(middleware.RequestLogger(log), middleware.Recovery(log))

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Marketplace API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(h.Auth.Tokens()))
	{
		// Task endpoints
		protectedRoutes.GET("/tasks", h.ListTasks)
		protectedRoutes.GET("/tasks/applied", h.ListAppliedTasks)
		protectedRoutes.GET("/tasks/:id", h.GetTask)
		protectedRoutes.POST("/tasks", h.CreateTask)
		protectedRoutes.PUT("/tasks/:id", h.UpdateTask)
		protectedRoutes.POST("/tasks/:id/cancel", h.CancelTask)
		protectedRoutes.POST("/tasks/:id/applications", h.ApplyForTask)
		protectedRoutes.POST("/tasks/:id/verify", h.VerifyTask)
		protectedRoutes.POST("/tasks/:id/rating", h.SubmitRating)

		// Applications received on the user's tasks
		protectedRoutes.GET("/applications", h.ListApplications)
		protectedRoutes.POST("/applications/:id/approve", h.ApproveApplication)
		protectedRoutes.POST("/applications/:id/reject", h.RejectApplication)

		protectedRoutes.GET("/ratings/pending", h.PendingRatings)

		// Chat endpoints
		protectedRoutes.GET("/chats", h.ListChats)
		protectedRoutes.POST("/chats", h.OpenChat)
		protectedRoutes.GET("/chats/:id/messages", h.ListMessages)
		protectedRoutes.POST("/chats/:id/messages", h.SendMessage)

		protectedRoutes.GET("/profiles/:id", h.GetProfile)
		protectedRoutes.GET("/ws", h.WebSocket)
	}

	return ginRouter
}
