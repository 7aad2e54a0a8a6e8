package handlers

import (
	"net/http"

	"task-marketplace-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ApplyRequest is the payload of an application.
type ApplyRequest struct {
	Message string `json:"message"`
}

// ApplyForTask handles POST /api/tasks/:id/applications
func (h *Handler) ApplyForTask(c *gin.Context) {
	var req ApplyRequest
	// the message is optional, so an empty body is accepted
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	app, err := h.Lifecycle.ApplyForTask(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListApplications handles GET /api/applications
// Returns the applications received on the authenticated user's tasks.
func (h *Handler) ListApplications(c *gin.Context) {
	apps, err := h.Lifecycle.ListApplications(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "count": len(apps)})
}

// ApproveApplication handles POST /api/applications/:id/approve
func (h *Handler) ApproveApplication(c *gin.Context) {
	task, err := h.Lifecycle.ApproveApplication(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// RejectApplication handles POST /api/applications/:id/reject
func (h *Handler) RejectApplication(c *gin.Context) {
	app, err := h.Lifecycle.RejectApplication(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
