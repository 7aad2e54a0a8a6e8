package handlers

import (
	"net/http"

	"task-marketplace-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// VerifyRequest carries the code read out by the counterpart.
type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// RatingRequest carries a 1-5 rating of the counterpart.
type RatingRequest struct {
	Rating int `json:"rating"`
}

// VerifyTask handles POST /api/tasks/:id/verify
// A wrong code answers 200 with verified=false.
func (h *Handler) VerifyTask(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Verification code is required")
		return
	}
	res, err := h.Lifecycle.VerifyCode(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SubmitRating handles POST /api/tasks/:id/rating
func (h *Handler) SubmitRating(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid rating")
		return
	}
	if err := h.Lifecycle.SubmitRating(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Rating); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating submitted"})
}

// PendingRatings handles GET /api/ratings/pending
func (h *Handler) PendingRatings(c *gin.Context) {
	tasks, err := h.Lifecycle.PendingRatings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}
