package handlers

import (
	"errors"
	"net/http"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(reason domain.Reason) int {
	switch reason {
	case domain.ReasonNotCreator, domain.ReasonNotParty:
		return http.StatusForbidden
	case domain.ReasonDuplicateApplication, domain.ReasonInvalidState,
		domain.ReasonTaskClosed, domain.ReasonAlreadyRated, domain.ReasonUsernameTaken:
		return http.StatusConflict
	case domain.ReasonTooManyAttempts:
		return http.StatusTooManyRequests
	case domain.ReasonInvalidCredentials:
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

// respondError writes err as {"error", "code"}. Backend failures are logged and
// answered with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(statusFor(ve.Reason), gin.H{"error": ve.Message, "code": string(ve.Reason)})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found", "code": "not_found"})
	default:
		h.logger().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("user_id", middleware.UserID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again", "code": "internal"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": string(domain.ReasonInvalidInput)})
}
