package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProfileResponse is the public part of a profile.
type ProfileResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	RequestorRating int    `json:"requestorRating"`
	DoerRating      int    `json:"doerRating"`
}

// GetProfile handles GET /api/profiles/:id
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.Profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{
		ID:              p.ID,
		Username:        p.Username,
		RequestorRating: p.RequestorRating,
		DoerRating:      p.DoerRating,
	})
}
