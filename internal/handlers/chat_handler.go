package handlers

import (
	"net/http"

	"task-marketplace-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// OpenChatRequest names the other participant.
type OpenChatRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// SendMessageRequest is the payload of a chat message.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListChats handles GET /api/chats
func (h *Handler) ListChats(c *gin.Context) {
	chats, err := h.Chat.ListChats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats, "count": len(chats)})
}

// OpenChat handles POST /api/chats
func (h *Handler) OpenChat(c *gin.Context) {
	var req OpenChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "userId is required")
		return
	}
	chat, err := h.Chat.OpenChat(c.Request.Context(), middleware.UserID(c), req.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// ListMessages handles GET /api/chats/:id/messages
func (h *Handler) ListMessages(c *gin.Context) {
	msgs, err := h.Chat.ListMessages(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}

// SendMessage handles POST /api/chats/:id/messages
func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Message content is required")
		return
	}
	msg, err := h.Chat.SendMessage(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
