package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wiritpol/Line-Bot-CP/internal/domain"
)

// ChatService is the single entry point the delivery layer needs.
type ChatService interface {
	Handle(ctx context.Context, message string) (*domain.Reply, error)
}

// ChatRequest is the inbound message body.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	chat ChatService
}

// NewHandler creates a new HTTP handler
func NewHandler(chat ChatService) *Handler {
	return &Handler{chat: chat}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cp-chatbot",
		"version": "1.0.0",
	})
}

// Chat handles one user message and returns the reply payload.
func (h *Handler) Chat(c *gin.Context) {
	if h.chat == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Chat service not configured",
		})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.chat.Handle(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, reply)
}
