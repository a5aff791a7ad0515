package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/chat"
)

const (
	serviceTitle   = "Ryoku - The Universal Language Tutor API"
	serviceVersion = "5.0.0"

	modelFailureDetail = "An error occurred with the AI model."
)

// Chatter answers a single chat turn.
type Chatter interface {
	Handle(ctx context.Context, req chat.Request) (*chat.Response, error)
}

type Handler struct {
	chat   Chatter
	logger *zap.Logger
}

func NewHandler(chatter Chatter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chat: chatter, logger: logger.Named("api")}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.handleRoot)
	router.GET("/health", h.handleHealth)
	router.POST("/chat", h.handleChat)
}

type chatRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	NewMessage string `json:"new_message" binding:"required"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func (h *Handler) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceTitle + " is running.",
		"version": serviceVersion,
	})
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.NewMessage) == "" {
		writeError(c, http.StatusBadRequest, "invalid payload", chat.ErrValidation)
		return
	}

	resp, err := h.chat.Handle(c.Request.Context(), chat.Request{
		UserID:  req.UserID,
		Message: req.NewMessage,
	})
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrValidation):
			writeError(c, http.StatusBadRequest, "invalid payload", err)
		default:
			// the cause stays in the logs
			h.logger.Error("chat request failed",
				zap.String("user_id", req.UserID),
				zap.String("request_id", requestIDFrom(c)),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": modelFailureDetail})
		}
		return
	}

	c.JSON(http.StatusOK, chatResponse{Answer: resp.Answer})
}

func writeError(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
