package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nivkeren/wellness-coach/internal/domain/coach"
	apperrors "github.com/nivkeren/wellness-coach/pkg/errors"
)

// ChatHandler serves the coaching conversation endpoints.
type ChatHandler struct {
	svc    coach.Service
	logger *slog.Logger
}

// NewChatHandler constructs the chat handler.
func NewChatHandler(svc coach.Service, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		svc:    svc,
		logger: logger.With("component", "http.chat"),
	}
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

// Message routes one user message through the coach.
func (h *ChatHandler) Message(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.svc.SendMessage(c.Request.Context(), userID, req.Message)
	if err != nil {
		status := http.StatusInternalServerError
		code := "chat_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "not_onboarded"):
			status = http.StatusBadRequest
			code = "not_onboarded"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, result)
}

// History returns the bounded transcript of recent exchanges.
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entries, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "chat_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
