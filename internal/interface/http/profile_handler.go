package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nivkeren/wellness-coach/internal/domain/profile"
	apperrors "github.com/nivkeren/wellness-coach/pkg/errors"
)

// ProfileHandler serves the wellness profile endpoints.
type ProfileHandler struct {
	svc    profile.Service
	logger *slog.Logger
}

// NewProfileHandler constructs the profile handler.
func NewProfileHandler(svc profile.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		svc:    svc,
		logger: logger.With("component", "http.profile"),
	}
}

// Get returns the stored profile, including the derived BMI.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "profile_failed"
		if apperrors.IsCode(err, "profile_not_found") {
			status = http.StatusNotFound
			code = "profile_not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, p)
}

// Update validates and replaces the profile document.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req profile.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "profile_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, p)
}
