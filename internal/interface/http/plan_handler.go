package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nivkeren/wellness-coach/internal/domain/plan"
	apperrors "github.com/nivkeren/wellness-coach/pkg/errors"
)

// PlanHandler serves the daily plan endpoints.
type PlanHandler struct {
	svc    plan.Service
	logger *slog.Logger
}

// NewPlanHandler constructs the plan handler.
func NewPlanHandler(svc plan.Service, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		svc:    svc,
		logger: logger.With("component", "http.plan"),
	}
}

// Generate builds a fresh plan and replaces the current one. Generation never
// fails outright: when the model is unreachable the rule-based schedule is
// returned instead.
func (h *PlanHandler) Generate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.Regenerate(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "plan_failed"
		if apperrors.IsCode(err, "not_onboarded") {
			status = http.StatusBadRequest
			code = "not_onboarded"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, p)
}

// Current returns the stored plan.
func (h *PlanHandler) Current(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.Current(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "plan_failed"
		if apperrors.IsCode(err, "plan_not_found") {
			status = http.StatusNotFound
			code = "plan_not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, p)
}
