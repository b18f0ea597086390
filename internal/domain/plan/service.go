package plan

import (
	"context"
	"log/slog"

	"github.com/nivkeren/wellness-coach/internal/domain/profile"
	apperrors "github.com/nivkeren/wellness-coach/pkg/errors"
)

// Service exposes plan workflows to the transport layer.
type Service interface {
	// Regenerate builds a fresh plan for the user and replaces the current one.
	Regenerate(ctx context.Context, userID int64) (Plan, error)
	Current(ctx context.Context, userID int64) (Plan, error)
}

type service struct {
	generator Generator
	profiles  profile.Repository
	plans     Repository
	logger    *slog.Logger
}

// NewService constructs a Service instance.
func NewService(generator Generator, profiles profile.Repository, plans Repository, logger *slog.Logger) Service {
	return &service{
		generator: generator,
		profiles:  profiles,
		plans:     plans,
		logger:    logger.With("component", "plan.service"),
	}
}

func (s *service) Regenerate(ctx context.Context, userID int64) (Plan, error) {
	prof, found, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return Plan{}, apperrors.Wrap("storage_error", "failed to load profile", err)
	}
	if !found {
		return Plan{}, apperrors.Wrap("not_onboarded", "please complete onboarding first", nil)
	}

	var current *Plan
	if existing, ok, err := s.plans.GetPlan(ctx, userID); err != nil {
		return Plan{}, apperrors.Wrap("storage_error", "failed to load current plan", err)
	} else if ok {
		current = &existing
	}

	p := s.generator.Generate(ctx, prof, current)
	if err := s.plans.SavePlan(ctx, userID, p); err != nil {
		return Plan{}, apperrors.Wrap("storage_error", "failed to save plan", err)
	}
	s.logger.Info("plan regenerated", "userId", userID, "events", len(p.Events))
	return p, nil
}

func (s *service) Current(ctx context.Context, userID int64) (Plan, error) {
	p, found, err := s.plans.GetPlan(ctx, userID)
	if err != nil {
		return Plan{}, apperrors.Wrap("storage_error", "failed to load plan", err)
	}
	if !found {
		return Plan{}, apperrors.Wrap("plan_not_found", "no plan generated yet", nil)
	}
	return p, nil
}
