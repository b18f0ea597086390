package profile

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"

	apperrors "github.com/nivkeren/wellness-coach/pkg/errors"
)

// Service exposes profile read/update workflows.
type Service interface {
	Get(ctx context.Context, userID int64) (Profile, error)
	Update(ctx context.Context, userID int64, req UpdateRequest) (Profile, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "profile.service"),
	}
}

func (s *service) Get(ctx context.Context, userID int64) (Profile, error) {
	p, found, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return Profile{}, apperrors.Wrap("storage_error", "failed to load profile", err)
	}
	if !found {
		return Profile{}, apperrors.Wrap("profile_not_found", "profile not found", nil)
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, userID int64, req UpdateRequest) (Profile, error) {
	if err := validate(req); err != nil {
		return Profile{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}

	p := Profile{
		Age:           req.Age,
		HeightCM:      req.HeightCM,
		WeightKG:      req.WeightKG,
		BMI:           ComputeBMI(req.HeightCM, req.WeightKG),
		ActivityLevel: req.ActivityLevel,
		WorkSchedule:  req.WorkSchedule,
		SleepSchedule: req.SleepSchedule,
		Goals:         req.Goals,
		Preferences:   req.Preferences,
	}
	if err := s.repo.SaveProfile(ctx, userID, p); err != nil {
		return Profile{}, apperrors.Wrap("storage_error", "failed to save profile", err)
	}
	s.logger.Info("profile updated", "userId", userID, "bmi", p.BMI)
	return p, nil
}

// ComputeBMI derives weight_kg / height_m^2 rounded to one decimal place.
func ComputeBMI(heightCM, weightKG float64) float64 {
	if heightCM <= 0 || weightKG <= 0 {
		return 0
	}
	heightM := heightCM / 100
	return math.Round(weightKG/(heightM*heightM)*10) / 10
}

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether value is a 24-hour HH:MM string.
func ValidClock(value string) bool {
	return clockPattern.MatchString(value)
}

func validate(req UpdateRequest) error {
	if req.Age < 13 || req.Age > 120 {
		return fmt.Errorf("age must be between 13 and 120")
	}
	if req.HeightCM < 100 || req.HeightCM > 250 {
		return fmt.Errorf("height must be between 100 and 250 cm")
	}
	if req.WeightKG < 30 || req.WeightKG > 300 {
		return fmt.Errorf("weight must be between 30 and 300 kg")
	}
	switch req.ActivityLevel {
	case ActivityLow, ActivityModerate, ActivityHigh:
	default:
		return fmt.Errorf("activity level must be low, moderate, or high")
	}
	for _, pair := range []struct {
		name  string
		value string
	}{
		{"workSchedule.startTime", req.WorkSchedule.StartTime},
		{"workSchedule.endTime", req.WorkSchedule.EndTime},
		{"sleepSchedule.bedtime", req.SleepSchedule.Bedtime},
		{"sleepSchedule.wakeTime", req.SleepSchedule.WakeTime},
	} {
		if !ValidClock(pair.value) {
			return fmt.Errorf("%s must be a 24-hour HH:MM time", pair.name)
		}
	}
	for _, goal := range req.Goals {
		switch goal {
		case GoalEnergy, GoalRoutine, GoalConsistency, GoalBalance:
		default:
			return fmt.Errorf("unknown goal %q", goal)
		}
	}
	return nil
}
