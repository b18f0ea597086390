package profile

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func validRequest() UpdateRequest {
	return UpdateRequest{
		Age:           30,
		HeightCM:      170,
		WeightKG:      70,
		ActivityLevel: ActivityModerate,
		WorkSchedule:  WorkSchedule{StartTime: "09:00", EndTime: "17:00"},
		SleepSchedule: SleepSchedule{Bedtime: "23:00", WakeTime: "07:00"},
		Goals:         []Goal{GoalEnergy, GoalBalance},
		Preferences:   Preferences{Nutrition: true, Hydration: true},
	}
}

func TestService_UpdateComputesBMI(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newTestLogger())

	p, err := svc.Update(context.Background(), 1, validRequest())
	require.NoError(t, err)
	require.InDelta(t, 24.2, p.BMI, 0.001)

	stored, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, p, stored)
}

func TestService_GetMissingProfile(t *testing.T) {
	svc := NewService(newMemoryRepo(), newTestLogger())

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	require.Contains(t, err.Error(), "profile not found")
}

func TestService_UpdateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), newTestLogger())

	cases := []struct {
		name    string
		mutate  func(*UpdateRequest)
		wantErr string
	}{
		{"age too low", func(r *UpdateRequest) { r.Age = 12 }, "age must be between"},
		{"age too high", func(r *UpdateRequest) { r.Age = 121 }, "age must be between"},
		{"height out of range", func(r *UpdateRequest) { r.HeightCM = 90 }, "height must be between"},
		{"weight out of range", func(r *UpdateRequest) { r.WeightKG = 320 }, "weight must be between"},
		{"bad activity level", func(r *UpdateRequest) { r.ActivityLevel = "extreme" }, "activity level must be"},
		{"bad work time", func(r *UpdateRequest) { r.WorkSchedule.StartTime = "25:00" }, "24-hour HH:MM"},
		{"bad bedtime", func(r *UpdateRequest) { r.SleepSchedule.Bedtime = "11:5" }, "24-hour HH:MM"},
		{"unknown goal", func(r *UpdateRequest) { r.Goals = []Goal{"world domination"} }, "unknown goal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Update(context.Background(), 1, req)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestComputeBMI(t *testing.T) {
	require.InDelta(t, 24.2, ComputeBMI(170, 70), 0.001)
	require.InDelta(t, 22.9, ComputeBMI(185, 78.5), 0.001)
	require.Zero(t, ComputeBMI(0, 70))
	require.Zero(t, ComputeBMI(170, 0))
}

func TestValidClock(t *testing.T) {
	for _, value := range []string{"00:00", "7:30", "09:00", "23:59"} {
		require.True(t, ValidClock(value), value)
	}
	for _, value := range []string{"24:00", "12:60", "12", "12:5", "noon", ""} {
		require.False(t, ValidClock(value), value)
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memoryRepo struct {
	profiles map[int64]Profile
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{profiles: make(map[int64]Profile)}
}

func (m *memoryRepo) GetProfile(_ context.Context, userID int64) (Profile, bool, error) {
	p, ok := m.profiles[userID]
	return p, ok, nil
}

func (m *memoryRepo) SaveProfile(_ context.Context, userID int64, p Profile) error {
	m.profiles[userID] = p
	return nil
}
