package plan

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nivkeren/wellness-coach/internal/domain/profile"
)

const (
	defaultWakeTime = "07:00"
	defaultBedtime  = "23:00"
	defaultWorkEnd  = "17:00"
)

// fallbackPlan deterministically synthesizes a schedule from the enabled
// preference categories and the profile's schedule anchors. It is the
// last-resort path and always produces a valid plan.
func fallbackPlan(prof profile.Profile, now time.Time, id uuid.UUID) Plan {
	wake := anchorClock(prof.SleepSchedule.WakeTime, defaultWakeTime)
	bedtime := anchorClock(prof.SleepSchedule.Bedtime, defaultBedtime)
	workEnd := anchorClock(prof.WorkSchedule.EndTime, defaultWorkEnd)

	var events []Event
	prefs := prof.Preferences

	if prefs.Hydration {
		events = append(events, Event{
			Time:            wake,
			Title:           "Morning Hydration",
			Description:     "Start your day with a large glass of water",
			Category:        CategoryHydration,
			DurationMinutes: 5,
		})
	}
	if prefs.Nutrition {
		events = append(events,
			Event{
				Time:            "08:30",
				Title:           "Energizing Breakfast",
				Description:     "High protein breakfast to start the day",
				Category:        CategoryNutrition,
				DurationMinutes: 20,
			},
			Event{
				Time:            "13:00",
				Title:           "Lunch Break",
				Description:     "Balanced meal with vegetables and protein",
				Category:        CategoryNutrition,
				DurationMinutes: 30,
			},
			Event{
				Time:            "19:30",
				Title:           "Dinner",
				Description:     "Light dinner, try to avoid heavy carbs",
				Category:        CategoryNutrition,
				DurationMinutes: 30,
			},
		)
	}
	if prefs.Movement {
		description := "Brisk walk or light yoga"
		if prof.ActivityLevel == profile.ActivityHigh {
			description = "HIIT or cardio session"
		}
		events = append(events, Event{
			Time:            workEnd,
			Title:           "Daily Exercise",
			Description:     description,
			Category:        CategoryMovement,
			DurationMinutes: 30,
		})
	}
	if prefs.Relaxation {
		events = append(events, Event{
			Time:            shiftClock(bedtime, -90),
			Title:           "Evening Wind-Down",
			Description:     "Slow breathing or gentle stretching",
			Category:        CategoryRelaxation,
			DurationMinutes: 10,
		})
	}
	if prefs.DigitalWellness {
		events = append(events, Event{
			Time:            shiftClock(bedtime, -30),
			Title:           "Screens Off",
			Description:     "Put the phone away until morning",
			Category:        CategoryDigital,
			DurationMinutes: 5,
		})
	}
	if prefs.Sleep {
		events = append(events, Event{
			Time:            bedtime,
			Title:           "Sleep Time",
			Description:     "Lights out, phone away",
			Category:        CategorySleep,
			DurationMinutes: 0,
		})
	}

	SortEvents(events)

	return Plan{
		ID:     id,
		Events: events,
		Recommendations: Recommendations{
			Nutrition: "Focus on whole foods and stay hydrated throughout the day.",
			Sleep:     fmt.Sprintf("Try to maintain a consistent sleep schedule between %s and %s.", bedtime, wake),
			Movement:  "Aim for at least 30 minutes of moderate activity daily.",
		},
		CreatedAt: now,
	}
}

func anchorClock(value, fallback string) string {
	if normalized, ok := NormalizeClock(value); ok {
		return normalized
	}
	return fallback
}
