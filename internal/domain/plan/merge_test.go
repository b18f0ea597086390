package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleEvents() []Event {
	return []Event{
		{Time: "07:00", Title: "Morning Hydration", Category: CategoryHydration, DurationMinutes: 5},
		{Time: "08:30", Title: "Energizing Breakfast", Category: CategoryNutrition, DurationMinutes: 20},
		{Time: "13:00", Title: "Lunch Break", Category: CategoryNutrition, DurationMinutes: 30},
		{Time: "17:00", Title: "Daily Exercise", Category: CategoryMovement, DurationMinutes: 30},
		{Time: "23:00", Title: "Sleep Time", Category: CategorySleep},
	}
}

func TestApplyUpdate_RetimesMeals(t *testing.T) {
	p := &Plan{Events: sampleEvents()}

	changed := ApplyUpdate(p, Update{Type: UpdateMealTimeChange, NewTime: "12:30"})
	require.True(t, changed)

	var meals []Event
	for _, event := range p.Events {
		if event.Category == CategoryNutrition {
			meals = append(meals, event)
		}
	}
	require.Len(t, meals, 2)
	for _, meal := range meals {
		require.Equal(t, "12:30", meal.Time)
		require.Equal(t, "Mindful Lunch", meal.Title)
	}

	// Untouched events keep their slots.
	require.Equal(t, "07:00", p.Events[0].Time)
	require.Equal(t, "Morning Hydration", p.Events[0].Title)
}

func TestApplyUpdate_IsIdempotent(t *testing.T) {
	p := &Plan{Events: sampleEvents()}
	upd := Update{Type: UpdateMealTimeChange, NewTime: "12:30"}

	require.True(t, ApplyUpdate(p, upd))
	first := make([]Event, len(p.Events))
	copy(first, p.Events)

	ApplyUpdate(p, upd)
	require.Equal(t, first, p.Events)
}

func TestApplyUpdate_SortsAfterEdit(t *testing.T) {
	p := &Plan{Events: sampleEvents()}

	require.True(t, ApplyUpdate(p, Update{Type: UpdateMealTimeChange, NewTime: "06:00"}))
	for i := 1; i < len(p.Events); i++ {
		require.LessOrEqual(t, p.Events[i-1].Time, p.Events[i].Time)
	}
	require.Equal(t, "06:00", p.Events[0].Time)
}

func TestApplyUpdate_MatchesMealTitles(t *testing.T) {
	// A mis-categorized event still counts as a meal when the title says so.
	p := &Plan{Events: []Event{
		{Time: "10:00", Title: "Protein Snack", Category: CategoryMovement},
		{Time: "15:00", Title: "Stretch", Category: CategoryRelaxation},
	}}

	require.True(t, ApplyUpdate(p, Update{Type: UpdateMealTimeChange, NewTime: "11:00"}))
	require.Equal(t, "Mindful Lunch", p.Events[0].Title)
	require.Equal(t, "Stretch", p.Events[1].Title)
}

func TestApplyUpdate_Rejections(t *testing.T) {
	p := &Plan{Events: sampleEvents()}

	require.False(t, ApplyUpdate(nil, Update{Type: UpdateMealTimeChange, NewTime: "12:00"}))
	require.False(t, ApplyUpdate(p, Update{Type: "unknown", NewTime: "12:00"}))
	require.False(t, ApplyUpdate(p, Update{Type: UpdateMealTimeChange, NewTime: "25:00"}))
	require.False(t, ApplyUpdate(&Plan{}, Update{Type: UpdateMealTimeChange, NewTime: "12:00"}))
}

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"7:05", "07:05", true},
		{"07:05", "07:05", true},
		{"23:59", "23:59", true},
		{"0:00", "00:00", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"12:5", "", false},
		{"12", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeClock(tc.in)
		require.Equal(t, tc.ok, ok, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestShiftClock(t *testing.T) {
	require.Equal(t, "21:30", shiftClock("23:00", -90))
	require.Equal(t, "22:30", shiftClock("23:00", -30))
	require.Equal(t, "00:30", shiftClock("23:30", 60))
	require.Equal(t, "23:00", shiftClock("00:30", -90))
}
