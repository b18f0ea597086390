package plan

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Category classifies a daily event.
type Category string

const (
	CategoryHydration  Category = "hydration"
	CategoryMovement   Category = "movement"
	CategoryNutrition  Category = "nutrition"
	CategoryRelaxation Category = "relaxation"
	CategorySleep      Category = "sleep"
	CategoryDigital    Category = "digital"
)

// KnownCategory reports whether c belongs to the category enum.
func KnownCategory(c Category) bool {
	switch c {
	case CategoryHydration, CategoryMovement, CategoryNutrition,
		CategoryRelaxation, CategorySleep, CategoryDigital:
		return true
	}
	return false
}

// Event is a single timed entry of the daily schedule.
type Event struct {
	Time            string   `json:"time"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        Category `json:"category"`
	DurationMinutes int      `json:"duration"`
}

// Recommendations are the free-text advice strings attached to a plan.
type Recommendations struct {
	Nutrition string `json:"nutrition"`
	Sleep     string `json:"sleep"`
	Movement  string `json:"movement"`
}

// Plan is the current day's schedule. It is replaced wholesale on
// regeneration; no plan history is kept.
type Plan struct {
	ID              uuid.UUID       `json:"id"`
	Events          []Event         `json:"dailyEvents"`
	Recommendations Recommendations `json:"recommendations"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// SortEvents orders events ascending by time-of-day. Lexicographic comparison
// is correct because times are zero-padded HH:MM.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
}

// UpdateMealTimeChange is the only structured plan edit currently supported.
const UpdateMealTimeChange = "meal_time_change"

// Update describes a structured edit the merge step can apply directly.
type Update struct {
	Type           string  `json:"type"`
	NewTime        string  `json:"newTime"`
	OriginalEvents []Event `json:"originalEvents,omitempty"`
}
