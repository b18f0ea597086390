package coach

import (
	"time"

	"github.com/google/uuid"

	"github.com/nivkeren/wellness-coach/internal/domain/plan"
)

// ContextMealTimeChange tags the follow-up flow that asks the user for a
// preferred meal time.
const ContextMealTimeChange = "meal_time_change"

// MealTimeChangeData carries the events under discussion while the meal-time
// follow-up is pending.
type MealTimeChangeData struct {
	OriginalEvents []plan.Event `json:"originalEvents"`
}

// State is the short-lived conversational context between messages. Each
// follow-up flow gets its own typed payload field instead of an untyped bag.
type State struct {
	Waiting        bool                `json:"waiting"`
	Context        string              `json:"context,omitempty"`
	MealTimeChange *MealTimeChangeData `json:"mealTimeChange,omitempty"`
}

// HistoryEntry is one exchange of the chat transcript.
type HistoryEntry struct {
	ID              uuid.UUID `json:"id"`
	UserMessage     string    `json:"userMessage"`
	AIResponse      string    `json:"aiResponse"`
	Timestamp       time.Time `json:"timestamp"`
	NeedsPlanUpdate bool      `json:"needsPlanUpdate"`
}

// Reply is the handler's verdict for a single message. Exactly one of
// NextState / ClearState may be set; PlanUpdate carries a structured edit for
// the merge step while Instruction carries free text for a regeneration.
type Reply struct {
	Message         string
	Timestamp       time.Time
	NeedsPlanUpdate bool
	NextState       *State
	ClearState      bool
	PlanUpdate      *plan.Update
	Instruction     string
}

// MessageResult is returned to API consumers.
type MessageResult struct {
	Response        string    `json:"response"`
	Timestamp       time.Time `json:"timestamp"`
	NeedsPlanUpdate bool      `json:"needsPlanUpdate"`
}

// Config drives the conversational coach.
type Config struct {
	Model        string
	Temperature  float32
	Prompt       string
	HistoryLimit int
}
