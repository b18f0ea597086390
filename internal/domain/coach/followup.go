package coach

import (
	"fmt"

	"github.com/nivkeren/wellness-coach/internal/domain/plan"
)

// resolveFollowUp handles a message arriving while a follow-up context is
// pending. The meal-time flow retries indefinitely on unparseable input;
// any context without a resolver abandons the flow.
func resolveFollowUp(message string, st State) Reply {
	switch st.Context {
	case ContextMealTimeChange:
		newTime, ok := ExtractClock(message)
		if !ok {
			// State stays pending so the user can try again.
			return Reply{
				Message: "I couldn't understand the time. Please write it like \"12:30\" or \"13:00\". What time would you prefer to eat?",
			}
		}
		var original []plan.Event
		if st.MealTimeChange != nil {
			original = st.MealTimeChange.OriginalEvents
		}
		return Reply{
			Message:         fmt.Sprintf("Great! I'll move your lunch to %s and refresh the plan now. 🍽️", newTime),
			NeedsPlanUpdate: true,
			PlanUpdate: &plan.Update{
				Type:           plan.UpdateMealTimeChange,
				NewTime:        newTime,
				OriginalEvents: original,
			},
			ClearState: true,
		}
	default:
		return Reply{
			Message:    "Sorry, I lost track of that. Let's start over. What would you like to do?",
			ClearState: true,
		}
	}
}
