package coach

import (
	"fmt"
	"math"
	"strings"

	"github.com/nivkeren/wellness-coach/internal/domain/plan"
	"github.com/nivkeren/wellness-coach/internal/domain/profile"
)

// intentInput is everything a local matcher may consult.
type intentInput struct {
	message string // lowercased
	profile profile.Profile
	plan    *plan.Plan
}

// intentRule pairs a predicate with its responder. Rules are evaluated in
// declaration order and the first match wins; a responder may decline (ok
// false) to let evaluation continue.
type intentRule struct {
	name    string
	match   func(msg string) bool
	respond func(in intentInput) (Reply, bool)
}

// intentRules is the ordered matcher table. The meal-time trigger sits first
// because it opens a follow-up flow the later matchers must not shadow.
var intentRules = []intentRule{
	{
		name: "meal_time_change",
		match: func(msg string) bool {
			return containsAny(msg, "meal", "lunch", "eat", "food") &&
				containsAny(msg, "change", "move", "prefer", "different", "earlier", "later", "time")
		},
		respond: respondMealTimeChange,
	},
	{
		name: "show_plan",
		match: func(msg string) bool {
			return containsAny(msg, "my plan", "my schedule", "show me the plan", "today's plan")
		},
		respond: respondShowPlan,
	},
	{
		name: "hydration",
		match: func(msg string) bool {
			return containsAny(msg, "water", "hydrat", "drink")
		},
		respond: respondHydration,
	},
	{
		name: "sleep",
		match: func(msg string) bool {
			return containsAny(msg, "sleep", "bedtime", "tired")
		},
		respond: respondSleep,
	},
	{
		name: "exercise",
		match: func(msg string) bool {
			return containsAny(msg, "exercise", "workout", "sport", "training")
		},
		respond: respondExercise,
	},
	{
		name: "gratitude",
		match: func(msg string) bool {
			return containsAny(msg, "thank")
		},
		respond: func(intentInput) (Reply, bool) {
			return Reply{Message: "You're welcome! I'm here to help you reach your goals. 😊"}, true
		},
	},
	{
		name: "help",
		match: func(msg string) bool {
			return containsAny(msg, "help") || strings.TrimSpace(msg) == "?"
		},
		respond: func(intentInput) (Reply, bool) {
			return Reply{Message: helpMessage}, true
		},
	},
}

const helpMessage = "I'm here to help! You can ask me about:\n• recommended water intake\n• sleep hours\n• physical activity\n• BMI and health\n• your daily plan 💪"

// matchIntent runs the ordered table and returns the first firing rule's
// reply.
func matchIntent(in intentInput) (Reply, bool) {
	for _, rule := range intentRules {
		if !rule.match(in.message) {
			continue
		}
		if reply, ok := rule.respond(in); ok {
			return reply, true
		}
	}
	return Reply{}, false
}

func respondMealTimeChange(in intentInput) (Reply, bool) {
	if in.plan == nil {
		return Reply{}, false
	}
	meals := nutritionEvents(in.plan.Events)
	if len(meals) == 0 {
		return Reply{}, false
	}

	var b strings.Builder
	b.WriteString("I understand you'd like to change your meal times. Right now you have:\n")
	for _, event := range meals {
		fmt.Fprintf(&b, "• %s - %s\n", event.Time, event.Title)
	}
	b.WriteString("\nWhat time would you prefer to eat? (for example \"12:30\" or \"13:00\")")

	return Reply{
		Message: b.String(),
		NextState: &State{
			Waiting:        true,
			Context:        ContextMealTimeChange,
			MealTimeChange: &MealTimeChangeData{OriginalEvents: meals},
		},
	}, true
}

func respondShowPlan(in intentInput) (Reply, bool) {
	if in.plan == nil || len(in.plan.Events) == 0 {
		return Reply{Message: "You don't have a plan yet. Generate one from your dashboard and I'll walk you through it! 📋"}, true
	}
	var b strings.Builder
	b.WriteString("Your current plan includes:\n")
	for _, event := range in.plan.Events {
		fmt.Fprintf(&b, "• %s - %s (%d min)\n", event.Time, event.Title, event.DurationMinutes)
	}
	b.WriteString("\nIf you'd like to change anything, tell me what and I'll help! 📋")
	return Reply{Message: b.String()}, true
}

func respondHydration(in intentInput) (Reply, bool) {
	weight := in.profile.WeightKG
	if weight <= 0 {
		weight = 70
	}
	liters := weight * 0.035
	glasses := int(math.Round(liters / 0.25))
	return Reply{
		Message: fmt.Sprintf("Based on your weight (%.0f kg), aim for about %.1f liters of water a day, roughly %d glasses. Spread them out across the day! 💧", weight, liters, glasses),
	}, true
}

func respondSleep(in intentInput) (Reply, bool) {
	bedtime := in.profile.SleepSchedule.Bedtime
	if bedtime == "" {
		bedtime = "23:00"
	}
	wake := in.profile.SleepSchedule.WakeTime
	if wake == "" {
		wake = "07:00"
	}
	return Reply{
		Message: fmt.Sprintf("Aim for 7-8 hours of sleep a night. Based on your profile, try to be in bed by %s and wake up at %s. 😴", bedtime, wake),
	}, true
}

func respondExercise(in intentInput) (Reply, bool) {
	level := in.profile.ActivityLevel
	if level == "" {
		level = profile.ActivityModerate
	}
	return Reply{
		Message: fmt.Sprintf("Given your %s activity level, aim for 150 minutes of moderate activity a week, about 30 minutes on 5 days. 🏃", level),
	}, true
}

func nutritionEvents(events []plan.Event) []plan.Event {
	var meals []plan.Event
	for _, event := range events {
		if event.Category == plan.CategoryNutrition {
			meals = append(meals, event)
		}
	}
	return meals
}

func containsAny(msg string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
