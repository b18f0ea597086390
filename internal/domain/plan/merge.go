package plan

import "strings"

// canonicalMealTitle is applied to every retimed meal event so repeated edits
// keep matching the same events.
const canonicalMealTitle = "Mindful Lunch"

var mealTitleKeywords = []string{"lunch", "breakfast", "dinner", "meal", "snack"}

// ApplyUpdate splices a structured edit into the plan in place and re-sorts
// the event list. The operation mutates existing events rather than inserting
// new ones, so applying the same update twice is idempotent. It reports
// whether any event changed.
func ApplyUpdate(p *Plan, upd Update) bool {
	if p == nil || upd.Type != UpdateMealTimeChange {
		return false
	}
	newTime, ok := NormalizeClock(upd.NewTime)
	if !ok {
		return false
	}

	changed := false
	for i := range p.Events {
		event := &p.Events[i]
		if event.Category != CategoryNutrition && !hasMealTitle(event.Title) {
			continue
		}
		event.Time = newTime
		event.Title = canonicalMealTitle
		changed = true
	}
	if changed {
		SortEvents(p.Events)
	}
	return changed
}

func hasMealTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range mealTitleKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
