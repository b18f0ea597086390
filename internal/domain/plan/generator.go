package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nivkeren/wellness-coach/internal/domain/profile"
	"github.com/nivkeren/wellness-coach/internal/infra/llm/openai"
	"github.com/nivkeren/wellness-coach/pkg/util"
)

// ChatClient is the outbound LLM dependency, injected so tests can stub it.
type ChatClient interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (openai.CompletionResponse, error)
}

// TokenCounter estimates prompt sizes for budget trimming.
type TokenCounter interface {
	Count(text string) int
}

// Config drives prompt construction for the generator.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int
	Prompt          string
	MaxPromptTokens int
}

// Generator produces a daily plan from a profile. Remote failures of any kind
// are absorbed by the deterministic fallback, never surfaced to callers.
type Generator interface {
	Generate(ctx context.Context, prof profile.Profile, current *Plan) Plan
}

type generator struct {
	cfg    Config
	client ChatClient
	tokens TokenCounter
	logger *slog.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewGenerator wires up the plan generator.
func NewGenerator(cfg Config, client ChatClient, tokens TokenCounter, logger *slog.Logger) Generator {
	return &generator{
		cfg:    cfg,
		client: client,
		tokens: tokens,
		logger: logger.With("component", "plan.generator"),
		now:    util.NowUTC,
		newID:  uuid.New,
	}
}

func (g *generator) Generate(ctx context.Context, prof profile.Profile, current *Plan) Plan {
	p, err := g.generateRemote(ctx, prof, current)
	if err != nil {
		g.logger.Warn("remote plan generation failed, using fallback", "error", err)
		return fallbackPlan(prof, g.now(), g.newID())
	}
	return p
}

func (g *generator) generateRemote(ctx context.Context, prof profile.Profile, current *Plan) (Plan, error) {
	messages := []openai.Message{
		{Role: "system", Content: g.systemPrompt()},
		{Role: "user", Content: g.userPrompt(prof, current)},
	}

	resp, err := g.client.Complete(ctx, openai.CompletionRequest{
		Model:       g.cfg.Model,
		Messages:    messages,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxOutputTokens,
	})
	if err != nil {
		return Plan{}, err
	}
	if !resp.Usage.IsZero() {
		g.logger.Info("plan generation tokens", "prompt", resp.Usage.PromptTokens, "total", resp.Usage.TotalTokens)
	}
	text, err := resp.Text()
	if err != nil {
		return Plan{}, err
	}

	parsed, err := parsePlanResponse(text)
	if err != nil {
		return Plan{}, err
	}
	return g.normalize(parsed)
}

func (g *generator) systemPrompt() string {
	enforcer := ` Return ONLY valid JSON with this structure: {"dailyEvents":[{"time":"HH:MM","title":"Brief title","description":"Short description","category":"hydration|movement|nutrition|relaxation|sleep|digital","duration":5}],"recommendations":{"nutrition":"Brief general advice","sleep":"Sleep optimization tip","movement":"Activity suggestion"}}. Times are 24-hour, descriptions under 50 characters.`
	return strings.TrimSpace(g.cfg.Prompt) + enforcer
}

func (g *generator) userPrompt(prof profile.Profile, current *Plan) string {
	base := g.profileSummary(prof)

	withPlan := base
	if current != nil {
		if planJSON, err := json.Marshal(current.Events); err == nil {
			withPlan += fmt.Sprintf("\n\nCURRENT PLAN:\n%s", planJSON)
			if prof.PlanModifications != "" {
				withPlan += fmt.Sprintf("\n\nUSER REQUESTED MODIFICATIONS: %q\nUse the current plan as the baseline, apply the requested modifications, keep the rest of the schedule as similar as possible, and return the full updated plan.", prof.PlanModifications)
			}
		}
	} else if prof.PlanModifications != "" {
		withPlan += fmt.Sprintf("\n\nIMPORTANT - USER REQUESTED CHANGES: %s\nIncorporate these changes while keeping the schedule balanced.", prof.PlanModifications)
	}

	// The current-plan context is the first thing dropped when the prompt
	// would blow the token budget.
	if g.tokens != nil && g.cfg.MaxPromptTokens > 0 {
		if g.tokens.Count(g.systemPrompt()+withPlan) > g.cfg.MaxPromptTokens {
			g.logger.Warn("plan prompt over token budget, dropping current-plan context")
			return base
		}
	}
	return withPlan
}

func (g *generator) profileSummary(prof profile.Profile) string {
	var enabled []string
	prefs := prof.Preferences
	for _, entry := range []struct {
		name string
		on   bool
	}{
		{"nutrition", prefs.Nutrition},
		{"hydration", prefs.Hydration},
		{"movement", prefs.Movement},
		{"sleep", prefs.Sleep},
		{"relaxation", prefs.Relaxation},
		{"digitalWellness", prefs.DigitalWellness},
		{"outdoorTime", prefs.OutdoorTime},
	} {
		if entry.on {
			enabled = append(enabled, entry.name)
		}
	}
	goals := make([]string, 0, len(prof.Goals))
	for _, goal := range prof.Goals {
		goals = append(goals, string(goal))
	}

	return fmt.Sprintf(`Create a personalized daily wellness plan for:
- Age: %d, BMI: %.1f, Activity: %s
- Work: %s-%s (avoid scheduling events inside work hours)
- Sleep: %s-%s
- Goals: %s
- Enabled features: %s`,
		prof.Age, prof.BMI, prof.ActivityLevel,
		prof.WorkSchedule.StartTime, prof.WorkSchedule.EndTime,
		prof.SleepSchedule.Bedtime, prof.SleepSchedule.WakeTime,
		strings.Join(goals, ", "), strings.Join(enabled, ", "))
}

type planWire struct {
	DailyEvents     []Event         `json:"dailyEvents"`
	Recommendations Recommendations `json:"recommendations"`
}

// parsePlanResponse extracts the first well-formed JSON object from the model
// output, tolerating prose or code fences around it.
func parsePlanResponse(text string) (planWire, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return planWire{}, errors.New("no JSON object found in response")
	}
	var wire planWire
	if err := json.Unmarshal([]byte(text[start:end+1]), &wire); err != nil {
		return planWire{}, fmt.Errorf("invalid plan response format: %w", err)
	}
	return wire, nil
}

func (g *generator) normalize(wire planWire) (Plan, error) {
	events := make([]Event, 0, len(wire.DailyEvents))
	for _, event := range wire.DailyEvents {
		normalized, ok := NormalizeClock(event.Time)
		if !ok {
			return Plan{}, fmt.Errorf("event %q has malformed time %q", event.Title, event.Time)
		}
		if !KnownCategory(event.Category) {
			return Plan{}, fmt.Errorf("event %q has unknown category %q", event.Title, event.Category)
		}
		event.Time = normalized
		if event.DurationMinutes < 0 {
			event.DurationMinutes = 0
		}
		events = append(events, event)
	}
	SortEvents(events)

	return Plan{
		ID:              g.newID(),
		Events:          events,
		Recommendations: wire.Recommendations,
		CreatedAt:       g.now(),
	}, nil
}
