package plan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nivkeren/wellness-coach/internal/domain/profile"
	"github.com/nivkeren/wellness-coach/internal/infra/llm/openai"
)

func testProfile() profile.Profile {
	return profile.Profile{
		Age:           30,
		HeightCM:      170,
		WeightKG:      70,
		BMI:           24.2,
		ActivityLevel: profile.ActivityModerate,
		WorkSchedule:  profile.WorkSchedule{StartTime: "09:00", EndTime: "17:00"},
		SleepSchedule: profile.SleepSchedule{Bedtime: "23:00", WakeTime: "07:00"},
		Goals:         []profile.Goal{profile.GoalEnergy},
		Preferences: profile.Preferences{
			Nutrition: true,
			Hydration: true,
			Movement:  true,
			Sleep:     true,
		},
	}
}

func newTestGenerator(client ChatClient, tokens TokenCounter) *generator {
	return &generator{
		cfg: Config{
			Model:           "gpt-4o-mini",
			Prompt:          "plan the day",
			MaxOutputTokens: 1024,
			MaxPromptTokens: 6000,
		},
		client: client,
		tokens: tokens,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
		newID:  func() uuid.UUID { return uuid.MustParse("2b8e7a1c-9f10-4e61-b5ce-64c0b0f7a111") },
	}
}

func TestGenerator_RemoteSuccess(t *testing.T) {
	payload := `Here is your plan:
{"dailyEvents":[
  {"time":"13:00","title":"Lunch","description":"Balanced meal","category":"nutrition","duration":30},
  {"time":"7:30","title":"Water","description":"Big glass","category":"hydration","duration":5}
],"recommendations":{"nutrition":"eat greens","sleep":"keep it consistent","movement":"walk daily"}}`
	client := &stubChatClient{response: payload}

	gen := newTestGenerator(client, nil)
	p := gen.Generate(context.Background(), testProfile(), nil)

	require.Len(t, p.Events, 2)
	// Sorted and zero-padded.
	require.Equal(t, "07:30", p.Events[0].Time)
	require.Equal(t, "13:00", p.Events[1].Time)
	require.Equal(t, "eat greens", p.Recommendations.Nutrition)
	require.False(t, p.CreatedAt.IsZero())
}

func TestGenerator_FallbackOnRemoteError(t *testing.T) {
	client := &stubChatClient{err: errors.New("upstream unavailable")}

	gen := newTestGenerator(client, nil)
	p := gen.Generate(context.Background(), testProfile(), nil)

	require.NotEmpty(t, p.Events)
	require.NotEmpty(t, p.Recommendations.Nutrition)
	require.NotEmpty(t, p.Recommendations.Sleep)
	require.NotEmpty(t, p.Recommendations.Movement)
}

func TestGenerator_FallbackOnMalformedResponse(t *testing.T) {
	for _, response := range []string{
		"sorry, I cannot help with that",
		`{"dailyEvents":[{"time":"26:00","title":"x","category":"nutrition"}]}`,
		`{"dailyEvents":[{"time":"12:00","title":"x","category":"quantum"}]}`,
	} {
		client := &stubChatClient{response: response}
		gen := newTestGenerator(client, nil)

		p := gen.Generate(context.Background(), testProfile(), nil)
		// The deterministic schedule took over.
		require.NotEmpty(t, p.Events)
		for _, event := range p.Events {
			require.True(t, KnownCategory(event.Category))
		}
	}
}

func TestGenerator_PromptDropsPlanContextOverBudget(t *testing.T) {
	gen := newTestGenerator(nil, countEverything{})
	gen.cfg.MaxPromptTokens = 10

	current := &Plan{Events: sampleEvents()}
	prompt := gen.userPrompt(testProfile(), current)
	require.NotContains(t, prompt, "CURRENT PLAN")

	gen.cfg.MaxPromptTokens = 1 << 20
	prompt = gen.userPrompt(testProfile(), current)
	require.Contains(t, prompt, "CURRENT PLAN")
}

func TestParsePlanResponse(t *testing.T) {
	wire, err := parsePlanResponse("```json\n{\"dailyEvents\":[],\"recommendations\":{\"sleep\":\"rest\"}}\n```")
	require.NoError(t, err)
	require.Equal(t, "rest", wire.Recommendations.Sleep)

	_, err = parsePlanResponse("no json here")
	require.Error(t, err)

	_, err = parsePlanResponse("{not valid}")
	require.Error(t, err)
}

func TestFallbackPlan_Totality(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	id := uuid.New()

	// All preferences off still yields a valid plan with recommendations.
	empty := fallbackPlan(profile.Profile{}, now, id)
	require.Empty(t, empty.Events)
	require.NotEmpty(t, empty.Recommendations.Nutrition)
	require.NotEmpty(t, empty.Recommendations.Sleep)
	require.NotEmpty(t, empty.Recommendations.Movement)
	require.Equal(t, id, empty.ID)

	full := fallbackPlan(testProfile(), now, id)
	require.NotEmpty(t, full.Events)
	for i := 1; i < len(full.Events); i++ {
		require.LessOrEqual(t, full.Events[i-1].Time, full.Events[i].Time)
	}
}

func TestFallbackPlan_AnchorsAndActivity(t *testing.T) {
	prof := testProfile()
	prof.SleepSchedule = profile.SleepSchedule{Bedtime: "22:00", WakeTime: "06:30"}
	prof.WorkSchedule.EndTime = "18:00"
	prof.ActivityLevel = profile.ActivityHigh

	p := fallbackPlan(prof, time.Now().UTC(), uuid.New())

	var hydration, movement, sleep *Event
	for i := range p.Events {
		switch p.Events[i].Category {
		case CategoryHydration:
			hydration = &p.Events[i]
		case CategoryMovement:
			movement = &p.Events[i]
		case CategorySleep:
			sleep = &p.Events[i]
		}
	}
	require.NotNil(t, hydration)
	require.Equal(t, "06:30", hydration.Time)
	require.NotNil(t, movement)
	require.Equal(t, "18:00", movement.Time)
	require.Contains(t, movement.Description, "HIIT")
	require.NotNil(t, sleep)
	require.Equal(t, "22:00", sleep.Time)
}

func TestFallbackPlan_EveningRoutine(t *testing.T) {
	prof := profile.Profile{
		SleepSchedule: profile.SleepSchedule{Bedtime: "23:00", WakeTime: "07:00"},
		Preferences:   profile.Preferences{Relaxation: true, DigitalWellness: true},
	}

	p := fallbackPlan(prof, time.Now().UTC(), uuid.New())
	require.Len(t, p.Events, 2)
	require.Equal(t, "21:30", p.Events[0].Time)
	require.Equal(t, CategoryRelaxation, p.Events[0].Category)
	require.Equal(t, "22:30", p.Events[1].Time)
	require.Equal(t, CategoryDigital, p.Events[1].Category)
}

type stubChatClient struct {
	response string
	err      error
	lastReq  openai.CompletionRequest
}

func (s *stubChatClient) Complete(_ context.Context, req openai.CompletionRequest) (openai.CompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return openai.CompletionResponse{}, s.err
	}
	return openai.CompletionResponse{
		Choices: []openai.Choice{{Message: openai.Message{Role: "assistant", Content: s.response}}},
	}, nil
}

// countEverything overestimates token counts, handy for forcing the budget.
type countEverything struct{}

func (countEverything) Count(text string) int { return len(strings.Fields(text)) * 2 }
