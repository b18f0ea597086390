package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nivkeren/wellness-coach/internal/domain/plan"
	"github.com/nivkeren/wellness-coach/internal/domain/profile"
	"github.com/nivkeren/wellness-coach/internal/infra/llm/openai"
	apperrors "github.com/nivkeren/wellness-coach/pkg/errors"
	"github.com/nivkeren/wellness-coach/pkg/util"
)

// ChatClient is the outbound LLM dependency, injected so tests can stub it.
type ChatClient interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (openai.CompletionResponse, error)
}

// The model signals a plan edit by appending this tag to its reply.
var updateTagPattern = regexp.MustCompile(`\[UPDATE_PLAN:\s*([^\]]+)\]`)

// Service is the message-level contract exposed to callers.
type Service interface {
	SendMessage(ctx context.Context, userID int64, message string) (MessageResult, error)
	History(ctx context.Context, userID int64) ([]HistoryEntry, error)
}

type service struct {
	cfg       Config
	client    ChatClient
	profiles  profile.Repository
	plans     plan.Repository
	generator plan.Generator
	store     Store
	logger    *slog.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

// NewService wires up the conversational coach.
func NewService(cfg Config, client ChatClient, profiles profile.Repository, plans plan.Repository, generator plan.Generator, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		client:    client,
		profiles:  profiles,
		plans:     plans,
		generator: generator,
		store:     store,
		logger:    logger.With("component", "coach.service"),
		now:       util.NowUTC,
		newID:     uuid.New,
	}
}

func (s *service) SendMessage(ctx context.Context, userID int64, message string) (MessageResult, error) {
	if strings.TrimSpace(message) == "" {
		return MessageResult{}, apperrors.Wrap("invalid_input", "message cannot be empty", nil)
	}

	prof, found, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return MessageResult{}, apperrors.Wrap("storage_error", "failed to load profile", err)
	}
	if !found {
		return MessageResult{}, apperrors.Wrap("not_onboarded", "please complete onboarding first", nil)
	}

	var current *plan.Plan
	if existing, ok, err := s.plans.GetPlan(ctx, userID); err != nil {
		return MessageResult{}, apperrors.Wrap("storage_error", "failed to load plan", err)
	} else if ok {
		current = &existing
	}

	st, err := s.store.State(ctx, userID)
	if err != nil {
		return MessageResult{}, apperrors.Wrap("storage_error", "failed to load chat state", err)
	}

	reply := s.handleMessage(ctx, message, prof, current, st)
	reply.Timestamp = s.now()

	if err := s.applyPlanChange(ctx, userID, prof, current, reply); err != nil {
		return MessageResult{}, err
	}
	if err := s.persistState(ctx, userID, reply); err != nil {
		return MessageResult{}, err
	}

	entry := HistoryEntry{
		ID:              s.newID(),
		UserMessage:     message,
		AIResponse:      reply.Message,
		Timestamp:       reply.Timestamp,
		NeedsPlanUpdate: reply.NeedsPlanUpdate,
	}
	if err := s.store.AppendHistory(ctx, userID, entry, s.cfg.HistoryLimit); err != nil {
		// The transcript is advisory; the reply itself already happened.
		s.logger.Warn("failed to append chat history", "userId", userID, "error", err)
	}

	return MessageResult{
		Response:        reply.Message,
		Timestamp:       reply.Timestamp,
		NeedsPlanUpdate: reply.NeedsPlanUpdate,
	}, nil
}

func (s *service) History(ctx context.Context, userID int64) ([]HistoryEntry, error) {
	entries, err := s.store.History(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to load chat history", err)
	}
	return entries, nil
}

// handleMessage is the pure conversational step: follow-up resolver first,
// then the local intent table, then the remote model with a local fallback.
// It never fails; the worst case is a generic helpful reply.
func (s *service) handleMessage(ctx context.Context, message string, prof profile.Profile, current *plan.Plan, st State) Reply {
	if st.Waiting {
		return resolveFollowUp(message, st)
	}

	in := intentInput{
		message: strings.ToLower(message),
		profile: prof,
		plan:    current,
	}
	if reply, ok := matchIntent(in); ok {
		return reply
	}

	return s.remoteReply(ctx, message, prof, current, in.message)
}

func (s *service) remoteReply(ctx context.Context, message string, prof profile.Profile, current *plan.Plan, lowered string) Reply {
	resp, err := s.client.Complete(ctx, openai.CompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.Message{
			{Role: "system", Content: s.systemPrompt()},
			{Role: "user", Content: s.userPrompt(message, prof, current)},
		},
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Warn("coach completion failed, using fallback reply", "error", err)
		return fallbackReply(lowered)
	}
	text, err := resp.Text()
	if err != nil {
		s.logger.Warn("coach completion empty, using fallback reply", "error", err)
		return fallbackReply(lowered)
	}

	reply := Reply{Message: strings.TrimSpace(text)}
	if match := updateTagPattern.FindStringSubmatch(reply.Message); match != nil {
		reply.NeedsPlanUpdate = true
		reply.Instruction = strings.TrimSpace(match[1])
		reply.Message = strings.TrimSpace(updateTagPattern.ReplaceAllString(reply.Message, ""))
	}
	return reply
}

func (s *service) systemPrompt() string {
	contract := ` If the user asks to change their plan (for example "more sport", "change a time", "new plan"), you MUST append "[UPDATE_PLAN: <specific instructions>]" at the end and phrase your reply as a confirmation of the change. Answer only with the response (and the tag if needed).`
	return strings.TrimSpace(s.cfg.Prompt) + contract
}

func (s *service) userPrompt(message string, prof profile.Profile, current *plan.Plan) string {
	goals := make([]string, 0, len(prof.Goals))
	for _, goal := range prof.Goals {
		goals = append(goals, string(goal))
	}

	planJSON := "null"
	if current != nil {
		if encoded, err := json.Marshal(current); err == nil {
			planJSON = string(encoded)
		}
	}

	return fmt.Sprintf(`User profile:
- Age: %d, BMI: %.1f, Weight: %.0f kg
- Activity level: %s
- Work hours: %s-%s
- Sleep schedule: %s-%s
- Goals: %s

Current plan:
%s

User message: %q`,
		prof.Age, prof.BMI, prof.WeightKG,
		prof.ActivityLevel,
		prof.WorkSchedule.StartTime, prof.WorkSchedule.EndTime,
		prof.SleepSchedule.Bedtime, prof.SleepSchedule.WakeTime,
		strings.Join(goals, ", "),
		planJSON,
		message)
}

// fallbackReply is used when the remote model is unavailable. Never an error.
func fallbackReply(lowered string) Reply {
	switch {
	case containsAny(lowered, "thank"):
		return Reply{Message: "You're welcome! I'm here to help you reach your goals. 😊"}
	case containsAny(lowered, "help") || strings.TrimSpace(lowered) == "?":
		return Reply{Message: helpMessage}
	default:
		return Reply{Message: "I'm still here for you! Try asking specific questions about health, nutrition, sleep, or physical activity. 🌟"}
	}
}

func (s *service) applyPlanChange(ctx context.Context, userID int64, prof profile.Profile, current *plan.Plan, reply Reply) error {
	switch {
	case reply.PlanUpdate != nil:
		if current == nil {
			return nil
		}
		if plan.ApplyUpdate(current, *reply.PlanUpdate) {
			if err := s.plans.SavePlan(ctx, userID, *current); err != nil {
				return apperrors.Wrap("storage_error", "failed to save updated plan", err)
			}
			s.logger.Info("plan merged", "userId", userID, "type", reply.PlanUpdate.Type, "newTime", reply.PlanUpdate.NewTime)
		}
	case reply.NeedsPlanUpdate && reply.Instruction != "":
		prof.PlanModifications = reply.Instruction
		regenerated := s.generator.Generate(ctx, prof, current)
		if err := s.plans.SavePlan(ctx, userID, regenerated); err != nil {
			return apperrors.Wrap("storage_error", "failed to save regenerated plan", err)
		}
		s.logger.Info("plan regenerated from chat", "userId", userID, "instruction", reply.Instruction)
	}
	return nil
}

func (s *service) persistState(ctx context.Context, userID int64, reply Reply) error {
	switch {
	case reply.NextState != nil:
		if err := s.store.SaveState(ctx, userID, *reply.NextState); err != nil {
			return apperrors.Wrap("storage_error", "failed to save chat state", err)
		}
	case reply.ClearState:
		if err := s.store.ClearState(ctx, userID); err != nil {
			return apperrors.Wrap("storage_error", "failed to clear chat state", err)
		}
	}
	return nil
}
