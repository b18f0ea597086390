package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nivkeren/wellness-coach/internal/domain/auth"
	"github.com/nivkeren/wellness-coach/internal/domain/coach"
	"github.com/nivkeren/wellness-coach/internal/domain/plan"
	"github.com/nivkeren/wellness-coach/internal/domain/profile"
	"github.com/nivkeren/wellness-coach/internal/infra/config"
	"github.com/nivkeren/wellness-coach/internal/infra/userrepo"
	apperrors "github.com/nivkeren/wellness-coach/pkg/errors"
)

func TestRouter_Health(t *testing.T) {
	env := newRouterUnderTest(t)

	rec := performRequest(env.server, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	env := newRouterUnderTest(t)

	rec := performRequest(env.server, http.MethodPost, "/api/auth/register", `{"email":"dana@example.com","password":"secret1","displayName":"Dana"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Token)
	require.Equal(t, "Dana", created.User.DisplayName)
	require.False(t, created.User.Onboarded)

	rec = performRequest(env.server, http.MethodPost, "/api/auth/login", `{"email":"dana@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(env.server, http.MethodPost, "/api/auth/login", `{"email":"dana@example.com","password":"wrongpass"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_credentials", errBody["error"]["code"])
}

func TestRouter_AuthRequired(t *testing.T) {
	env := newRouterUnderTest(t)

	rec := performRequest(env.server, http.MethodPost, "/api/chat/message", `{"message":"hi"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(env.server, http.MethodGet, "/api/users/profile", "", "not-a-token")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_ProfileUpdate(t *testing.T) {
	env := newRouterUnderTest(t)
	env.profiles.updateFn = func(ctx context.Context, userID int64, req profile.UpdateRequest) (profile.Profile, error) {
		require.Equal(t, 30, req.Age)
		return profile.Profile{Age: 30, HeightCM: 170, WeightKG: 70, BMI: 24.2}, nil
	}
	token := env.register(t, "dana@example.com")

	body := `{"age":30,"height":170,"weight":70,"activityLevel":"moderate"}`
	rec := performRequest(env.server, http.MethodPut, "/api/users/profile", body, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var got profile.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.InDelta(t, 24.2, got.BMI, 0.001)
}

func TestRouter_PlanNotFound(t *testing.T) {
	env := newRouterUnderTest(t)
	env.plans.currentFn = func(ctx context.Context, userID int64) (plan.Plan, error) {
		return plan.Plan{}, apperrors.Wrap("plan_not_found", "no plan generated yet", nil)
	}
	token := env.register(t, "dana@example.com")

	rec := performRequest(env.server, http.MethodGet, "/api/plans/current", "", token)
	require.Equal(t, http.StatusNotFound, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "plan_not_found", errBody["error"]["code"])
}

func TestRouter_ChatMessage(t *testing.T) {
	env := newRouterUnderTest(t)
	env.coach.sendFn = func(ctx context.Context, userID int64, message string) (coach.MessageResult, error) {
		require.Equal(t, "what is my plan?", message)
		return coach.MessageResult{Response: "here it is", NeedsPlanUpdate: false}, nil
	}
	token := env.register(t, "dana@example.com")

	rec := performRequest(env.server, http.MethodPost, "/api/chat/message", `{"message":"what is my plan?"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var got coach.MessageResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "here it is", got.Response)
}

type routerEnv struct {
	server   *http.Server
	profiles *stubProfileService
	plans    *stubPlanService
	coach    *stubCoachService
}

func (e *routerEnv) register(t *testing.T, email string) string {
	t.Helper()
	rec := performRequest(e.server, http.MethodPost, "/api/auth/register", `{"email":"`+email+`","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func newRouterUnderTest(t *testing.T) *routerEnv {
	t.Helper()
	logger := newTestLogger()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	authSvc := auth.NewService(auth.Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, userrepo.NewMemoryRepository(), logger)

	env := &routerEnv{
		profiles: &stubProfileService{},
		plans:    &stubPlanService{},
		coach:    &stubCoachService{},
	}
	handlers := NewHandlers(
		NewAuthHandler(authSvc, auth.GoogleConfig{}, logger),
		NewProfileHandler(env.profiles, logger),
		NewPlanHandler(env.plans, logger),
		NewChatHandler(env.coach, logger),
	)
	env.server = NewRouter(cfg, handlers, authSvc, logger)
	return env
}

func performRequest(server *http.Server, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type stubProfileService struct {
	getFn    func(ctx context.Context, userID int64) (profile.Profile, error)
	updateFn func(ctx context.Context, userID int64, req profile.UpdateRequest) (profile.Profile, error)
}

func (s *stubProfileService) Get(ctx context.Context, userID int64) (profile.Profile, error) {
	if s.getFn != nil {
		return s.getFn(ctx, userID)
	}
	return profile.Profile{}, nil
}

func (s *stubProfileService) Update(ctx context.Context, userID int64, req profile.UpdateRequest) (profile.Profile, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, userID, req)
	}
	return profile.Profile{}, nil
}

type stubPlanService struct {
	regenerateFn func(ctx context.Context, userID int64) (plan.Plan, error)
	currentFn    func(ctx context.Context, userID int64) (plan.Plan, error)
}

func (s *stubPlanService) Regenerate(ctx context.Context, userID int64) (plan.Plan, error) {
	if s.regenerateFn != nil {
		return s.regenerateFn(ctx, userID)
	}
	return plan.Plan{}, nil
}

func (s *stubPlanService) Current(ctx context.Context, userID int64) (plan.Plan, error) {
	if s.currentFn != nil {
		return s.currentFn(ctx, userID)
	}
	return plan.Plan{}, nil
}

type stubCoachService struct {
	sendFn    func(ctx context.Context, userID int64, message string) (coach.MessageResult, error)
	historyFn func(ctx context.Context, userID int64) ([]coach.HistoryEntry, error)
}

func (s *stubCoachService) SendMessage(ctx context.Context, userID int64, message string) (coach.MessageResult, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, userID, message)
	}
	return coach.MessageResult{}, nil
}

func (s *stubCoachService) History(ctx context.Context, userID int64) ([]coach.HistoryEntry, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, userID)
	}
	return nil, nil
}
