//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/nivkeren/wellness-coach/internal/bootstrap"
	"github.com/nivkeren/wellness-coach/internal/domain/auth"
	"github.com/nivkeren/wellness-coach/internal/domain/coach"
	"github.com/nivkeren/wellness-coach/internal/domain/plan"
	"github.com/nivkeren/wellness-coach/internal/domain/profile"
	"github.com/nivkeren/wellness-coach/internal/infra/config"
	"github.com/nivkeren/wellness-coach/internal/infra/llm/openai"
	"github.com/nivkeren/wellness-coach/internal/infra/llm/tokenizer"
	httpiface "github.com/nivkeren/wellness-coach/internal/interface/http"
	"github.com/nivkeren/wellness-coach/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideGoogleConfig,
		providePlanConfig,
		provideCoachConfig,
		provideOpenAIClient,
		provideTokenCounter,
		provideUserRepository,
		provideAuthRepository,
		provideProfileRepository,
		providePlanRepository,
		provideChatStore,
		auth.NewService,
		profile.NewService,
		plan.NewGenerator,
		plan.NewService,
		coach.NewService,
		wire.Bind(new(plan.ChatClient), new(*openai.Client)),
		wire.Bind(new(coach.ChatClient), new(*openai.Client)),
		wire.Bind(new(plan.TokenCounter), new(*tokenizer.TiktokenCounter)),
		httpiface.NewAuthHandler,
		httpiface.NewProfileHandler,
		httpiface.NewPlanHandler,
		httpiface.NewChatHandler,
		httpiface.NewHandlers,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
