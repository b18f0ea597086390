package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/nivkeren/wellness-coach/internal/domain/auth"
	"github.com/nivkeren/wellness-coach/internal/domain/coach"
	"github.com/nivkeren/wellness-coach/internal/domain/plan"
	"github.com/nivkeren/wellness-coach/internal/domain/profile"
	"github.com/nivkeren/wellness-coach/internal/infra/chatstore"
	"github.com/nivkeren/wellness-coach/internal/infra/config"
	"github.com/nivkeren/wellness-coach/internal/infra/llm/openai"
	"github.com/nivkeren/wellness-coach/internal/infra/llm/tokenizer"
	"github.com/nivkeren/wellness-coach/internal/infra/userrepo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		Google:          provideGoogleConfig(cfg),
	}
}

func provideGoogleConfig(cfg *config.Config) auth.GoogleConfig {
	return auth.GoogleConfig{
		ClientID:             cfg.Auth.Google.ClientID,
		ClientSecret:         cfg.Auth.Google.ClientSecret,
		RedirectURL:          cfg.Auth.Google.RedirectURL,
		TokenEncryptionKey:   cfg.Auth.Google.TokenEncryptionKey,
		PostLoginRedirectURL: cfg.Auth.Google.PostLoginRedirectURL,
	}
}

func providePlanConfig(cfg *config.Config) plan.Config {
	return plan.Config{
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		Prompt:          cfg.Plan.Prompt,
		MaxPromptTokens: cfg.Plan.MaxPromptTokens,
	}
}

func provideCoachConfig(cfg *config.Config) coach.Config {
	return coach.Config{
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		Prompt:       cfg.Coach.Prompt,
		HistoryLimit: cfg.Coach.HistoryLimit,
	}
}

func provideOpenAIClient(cfg *config.Config) (*openai.Client, error) {
	return openai.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideTokenCounter(cfg *config.Config) (*tokenizer.TiktokenCounter, error) {
	return tokenizer.NewTiktokenCounter(cfg.Plan.TokenEncoding)
}

func provideUserRepository(cfg *config.Config, logger *slog.Logger) userrepo.Repository {
	fallback := userrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Store.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Store.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Store.Postgres.MaxConns
	}
	if cfg.Store.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Store.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("postgres user repository enabled")
	return userrepo.NewPostgresRepository(pool)
}

func provideAuthRepository(repo userrepo.Repository) auth.Repository {
	return repo
}

func provideProfileRepository(repo userrepo.Repository) profile.Repository {
	return repo
}

func providePlanRepository(repo userrepo.Repository) plan.Repository {
	return repo
}

func provideChatStore(cfg *config.Config, logger *slog.Logger) coach.Store {
	if cfg.Store.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return chatstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return chatstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("chat valkey store enabled", "addr", cfg.Store.Valkey.Addr)
			return chatstore.NewValkeyStore(client, "chat")
		}
	}
	return chatstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Store.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Store.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Store.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
