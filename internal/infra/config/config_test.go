package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_SECRET", "test-secret")
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("COACH_HISTORY_LIMIT", "25")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	require.Equal(t, 25, cfg.Coach.HistoryLimit)

	// Untouched fields keep their defaults.
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	require.Equal(t, 6000, cfg.Plan.MaxPromptTokens)
	require.Equal(t, "cl100k_base", cfg.Plan.TokenEncoding)
	require.Equal(t, 50, defaultConfig().Coach.HistoryLimit)
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":7000"
llm:
  model: gpt-4o
coach:
  historyLimit: 10
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("AUTH_SECRET", "test-secret")
	t.Setenv("HTTP_ADDRESS", ":7001")

	cfg, err := Load()
	require.NoError(t, err)

	// Env wins over file, file wins over defaults.
	require.Equal(t, ":7001", cfg.HTTP.Address)
	require.Equal(t, "gpt-4o", cfg.LLM.Model)
	require.Equal(t, 10, cfg.Coach.HistoryLimit)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "auth.secret")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Auth.Secret = "s3cret"
		return cfg
	}

	require.NoError(t, valid().Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty address", func(c *Config) { c.HTTP.Address = "" }, "http.address"},
		{"zero token ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "auth.tokenTtl"},
		{"empty model", func(c *Config) { c.LLM.Model = "" }, "llm.model"},
		{"zero history limit", func(c *Config) { c.Coach.HistoryLimit = 0 }, "coach.historyLimit"},
		{"valkey without addr", func(c *Config) { c.Store.Valkey.Enabled = true }, "store.valkey.addr"},
		{"retry without attempts", func(c *Config) { c.HTTP.Retry.Enabled = true }, "http.retry.maxAttempts"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
