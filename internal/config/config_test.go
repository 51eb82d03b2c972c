package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENVIRONMENT", "LOG_LEVEL", "LLM_PROVIDER", "MODEL_NAME",
		"BACKEND_MODEL_NAME", "REDIS_URL", "DATA_DIR", "DEFAULT_WORLD", "GAME_TTL", "CORS_ORIGINS", "WORKER_CONCURRENCY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ProviderNone, cfg.LLMProvider)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "ecos_nucleares", cfg.DefaultWorld)
	assert.Equal(t, 24*time.Hour, cfg.GameTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 2, cfg.WorkerConcurrency)
}

func TestLoad_Providers(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantErr   string
		wantModel string
	}{
		{
			name:    "anthropic without key",
			env:     map[string]string{"LLM_PROVIDER": "anthropic", "ANTHROPIC_API_KEY": ""},
			wantErr: "ANTHROPIC_API_KEY is required",
		},
		{
			name:      "anthropic",
			env:       map[string]string{"LLM_PROVIDER": "Anthropic", "ANTHROPIC_API_KEY": "k", "MODEL_NAME": "claude-x"},
			wantModel: "claude-x",
		},
		{
			name:    "gemini without key",
			env:     map[string]string{"LLM_PROVIDER": "gemini", "GEMINI_API_KEY": ""},
			wantErr: "GEMINI_API_KEY is required",
		},
		{
			name:      "gemini default model",
			env:       map[string]string{"LLM_PROVIDER": "gemini", "GEMINI_API_KEY": "k", "MODEL_NAME": ""},
			wantModel: "gemini-2.5-flash",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"LLM_PROVIDER": "venice"},
			wantErr: "unsupported LLM_PROVIDER",
		},
		{
			name:    "bad ttl",
			env:     map[string]string{"LLM_PROVIDER": "none", "GAME_TTL": "mañana"},
			wantErr: "invalid GAME_TTL",
		},
		{
			name:    "zero workers",
			env:     map[string]string{"LLM_PROVIDER": "none", "WORKER_CONCURRENCY": "0"},
			wantErr: "invalid WORKER_CONCURRENCY",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GAME_TTL", "")
			t.Setenv("BACKEND_MODEL_NAME", "")
			t.Setenv("WORKER_CONCURRENCY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, cfg.ModelName)
			assert.Equal(t, tt.wantModel, cfg.BackendModelName, "backend model defaults to the narration model")
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("loud"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	assert.Nil(t, splitList(""))
}
