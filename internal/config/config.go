package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNone      = "none" // rule-based interpreter, static narrator
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	LLMProvider      string
	ModelName        string // narration model
	BackendModelName string // command interpretation model
	AnthropicAPIKey  string
	GeminiAPIKey     string

	RedisURL     string
	DataDir      string
	DefaultWorld string
	GameTTL      time.Duration
	CORSOrigins  []string

	WorkerConcurrency int // queue consumers per worker process
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LLMProvider:      strings.ToLower(getEnv("LLM_PROVIDER", ProviderNone)),
		ModelName:        os.Getenv("MODEL_NAME"),
		BackendModelName: os.Getenv("BACKEND_MODEL_NAME"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		RedisURL:         getEnv("REDIS_URL", "localhost:6379"),
		DataDir:          getEnv("DATA_DIR", "./data"),
		DefaultWorld:     getEnv("DEFAULT_WORLD", "ecos_nucleares"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
	}

	ttl, err := time.ParseDuration(getEnv("GAME_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid GAME_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("GAME_TTL must be positive, got %s", ttl)
	}
	cfg.GameTTL = ttl

	workers, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "2"))
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY %q: must be a positive integer", os.Getenv("WORKER_CONCURRENCY"))
	}
	cfg.WorkerConcurrency = workers

	switch cfg.LLMProvider {
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=%s", ProviderAnthropic)
		}
		if cfg.ModelName == "" {
			cfg.ModelName = "claude-3-5-haiku-latest"
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=%s", ProviderGemini)
		}
		if cfg.ModelName == "" {
			cfg.ModelName = "gemini-2.5-flash"
		}
	case ProviderNone:
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q (supported: %s, %s, %s)",
			cfg.LLMProvider, ProviderAnthropic, ProviderGemini, ProviderNone)
	}
	if cfg.BackendModelName == "" {
		cfg.BackendModelName = cfg.ModelName
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
