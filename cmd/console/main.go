package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
	// World skips the selection modal when set
	World string
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    getDuration("API_TIMEOUT", 90*time.Second),
		World:      os.Getenv("WORLD"),
	}

	api := NewAPIClient(cfg.APIBaseURL, cfg.Timeout)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := api.Health(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not connect to API at %s: %v\nPlease ensure the API is running.\nTry: docker-compose up -d\n", cfg.APIBaseURL, err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, api),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
