package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/wasteland-engine/internal/config"
	"github.com/jwebster45206/wasteland-engine/internal/game"
	"github.com/jwebster45206/wasteland-engine/internal/handlers"
	"github.com/jwebster45206/wasteland-engine/internal/logger"
	"github.com/jwebster45206/wasteland-engine/internal/services"
	"github.com/jwebster45206/wasteland-engine/internal/services/events"
	"github.com/jwebster45206/wasteland-engine/internal/services/queue"
	"github.com/jwebster45206/wasteland-engine/internal/storage"
	"github.com/jwebster45206/wasteland-engine/pkg/engine"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Wasteland Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName,
		"backend_model_name", cfg.BackendModelName)

	adapterCtx, adapterCancel := context.WithTimeout(context.Background(), time.Minute)
	interpreter, narrator, closeLLM, err := services.NewAdapters(adapterCtx, cfg, log)
	adapterCancel()
	if err != nil {
		log.Error("Failed to configure LLM provider", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeLLM(); err != nil {
			log.Error("Error closing LLM client", "error", err)
		}
	}()

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.GameTTL, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx, 30, 2*time.Second); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	if _, err := store.GetWorld(storageCtx, cfg.DefaultWorld); err != nil {
		log.Error("Default world is not available", "world", cfg.DefaultWorld, "error", err)
		os.Exit(1)
	}

	broadcaster := events.NewBroadcaster(store.Client(), log)
	eng := engine.New(interpreter, narrator, log)
	runner := game.NewRunner(store, eng, broadcaster, log).WithDefaultWorld(cfg.DefaultWorld)

	router := handlers.NewRouter(handlers.RouterConfig{
		Runner:      runner,
		Storage:     store,
		Subscriber:  broadcaster,
		Queue:       queue.NewTurnQueue(store.Client()),
		LLMProvider: cfg.LLMProvider,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: the events endpoint streams
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
