package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jwebster45206/wasteland-engine/internal/config"
	"github.com/jwebster45206/wasteland-engine/internal/game"
	"github.com/jwebster45206/wasteland-engine/internal/logger"
	"github.com/jwebster45206/wasteland-engine/internal/services"
	"github.com/jwebster45206/wasteland-engine/internal/services/events"
	"github.com/jwebster45206/wasteland-engine/internal/services/queue"
	"github.com/jwebster45206/wasteland-engine/internal/storage"
	"github.com/jwebster45206/wasteland-engine/internal/worker"
	"github.com/jwebster45206/wasteland-engine/pkg/engine"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Wasteland Engine Worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL,
		"concurrency", cfg.WorkerConcurrency,
		"llm_provider", cfg.LLMProvider)

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.GameTTL, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage connection", "error", err)
		}
	}()

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx, 30, 2*time.Second); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

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

	broadcaster := events.NewBroadcaster(store.Client(), log)
	eng := engine.New(interpreter, narrator, log)
	runner := game.NewRunner(store, eng, broadcaster, log).WithDefaultWorld(cfg.DefaultWorld)
	turns := queue.NewTurnQueue(store.Client())

	prefix := os.Getenv("WORKER_ID")
	workers := make([]*worker.Worker, cfg.WorkerConcurrency)
	var wg sync.WaitGroup
	for i := range workers {
		id := ""
		if prefix != "" {
			id = fmt.Sprintf("%s-%d", prefix, i+1)
		}
		w := worker.New(turns, runner, broadcaster, log, id)
		workers[i] = w

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Start(); err != nil {
				log.Error("Worker error", "error", err)
			}
		}()
	}

	log.Info("Workers started, waiting for requests...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Worker shutdown signal received")

	for _, w := range workers {
		w.Stop()
	}

	// let in-flight turns finish, but not forever
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		log.Warn("Timed out waiting for workers to finish")
	}

	log.Info("Worker exited")
}
