package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/wasteland-engine/internal/game"
	"github.com/jwebster45206/wasteland-engine/pkg/queue"
)

const (
	dequeueTimeout = 5 * time.Second
	retryDelay     = 250 * time.Millisecond
	// a game can stay busy this long before its next request is dropped;
	// longer than a turn making every external call up to its timeout
	maxBusyWait = 5 * time.Minute
)

var errGameBusy = errors.New("game stayed locked, request dropped")

// TurnQueue is the subset of queue.TurnQueue the worker needs.
type TurnQueue interface {
	NextTicket(ctx context.Context, timeout time.Duration) (*queue.Ticket, error)
	Retry(ctx context.Context, t *queue.Ticket) error
	Pop(ctx context.Context, gameID uuid.UUID) (*queue.Request, error)
	Peek(ctx context.Context, gameID uuid.UUID) (*queue.Request, error)
	DropHead(ctx context.Context, gameID uuid.UUID, requestID string) (bool, error)
}

// Processor applies a game's next queued turn. Implemented by game.Runner.
type Processor interface {
	ProcessNext(ctx context.Context, id uuid.UUID, pop func(context.Context) (*queue.Request, error)) (*queue.Request, *game.Result, error)
}

// Notifier reports requests the worker gives up on. Implemented by
// events.Broadcaster.
type Notifier interface {
	PublishTurnFailed(ctx context.Context, gameID uuid.UUID, requestID, errorMsg string) error
}

// Worker processes turn requests from the queue
type Worker struct {
	id          string
	queue       TurnQueue
	processor   Processor
	notifier    Notifier // may be nil
	log         *slog.Logger
	retryDelay  time.Duration
	maxAttempts int
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(q TurnQueue, processor Processor, notifier Notifier, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       q,
		processor:   processor,
		notifier:    notifier,
		log:         log.With("worker_id", workerID),
		retryDelay:  retryDelay,
		maxAttempts: int(maxBusyWait / retryDelay),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start processes requests until Stop is called
func (w *Worker) Start() error {
	w.log.Info("Worker starting")

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down")
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				w.log.Error("Error processing request", "error", err)
				// keep going; back off briefly so a broken Redis does not spin
				w.sleep(time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker. A turn in progress finishes first.
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested")
	w.cancel()
}

// processNextRequest takes the next ticket and applies that game's oldest
// queued request
func (w *Worker) processNextRequest() error {
	ticket, err := w.queue.NextTicket(w.ctx, dequeueTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue ticket: %w", err)
	}
	if ticket == nil {
		// empty queue or shutdown
		return nil
	}

	log := w.log.With("game_id", ticket.GameID.String())
	// finish the turn even if Stop is called mid-way
	ctx := context.WithoutCancel(w.ctx)

	start := time.Now()
	req, res, err := w.processor.ProcessNext(ctx, ticket.GameID, func(ctx context.Context) (*queue.Request, error) {
		return w.queue.Pop(ctx, ticket.GameID)
	})
	if req != nil {
		log = log.With("request_id", req.RequestID, "type", req.Type)
	}

	switch {
	case err == nil && req == nil:
		log.Debug("Ticket had no queued request")
		return nil

	case err == nil:
		log.Info("Request processed",
			"duration", time.Since(start),
			"entries", len(res.Logs),
			"location", res.Game.CurrentLocationID,
			"game_over", res.Game.IsGameOver)
		return nil

	case errors.Is(err, game.ErrTurnInProgress):
		return w.retry(ctx, ticket, log)

	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrEmptyCommand):
		log.Warn("Dropping request", "reason", err.Error())
		return nil

	default:
		return fmt.Errorf("turn for game %s failed: %w", ticket.GameID, err)
	}
}

// retry puts the ticket back for a busy game. The request itself stays at
// the head of the game's list, so nothing queued later can pass it.
func (w *Worker) retry(ctx context.Context, ticket *queue.Ticket, log *slog.Logger) error {
	ticket.Attempts++
	if ticket.Attempts > w.maxAttempts {
		return w.giveUp(ctx, ticket, log)
	}

	log.Debug("Game busy, retrying later", "attempts", ticket.Attempts)
	w.sleep(w.retryDelay)
	if err := w.queue.Retry(ctx, ticket); err != nil {
		return fmt.Errorf("failed to re-queue ticket: %w", err)
	}
	return nil
}

// giveUp drops the game's oldest request and tells its client
func (w *Worker) giveUp(ctx context.Context, ticket *queue.Ticket, log *slog.Logger) error {
	req, err := w.queue.Peek(ctx, ticket.GameID)
	if err != nil {
		return fmt.Errorf("failed to read stuck request: %w", err)
	}
	if req == nil {
		return nil
	}

	dropped, err := w.queue.DropHead(ctx, ticket.GameID, req.RequestID)
	if err != nil {
		return fmt.Errorf("failed to drop stuck request: %w", err)
	}
	if !dropped {
		// the game moved on while we looked; keep waiting with a fresh count
		ticket.Attempts = 0
		return w.queue.Retry(ctx, ticket)
	}

	log.Error("Dropping request, game stayed locked", "request_id", req.RequestID, "attempts", ticket.Attempts)
	if w.notifier != nil {
		if err := w.notifier.PublishTurnFailed(ctx, ticket.GameID, req.RequestID, errGameBusy.Error()); err != nil {
			log.Warn("Failed to publish failure event", "error", err)
		}
	}
	return nil
}

func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.ctx.Done():
	case <-time.After(d):
	}
}
