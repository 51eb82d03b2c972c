package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/wasteland-engine/internal/logger"
	"github.com/jwebster45206/wasteland-engine/pkg/action"
	"github.com/jwebster45206/wasteland-engine/pkg/engine"
	"github.com/jwebster45206/wasteland-engine/pkg/queue"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/storage"
	"github.com/jwebster45206/wasteland-engine/pkg/textfilter"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrTurnInProgress = errors.New("a turn is already in progress for this game")
	ErrEmptyCommand   = errors.New("command cannot be empty")
)

// Publisher receives turn lifecycle notifications. Implemented by
// events.Broadcaster.
type Publisher interface {
	PublishTurnProcessing(ctx context.Context, gameID uuid.UUID, requestID, command string) error
	PublishTurnCompleted(ctx context.Context, gameID uuid.UUID, requestID string, entries int, location string, health int) error
	PublishTurnFailed(ctx context.Context, gameID uuid.UUID, requestID, errorMsg string) error
	PublishGameOver(ctx context.Context, gameID uuid.UUID, requestID string) error
}

// lockRefreshInterval is how often a running turn extends its lock. It
// must stay well under the storage lock TTL.
const lockRefreshInterval = 10 * time.Second

// Result is a game snapshot plus the log entries produced by the last call.
type Result struct {
	Game *state.GameState
	Logs []state.LogEntry
}

// Runner applies turns to stored games. Each turn takes the game's turn
// lock, loads the state, runs the engine, saves and publishes events. The
// lock is kept alive for as long as the turn runs, and the save only lands
// if the lock is still ours.
type Runner struct {
	store        storage.Storage
	engine       *engine.Engine
	publisher    Publisher
	defaultWorld string
	lockRefresh  time.Duration
	logger       *slog.Logger
}

// NewRunner creates a runner. publisher may be nil.
func NewRunner(store storage.Storage, eng *engine.Engine, publisher Publisher, logger *slog.Logger) *Runner {
	return &Runner{
		store:        store,
		engine:       eng,
		publisher:    publisher,
		defaultWorld: world.DefaultID,
		lockRefresh:  lockRefreshInterval,
		logger:       logger,
	}
}

// WithDefaultWorld sets the world used when Start is called without one.
func (r *Runner) WithDefaultWorld(id string) *Runner {
	if id != "" {
		r.defaultWorld = id
	}
	return r
}

// Start creates a new game from a world template and stores it.
func (r *Runner) Start(ctx context.Context, worldID string) (*Result, error) {
	if worldID == "" {
		worldID = r.defaultWorld
	}
	tmpl, err := r.store.GetWorld(ctx, worldID)
	if err != nil {
		return nil, fmt.Errorf("failed to load world: %w", err)
	}

	gs, logs := r.engine.NewGame(ctx, tmpl)
	if err := r.store.SaveGameState(ctx, gs.ID, gs); err != nil {
		return nil, fmt.Errorf("failed to save new game: %w", err)
	}

	r.logger.Info("Game started", "game_id", gs.ID.String(), "world", gs.WorldID)
	return &Result{Game: gs, Logs: logs}, nil
}

// Get returns the stored game.
func (r *Runner) Get(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	gs, err := r.store.LoadGameState(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if gs == nil {
		return nil, ErrGameNotFound
	}
	return gs, nil
}

// Delete discards a game. Deleting an unknown game is not an error.
func (r *Runner) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.store.DeleteGameState(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	r.logger.Info("Game deleted", "game_id", id.String())
	return nil
}

// Submit interprets a raw player command and applies it as one turn.
func (r *Runner) Submit(ctx context.Context, id uuid.UUID, command string) (*Result, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmptyCommand
	}
	return r.run(ctx, id, uuid.NewString(), command, r.commandTurn(ctx, command))
}

// SubmitAction applies an already structured action as one turn.
func (r *Runner) SubmitAction(ctx context.Context, id uuid.UUID, a action.Action) (*Result, error) {
	return r.run(ctx, id, uuid.NewString(), actionLabel(a), r.actionTurn(ctx, a))
}

// ProcessNext takes the game's turn lock, then pops and applies the game's
// next queued request. Popping under the lock keeps a game's queued turns
// in submission order. The request is nil when nothing was queued. Events
// carry the request's own id so clients can match them to the 202 response
// that queued it.
func (r *Runner) ProcessNext(ctx context.Context, id uuid.UUID, pop func(context.Context) (*queue.Request, error)) (*queue.Request, *Result, error) {
	log := logger.WithGame(r.logger, id.String())

	var req *queue.Request
	res, err := r.locked(ctx, id, log, func(token string) (*Result, error) {
		var err error
		req, err = pop(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to pop queued request: %w", err)
		}
		if req == nil {
			return nil, nil
		}

		label, fn, err := r.prepare(ctx, req)
		if err != nil {
			return nil, err
		}
		return r.play(ctx, id, token, req.RequestID, label, fn, logger.WithRequestID(log, req.RequestID))
	})
	return req, res, err
}

// turnFunc applies one turn to a loaded game
type turnFunc func(*state.GameState) (*state.GameState, []state.LogEntry)

func (r *Runner) commandTurn(ctx context.Context, command string) turnFunc {
	return func(gs *state.GameState) (*state.GameState, []state.LogEntry) {
		return r.engine.ProcessCommand(ctx, command, gs)
	}
}

func (r *Runner) actionTurn(ctx context.Context, a action.Action) turnFunc {
	return func(gs *state.GameState) (*state.GameState, []state.LogEntry) {
		return r.engine.ProcessTurn(ctx, a, gs)
	}
}

// prepare turns a queued request into a label and a turn
func (r *Runner) prepare(ctx context.Context, req *queue.Request) (string, turnFunc, error) {
	switch req.Type {
	case queue.RequestTypeCommand:
		command := strings.TrimSpace(req.Command)
		if command == "" {
			return "", nil, ErrEmptyCommand
		}
		return command, r.commandTurn(ctx, command), nil
	case queue.RequestTypeAction:
		a := action.Action{Type: action.ParseType(req.Action), Target: textfilter.Keyword(req.Target)}
		return actionLabel(a), r.actionTurn(ctx, a), nil
	default:
		return "", nil, fmt.Errorf("unknown request type %q", req.Type)
	}
}

func actionLabel(a action.Action) string {
	return strings.TrimSpace(string(a.Type) + " " + a.Target)
}

func (r *Runner) run(ctx context.Context, id uuid.UUID, requestID, label string, fn turnFunc) (*Result, error) {
	log := logger.WithRequestID(logger.WithGame(r.logger, id.String()), requestID)
	return r.locked(ctx, id, log, func(token string) (*Result, error) {
		return r.play(ctx, id, token, requestID, label, fn, log)
	})
}

// locked runs fn while holding the game's turn lock
func (r *Runner) locked(ctx context.Context, id uuid.UUID, log *slog.Logger, fn func(token string) (*Result, error)) (*Result, error) {
	token, ok, err := r.store.AcquireTurnLock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock game: %w", err)
	}
	if !ok {
		// not published: the caller retries or reports 409 itself
		log.Info("Turn rejected, game locked")
		return nil, ErrTurnInProgress
	}

	stop := r.keepLock(ctx, id, token, log)
	defer func() {
		stop()
		// release even if the request context was cancelled mid-turn
		if err := r.store.ReleaseTurnLock(context.WithoutCancel(ctx), id, token); err != nil {
			log.Error("Failed to release turn lock", "error", err)
		}
	}()

	return fn(token)
}

// keepLock extends the turn lock until the returned stop func is called.
// A slow interpreter or narrator call must not let the lock lapse.
func (r *Runner) keepLock(ctx context.Context, id uuid.UUID, token string, log *slog.Logger) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(r.lockRefresh)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				held, err := r.store.RefreshTurnLock(context.WithoutCancel(ctx), id, token)
				if err != nil {
					log.Warn("Failed to refresh turn lock", "error", err)
					continue
				}
				if !held {
					// the save will notice and discard the turn
					log.Error("Turn lock lost mid-turn")
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// play loads the game, applies fn and saves the result under token
func (r *Runner) play(ctx context.Context, id uuid.UUID, token, requestID, label string, fn turnFunc, log *slog.Logger) (*Result, error) {
	gs, err := r.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrGameNotFound) {
			r.publishFailed(ctx, id, requestID, err)
		}
		return nil, err
	}

	if r.publisher != nil {
		if err := r.publisher.PublishTurnProcessing(ctx, id, requestID, label); err != nil {
			log.Warn("Failed to publish processing event", "error", err)
		}
	}

	wasOver := gs.IsGameOver
	next, logs := fn(gs)

	if err := r.store.SaveGameStateLocked(ctx, id, token, next); err != nil {
		if errors.Is(err, storage.ErrLockLost) {
			log.Error("Turn discarded, lock lost before save", "command", label)
		}
		r.publishFailed(ctx, id, requestID, err)
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	log.Info("Turn processed", "command", label, "entries", len(logs), "location", next.CurrentLocationID, "health", next.PlayerHealth)

	if r.publisher != nil {
		if err := r.publisher.PublishTurnCompleted(ctx, id, requestID, len(logs), next.CurrentLocationID, next.PlayerHealth); err != nil {
			log.Warn("Failed to publish completed event", "error", err)
		}
		if next.IsGameOver && !wasOver {
			if err := r.publisher.PublishGameOver(ctx, id, requestID); err != nil {
				log.Warn("Failed to publish game over event", "error", err)
			}
		}
	}

	return &Result{Game: next, Logs: logs}, nil
}

func (r *Runner) publishFailed(ctx context.Context, id uuid.UUID, requestID string, cause error) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishTurnFailed(ctx, id, requestID, cause.Error()); err != nil {
		r.logger.Warn("Failed to publish failure event", "error", err, "game_id", id.String())
	}
}
