package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/wasteland-engine/internal/game"
	"github.com/jwebster45206/wasteland-engine/internal/middleware"
	"github.com/jwebster45206/wasteland-engine/pkg/action"
	"github.com/jwebster45206/wasteland-engine/pkg/queue"
	"github.com/jwebster45206/wasteland-engine/pkg/textfilter"
)

const maxBodyBytes = 1 << 16

type CreateGameRequest struct {
	World string `json:"world,omitempty"`
}

type CommandRequest struct {
	Command string `json:"command"`
}

type ActionRequest struct {
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
}

// AcceptedResponse answers a turn queued with ?async=true. The outcome
// arrives on the game's event stream under the same request id.
type AcceptedResponse struct {
	RequestID string    `json:"request_id"`
	GameID    uuid.UUID `json:"game_id"`
	Status    string    `json:"status"`
}

// Enqueuer accepts turns for asynchronous processing. Implemented by
// queue.TurnQueue.
type Enqueuer interface {
	Enqueue(ctx context.Context, req *queue.Request) error
}

// GamesHandler serves game lifecycle and turn endpoints
type GamesHandler struct {
	runner *game.Runner
	queue  Enqueuer // nil disables ?async=true
	logger *slog.Logger
}

func NewGamesHandler(runner *game.Runner, q Enqueuer, logger *slog.Logger) *GamesHandler {
	return &GamesHandler{runner: runner, queue: q, logger: logger}
}

func isAsync(r *http.Request) bool {
	return r.URL.Query().Get("async") == "true"
}

// enqueue queues a turn for a worker after checking the game exists
func (h *GamesHandler) enqueue(w http.ResponseWriter, r *http.Request, req *queue.Request) {
	if h.queue == nil {
		writeError(w, h.logger, http.StatusServiceUnavailable, "Asynchronous processing unavailable")
		return
	}
	if _, err := h.runner.Get(r.Context(), req.GameID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := h.queue.Enqueue(r.Context(), req); err != nil {
		h.logger.Error("Failed to enqueue turn", "error", err, "game_id", req.GameID.String())
		writeError(w, h.logger, http.StatusServiceUnavailable, "Failed to queue request")
		return
	}

	h.logger.Info("Turn queued", "game_id", req.GameID.String(), "request_id", req.RequestID, "type", req.Type)
	writeJSON(w, h.logger, http.StatusAccepted, AcceptedResponse{
		RequestID: req.RequestID,
		GameID:    req.GameID,
		Status:    "queued",
	})
}

// decode reads a JSON body. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Create handles POST /v1/games
func (h *GamesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	res, err := h.runner.Start(r.Context(), req.World)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, newTurnResponse(res))
}

// Get handles GET /v1/games/{id}
func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	gs, err := h.runner.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, newGameView(gs))
}

// Delete handles DELETE /v1/games/{id}
func (h *GamesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	if err := h.runner.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Command handles POST /v1/games/{id}/commands
func (h *GamesHandler) Command(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	var req CommandRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	h.logger.Debug("Command received",
		"game_id", id.String(),
		"request_id", middleware.RequestID(r.Context()),
		"command", req.Command)

	if isAsync(r) {
		command := strings.TrimSpace(req.Command)
		if command == "" {
			writeServiceError(w, h.logger, game.ErrEmptyCommand)
			return
		}
		h.enqueue(w, r, queue.NewCommandRequest(id, command))
		return
	}

	res, err := h.runner.Submit(r.Context(), id, req.Command)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, newTurnResponse(res))
}

// Action handles POST /v1/games/{id}/actions, bypassing the interpreter
func (h *GamesHandler) Action(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	var req ActionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.Action == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Action is required")
		return
	}

	if isAsync(r) {
		h.enqueue(w, r, queue.NewActionRequest(id, req.Action, req.Target))
		return
	}

	a := action.Action{Type: action.ParseType(req.Action), Target: textfilter.Keyword(req.Target)}
	res, err := h.runner.SubmitAction(r.Context(), id, a)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, newTurnResponse(res))
}
