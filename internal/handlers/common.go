package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jwebster45206/wasteland-engine/internal/game"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// GameView is the client-facing snapshot of a game. The world graph stays
// on the server.
type GameView struct {
	ID        uuid.UUID        `json:"id"`
	WorldID   string           `json:"world_id"`
	Title     string           `json:"title"`
	Status    state.Status     `json:"status"`
	Inventory []string         `json:"inventory"`
	Log       []state.LogEntry `json:"log"`
}

// TurnResponse carries the game after a turn and the entries it produced.
type TurnResponse struct {
	Game GameView         `json:"game"`
	Logs []state.LogEntry `json:"logs"`
}

func newGameView(gs *state.GameState) GameView {
	v := GameView{
		ID:        gs.ID,
		WorldID:   gs.WorldID,
		Status:    state.ToStatus(gs),
		Inventory: []string{},
		Log:       gs.Log,
	}
	if gs.World != nil {
		v.Title = gs.World.Title
		v.Inventory = gs.World.ItemNames(gs.Inventory)
	}
	if v.Log == nil {
		v.Log = []state.LogEntry{}
	}
	return v
}

func newTurnResponse(res *game.Result) TurnResponse {
	logs := res.Logs
	if logs == nil {
		logs = []state.LogEntry{}
	}
	return TurnResponse{Game: newGameView(res.Game), Logs: logs}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeServiceError maps runner and storage errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		writeError(w, logger, http.StatusNotFound, "Game not found")
	case errors.Is(err, storage.ErrWorldNotFound):
		writeError(w, logger, http.StatusNotFound, "World not found")
	case errors.Is(err, game.ErrTurnInProgress):
		writeError(w, logger, http.StatusConflict, "A turn is already in progress for this game")
	case errors.Is(err, storage.ErrLockLost):
		writeError(w, logger, http.StatusConflict, "Turn lock expired before the turn was saved")
	case errors.Is(err, game.ErrEmptyCommand):
		writeError(w, logger, http.StatusBadRequest, "Command cannot be empty")
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, logger, http.StatusInternalServerError, "Internal server error")
	}
}

// gameID parses the {id} route variable
func gameID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}
