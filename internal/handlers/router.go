package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jwebster45206/wasteland-engine/internal/game"
	"github.com/jwebster45206/wasteland-engine/internal/middleware"
	"github.com/jwebster45206/wasteland-engine/pkg/storage"
)

// RouterConfig holds everything the HTTP API needs
type RouterConfig struct {
	Runner      *game.Runner
	Storage     storage.Storage
	Subscriber  Subscriber // nil disables the events endpoint
	Queue       Enqueuer   // nil disables asynchronous turns
	LLMProvider string
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter wires the API routes
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Handle("/health", NewHealthHandler(cfg.Storage, cfg.LLMProvider, cfg.Logger)).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/v1").Subrouter()

	worlds := NewWorldsHandler(cfg.Storage, cfg.Logger)
	api.HandleFunc("/worlds", worlds.List).Methods(http.MethodGet, http.MethodOptions)

	games := NewGamesHandler(cfg.Runner, cfg.Queue, cfg.Logger)
	api.HandleFunc("/games", games.Create).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/games/{id}", games.Get).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/games/{id}", games.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/commands", games.Command).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/games/{id}/actions", games.Action).Methods(http.MethodPost, http.MethodOptions)

	if cfg.Subscriber != nil {
		api.Handle("/games/{id}/events", NewEventsHandler(cfg.Subscriber, cfg.Logger)).Methods(http.MethodGet, http.MethodOptions)
	}

	return r
}
