package handlers

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/jwebster45206/wasteland-engine/pkg/storage"
)

type WorldSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type WorldsResponse struct {
	Worlds []WorldSummary `json:"worlds"`
}

// WorldsHandler lists the world templates games can start from
type WorldsHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewWorldsHandler(storage storage.Storage, logger *slog.Logger) *WorldsHandler {
	return &WorldsHandler{storage: storage, logger: logger}
}

// List handles GET /v1/worlds
func (h *WorldsHandler) List(w http.ResponseWriter, r *http.Request) {
	worlds, err := h.storage.ListWorlds(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := WorldsResponse{Worlds: make([]WorldSummary, 0, len(worlds))}
	for id, title := range worlds {
		resp.Worlds = append(resp.Worlds, WorldSummary{ID: id, Title: title})
	}
	sort.Slice(resp.Worlds, func(i, j int) bool { return resp.Worlds[i].ID < resp.Worlds[j].ID })

	writeJSON(w, h.logger, http.StatusOK, resp)
}
