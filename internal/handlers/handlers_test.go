package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/wasteland-engine/internal/game"
	"github.com/jwebster45206/wasteland-engine/pkg/action"
	"github.com/jwebster45206/wasteland-engine/pkg/engine"
	"github.com/jwebster45206/wasteland-engine/pkg/narrative"
	"github.com/jwebster45206/wasteland-engine/pkg/queue"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/storage"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T) (*mux.Router, *storage.MockStorage) {
	t.Helper()
	logger := testLogger()
	store := storage.NewMockStorage()
	eng := engine.New(action.NewRuleInterpreter(), narrative.NewStaticNarrator(), logger)
	runner := game.NewRunner(store, eng, nil, logger)

	return NewRouter(RouterConfig{
		Runner:      runner,
		Storage:     store,
		LLMProvider: "none",
		CORSOrigins: []string{"*"},
		Logger:      logger,
	}), store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createGame(t *testing.T, h http.Handler) TurnResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/games", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[TurnResponse](t, rec)
}

func TestGames_Create(t *testing.T) {
	h, _ := newTestRouter(t)

	resp := createGame(t, h)
	assert.NotEqual(t, uuid.Nil, resp.Game.ID)
	assert.Equal(t, world.DefaultID, resp.Game.WorldID)
	assert.Equal(t, "Ecos Nucleares", resp.Game.Title)
	assert.Equal(t, 100, resp.Game.Status.PlayerHealth)
	assert.Equal(t, 100, resp.Game.Status.MaxPlayerHealth)
	assert.NotEmpty(t, resp.Game.Status.Location)
	assert.Empty(t, resp.Game.Inventory)
	require.NotEmpty(t, resp.Logs)
	assert.Equal(t, len(resp.Logs), len(resp.Game.Log))
}

func TestGames_CreateErrors(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/games", `{"world":"atlantida"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "World not found", decodeBody[ErrorResponse](t, rec).Error)

	rec = do(t, h, http.MethodPost, "/v1/games", `{"world":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGames_GetAndDelete(t *testing.T) {
	h, _ := newTestRouter(t)
	created := createGame(t, h)
	path := "/v1/games/" + created.Game.ID.String()

	rec := do(t, h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody[GameView](t, rec)
	assert.Equal(t, created.Game.ID, view.ID)
	assert.Equal(t, created.Game.Log, view.Log)

	rec = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/games/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGames_Command(t *testing.T) {
	h, _ := newTestRouter(t)
	created := createGame(t, h)
	path := "/v1/games/" + created.Game.ID.String() + "/commands"

	rec := do(t, h, http.MethodPost, path, `{"command":"abre el botiquín"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[TurnResponse](t, rec)

	require.NotEmpty(t, resp.Logs)
	assert.Equal(t, state.LogPlayer, resp.Logs[0].Kind)
	assert.Equal(t, "abre el botiquín", resp.Logs[0].Text)
	assert.Equal(t, len(created.Game.Log)+len(resp.Logs), len(resp.Game.Log))

	rec = do(t, h, http.MethodPost, path, `{"command":"coge la venda"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decodeBody[TurnResponse](t, rec)
	assert.Equal(t, []string{"Venda Estéril"}, resp.Game.Inventory)

	rec = do(t, h, http.MethodPost, path, `{"command":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/games/"+uuid.NewString()+"/commands", `{"command":"norte"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGames_CommandWhileLocked(t *testing.T) {
	h, store := newTestRouter(t)
	created := createGame(t, h)

	_, ok, err := store.AcquireTurnLock(context.Background(), created.Game.ID)
	require.NoError(t, err)
	require.True(t, ok)

	rec := do(t, h, http.MethodPost, "/v1/games/"+created.Game.ID.String()+"/commands", `{"command":"afuera"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGames_Action(t *testing.T) {
	h, _ := newTestRouter(t)
	created := createGame(t, h)
	path := "/v1/games/" + created.Game.ID.String() + "/actions"

	rec := do(t, h, http.MethodPost, path, `{"action":"goto","target":"Afuera"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[TurnResponse](t, rec)
	assert.Equal(t, "Páramo Desértico", resp.Game.Status.Location)
	for _, e := range resp.Logs {
		assert.NotEqual(t, state.LogPlayer, e.Kind)
	}

	rec = do(t, h, http.MethodPost, path, `{"target":"norte"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorlds_List(t *testing.T) {
	h, store := newTestRouter(t)
	custom := world.Default()
	custom.ID = "refugio"
	custom.Title = "Refugio 7"
	store.AddWorld(custom)

	rec := do(t, h, http.MethodGet, "/v1/worlds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[WorldsResponse](t, rec)
	assert.Equal(t, []WorldSummary{
		{ID: world.DefaultID, Title: "Ecos Nucleares"},
		{ID: "refugio", Title: "Refugio 7"},
	}, resp.Worlds)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedHealth string
		expectedStore  string
	}{
		{"healthy", nil, http.StatusOK, "healthy", "healthy"},
		{"storage down", errors.New("connection refused"), http.StatusServiceUnavailable, "degraded", "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newTestRouter(t)
			store.SetPingError(tt.pingErr)

			rec := do(t, h, http.MethodGet, "/health", "")
			assert.Equal(t, tt.expectedStatus, rec.Code)

			resp := decodeBody[HealthResponse](t, rec)
			assert.Equal(t, tt.expectedHealth, resp.Status)
			assert.Equal(t, tt.expectedStore, resp.Components["storage"])
			assert.Equal(t, "none", resp.Components["llm_provider"])
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/games", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_EventsDisabledWithoutSubscriber(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/games/"+uuid.NewString()+"/events", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type recordingQueue struct {
	requests []*queue.Request
	err      error
}

func (q *recordingQueue) Enqueue(ctx context.Context, req *queue.Request) error {
	if q.err != nil {
		return q.err
	}
	q.requests = append(q.requests, req)
	return nil
}

func TestGames_AsyncTurns(t *testing.T) {
	logger := testLogger()
	store := storage.NewMockStorage()
	eng := engine.New(action.NewRuleInterpreter(), narrative.NewStaticNarrator(), logger)
	q := &recordingQueue{}
	h := NewRouter(RouterConfig{
		Runner:      game.NewRunner(store, eng, nil, logger),
		Storage:     store,
		Queue:       q,
		LLMProvider: "none",
		Logger:      logger,
	})
	created := createGame(t, h)
	base := "/v1/games/" + created.Game.ID.String()

	rec := do(t, h, http.MethodPost, base+"/commands?async=true", `{"command":" afuera "}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	accepted := decodeBody[AcceptedResponse](t, rec)
	assert.Equal(t, "queued", accepted.Status)
	assert.Equal(t, created.Game.ID, accepted.GameID)

	rec = do(t, h, http.MethodPost, base+"/actions?async=true", `{"action":"open","target":"botiquín"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	require.Len(t, q.requests, 2)
	assert.Equal(t, accepted.RequestID, q.requests[0].RequestID)
	assert.Equal(t, queue.RequestTypeCommand, q.requests[0].Type)
	assert.Equal(t, "afuera", q.requests[0].Command)
	assert.Equal(t, queue.RequestTypeAction, q.requests[1].Type)
	assert.Equal(t, "open", q.requests[1].Action)

	// queued turns do not touch the game until a worker runs them
	saved, err := store.LoadGameState(context.Background(), created.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, "cockpit", saved.CurrentLocationID)

	rec = do(t, h, http.MethodPost, base+"/commands?async=true", `{"command":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/games/"+uuid.NewString()+"/commands?async=true", `{"command":"norte"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	q.err = errors.New("redis down")
	rec = do(t, h, http.MethodPost, base+"/commands?async=true", `{"command":"norte"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Len(t, q.requests, 2)
}

func TestGames_AsyncWithoutQueue(t *testing.T) {
	h, _ := newTestRouter(t)
	created := createGame(t, h)

	rec := do(t, h, http.MethodPost, "/v1/games/"+created.Game.ID.String()+"/commands?async=true", `{"command":"norte"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
