package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu         sync.RWMutex
	gamestates map[uuid.UUID]*state.GameState
	worlds     map[string]*world.World
	locks      map[uuid.UUID]string
	pingError  error
	saveError  error

	SaveCalls int

	refreshCalls int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage holding the bundled world
func NewMockStorage() *MockStorage {
	return &MockStorage{
		gamestates: make(map[uuid.UUID]*state.GameState),
		worlds:     map[string]*world.World{world.DefaultID: world.Default()},
		locks:      make(map[uuid.UUID]string),
	}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on save with the given error
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveGameState mocks saving a gamestate
func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gamestate *state.GameState) error {
	if gamestate == nil {
		return errors.New("gamestate cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.saveError != nil {
		return m.saveError
	}
	m.gamestates[id] = gamestate.Clone()
	return nil
}

// LoadGameState mocks loading a gamestate
func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gamestate, exists := m.gamestates[id]
	if !exists {
		return nil, nil // Return nil for not found
	}
	return gamestate.Clone(), nil
}

// DeleteGameState mocks deleting a gamestate
func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gamestates, id)
	return nil
}

// ListWorlds mocks listing worlds
func (m *MockStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.worlds))
	for id, w := range m.worlds {
		result[id] = w.Title
	}
	return result, nil
}

// GetWorld mocks getting a world template by id
func (m *MockStorage) GetWorld(ctx context.Context, worldID string) (*world.World, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, exists := m.worlds[worldID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, worldID)
	}
	return w.Clone(), nil
}

// AddWorld adds a world template to the mock storage (for testing)
func (m *MockStorage) AddWorld(w *world.World) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worlds[w.ID] = w
}

// AcquireTurnLock mocks taking the per-game turn lock
func (m *MockStorage) AcquireTurnLock(ctx context.Context, id uuid.UUID) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[id]; held {
		return "", false, nil
	}
	token := uuid.NewString()
	m.locks[id] = token
	return token, true, nil
}

// ReleaseTurnLock mocks releasing the per-game turn lock. Only the owner's
// token releases it.
func (m *MockStorage) ReleaseTurnLock(ctx context.Context, id uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[id] == token {
		delete(m.locks, id)
	}
	return nil
}

// RefreshTurnLock mocks extending the lock. The mock lock never expires.
func (m *MockStorage) RefreshTurnLock(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
	return m.locks[id] == token, nil
}

// SaveGameStateLocked mocks an ownership-checked save
func (m *MockStorage) SaveGameStateLocked(ctx context.Context, id uuid.UUID, token string, gamestate *state.GameState) error {
	m.mu.RLock()
	owned := m.locks[id] == token
	m.mu.RUnlock()
	if !owned {
		return ErrLockLost
	}
	return m.SaveGameState(ctx, id, gamestate)
}

// RefreshCount reports how many times RefreshTurnLock was called (for testing)
func (m *MockStorage) RefreshCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshCalls
}

// ExpireTurnLock drops a game's lock as if its TTL ran out (for testing)
func (m *MockStorage) ExpireTurnLock(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, id)
}

// IsLocked reports whether a game's turn lock is held (for testing)
func (m *MockStorage) IsLocked(id uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, held := m.locks[id]
	return held
}
