package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

// ErrWorldNotFound is returned by GetWorld for unknown world ids
var ErrWorldNotFound = errors.New("world not found")

// ErrLockLost is returned by SaveGameStateLocked when the turn lock expired
// or passed to another owner
var ErrLockLost = errors.New("turn lock lost")

// Storage defines a unified interface for all storage operations
// This interface combines live game sessions (Redis) with world templates (filesystem)
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// GameState operations (Redis-backed, expire after the configured TTL)
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) // nil, nil when not found
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// World template operations (filesystem-backed, bundled world as fallback)
	ListWorlds(ctx context.Context) (map[string]string, error) // world id -> title
	GetWorld(ctx context.Context, worldID string) (*world.World, error)

	// Turn lock: at most one turn in flight per game.
	// AcquireTurnLock returns the owner token and whether the lock was taken.
	AcquireTurnLock(ctx context.Context, id uuid.UUID) (string, bool, error)
	ReleaseTurnLock(ctx context.Context, id uuid.UUID, token string) error
	// RefreshTurnLock extends a held lock; false means token lost it.
	RefreshTurnLock(ctx context.Context, id uuid.UUID, token string) (bool, error)
	// SaveGameStateLocked saves only while token owns the lock, else ErrLockLost.
	SaveGameStateLocked(ctx context.Context, id uuid.UUID, token string, gs *state.GameState) error
}
