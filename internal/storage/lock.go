package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/storage"
)

// TurnLockTTL bounds how long a crashed turn can block its game. A live
// turn keeps its lock with RefreshTurnLock.
const TurnLockTTL = 30 * time.Second

// releaseScript deletes the lock only if we still own it
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// refreshScript extends the lock only if we still own it
var refreshScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// lockedSaveScript writes the game state only while the lock is ours
var lockedSaveScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) ~= ARGV[1] then
		return 0
	end
	redis.call("set", KEYS[2], ARGV[2], "PX", ARGV[3])
	return 1
`)

func turnLockKey(id uuid.UUID) string {
	return fmt.Sprintf("turn-lock:%s", id.String())
}

// AcquireTurnLock attempts to take the per-game turn lock.
// Returns the owner token and true if the lock was acquired.
func (r *RedisStorage) AcquireTurnLock(ctx context.Context, id uuid.UUID) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, turnLockKey(id), token, TurnLockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire turn lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseTurnLock releases the lock if token still owns it
func (r *RedisStorage) ReleaseTurnLock(ctx context.Context, id uuid.UUID, token string) error {
	if err := releaseScript.Run(ctx, r.client, []string{turnLockKey(id)}, token).Err(); err != nil {
		r.logger.Error("Failed to release turn lock", "error", err, "game_id", id.String())
		return fmt.Errorf("failed to release turn lock: %w", err)
	}
	return nil
}

// RefreshTurnLock resets the lock's expiry. Returns false if token no
// longer owns the lock.
func (r *RedisStorage) RefreshTurnLock(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	n, err := refreshScript.Run(ctx, r.client, []string{turnLockKey(id)}, token, TurnLockTTL.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to refresh turn lock: %w", err)
	}
	return n == 1, nil
}

// SaveGameStateLocked stores the session like SaveGameState, but only if
// token still owns the game's turn lock. Otherwise nothing is written and
// storage.ErrLockLost is returned.
func (r *RedisStorage) SaveGameStateLocked(ctx context.Context, id uuid.UUID, token string, gs *state.GameState) error {
	gs.UpdatedAt = time.Now()

	data, err := json.Marshal(gs)
	if err != nil {
		r.logger.Error("Failed to marshal gamestate", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}

	n, err := lockedSaveScript.Run(ctx, r.client,
		[]string{turnLockKey(id), gameStateKey(id)},
		token, data, r.ttl.Milliseconds()).Int()
	if err != nil {
		r.logger.Error("Failed to save gamestate", "uuid", id, "error", err)
		return fmt.Errorf("failed to save gamestate: %w", err)
	}
	if n == 0 {
		r.logger.Warn("Turn lock lost before save", "uuid", id)
		return storage.ErrLockLost
	}
	return nil
}
