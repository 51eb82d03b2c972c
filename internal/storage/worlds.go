package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jwebster45206/wasteland-engine/pkg/storage"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

func (r *RedisStorage) worldsDir() string {
	return filepath.Join(r.dataDir, "worlds")
}

// worldFiles maps world id to the loaded template for every valid world
// file under DATA_DIR/worlds. Invalid files are logged and skipped.
func (r *RedisStorage) worldFiles() (map[string]*world.World, error) {
	worlds := make(map[string]*world.World)

	err := filepath.WalkDir(r.worldsDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := world.FormatFromPath(path); !ok {
			return nil
		}

		w, err := world.LoadFile(path)
		if err != nil {
			r.logger.Warn("Skipping invalid world file", "path", path, "error", err)
			return nil
		}
		if _, dup := worlds[w.ID]; dup {
			r.logger.Warn("Duplicate world id, keeping first", "id", w.ID, "path", path)
			return nil
		}
		worlds[w.ID] = w
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Error("Failed to walk worlds directory", "error", err)
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}
	return worlds, nil
}

// ListWorlds returns world id -> title, always including the bundled world
func (r *RedisStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	files, err := r.worldFiles()
	if err != nil {
		return nil, err
	}

	out := map[string]string{world.DefaultID: world.Default().Title}
	for id, w := range files {
		out[id] = w.Title
	}
	return out, nil
}

// GetWorld returns a fresh template. Files on disk take precedence over
// the bundled world.
func (r *RedisStorage) GetWorld(ctx context.Context, worldID string) (*world.World, error) {
	files, err := r.worldFiles()
	if err != nil {
		return nil, err
	}
	if w, ok := files[worldID]; ok {
		return w, nil
	}
	if worldID == world.DefaultID {
		return world.Default(), nil
	}
	return nil, fmt.Errorf("%w: %s", storage.ErrWorldNotFound, worldID)
}
