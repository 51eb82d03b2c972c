package world

import (
	_ "embed"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultID is the id of the world bundled with the engine.
const DefaultID = "ecos_nucleares"

//go:embed worlds/ecos_nucleares.json
var defaultWorldJSON []byte

// Format is the encoding of a world file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Returns false for
// anything that is not .json, .yaml or .yml.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// Load decodes and validates a world template.
func Load(r io.Reader, format Format) (*World, error) {
	var w World
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&w); err != nil {
			return nil, fmt.Errorf("failed to decode world json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&w); err != nil {
			return nil, fmt.Errorf("failed to decode world yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported world format %q", format)
	}
	w.normalize()
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid world %q: %w", w.ID, err)
	}
	return &w, nil
}

// LoadFile reads a world template from disk. The world id defaults to the
// file name without extension.
func LoadFile(path string) (*World, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported world file extension: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open world file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w, err := Load(f, format)
	if err != nil {
		return nil, err
	}
	if w.ID == "" {
		w.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return w, nil
}

var defaultWorld = sync.OnceValues(func() (*World, error) {
	return Load(bytes.NewReader(defaultWorldJSON), FormatJSON)
})

// Default returns a fresh copy of the bundled "Ecos Nucleares" world.
func Default() *World {
	w, err := defaultWorld()
	if err != nil {
		panic(fmt.Sprintf("bundled world is invalid: %v", err))
	}
	return w.Clone()
}

// normalize fills ids from map keys and replaces nil lists with empty ones.
func (w *World) normalize() {
	if w.Locations == nil {
		w.Locations = map[string]*Location{}
	}
	if w.Items == nil {
		w.Items = map[string]*Item{}
	}
	if w.Enemies == nil {
		w.Enemies = map[string]*Enemy{}
	}
	for id, loc := range w.Locations {
		if loc.ID == "" {
			loc.ID = id
		}
		if loc.Items == nil {
			loc.Items = []string{}
		}
		if loc.Exits == nil {
			loc.Exits = map[string]string{}
		}
	}
	for id, it := range w.Items {
		if it.ID == "" {
			it.ID = id
		}
	}
	for id, e := range w.Enemies {
		if e.ID == "" {
			e.ID = id
		}
		if e.Health == 0 && e.MaxHealth > 0 {
			e.Health = e.MaxHealth
		}
	}
}
