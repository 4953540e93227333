package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/samdwyer/dungeongen/internal/world"
)

// JSONStore keeps the archive in a single local JSON file.
type JSONStore struct {
	filePath string
	logger   *slog.Logger
	mutex    sync.RWMutex
	data     *jsonData
}

// jsonData represents the structure of the JSON archive file.
type jsonData struct {
	Levels map[string]*jsonRecord `json:"levels"`
}

type jsonRecord struct {
	Summary Summary      `json:"summary"`
	Level   world.Export `json:"level"`
}

// NewJSONStore opens the archive at filePath, creating the file if it does not exist.
func NewJSONStore(filePath string, opts ...Option) (*JSONStore, error) {
	o := applyOptions(opts)
	store := &JSONStore{
		filePath: filePath,
		logger:   o.logger,
		data:     &jsonData{Levels: make(map[string]*jsonRecord)},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else if err := store.saveToFile(); err != nil {
		return nil, fmt.Errorf("failed to create JSON store file: %w", err)
	}

	store.logger.Debug("json store opened", "path", filePath, "levels", len(store.data.Levels))
	return store, nil
}

// loadFromFile loads data from the JSON file.
func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Levels == nil {
		js.data.Levels = make(map[string]*jsonRecord)
	}
	return nil
}

// saveToFile writes the whole archive back to disk. The caller must hold the write
// lock so concurrent saves never interleave on the file.
func (js *JSONStore) saveToFile() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(js.filePath, data, 0o644)
}

// Save archives a level.
func (js *JSONStore) Save(_ context.Context, level *world.Level) (string, error) {
	id := newID()
	export := level.Export()

	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Levels[id] = &jsonRecord{Summary: newSummary(id, export, time.Now()), Level: export}
	if err := js.saveToFile(); err != nil {
		delete(js.data.Levels, id)
		return "", fmt.Errorf("save level: %w", err)
	}

	js.logger.Debug("level saved", "id", id, "seed", export.Seed)
	return id, nil
}

// Load rebuilds a level by ID.
func (js *JSONStore) Load(_ context.Context, id string) (*world.Level, error) {
	js.mutex.RLock()
	record, exists := js.data.Levels[id]
	js.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("level %s: %w", id, ErrNotFound)
	}
	return world.FromExport(record.Level)
}

// List returns summaries of all archived levels, oldest first.
func (js *JSONStore) List(_ context.Context) ([]Summary, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	summaries := make([]Summary, 0, len(js.data.Levels))
	for _, record := range js.data.Levels {
		summaries = append(summaries, record.Summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Close closes the store (no-op for JSON store).
func (js *JSONStore) Close() error {
	return nil
}
