package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// progressState is the persisted shape of the progress file.
type progressState struct {
	ProcessedExerciseIDs []int     `json:"processed_exercise_ids"`
	LastUpdated          time.Time `json:"last_updated"`
	TotalProcessed       int       `json:"total_processed"`
	Provider             string    `json:"provider"`
}

// Progress is the durable set of exercise ids already enriched. It is the
// source of truth for skipping completed work on a resumed run. Ids are only
// ever added, never removed.
type Progress struct {
	path     string
	provider string
	done     map[int]bool
}

// NewProgress creates a progress store backed by the given file. Call Load
// before first use.
func NewProgress(path, provider string) *Progress {
	return &Progress{
		path:     path,
		provider: provider,
		done:     make(map[int]bool),
	}
}

// Load reads the persisted completed-id set. A missing file is a fresh
// start; an unreadable or corrupt file leaves the set empty and returns the
// error so the caller can report a warning. Load never aborts a run.
func (p *Progress) Load() error {
	p.done = make(map[int]bool)

	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read progress file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var state progressState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parse progress file: %w", err)
	}

	for _, id := range state.ProcessedExerciseIDs {
		p.done[id] = true
	}
	// Keep the persisted label for read-only consumers; a store constructed
	// with an explicit provider keeps writing its own label.
	if p.provider == "" {
		p.provider = state.Provider
	}

	return nil
}

// Provider returns the provider/model label the progress set was written
// with. After Load this is the persisted label when one exists.
func (p *Progress) Provider() string {
	return p.provider
}

// IsDone reports whether the exercise id has been completed.
func (p *Progress) IsDone(id int) bool {
	return p.done[id]
}

// Count returns the number of completed ids.
func (p *Progress) Count() int {
	return len(p.done)
}

// IDs returns the completed ids in ascending order.
func (p *Progress) IDs() []int {
	ids := make([]int, 0, len(p.done))
	for id := range p.done {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MarkDone adds the id to the completed set (a no-op if already present) and
// persists the full snapshot. A persist failure is returned as a WriteError;
// the in-memory set keeps the id either way, so the current run will not
// re-attempt the item.
func (p *Progress) MarkDone(_ context.Context, id int) error {
	p.done[id] = true

	if err := p.save(); err != nil {
		return err
	}
	return nil
}

// save writes the full progress snapshot atomically via a temp file.
func (p *Progress) save() error {
	state := progressState{
		ProcessedExerciseIDs: p.IDs(),
		LastUpdated:          time.Now().UTC(),
		TotalProcessed:       len(p.done),
		Provider:             p.provider,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return &WriteError{Path: p.path, Cause: err}
	}

	if err := writeFileAtomic(p.path, data); err != nil {
		return &WriteError{Path: p.path, Cause: err}
	}
	return nil
}

// writeFileAtomic writes data to path using write-to-temp then rename so a
// crash mid-write never leaves a truncated file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
