package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// Output is the durable, grow-only collection of enrichment records, keyed
// by exercise id. At most one record per id ever exists.
type Output struct {
	path    string
	records []Record
	ids     map[int]bool
}

// NewOutput creates an output store backed by the given file. Call Load
// before first use.
func NewOutput(path string) *Output {
	return &Output{
		path: path,
		ids:  make(map[int]bool),
	}
}

// Load reads the persisted record collection. Same non-fatal semantics as
// Progress.Load: a missing file is a fresh start; a corrupt file leaves the
// collection empty and returns the error for warning-level reporting.
func (o *Output) Load() error {
	o.records = nil
	o.ids = make(map[int]bool)

	data, err := os.ReadFile(o.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read output file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse output file: %w", err)
	}

	o.records = records
	for _, rec := range records {
		o.ids[rec.ID] = true
	}

	return nil
}

// Has reports whether a record exists for the exercise id.
func (o *Output) Has(id int) bool {
	return o.ids[id]
}

// Count returns the number of stored records.
func (o *Output) Count() int {
	return len(o.records)
}

// IDs returns the ids of all stored records in ascending order. A resumed
// run reconciles these against the progress set: a record whose id is not
// yet marked done means the previous run stopped between the two commit
// writes, and the item is treated as already done.
func (o *Output) IDs() []int {
	ids := make([]int, 0, len(o.ids))
	for id := range o.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Records returns the stored records in insertion order.
func (o *Output) Records() []Record {
	return o.records
}

// Append adds a record and persists the full collection atomically. A record
// whose id is already present is rejected with a DuplicateError before
// anything is written. The whole-collection rewrite is O(n) per append,
// which is accepted for the catalog sizes this pipeline targets.
func (o *Output) Append(_ context.Context, rec Record) error {
	if o.ids[rec.ID] {
		return &DuplicateError{ID: rec.ID}
	}

	o.records = append(o.records, rec)
	o.ids[rec.ID] = true

	if err := o.save(); err != nil {
		return err
	}
	return nil
}

// save writes the full record collection atomically via a temp file.
func (o *Output) save() error {
	data, err := json.MarshalIndent(o.records, "", "  ")
	if err != nil {
		return &WriteError{Path: o.path, Cause: err}
	}

	if err := writeFileAtomic(o.path, data); err != nil {
		return &WriteError{Path: o.path, Cause: err}
	}
	return nil
}
