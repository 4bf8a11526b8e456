package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonathan/exercise-enricher/internal/store"
)

// Progress is the Postgres-backed completed-id set. The set is mirrored in
// memory at Load time so membership checks stay cheap during the run; the
// table is the durable source of truth.
type Progress struct {
	db       *DB
	provider string
	done     map[int]bool
}

// NewProgress creates a Postgres progress store. Call Load before first use.
func NewProgress(db *DB, provider string) *Progress {
	return &Progress{
		db:       db,
		provider: provider,
		done:     make(map[int]bool),
	}
}

// Load reads the completed-id set from the database.
func (p *Progress) Load(ctx context.Context) error {
	p.done = make(map[int]bool)

	rows, err := p.db.pool.Query(ctx,
		`SELECT exercise_id, provider FROM enrichment_progress ORDER BY marked_at`)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var provider string
		if err := rows.Scan(&id, &provider); err != nil {
			return fmt.Errorf("scan progress row: %w", err)
		}
		p.done[id] = true
		if p.provider == "" {
			p.provider = provider
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	return nil
}

// Provider returns the provider/model label for the progress set. After
// Load this is the earliest persisted label when the store was constructed
// without one.
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

// MarkDone inserts the id into the progress table; re-marking an id is a
// no-op. As with the file store, a failed persist keeps the id marked in
// memory so the current run does not re-attempt the item.
func (p *Progress) MarkDone(ctx context.Context, id int) error {
	p.done[id] = true

	_, err := p.db.pool.Exec(ctx,
		`INSERT INTO enrichment_progress (exercise_id, provider)
		 VALUES ($1, $2)
		 ON CONFLICT (exercise_id) DO NOTHING`,
		id, p.provider,
	)
	if err != nil {
		return &store.WriteError{Path: "enrichment_progress", Cause: err}
	}
	return nil
}

// Output is the Postgres-backed enrichment record collection.
type Output struct {
	db      *DB
	records []store.Record
	ids     map[int]bool
}

// NewOutput creates a Postgres output store. Call Load before first use.
func NewOutput(db *DB) *Output {
	return &Output{
		db:  db,
		ids: make(map[int]bool),
	}
}

// Load reads all stored records in insertion order.
func (o *Output) Load(ctx context.Context) error {
	o.records = nil
	o.ids = make(map[int]bool)

	rows, err := o.db.pool.Query(ctx,
		`SELECT record FROM enrichments ORDER BY created_at, exercise_id`)
	if err != nil {
		return fmt.Errorf("load output: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("scan enrichment row: %w", err)
		}
		var rec store.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("unmarshal enrichment record: %w", err)
		}
		o.records = append(o.records, rec)
		o.ids[rec.ID] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load output: %w", err)
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

// IDs returns the ids of all stored records in ascending order.
func (o *Output) IDs() []int {
	ids := make([]int, 0, len(o.ids))
	for id := range o.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Records returns the stored records in insertion order.
func (o *Output) Records() []store.Record {
	return o.records
}

// Append inserts a record. Duplicate ids are rejected as a caller error
// before any statement runs; the primary key enforces the same rule against
// state the mirror has not seen.
func (o *Output) Append(ctx context.Context, rec store.Record) error {
	if o.ids[rec.ID] {
		return &store.DuplicateError{ID: rec.ID}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return &store.WriteError{Path: "enrichments", Cause: err}
	}

	_, err = o.db.pool.Exec(ctx,
		`INSERT INTO enrichments (exercise_id, record, provider)
		 VALUES ($1, $2, $3)`,
		rec.ID, data, rec.Provider,
	)
	if err != nil {
		return &store.WriteError{Path: "enrichments", Cause: err}
	}

	o.records = append(o.records, rec)
	o.ids[rec.ID] = true
	return nil
}
