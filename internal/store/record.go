// Package store provides the durable progress and output stores for the
// enrichment pipeline. Each store is owned exclusively by one pipeline
// controller per process; the stores are not safe for concurrent writers.
package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/exercise-enricher/internal/exercises"
	"github.com/jonathan/exercise-enricher/internal/schema"
)

// Record is the durable result of successfully enriching one exercise.
// Created exactly once per exercise, immutable thereafter.
type Record struct {
	ID                   int                     `json:"id"`
	UUID                 string                  `json:"uuid"`
	OriginalCategory     exercises.Category      `json:"original_category"`
	OriginalEquipment    []exercises.Equipment   `json:"original_equipment"`
	OriginalTranslations []exercises.Translation `json:"original_translations"`
	Enrichment           schema.Result           `json:"enrichment"`
	ProcessedAt          time.Time               `json:"processed_at"`
	Provider             string                  `json:"provider"`
}

// NewRecord combines a source exercise with its validated enrichment.
// The source UUID is kept when present; otherwise one is minted.
func NewRecord(ex exercises.Exercise, result *schema.Result, provider string) Record {
	id := ex.UUID
	if id == "" {
		id = uuid.NewString()
	}
	return Record{
		ID:                   ex.ID,
		UUID:                 id,
		OriginalCategory:     ex.Category,
		OriginalEquipment:    ex.Equipment,
		OriginalTranslations: ex.Translations,
		Enrichment:           *result,
		ProcessedAt:          time.Now().UTC(),
		Provider:             provider,
	}
}
