package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/exercise-enricher/internal/exercises"
	"github.com/jonathan/exercise-enricher/internal/schema"
)

func testResult() *schema.Result {
	return &schema.Result{
		Muscle: schema.Muscle{Name: "Bíceps", NameEn: "Biceps"},
		Translations: []schema.ResultTranslation{
			{Language: "en", Name: "Biceps Curl", Description: "Curl the weight.", Aliases: []string{}, Notes: []string{}},
			{Language: "es", Name: "Curl de bíceps", Description: "Flexiona el codo.", Aliases: []string{}, Notes: []string{}},
		},
	}
}

func testExercise(id int) exercises.Exercise {
	return exercises.Exercise{
		ID:       id,
		Category: exercises.Category{ID: 8, Name: "Arms"},
	}
}

func TestOutput_AppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enriched.json")

	o := NewOutput(path)
	require.NoError(t, o.Load())

	rec := NewRecord(testExercise(1), testResult(), "gemini/test")
	require.NoError(t, o.Append(ctx, rec))
	require.NoError(t, o.Append(ctx, NewRecord(testExercise(2), testResult(), "gemini/test")))

	assert.Equal(t, 2, o.Count())
	assert.True(t, o.Has(1))
	assert.Equal(t, []int{1, 2}, o.IDs())

	reloaded := NewOutput(path)
	require.NoError(t, reloaded.Load())
	require.Equal(t, 2, reloaded.Count())

	// Insertion order survives the round trip
	records := reloaded.Records()
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, 2, records[1].ID)
	assert.Equal(t, "Biceps", records[0].Enrichment.Muscle.NameEn)
	assert.Equal(t, "gemini/test", records[0].Provider)
	assert.NotEmpty(t, records[0].UUID)
}

func TestOutput_RejectsDuplicateID(t *testing.T) {
	o := NewOutput(filepath.Join(t.TempDir(), "enriched.json"))
	require.NoError(t, o.Load())
	require.NoError(t, o.Append(ctx, NewRecord(testExercise(7), testResult(), "gemini/test")))

	err := o.Append(ctx, NewRecord(testExercise(7), testResult(), "gemini/test"))
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 7, dup.ID)

	// The duplicate was not stored
	assert.Equal(t, 1, o.Count())
}

func TestOutput_CorruptFileIsNonFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enriched.json")
	require.NoError(t, os.WriteFile(path, []byte("[{ truncated"), 0644))

	o := NewOutput(path)
	err := o.Load()
	assert.Error(t, err)
	assert.Equal(t, 0, o.Count())
}

func TestOutput_MissingFileIsFreshStart(t *testing.T) {
	o := NewOutput(filepath.Join(t.TempDir(), "enriched.json"))
	require.NoError(t, o.Load())
	assert.Equal(t, 0, o.Count())
	assert.Empty(t, o.IDs())
}

func TestNewRecord_KeepsSourceUUID(t *testing.T) {
	ex := testExercise(3)
	ex.UUID = "ae3328ba-d39c-4387-a2b5-9e2e8ea612a9"

	rec := NewRecord(ex, testResult(), "gemini/test")
	assert.Equal(t, "ae3328ba-d39c-4387-a2b5-9e2e8ea612a9", rec.UUID)
	assert.False(t, rec.ProcessedAt.IsZero())
}
