package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_EnrichPrompt(t *testing.T) {
	prompt, err := Get("enrichment.json", "enrich-exercise")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.ExerciseID}}")
	assert.Contains(t, prompt, "{{.Category}}")
	assert.Contains(t, prompt, "{{.Equipment}}")
	assert.Contains(t, prompt, "{{.ExistingInfo}}")
	assert.Contains(t, prompt, `"translations"`)
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("enrichment.json", "no-such-prompt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "enrich-exercise")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	result := Format("Exercise {{.ID}} in {{.Category}}", map[string]string{
		"ID":       "42",
		"Category": "Arms",
	})
	assert.Equal(t, "Exercise 42 in Arms", result)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("enrichment.json", "no-such-prompt")
	})
}
