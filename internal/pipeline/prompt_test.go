package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/exercise-enricher/internal/exercises"
)

func TestBuildPrompt_FullExercise(t *testing.T) {
	ex := exercises.Exercise{
		ID:       167,
		Category: exercises.Category{ID: 8, Name: "Arms"},
		Equipment: []exercises.Equipment{
			{ID: 3, Name: "Dumbbell"},
			{ID: 8, Name: "Bench"},
		},
		Translations: []exercises.Translation{
			{Name: "Biceps Curl", Description: "<p>Curl the <strong>weight</strong> up.</p>", Language: "en"},
		},
	}

	prompt := BuildPrompt(ex)
	assert.Contains(t, prompt, "Exercise ID: 167")
	assert.Contains(t, prompt, "Category: Arms")
	assert.Contains(t, prompt, "Equipment: Dumbbell, Bench")
	assert.Contains(t, prompt, "- Name (lang en): Biceps Curl")
	assert.Contains(t, prompt, "- Description (lang en): Curl the weight up.")
	assert.NotContains(t, prompt, "<strong>")
	assert.Contains(t, prompt, "Return ONLY a valid JSON object")
}

func TestBuildPrompt_BareExercise(t *testing.T) {
	prompt := BuildPrompt(exercises.Exercise{ID: 9})
	assert.Contains(t, prompt, "Category: Unknown")
	assert.Contains(t, prompt, "Equipment: None specified")
	assert.Contains(t, prompt, "No existing translations")
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "paragraph tags", input: "<p>Keep your back straight.</p>", expected: "Keep your back straight."},
		{name: "nested markup", input: "<div><ul><li>One</li></ul></div>", expected: "One"},
		{name: "plain text", input: "No markup here", expected: "No markup here"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripHTML(tt.input)
			if result != tt.expected {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
