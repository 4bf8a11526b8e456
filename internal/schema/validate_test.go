package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `{
	"muscle": {"name": "Bíceps", "name_en": "Biceps"},
	"translations": [
		{
			"language": "en",
			"name": "Biceps Curl",
			"description": "Curl the dumbbell toward your shoulder, keeping the elbow fixed.",
			"aliases": ["Dumbbell Curl"],
			"notes": ["Keep your back straight."]
		},
		{
			"language": "es",
			"name": "Curl de bíceps",
			"description": "Flexiona el codo llevando la mancuerna hacia el hombro.",
			"aliases": [],
			"notes": []
		}
	]
}`

func TestValidate_WellFormedResponse(t *testing.T) {
	result, err := Validate(validResponse)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Bíceps", result.Muscle.Name)
	assert.Equal(t, "Biceps", result.Muscle.NameEn)
	require.Len(t, result.Translations, 2)
	assert.Equal(t, "en", result.Translations[0].Language)
	assert.Equal(t, []string{"Dumbbell Curl"}, result.Translations[0].Aliases)
	assert.Equal(t, "es", result.Translations[1].Language)
	assert.Empty(t, result.Translations[1].Aliases)
}

func TestValidate_CodeFencedResponse(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	result, err := Validate(fenced)
	require.NoError(t, err)
	assert.Equal(t, "Biceps", result.Muscle.NameEn)
}

func TestValidate_MalformedText(t *testing.T) {
	result, err := Validate("The exercise targets the biceps, mainly.")
	assert.Nil(t, result)

	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Preview, "The exercise targets")
}

func TestValidate_PreviewTruncation(t *testing.T) {
	_, err := Validate("not json " + strings.Repeat("x", 500))

	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.LessOrEqual(t, len(malformed.Preview), previewLimit+len("..."))
	assert.True(t, strings.HasSuffix(malformed.Preview, "..."))
}

func TestValidate_RootNotObject(t *testing.T) {
	_, err := Validate(`[1, 2, 3]`)

	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "(root)", violation.Field)
}

func TestValidate_MissingMuscle(t *testing.T) {
	_, err := Validate(`{"translations": []}`)

	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "muscle", violation.Field)
	assert.Contains(t, violation.Message, "missing")
}

func TestValidate_TranslationCounts(t *testing.T) {
	single := `{
		"muscle": {"name": "Pecho", "name_en": "Chest"},
		"translations": [
			{"language": "en", "name": "Bench Press", "description": "Press the bar.", "aliases": [], "notes": []}
		]
	}`
	_, err := Validate(single)

	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "translations", violation.Field)
	assert.Contains(t, violation.Message, "exactly 2")

	entry := `{"language": "en", "name": "Bench Press", "description": "Press the bar.", "aliases": [], "notes": []}`
	triple := `{
		"muscle": {"name": "Pecho", "name_en": "Chest"},
		"translations": [` + entry + `, ` + entry + `, ` + entry + `]
	}`
	_, err = Validate(triple)
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "translations", violation.Field)
}

func TestValidate_DisallowedLanguage(t *testing.T) {
	response := `{
		"muscle": {"name": "Pecho", "name_en": "Chest"},
		"translations": [
			{"language": "en", "name": "Bench Press", "description": "Press the bar.", "aliases": [], "notes": []},
			{"language": "fr", "name": "Développé couché", "description": "Poussez la barre.", "aliases": [], "notes": []}
		]
	}`
	_, err := Validate(response)

	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "translations[1].language", violation.Field)
	assert.Contains(t, violation.Message, `"fr"`)
}

func TestValidate_DuplicateLanguage(t *testing.T) {
	response := `{
		"muscle": {"name": "Pecho", "name_en": "Chest"},
		"translations": [
			{"language": "en", "name": "Bench Press", "description": "Press the bar.", "aliases": [], "notes": []},
			{"language": "en", "name": "Bench Press", "description": "Press the bar.", "aliases": [], "notes": []}
		]
	}`
	_, err := Validate(response)

	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "translations[1].language", violation.Field)
	assert.Contains(t, violation.Message, "duplicate")
}

func TestValidate_AliasesMustBeArray(t *testing.T) {
	response := `{
		"muscle": {"name": "Pecho", "name_en": "Chest"},
		"translations": [
			{"language": "en", "name": "Bench Press", "description": "Press the bar.", "aliases": "Bench", "notes": []},
			{"language": "es", "name": "Press de banca", "description": "Empuja la barra.", "aliases": [], "notes": []}
		]
	}`
	_, err := Validate(response)

	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "translations[0].aliases", violation.Field)
	assert.Contains(t, violation.Message, "expected an array")
}

func TestValidate_EmptyDescription(t *testing.T) {
	response := `{
		"muscle": {"name": "Pecho", "name_en": "Chest"},
		"translations": [
			{"language": "en", "name": "Bench Press", "description": "  ", "aliases": [], "notes": []},
			{"language": "es", "name": "Press de banca", "description": "Empuja la barra.", "aliases": [], "notes": []}
		]
	}`
	_, err := Validate(response)

	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "translations[0].description", violation.Field)
}

func TestValidateDocument_Valid(t *testing.T) {
	assert.NoError(t, ValidateDocument(validResponse))
}

func TestValidateDocument_Invalid(t *testing.T) {
	err := ValidateDocument(`{"muscle": {"name": "Pecho"}, "translations": []}`)
	require.Error(t, err)

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.NotEmpty(t, docErr.Errors)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language identifier",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"key\": \"value\"}\n  ",
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}
