package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed enrichment.schema.json
var schemaJSON string

// previewLimit bounds the excerpt of unparsable response text carried in a
// MalformedError.
const previewLimit = 200

// Validate checks a raw provider response against the enrichment result
// schema. It strips surrounding code-fence markup, parses the text as JSON
// and enforces the schema field by field. The first violated rule determines
// the returned error; a single violation rejects the whole response. On
// success the fully parsed result is returned unmodified.
func Validate(raw string) (*Result, error) {
	text := CleanJSONBlock(raw)

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &MalformedError{Preview: preview(raw), Cause: err}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &ViolationError{Field: "(root)", Message: "expected a JSON object"}
	}

	if err := checkDocument(obj); err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &MalformedError{Preview: preview(raw), Cause: err}
	}

	return &result, nil
}

// checkDocument enforces the schema rules in a fixed order so the first
// violation is deterministic.
func checkDocument(obj map[string]any) error {
	muscleRaw, ok := obj["muscle"]
	if !ok {
		return &ViolationError{Field: "muscle", Message: "required field is missing"}
	}
	muscle, ok := muscleRaw.(map[string]any)
	if !ok {
		return &ViolationError{Field: "muscle", Message: "expected an object"}
	}
	if err := checkString(muscle, "muscle", "name"); err != nil {
		return err
	}
	if err := checkString(muscle, "muscle", "name_en"); err != nil {
		return err
	}

	translationsRaw, ok := obj["translations"]
	if !ok {
		return &ViolationError{Field: "translations", Message: "required field is missing"}
	}
	translations, ok := translationsRaw.([]any)
	if !ok {
		return &ViolationError{Field: "translations", Message: "expected an array"}
	}
	if len(translations) != TranslationCount {
		return &ViolationError{
			Field:   "translations",
			Message: fmt.Sprintf("expected exactly %d entries, got %d", TranslationCount, len(translations)),
		}
	}

	seen := make(map[string]bool, TranslationCount)
	for i, entryRaw := range translations {
		path := fmt.Sprintf("translations[%d]", i)

		entry, ok := entryRaw.(map[string]any)
		if !ok {
			return &ViolationError{Field: path, Message: "expected an object"}
		}

		if err := checkString(entry, path, "language"); err != nil {
			return err
		}
		language := entry["language"].(string)
		if language != LanguageEnglish && language != LanguageSpanish {
			return &ViolationError{
				Field:   path + ".language",
				Message: fmt.Sprintf("language %q is not one of [%s, %s]", language, LanguageEnglish, LanguageSpanish),
			}
		}
		if seen[language] {
			return &ViolationError{
				Field:   path + ".language",
				Message: fmt.Sprintf("duplicate language %q", language),
			}
		}
		seen[language] = true

		if err := checkString(entry, path, "name"); err != nil {
			return err
		}
		if err := checkString(entry, path, "description"); err != nil {
			return err
		}
		if err := checkStringArray(entry, path, "aliases"); err != nil {
			return err
		}
		if err := checkStringArray(entry, path, "notes"); err != nil {
			return err
		}
	}

	return nil
}

// checkString requires a present, non-empty string field.
func checkString(obj map[string]any, path, field string) error {
	full := path + "." + field
	raw, ok := obj[field]
	if !ok {
		return &ViolationError{Field: full, Message: "required field is missing"}
	}
	value, ok := raw.(string)
	if !ok {
		return &ViolationError{Field: full, Message: "expected a string"}
	}
	if strings.TrimSpace(value) == "" {
		return &ViolationError{Field: full, Message: "must not be empty"}
	}
	return nil
}

// checkStringArray requires a present array field whose elements are strings.
func checkStringArray(obj map[string]any, path, field string) error {
	full := path + "." + field
	raw, ok := obj[field]
	if !ok {
		return &ViolationError{Field: full, Message: "required field is missing"}
	}
	values, ok := raw.([]any)
	if !ok {
		return &ViolationError{Field: full, Message: "expected an array"}
	}
	for i, v := range values {
		if _, ok := v.(string); !ok {
			return &ViolationError{
				Field:   fmt.Sprintf("%s[%d]", full, i),
				Message: "expected a string",
			}
		}
	}
	return nil
}

// preview returns a truncated excerpt of the offending response text.
func preview(raw string) string {
	text := strings.TrimSpace(raw)
	if len(text) > previewLimit {
		return text[:previewLimit] + "..."
	}
	return text
}

// FieldError is a single structural error reported by ValidateDocument.
type FieldError struct {
	Field   string
	Message string
}

// DocumentError aggregates the structural errors found in a document.
type DocumentError struct {
	Errors []FieldError
}

func (e *DocumentError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateDocument validates JSON content against the embedded enrichment
// schema using JSON Schema. It is used to verify persisted enrichments
// outside the pipeline; the per-item path goes through Validate, which
// reports the first violation only.
func ValidateDocument(jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed during load: %w", err)
	}

	if result.Valid() {
		return nil
	}

	docErr := &DocumentError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		docErr.Errors = append(docErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return docErr
}
