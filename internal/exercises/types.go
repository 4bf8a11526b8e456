// Package exercises provides the input types and loader for the exercise
// catalog the pipeline enriches.
package exercises

// Category is the exercise category as supplied by the source catalog.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Equipment is a piece of equipment referenced by an exercise.
type Equipment struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Translation is an existing localized name/description pair on the source
// exercise. Description may contain HTML markup.
type Translation struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// Exercise is one input unit to be enriched. IDs are assumed unique across
// the catalog; the loader does not enforce uniqueness.
type Exercise struct {
	ID           int           `json:"id"`
	UUID         string        `json:"uuid,omitempty"`
	Category     Category      `json:"category"`
	Equipment    []Equipment   `json:"equipment"`
	Translations []Translation `json:"translations"`
}
