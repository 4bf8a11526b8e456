package schema

// Allowed language codes for enrichment translations.
const (
	LanguageEnglish = "en"
	LanguageSpanish = "es"
)

// TranslationCount is the exact number of locale variants an enrichment
// result must carry, one per allowed language.
const TranslationCount = 2

// Muscle is the primary muscle group targeted by an exercise, with both a
// localized and an English name.
type Muscle struct {
	Name   string `json:"name"`
	NameEn string `json:"name_en"`
}

// ResultTranslation is one locale variant of the generated enrichment.
type ResultTranslation struct {
	Language    string   `json:"language"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Aliases     []string `json:"aliases"`
	Notes       []string `json:"notes"`
}

// Result is the validated structured enrichment for one exercise.
type Result struct {
	Muscle       Muscle              `json:"muscle"`
	Translations []ResultTranslation `json:"translations"`
}
