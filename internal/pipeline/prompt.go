package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/exercise-enricher/internal/exercises"
	"github.com/jonathan/exercise-enricher/internal/prompts"
)

// BuildPrompt constructs the enrichment prompt for one exercise from its
// category, equipment and existing translations.
func BuildPrompt(ex exercises.Exercise) string {
	template := prompts.MustGet("enrichment.json", "enrich-exercise")
	return prompts.Format(template, map[string]string{
		"ExerciseID":   strconv.Itoa(ex.ID),
		"Category":     categoryLine(ex),
		"Equipment":    equipmentLine(ex),
		"ExistingInfo": existingInfo(ex),
	})
}

func categoryLine(ex exercises.Exercise) string {
	if ex.Category.Name == "" {
		return "Unknown"
	}
	return ex.Category.Name
}

func equipmentLine(ex exercises.Exercise) string {
	if len(ex.Equipment) == 0 {
		return "None specified"
	}
	names := make([]string, 0, len(ex.Equipment))
	for _, eq := range ex.Equipment {
		if eq.Name != "" {
			names = append(names, eq.Name)
		}
	}
	if len(names) == 0 {
		return "None specified"
	}
	return strings.Join(names, ", ")
}

// existingInfo renders the exercise's existing translations as prompt lines.
// Descriptions in the source catalog carry HTML markup, which is stripped.
func existingInfo(ex exercises.Exercise) string {
	var lines []string
	for _, tr := range ex.Translations {
		if tr.Name != "" {
			lines = append(lines, fmt.Sprintf("- Name (lang %s): %s", tr.Language, tr.Name))
		}
		if desc := stripHTML(tr.Description); desc != "" {
			lines = append(lines, fmt.Sprintf("- Description (lang %s): %s", tr.Language, desc))
		}
	}
	if len(lines) == 0 {
		return "No existing translations"
	}
	return strings.Join(lines, "\n")
}

// stripHTML returns the text content of an HTML fragment.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
