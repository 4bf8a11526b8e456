package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/exercise-enricher/internal/schema"
	"github.com/jonathan/exercise-enricher/internal/store"
)

var validateCommand = &cobra.Command{
	Use:   "validate",
	Short: "Re-validate stored enrichments against the result schema",
	Long: `Loads an enriched output file and checks every stored enrichment against
the result schema. Useful after hand edits to the output file, or when the
schema has been tightened since the records were produced.`,
	RunE: validateCmd,
}

var validateOutput string

func init() {
	validateCommand.Flags().StringVarP(&validateOutput, "output", "o", "output/enriched_exercises.json", "Path to the enriched output JSON file")

	rootCmd.AddCommand(validateCommand)
}

func validateCmd(_ *cobra.Command, _ []string) error {
	output := store.NewOutput(validateOutput)
	if err := output.Load(); err != nil {
		return err
	}

	records := output.Records()
	if len(records) == 0 {
		fmt.Printf("No records found in %s\n", validateOutput)
		return nil
	}

	invalid := 0
	for _, rec := range records {
		data, err := json.Marshal(rec.Enrichment)
		if err != nil {
			return fmt.Errorf("marshal enrichment for exercise %d: %w", rec.ID, err)
		}
		if err := schema.ValidateDocument(string(data)); err != nil {
			invalid++
			fmt.Printf("Exercise %d: %v\n", rec.ID, err)
		}
	}

	fmt.Printf("Checked %d records: %d valid, %d invalid\n", len(records), len(records)-invalid, invalid)
	if invalid > 0 {
		return fmt.Errorf("%d of %d records failed validation", invalid, len(records))
	}
	return nil
}
