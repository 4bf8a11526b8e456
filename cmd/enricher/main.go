// Package main provides the entry point for the exercise enrichment CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "enricher",
	Short: "Resumable AI enrichment for exercise catalogs",
	Long:  "Enricher processes an exercise catalog through an AI provider, producing validated structured enrichments. Completed work is checkpointed so an interrupted run resumes where it left off.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
