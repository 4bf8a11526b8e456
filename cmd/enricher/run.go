package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jonathan/exercise-enricher/internal/config"
	"github.com/jonathan/exercise-enricher/internal/db"
	"github.com/jonathan/exercise-enricher/internal/exercises"
	"github.com/jonathan/exercise-enricher/internal/llm"
	"github.com/jonathan/exercise-enricher/internal/pipeline"
	"github.com/jonathan/exercise-enricher/internal/store"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the enrichment pipeline over the exercise catalog",
	Long: `Processes every exercise not yet marked done: builds a prompt, calls the
provider, validates the response against the enrichment schema, and commits
the result. Interrupt at any time with Ctrl+C; completed work is saved and a
later run resumes where this one left off.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runEnrichmentCmd,
}

var (
	runConfigPath string
	runInput      string
	runOutput     string
	runProgress   string
	runProvider   string
	runModel      string
	runAPIKey     string
	runDelayMS    int
	runDBURL      string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runInput, "input", "i", "", "Path to the exercise catalog JSON file")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Path to the enriched output JSON file")
	runCommand.Flags().StringVar(&runProgress, "progress", "", "Path to the progress checkpoint JSON file")
	runCommand.Flags().StringVar(&runProvider, "provider", "", "Enrichment provider (gemini)")
	runCommand.Flags().StringVar(&runModel, "model", "", "Model name for the provider")
	runCommand.Flags().IntVar(&runDelayMS, "delay-ms", 0, "Delay between provider calls in milliseconds")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Provider API key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL selects the PostgreSQL store backend
	runCommand.Flags().StringVar(&runDBURL, "db-url", "", "PostgreSQL connection URL (optional; stores checkpoints in the database instead of files)")

	rootCmd.AddCommand(runCommand)
}

func runEnrichmentCmd(cmd *cobra.Command, _ []string) error {
	// Interrupts cancel the run cleanly; committed work stays resumable.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := mergedConfig(cmd)
	if err != nil {
		return err
	}

	// API key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	// Input catalog: the only run-fatal load
	items, err := exercises.Load(cfg.Input)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d exercises from %s\n", len(items), cfg.Input)

	llmCfg := cfg.LLMConfig()
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to initialize enrichment provider: %w", err)
	}
	defer func() { _ = client.Close() }()

	progressStore, outputStore, cleanup, err := openStores(ctx, cfg, llmCfg.Label())
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := pipeline.Run(ctx, pipeline.Options{
		Items:         items,
		Client:        client,
		ProviderLabel: llmCfg.Label(),
		Progress:      progressStore,
		Output:        outputStore,
		Delay:         cfg.Delay(),
	})
	if err != nil {
		return err
	}

	if !summary.Interrupted {
		fmt.Printf("Output file: %s\n", cfg.Output)
		fmt.Printf("Progress file: %s\n", cfg.Progress)
	}
	return nil
}

// mergedConfig loads the optional config file, applies CLI overrides and
// defaults, and validates the result.
func mergedConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		Input:    "input/exercises.json",
		Output:   "output/enriched_exercises.json",
		Progress: "output/processing_progress.json",
		Provider: string(llm.ProviderGemini),
		DelayMS:  1000,
	})

	// CLI overrides: only apply flags that were explicitly set
	if cmd.Flags().Changed("input") {
		cfg.Input = runInput
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = runOutput
	}
	if cmd.Flags().Changed("progress") {
		cfg.Progress = runProgress
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = runProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = runModel
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("delay-ms") {
		cfg.DelayMS = runDelayMS
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDBURL
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openStores opens and loads the progress and output stores for the
// configured backend. File-store load failures are recoverable warnings; a
// database that cannot be reached is a configuration error.
func openStores(ctx context.Context, cfg config.Config, providerLabel string) (pipeline.ProgressStore, pipeline.OutputStore, func(), error) {
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, nil, err
		}

		progress := db.NewProgress(database, providerLabel)
		if err := progress.Load(ctx); err != nil {
			database.Close()
			return nil, nil, nil, err
		}
		output := db.NewOutput(database)
		if err := output.Load(ctx); err != nil {
			database.Close()
			return nil, nil, nil, err
		}

		return progress, output, database.Close, nil
	}

	progress := store.NewProgress(cfg.Progress, providerLabel)
	if err := progress.Load(); err != nil {
		fmt.Printf("Warning: could not load progress file: %v\n", err)
	}
	output := store.NewOutput(cfg.Output)
	if err := output.Load(); err != nil {
		fmt.Printf("Warning: could not load existing output file: %v\n", err)
	}

	return progress, output, func() {}, nil
}
