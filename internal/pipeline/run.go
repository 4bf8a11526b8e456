// Package pipeline provides the high-level orchestration for the resumable
// enrichment process.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonathan/exercise-enricher/internal/exercises"
	"github.com/jonathan/exercise-enricher/internal/llm"
	"github.com/jonathan/exercise-enricher/internal/schema"
	"github.com/jonathan/exercise-enricher/internal/store"
)

// ProgressStore is the durable completed-id set gating re-entry on restart.
type ProgressStore interface {
	IsDone(id int) bool
	MarkDone(ctx context.Context, id int) error
	Count() int
}

// OutputStore is the durable collection of enrichment records.
type OutputStore interface {
	Has(id int) bool
	IDs() []int
	Append(ctx context.Context, rec store.Record) error
}

// Options holds everything a run needs. Both stores must be loaded before
// the run starts and are owned exclusively by this run for its duration.
type Options struct {
	Items         []exercises.Exercise
	Client        llm.Client
	ProviderLabel string
	Progress      ProgressStore
	Output        OutputStore
	Delay         time.Duration
	Out           io.Writer
}

// Summary reports the per-run item counts.
type Summary struct {
	Total            int
	AlreadyProcessed int
	Attempted        int
	Committed        int
	Abandoned        int
	Interrupted      bool
}

const separator = "============================================================"

// Run processes every item not yet marked done, in input order. Each item
// either commits (record appended, then id marked done) or is abandoned for
// this run with nothing persisted; every per-item failure is contained to
// that item. An interrupt at any blocking point leaves all committed work
// valid and resumable.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("enrichment client is required")
	}
	if opts.Progress == nil || opts.Output == nil {
		return nil, fmt.Errorf("progress and output stores are required")
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	reconcile(ctx, opts.Progress, opts.Output, out)

	summary := &Summary{Total: len(opts.Items)}

	done := opts.Progress.Count()
	remaining := 0
	for _, ex := range opts.Items {
		if !opts.Progress.IsDone(ex.ID) {
			remaining++
		}
	}

	fmt.Fprintf(out, "\n%s\n", separator)
	fmt.Fprintf(out, "Exercise Enrichment\n")
	fmt.Fprintf(out, "%s\n", separator)
	fmt.Fprintf(out, "Provider: %s\n", opts.ProviderLabel)
	fmt.Fprintf(out, "Total exercises: %d\n", summary.Total)
	fmt.Fprintf(out, "Already processed: %d\n", done)
	fmt.Fprintf(out, "Remaining: %d\n", remaining)
	fmt.Fprintf(out, "%s\n\n", separator)

	if remaining == 0 {
		summary.AlreadyProcessed = summary.Total
		fmt.Fprintf(out, "All exercises have been processed!\n")
		return summary, nil
	}

	// One provider call per configured delay. The first call passes
	// immediately and no delay trails the final item.
	var limiter *rate.Limiter
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	for idx, ex := range opts.Items {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		if opts.Progress.IsDone(ex.ID) {
			fmt.Fprintf(out, "Skipping exercise %d (already processed)\n", ex.ID)
			summary.AlreadyProcessed++
			continue
		}

		fmt.Fprintf(out, "[%d/%d] Processing exercise %d...\n", idx+1, summary.Total, ex.ID)
		summary.Attempted++

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				summary.Interrupted = true
				break
			}
		}

		raw, err := opts.Client.Generate(ctx, BuildPrompt(ex))
		if err != nil {
			if ctx.Err() != nil {
				summary.Interrupted = true
				break
			}
			fmt.Fprintf(out, "Error enriching exercise %d: %v\n", ex.ID, err)
			summary.Abandoned++
			continue
		}
		if strings.TrimSpace(raw) == "" {
			fmt.Fprintf(out, "Failed to get response for exercise %d\n", ex.ID)
			summary.Abandoned++
			continue
		}

		result, err := schema.Validate(raw)
		if err != nil {
			fmt.Fprintf(out, "Failed to enrich exercise %d: %v\n", ex.ID, err)
			summary.Abandoned++
			continue
		}

		rec := store.NewRecord(ex, result, opts.ProviderLabel)

		// Output first, then progress. A crash between the two writes leaves
		// a record whose id is reconciled as done on the next run, never a
		// done mark without a record.
		if err := opts.Output.Append(ctx, rec); err != nil {
			fmt.Fprintf(out, "Error saving enriched exercise %d: %v\n", ex.ID, err)
			summary.Abandoned++
			continue
		}
		if err := opts.Progress.MarkDone(ctx, ex.ID); err != nil {
			fmt.Fprintf(out, "Warning: failed to save progress for exercise %d: %v\n", ex.ID, err)
		}

		fmt.Fprintf(out, "Successfully enriched exercise %d\n", ex.ID)
		summary.Committed++
	}

	if summary.Interrupted {
		fmt.Fprintf(out, "\nProcess interrupted. Completed work has been saved.\n")
		fmt.Fprintf(out, "Run the command again to resume from where you left off.\n")
		return summary, nil
	}

	fmt.Fprintf(out, "\n%s\n", separator)
	fmt.Fprintf(out, "Processing complete!\n")
	fmt.Fprintf(out, "Total: %d\n", summary.Total)
	fmt.Fprintf(out, "Already processed: %d\n", summary.AlreadyProcessed)
	fmt.Fprintf(out, "Attempted: %d\n", summary.Attempted)
	fmt.Fprintf(out, "Committed: %d\n", summary.Committed)
	fmt.Fprintf(out, "Abandoned: %d\n", summary.Abandoned)
	fmt.Fprintf(out, "%s\n", separator)

	return summary, nil
}

// reconcile repairs the progress set when a previous run stopped between the
// output write and the progress mark: a stored record whose id is not marked
// done is treated as already done.
func reconcile(ctx context.Context, progress ProgressStore, output OutputStore, out io.Writer) {
	for _, id := range output.IDs() {
		if progress.IsDone(id) {
			continue
		}
		fmt.Fprintf(out, "Warning: exercise %d has a stored record but no progress mark; marking as done\n", id)
		if err := progress.MarkDone(ctx, id); err != nil {
			fmt.Fprintf(out, "Warning: failed to mark exercise %d as done: %v\n", id, err)
		}
	}
}

// Verify the file-backed stores satisfy the pipeline contracts.
var (
	_ ProgressStore = (*store.Progress)(nil)
	_ OutputStore   = (*store.Output)(nil)
)
