package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many submissions from a file in parallel",
	Long: `Batch runs every submission in a file concurrently:
- A .yaml/.yml file holds an "items" list of {type, text, files, input_method, cultural_context}
- Any other file is a URL list (one per line, # comments allowed)
- Results are reported in input order
- Each successful analysis is exported to the output directory

Example:
  credence batch items.yaml
  credence batch urls.txt --concurrency 8 --output-dir ./exports
  credence batch items.yaml --no-delay --timeout 1m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers, else NumCPU)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./credence-exports", "output directory for exports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noDelay, "no-delay", false, "skip the simulated stage delays")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	a, err := prepare(noDelay)
	if err != nil {
		return err
	}

	workers, capped := batchWorkers(concurrency, a.cfg)
	if capped {
		fmt.Fprintf(os.Stderr, "⚠ pipeline.single_flight is on: running batch with 1 worker\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Credence Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "  Scorer:       %s\n", a.pipe.ScorerName())
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(a.sess, workers)

	fmt.Fprintf(os.Stderr, "⚙️  Processing submissions with %d workers...\n\n", workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	exporter := a.sess.Exporter()
	for _, r := range results {
		label := describeItem(r.Item)
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ #%d %s: %v\n", r.Index+1, label, r.Error)
			continue
		}

		path, err := exporter.WriteFile(outputDir, *r.Analysis)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ #%d %s: failed to export: %v\n", r.Index+1, label, err)
			continue
		}
		a.metrics.RecordExport()
		res := r.Analysis.Result
		fmt.Fprintf(os.Stderr, "✓ #%d %s → %s (%d%%) %s\n", r.Index+1, label, res.Credibility, res.OverallScore, path)
	}

	s := worker.Summarize(results)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:         %d\n", s.Total)
	fmt.Fprintf(os.Stderr, "  Failures:      %d\n", s.Failed)
	for _, c := range []model.Credibility{model.CredibilityCredible, model.CredibilityQuestionable, model.CredibilityLikelyFake} {
		fmt.Fprintf(os.Stderr, "  %-14s %d\n", string(c)+":", s.ByCredibility[c])
	}
	fmt.Fprintf(os.Stderr, "  Output:        %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if s.Total > 0 && s.Failed == s.Total {
		return fmt.Errorf("all %d submissions failed", s.Total)
	}
	return nil
}

// batchWorkers picks the pool size. Single-flight rejects overlapping runs,
// so it forces one worker and reports that it did.
func batchWorkers(requested int, cfg *model.Config) (int, bool) {
	workers := requested
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if cfg.Pipeline.SingleFlight && workers > 1 {
		return 1, true
	}
	return workers, false
}

// describeItem is a short label for progress lines
func describeItem(it worker.Item) string {
	src := it.Text
	if src == "" && len(it.Files) > 0 {
		src = it.Files[0]
	}
	return fmt.Sprintf("[%s] %s", it.Type, model.SummarizeContent(src))
}
