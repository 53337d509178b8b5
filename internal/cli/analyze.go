package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/render"
	"github.com/ppiankov/credence/internal/request"
	"github.com/spf13/cobra"
)

var (
	analyzeType    string
	analyzeText    string
	analyzeFiles   []string
	analyzeURL     string
	analyzeContext string
	useSample      bool
	outJSON        string
	outMD          string
	noDelay        bool
	quiet          bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one credibility analysis",
	Long: `Analyze validates one submission, runs the six analysis stages and prints
the credibility result.

Example:
  credence analyze --text "BREAKING: mayor announces tax cuts"
  credence analyze --type image --file protest.jpg --context zh-CN
  credence analyze --url https://example.com/article --json -
  credence analyze --type combined --text "caption" --file a.jpg --file b.mp4
  credence analyze --type text --sample --md report.md`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeType, "type", "t", "text", "content type (text, image, video, audio, combined)")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "text content to analyze")
	analyzeCmd.Flags().StringArrayVarP(&analyzeFiles, "file", "f", nil, "file name to analyze (repeatable for combined)")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "fetch the page at URL and analyze its text")
	analyzeCmd.Flags().StringVarP(&analyzeContext, "context", "c", model.DefaultCulturalContext, "cultural context code (see 'credence contexts')")
	analyzeCmd.Flags().BoolVar(&useSample, "sample", false, "analyze the canned sample for --type")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the export document to path ('-' for stdout)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "write the detailed Markdown report to path")
	analyzeCmd.Flags().BoolVar(&noDelay, "no-delay", false, "skip the simulated stage delays")
	analyzeCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}

// analyzeFields turns flags into raw submission fields
func analyzeFields() (request.Fields, error) {
	if useSample {
		t, err := model.ParseContentType(analyzeType)
		if err != nil {
			return request.Fields{}, err
		}
		s, ok := request.SampleFor(t)
		if !ok {
			return request.Fields{}, fmt.Errorf("no sample available for %s analysis", t)
		}
		f := s.Fields()
		f.CulturalContext = analyzeContext
		return f, nil
	}

	f := request.Fields{
		Text:            analyzeText,
		Files:           analyzeFiles,
		CulturalContext: analyzeContext,
	}
	if analyzeURL != "" {
		f.Text = analyzeURL
		f.InputMethod = request.MethodURL
	}
	return f, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	fields, err := analyzeFields()
	if err != nil {
		return err
	}

	a, err := prepare(noDelay)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sink pipeline.ProgressSink
	if !quiet {
		sink = progressPrinter(os.Stderr)
	}

	analysis, err := a.sess.Analyze(ctx, analyzeType, fields, sink)
	if err != nil {
		if kind := request.KindOf(err); kind != "" {
			fmt.Fprintf(os.Stderr, "✗ %s\n", err)
			return fmt.Errorf("invalid submission: %s", kind)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if outJSON == "-" {
		_, err := a.sess.WriteExportFor(out, analysis.ID)
		return err
	}

	if !quiet {
		fmt.Fprintln(os.Stderr)
	}
	if err := a.sess.Present(out, *analysis); err != nil {
		return err
	}

	if outJSON != "" {
		if err := writeFile(outJSON, func(w io.Writer) error {
			_, err := a.sess.WriteExportFor(w, analysis.ID)
			return err
		}); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Exported analysis to %s\n", outJSON)
	}
	if outMD != "" {
		if err := writeFile(outMD, func(w io.Writer) error {
			return render.Detailed(w, *analysis)
		}); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote report to %s\n", outMD)
	}
	return nil
}

// progressPrinter reports each stage on w
func progressPrinter(w io.Writer) pipeline.ProgressFunc {
	return func(stage string, fraction float64) {
		_, _ = fmt.Fprintf(w, "⚙️  [%3.0f%%] %s\n", fraction*100, stage)
	}
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return write(f)
}
