package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/credence/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Serve exposes analyses, history, exports, reports and feedback as a JSON API.

Routes:
  POST /api/analyses[?stream=true]   run an analysis (SSE progress when streaming)
  GET  /api/analyses                 recent history
  GET  /api/analyses/:id             select an analysis
  GET  /api/analyses/:id/export      download the export document
  GET  /api/analyses/:id/report      Markdown report
  POST /api/analyses/:id/feedback    record feedback
  GET  /api/export                   export the current selection
  GET  /api/contexts                 cultural contexts
  GET  /api/samples/:type            sample input
  GET  /healthz, /metrics

Example:
  credence serve --addr :8080
  CREDENCE_SCORING_BACKEND=llm credence serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	serveCmd.Flags().BoolVar(&noDelay, "no-delay", false, "skip the simulated stage delays")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := prepare(noDelay)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	if a.cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(a.cfg, server.RouterConfig{
		Session: a.sess,
		Log:     a.log,
		Metrics: a.metrics,
	})

	fmt.Fprintf(os.Stderr, "✓ Credence API on %s (scorer: %s)\n", a.cfg.Server.Addr, a.pipe.ScorerName())
	return srv.Run(ctx)
}
