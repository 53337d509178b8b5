package cli

import (
	"fmt"

	"github.com/ppiankov/credence/internal/history"
	"github.com/ppiankov/credence/internal/render"
	"github.com/spf13/cobra"
)

var (
	historyLimit    int
	historyDetailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent analyses",
	Long: `History lists the analyses held by this process, newest first.

History lives in memory, so outside 'credence serve' it only holds the
demo entries (history.seed_demo).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := prepare(true)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		recent := a.sess.Recent(historyLimit)
		if !historyDetailed {
			return render.History(out, recent)
		}

		if len(recent) == 0 {
			_, err := fmt.Fprintln(out, render.NoHistory)
			return err
		}
		for i, entry := range recent {
			if i > 0 {
				if _, err := fmt.Fprintln(out, "\n---"); err != nil {
					return err
				}
			}
			if err := render.Detailed(out, entry); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.PreviewSize, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyDetailed, "detailed", false, "print the full report for each entry")
}
