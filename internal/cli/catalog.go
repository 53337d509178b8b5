package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/request"
	"github.com/spf13/cobra"
)

var contextsCmd = &cobra.Command{
	Use:   "contexts",
	Short: "List supported cultural contexts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "CODE\tNAME\tREGION")
		for _, c := range model.CulturalContexts() {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Code, c.Name, c.Region)
		}
		return tw.Flush()
	},
}

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List canned sample inputs",
	Long: `Samples lists the demo inputs usable with 'credence analyze --sample'.
Only text and image have samples.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, s := range request.Samples() {
			if _, err := fmt.Fprintf(out, "%-6s %s\n", s.Type, s.Content); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contextsCmd)
	rootCmd.AddCommand(samplesCmd)
}
