package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Long: `Display how many factors, regions, catalog items, users and saved
recommendation runs the store holds.

Examples:
  incomeadvisor stats
  incomeadvisor stats -o json`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.db.GetStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	return output.Output(outputFmt, stats)
}
