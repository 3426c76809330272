package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history <handle>",
	Short: "Show saved recommendation runs",
	Long: `List a user's saved recommendation runs, newest first.

Examples:
  incomeadvisor history alex
  incomeadvisor history alex --limit 3 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <handle>",
	Short: "Show the most recent saved run in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum runs to show (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireUser(cmd, args[0])
	if err != nil {
		return err
	}

	runs, err := a.db.ListRuns(cmd.Context(), u.ID, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return output.Output(outputFmt, runs)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireUser(cmd, args[0])
	if err != nil {
		return err
	}

	run, err := a.db.LatestRun(cmd.Context(), u.ID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("no saved recommendations for %s", u.Handle)
	}
	return output.Output(outputFmt, run)
}
