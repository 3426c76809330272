package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage importance levels used by the preference strategy",
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <handle> <factor> <level>",
	Short: "Set how important one criterion is",
	Long: `Set the importance level of a preference factor.

Level is 1..5 or one of: "Doesn't matter", "Slightly important",
"Moderately important", "Important", "Very important".

Examples:
  incomeadvisor prefs set alex income_potential 5
  incomeadvisor prefs set alex risks "does not matter"`,
	Args: cobra.ExactArgs(3),
	RunE: runPrefsSet,
}

var prefsClearCmd = &cobra.Command{
	Use:   "clear <handle>",
	Short: "Remove all importance levels of a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsClear,
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsClearCmd)
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	level, err := factor.ParseImportance(args[2])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.advisor(nil).SetPreference(cmd.Context(), args[0], args[1], level); err != nil {
		return err
	}

	fmt.Printf("Set %s = %s for %s\n", args[1], level, args[0])
	return nil
}

func runPrefsClear(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireUser(cmd, args[0])
	if err != nil {
		return err
	}
	if err := a.db.ClearPreferences(cmd.Context(), u.ID); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}

	fmt.Printf("Cleared preferences of %s\n", u.Handle)
	return nil
}
