package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
	"github.com/vijay-prabhu/incomeadvisor/internal/output"
)

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "List the factor catalog",
	Long: `List every known factor.

Context factors (F1..F12) are the self-ratings the self_rating strategy uses.
Preference factors share their name with an item criterion and carry the
importance levels the preference strategy uses.

Examples:
  incomeadvisor factors
  incomeadvisor factors --kind preference`,
	RunE: runFactors,
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List regions and their F10 value",
	RunE:  runRegions,
}

var factorsKind string

func init() {
	rootCmd.AddCommand(factorsCmd)
	rootCmd.AddCommand(regionsCmd)
	factorsCmd.Flags().StringVar(&factorsKind, "kind", "", "Only list factors of this kind (context, preference)")
}

func runFactors(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	factors, err := a.db.ListFactors(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list factors: %w", err)
	}

	if factorsKind != "" {
		kind := factor.Kind(factorsKind)
		if kind != factor.KindContext && kind != factor.KindPreference {
			return fmt.Errorf("unknown factor kind %q (use context or preference)", factorsKind)
		}
		filtered := make([]factor.Factor, 0, len(factors))
		for _, f := range factors {
			if f.Kind == kind {
				filtered = append(filtered, f)
			}
		}
		factors = filtered
	}

	return output.Output(outputFmt, factors)
}

func runRegions(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	regions, err := a.db.ListRegions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list regions: %w", err)
	}
	return output.Output(outputFmt, regions)
}
