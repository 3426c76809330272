package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/advisor"
	"github.com/vijay-prabhu/incomeadvisor/internal/output"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <handle>",
	Short: "Rank income methods or career paths for a user",
	Long: `Score every item of a catalog for the user and print the best ones.

Strategies:
  self_rating  uses the F1..F10 self-ratings and the items' derived factors
  preference   multiplies each criterion by its importance level

Ties are broken by item id. Each run is saved for 'history' and 'export'
unless --no-save is given or scoring.save_runs is false.

Examples:
  incomeadvisor recommend alex
  incomeadvisor recommend alex --kind career --top 5
  incomeadvisor recommend alex --mode preference --explain`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

var (
	recommendMode    string
	recommendKind    string
	recommendTop     int
	recommendNoSave  bool
	recommendExplain bool
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&recommendMode, "mode", "", "Scoring strategy (self_rating, preference; default from config)")
	recommendCmd.Flags().StringVar(&recommendKind, "kind", "income", "Catalog (income, career)")
	recommendCmd.Flags().IntVarP(&recommendTop, "top", "n", 0, "Number of items (default from config)")
	recommendCmd.Flags().BoolVar(&recommendNoSave, "no-save", false, "Do not store this run")
	recommendCmd.Flags().BoolVar(&recommendExplain, "explain", false, "Show the score breakdown of each item")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// empty mode falls back to scoring.mode from the config
	var mode scoring.Mode
	if recommendMode != "" {
		m, err := scoring.ParseMode(recommendMode)
		if err != nil {
			return err
		}
		mode = m
	}
	kind, err := scoring.ParseKind(recommendKind)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("top") && recommendTop <= 0 {
		return fmt.Errorf("--top must be at least 1")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.advisor(nil)
	result, err := svc.Recommend(ctx, advisor.Request{
		Handle: args[0],
		Mode:   mode,
		Kind:   kind,
		TopN:   recommendTop,
		NoSave: recommendNoSave,
	})
	if err != nil {
		return err
	}

	if !recommendExplain {
		return output.Output(outputFmt, result)
	}

	explanations := make([]*advisor.Explanation, 0, len(result.Recommendations))
	for _, r := range result.Recommendations {
		ex, err := svc.Explain(ctx, result.Handle, result.Mode, result.Kind, r.Item.ID)
		if err != nil {
			return err
		}
		explanations = append(explanations, ex)
	}

	if outputFmt == "json" {
		return output.JSON(map[string]interface{}{
			"result":       result,
			"explanations": explanations,
		})
	}

	if err := output.Table(result); err != nil {
		return err
	}
	for _, ex := range explanations {
		fmt.Println()
		if err := output.Table(ex); err != nil {
			return err
		}
	}
	return nil
}
