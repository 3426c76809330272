package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/content"
	"github.com/vijay-prabhu/incomeadvisor/internal/output"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load factors, regions and the item catalog",
	Long: `Load the factor catalog, regions, income methods and career paths.

Content is read from the built-in catalog unless --dir (or content.dir in the
config) points at a directory with factors.json, regions.json,
income_methods.json and career_paths.json. Every file is validated against
its JSON schema before anything is written. Tables that already hold rows are
left untouched, so seeding twice is safe.

Examples:
  incomeadvisor seed
  incomeadvisor seed --dir ./content`,
	RunE: runSeed,
}

var seedDir string

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedDir, "dir", "", "Content directory (default: built-in catalog)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	dir := seedDir
	if dir == "" {
		dir = a.cfg.Content.Dir
	}

	bundle, err := content.FromDir(dir, a.log).Load()
	if err != nil {
		return err
	}

	report, err := content.Seed(cmd.Context(), a.db, bundle, a.log)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, report)
}
