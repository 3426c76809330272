package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/content"
	"github.com/vijay-prabhu/incomeadvisor/internal/output"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse income methods and career paths",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	Long: `List the items of one catalog with their derived complexity and needed time.

Examples:
  incomeadvisor catalog list
  incomeadvisor catalog list --kind career`,
	RunE: runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one item with its criteria",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate content and report criteria without a preference factor",
	Long: `Validate content files against their schemas and report every criterion
that no preference factor matches by name. Such criteria score zero in the
preference strategy.

Examples:
  incomeadvisor catalog check
  incomeadvisor catalog check --dir ./content`,
	RunE: runCatalogCheck,
}

var (
	catalogKind string
	catalogDir  string
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogCheckCmd)

	catalogCmd.PersistentFlags().StringVar(&catalogKind, "kind", "income", "Catalog (income, career)")
	catalogCheckCmd.Flags().StringVar(&catalogDir, "dir", "", "Content directory (default: content.dir or built-in)")
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	kind, err := scoring.ParseKind(catalogKind)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.db.ListItems(cmd.Context(), kind)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}
	return output.Output(outputFmt, items)
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	kind, err := scoring.ParseKind(catalogKind)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	item, err := a.db.GetItem(cmd.Context(), kind, id)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("no %s with id %d", kind, id)
	}
	return output.Output(outputFmt, item)
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	dir := catalogDir
	if dir == "" {
		dir = a.cfg.Content.Dir
	}

	bundle, err := content.FromDir(dir, a.log).Load()
	if err != nil {
		return err
	}

	warnings := bundle.JoinWarnings()
	if outputFmt == "json" {
		return output.JSON(map[string]interface{}{"valid": true, "warnings": warnings})
	}

	fmt.Printf("Content valid: %d factors, %d regions, %d income methods, %d career paths\n",
		len(bundle.Factors), len(bundle.Regions), len(bundle.IncomeMethods), len(bundle.CareerPaths))
	if len(warnings) == 0 {
		fmt.Println("Every criterion joins to a preference factor.")
		return nil
	}
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}
	return nil
}
