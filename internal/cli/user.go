package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/database"
	"github.com/vijay-prabhu/incomeadvisor/internal/output"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <handle>",
	Short: "Create a user",
	Long: `Create a user identified by a handle.

Examples:
  incomeadvisor user create alex
  incomeadvisor user create alex --income 2500 --region "Capital metro"`,
	Args: cobra.ExactArgs(1),
	RunE: runUserCreate,
}

var userShowCmd = &cobra.Command{
	Use:   "show <handle>",
	Short: "Show a user and their factor answers",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserShow,
}

var userSetFactorCmd = &cobra.Command{
	Use:   "set-factor <handle> <factor> <0-10>",
	Short: "Set one self-rating (F1..F9)",
	Long: `Set a self-rating between 0 and 10 for one of the directly answered
factors. Run 'incomeadvisor factors --kind context' for the names.

Examples:
  incomeadvisor user set-factor alex f1_motivation 8
  incomeadvisor user set-factor alex f6_health_energy 6.5`,
	Args: cobra.ExactArgs(3),
	RunE: runUserSetFactor,
}

var userSetRegionCmd = &cobra.Command{
	Use:   "set-region <handle> <region>",
	Short: "Set the user's region (supplies F10)",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserSetRegion,
}

var userSetIncomeCmd = &cobra.Command{
	Use:   "set-income <handle> <amount>",
	Short: "Set the user's current monthly income",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserSetIncome,
}

var (
	userIncome int
	userRegion string
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userSetFactorCmd)
	userCmd.AddCommand(userSetRegionCmd)
	userCmd.AddCommand(userSetIncomeCmd)

	userCreateCmd.Flags().IntVar(&userIncome, "income", 0, "Current monthly income")
	userCreateCmd.Flags().StringVar(&userRegion, "region", "", "Region name (see 'incomeadvisor regions')")
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	handle := args[0]

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	existing, err := a.db.GetUserByHandle(ctx, handle)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("user %q already exists", handle)
	}
	if userIncome < 0 {
		return fmt.Errorf("income must not be negative")
	}

	u := &database.User{Handle: handle, CurrentIncome: userIncome}
	if userRegion != "" {
		id, err := regionID(ctx, a.db, userRegion)
		if err != nil {
			return err
		}
		u.RegionID = &id
	}

	if err := a.db.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	a.log.Info("user created", map[string]interface{}{"handle": handle})
	return output.Output(outputFmt, u)
}

func runUserShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireUser(cmd, args[0])
	if err != nil {
		return err
	}
	return output.Output(outputFmt, u)
}

func runUserSetFactor(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid rating %q: %w", args[2], err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.advisor(nil).SetFactor(cmd.Context(), args[0], args[1], value); err != nil {
		return err
	}

	fmt.Printf("Set %s = %g for %s\n", args[1], value, args[0])
	return nil
}

func runUserSetRegion(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireUser(cmd, args[0])
	if err != nil {
		return err
	}

	id, err := regionID(ctx, a.db, args[1])
	if err != nil {
		return err
	}
	u.RegionID = &id

	if err := a.db.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	fmt.Printf("Region of %s set to %s\n", u.Handle, args[1])
	return nil
}

func runUserSetIncome(cmd *cobra.Command, args []string) error {
	amount, err := strconv.Atoi(args[1])
	if err != nil || amount < 0 {
		return fmt.Errorf("invalid income %q: expected a non-negative whole number", args[1])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireUser(cmd, args[0])
	if err != nil {
		return err
	}

	u.CurrentIncome = amount
	if err := a.db.UpdateUser(cmd.Context(), u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	fmt.Printf("Income of %s set to %d\n", u.Handle, amount)
	return nil
}

func regionID(ctx context.Context, db *database.DB, name string) (int, error) {
	r, err := db.GetRegionByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to look up region: %w", err)
	}
	if r == nil {
		return 0, fmt.Errorf("unknown region %q (see 'incomeadvisor regions')", name)
	}
	return r.ID, nil
}
