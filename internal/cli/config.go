package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "incomeadvisor")
	dataDir := filepath.Join(home, ".local", "share", "incomeadvisor")

	// Create directories
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.toml")

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'incomeadvisor config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Run 'incomeadvisor seed' to load the factor and item catalog")
	fmt.Println("  2. Run 'incomeadvisor user create <handle> --region <name>'")
	fmt.Println("  3. Run 'incomeadvisor survey factors <handle>'")
	fmt.Println("  4. Run 'incomeadvisor recommend <handle>'")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'incomeadvisor config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# Income Advisor Configuration

[database]
path = "~/.local/share/incomeadvisor/incomeadvisor.db"
# Overridden by INCOMEADVISOR_DB_PATH

[logging]
level = "warn"      # debug, info, warn, error (INCOMEADVISOR_LOG_LEVEL)
format = "console"  # console or json

[scoring]
mode = "self_rating"   # self_rating or preference
top_n = 3
normalizer = 21        # divisor of the self-rating sum; 0 = number of formula terms
time_constant = 10     # K in needed_time = (K/speed) * (K/flex) * (K/engagement)
max_score_stars = 10   # width of criterion bars
save_runs = true

[content]
dir = ""  # empty uses the built-in catalog

[mcp]
enabled = true
transport = "stdio"

[metrics]
enabled = false
addr = ":9464"
`
