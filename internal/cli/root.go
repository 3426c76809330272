package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/advisor"
	"github.com/vijay-prabhu/incomeadvisor/internal/config"
	"github.com/vijay-prabhu/incomeadvisor/internal/database"
	"github.com/vijay-prabhu/incomeadvisor/internal/logger"
	"github.com/vijay-prabhu/incomeadvisor/internal/metrics"
	"github.com/vijay-prabhu/incomeadvisor/internal/output"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	outputFmt  string
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "incomeadvisor",
	Short: "Rank income methods and career paths for a person",
	Long: `incomeadvisor recommends additional income methods and career paths
based on how a person rates themselves and what they care about.

It provides:
  - A factor survey (self-ratings and importance levels)
  - Two scoring strategies: self_rating and preference
  - A content catalog loaded from validated JSON files
  - MCP server for AI assistant integration`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: ~/.config/incomeadvisor/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(home, ".config", "incomeadvisor", "config.toml")
	}
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("incomeadvisor %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", buildTime)
	},
}

// app holds what most commands need: configuration, a logger and an open store
type app struct {
	cfg *config.Config
	log logger.Logger
	db  *database.DB
}

func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &app{cfg: cfg, log: log, db: db}
	output.SetBarWidth(cfg.Scoring.MaxScoreStars)
	output.SetParams(a.params())
	return a, nil
}

func (a *app) Close() {
	a.db.Close()
	_ = a.log.Sync()
}

// params returns the configured formula constants
func (a *app) params() scoring.Params {
	return scoring.Params{
		Normalizer:   a.cfg.Scoring.Normalizer,
		TimeConstant: a.cfg.Scoring.TimeConstant,
	}
}

// advisor builds the recommendation service from the scoring config. m may be nil.
func (a *app) advisor(m *metrics.Metrics) *advisor.Service {
	mode, err := scoring.ParseMode(a.cfg.Scoring.Mode)
	if err != nil {
		mode = scoring.ModeSelfRating
	}
	return advisor.New(a.db, advisor.Options{
		Params:   a.params(),
		Mode:     mode,
		TopN:     a.cfg.Scoring.TopN,
		SaveRuns: a.cfg.Scoring.SaveRuns,
	}, a.log, m)
}

// requireUser loads a user by handle or returns a helpful error
func (a *app) requireUser(cmd *cobra.Command, handle string) (*database.User, error) {
	u, err := a.db.GetUserByHandle(cmd.Context(), handle)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %s (create one with 'incomeadvisor user create %s')", advisor.ErrUserNotFound, handle, handle)
	}
	return u, nil
}
