package config

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Content  ContentConfig  `toml:"content"`
	MCP      MCPConfig      `toml:"mcp"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path" validate:"required"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}

// ScoringConfig contains recommendation settings
type ScoringConfig struct {
	// Mode is the default strategy: self_rating or preference
	Mode string `toml:"mode" validate:"oneof=self_rating preference"`
	// TopN is how many items a recommendation returns by default
	TopN int `toml:"top_n" validate:"min=1,max=100"`
	// Normalizer divides the self-rating sum. 0 derives it from the number of formula terms.
	Normalizer float64 `toml:"normalizer" validate:"gte=0"`
	// TimeConstant is K in the needed-time formula
	TimeConstant float64 `toml:"time_constant" validate:"gt=0"`
	// MaxScoreStars is the width of criterion bars in item details
	MaxScoreStars int `toml:"max_score_stars" validate:"min=1,max=50"`
	// SaveRuns stores every recommendation run for history and export
	SaveRuns bool `toml:"save_runs"`
}

// ContentConfig points at catalog content files
type ContentConfig struct {
	// Dir overrides the built-in content. Empty uses the embedded files.
	Dir string `toml:"dir"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// MetricsConfig contains Prometheus exporter settings
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr" validate:"required_if=Enabled true"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/incomeadvisor/incomeadvisor.db",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Scoring: ScoringConfig{
			Mode:          "self_rating",
			TopN:          3,
			Normalizer:    21,
			TimeConstant:  10,
			MaxScoreStars: 10,
			SaveRuns:      true,
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9464",
		},
	}
}
