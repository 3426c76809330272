package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file settings
const (
	EnvDatabasePath = "INCOMEADVISOR_DB_PATH"
	EnvLogLevel     = "INCOMEADVISOR_LOG_LEVEL"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and parses the configuration file.
// A missing file yields the defaults so the tool works before `config init`.
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(expandedPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	c.Content.Dir, err = expandPath(c.Content.Dir)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q validation (value %v)", fieldPath(fe), fe.Tag(), fe.Value()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	if c.Content.Dir != "" {
		if info, err := os.Stat(c.Content.Dir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("content.dir %q is not a directory", c.Content.Dir))
		}
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// fieldPath converts "Config.Scoring.TopN" into "scoring.top_n"
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	switch s {
	case "TopN":
		return "top_n"
	case "MCP":
		return "mcp"
	}
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EnsureDirectories creates necessary directories for the database
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
