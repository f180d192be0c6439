// Package config loads scrub's configuration from YAML and environment
// variables with viper, resolving file locations through XDG base dirs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// Defaults for the cleanup options. Comment stripping and blank-line
// collapsing are on unless disabled; CRLF matches the historical output
// of the tool this replaces.
const (
	DefaultStripComments = true
	DefaultCollapseBlank = true
	DefaultEOL           = "crlf"
)

// DefaultIgnorePatterns are applied when the config file and flags supply
// none. Trailing separators mark directory names to prune.
var DefaultIgnorePatterns = []string{
	"*.log", "*.tmp", "*.bak", "*.swp", "*.pyc",
	"__pycache__/", "node_modules/", "vendor/",
	".git/", ".svn/", ".hg/",
	"dist/", "build/", "target/",
	"*.min.js", "*.min.css",
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// CleanConfig holds the transformation options.
type CleanConfig struct {
	StripComments bool   `mapstructure:"strip_comments"`
	CollapseBlank bool   `mapstructure:"collapse_blank"`
	EOL           string `mapstructure:"eol"`
}

// WatchConfig configures the file-watch re-run mode.
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

// Config represents the application configuration.
type Config struct {
	Clean   CleanConfig   `mapstructure:"clean"`
	Ignore  []string      `mapstructure:"ignore"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/scrub/config.yaml
//   - $HOME/.config/scrub/config.yaml
//
// Environment variables are prefixed with SCRUB_ (e.g., SCRUB_CLEAN_EOL).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "scrub"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "scrub"))

	v.SetEnvPrefix("SCRUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := types.ParseLineEnding(cfg.Clean.EOL); err != nil {
		return nil, fmt.Errorf("invalid clean.eol %q: %w", cfg.Clean.EOL, err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("clean.strip_comments", DefaultStripComments)
	v.SetDefault("clean.collapse_blank", DefaultCollapseBlank)
	v.SetDefault("clean.eol", DefaultEOL)
	v.SetDefault("ignore", DefaultIgnorePatterns)
	v.SetDefault("watch.debounce_ms", 500)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.components", map[string]string{
		"discover": "info",
		"pipeline": "info",
		"batch":    "info",
		"tui":      "info",
		"watcher":  "warn",
	})
}

// Options converts the cleanup section into batch options. The ignore
// slice is copied so callers can mutate their view freely.
func (c *Config) Options() types.BatchOptions {
	eol, err := types.ParseLineEnding(c.Clean.EOL)
	if err != nil {
		eol = types.EOLCRLF
	}
	opts := types.BatchOptions{
		StripComments: c.Clean.StripComments,
		CollapseBlank: c.Clean.CollapseBlank,
		EOL:           eol,
		Ignore:        append([]string(nil), c.Ignore...),
	}
	return opts
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "scrub"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "scrub"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// StateDir returns $XDG_STATE_HOME/scrub/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "scrub")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "scrub.log")
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	var ignoreLines strings.Builder
	for _, p := range DefaultIgnorePatterns {
		fmt.Fprintf(&ignoreLines, "  - %q\n", p)
	}

	defaultConfig := fmt.Sprintf(`# Scrub Configuration

# Cleanup options
clean:
  # Remove comments from supported source files
  strip_comments: %v
  # Collapse runs of blank lines to a single blank line
  collapse_blank: %v
  # Line ending for rewritten files: crlf or lf
  eol: %s

# Files and directories skipped during discovery.
# A trailing / marks a directory name to prune.
ignore:
%s
# Watch mode
watch:
  # Quiet period after a filesystem change before re-running, in ms
  debounce_ms: 500

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/scrub/scrub.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 10MB
    max_backups: 3
  # Per-component log levels
  components:
    discover: info
    pipeline: info
    batch: info
    tui: info
    watcher: warn
`, DefaultStripComments, DefaultCollapseBlank, DefaultEOL, ignoreLines.String())

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
