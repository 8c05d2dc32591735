package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	PathsFile string        `yaml:"paths_file"`
	Output    OutputConfig  `yaml:"output"`
	Publish   PublishConfig `yaml:"publish"`
	History   HistoryConfig `yaml:"history"`
	Logging   LoggingConfig `yaml:"logging"`
	Console   ConsoleConfig `yaml:"console"`
}

// OutputConfig holds the locations of generated artifacts.
type OutputConfig struct {
	ThumbnailDir       string `yaml:"thumbnail_dir"`
	ThumbnailWebPrefix string `yaml:"thumbnail_web_prefix"`
	ThumbnailSize      int    `yaml:"thumbnail_size"`
	TextSummary        string `yaml:"text_summary"`
	JSONSummary        string `yaml:"json_summary"`
}

// PublishConfig holds git publishing settings.
type PublishConfig struct {
	Enabled bool   `yaml:"enabled"`
	Remote  string `yaml:"remote"`
	Branch  string `yaml:"branch"`
	Message string `yaml:"message"`
}

// HistoryConfig holds run history database settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level          string `yaml:"level"`
	Format         string `yaml:"format"`
	FilePath       string `yaml:"file_path"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxFiles   int    `yaml:"file_max_files"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

// ConsoleConfig holds console report settings.
type ConsoleConfig struct {
	Color string `yaml:"color"` // "auto", "always", "never"
}

// DefaultHistoryPath keeps the run history in the user cache directory, out
// of the working tree that gets published.
func DefaultHistoryPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "profilescan", "history.db")
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		PathsFile: "config.txt",
		Output: OutputConfig{
			ThumbnailDir:       "docs/thumbnails",
			ThumbnailWebPrefix: "thumbnails",
			ThumbnailSize:      300,
			TextSummary:        "output/scan_summary.txt",
			JSONSummary:        "docs/scan_summary.json",
		},
		Publish: PublishConfig{
			Enabled: true,
			Remote:  "origin",
			Branch:  "main",
			Message: "Update site from scan",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Console: ConsoleConfig{
			Color: "auto",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("PS_PATHS_FILE"); v != "" {
		c.PathsFile = v
	}
	if v := os.Getenv("PS_THUMBNAIL_DIR"); v != "" {
		c.Output.ThumbnailDir = v
	}
	if v := os.Getenv("PS_PUBLISH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Publish.Enabled = b
		}
	}
	if v := os.Getenv("PS_GIT_REMOTE"); v != "" {
		c.Publish.Remote = v
	}
	if v := os.Getenv("PS_GIT_BRANCH"); v != "" {
		c.Publish.Branch = v
	}
	if v := os.Getenv("PS_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("PS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PS_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("PS_COLOR"); v != "" {
		c.Console.Color = v
	}
}

// Validate checks the configuration and normalizes a few fields in place.
func (c *Config) Validate() error {
	if c.PathsFile == "" {
		return fmt.Errorf("paths file is required")
	}
	if c.Output.ThumbnailSize < 1 {
		return fmt.Errorf("invalid thumbnail size: %d", c.Output.ThumbnailSize)
	}
	if c.Output.ThumbnailDir == "" {
		return fmt.Errorf("thumbnail directory is required")
	}
	if c.Output.TextSummary == "" || c.Output.JSONSummary == "" {
		return fmt.Errorf("summary paths are required")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history path is required when history is enabled")
	}

	c.Console.Color = strings.ToLower(strings.TrimSpace(c.Console.Color))
	switch c.Console.Color {
	case "":
		c.Console.Color = "auto"
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode: %q", c.Console.Color)
	}

	c.Output.ThumbnailWebPrefix = strings.Trim(c.Output.ThumbnailWebPrefix, "/")
	if c.Publish.Remote == "" {
		c.Publish.Remote = "origin"
	}
	if c.Publish.Branch == "" {
		c.Publish.Branch = "main"
	}
	if c.Publish.Message == "" {
		c.Publish.Message = "Update site from scan"
	}
	return nil
}
