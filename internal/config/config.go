// Package config loads the LocalNotes configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor LOCALNOTES_CONFIG is set.
const DefaultPath = "localnotes.yaml"

type Config struct {
	Board    BoardConfig    `yaml:"board"`
	Share    ShareConfig    `yaml:"share"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type BoardConfig struct {
	HistoryLimit int     `yaml:"history_limit"`
	BrushSize    float64 `yaml:"brush_size"`
	Color        string  `yaml:"color"`
	PageWidth    float64 `yaml:"page_width"`
	PageHeight   float64 `yaml:"page_height"`
	Background   string  `yaml:"background"`
}

type ShareConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
	// Advertise announces the host over mDNS.
	Advertise       bool          `yaml:"advertise"`
	DiscoverTimeout time.Duration `yaml:"discover_timeout"`
}

type AutosaveConfig struct {
	Enabled bool   `yaml:"enabled"`
	DataDir string `yaml:"data_dir"`
	Keep    int    `yaml:"keep"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{
		Share:    ShareConfig{Advertise: true},
		Autosave: AutosaveConfig{Enabled: true},
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML file at path, expanding ${VAR} references in scalar
// values, then applies defaults and LOCALNOTES_* environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if root.Kind != 0 {
			expandEnv(&root)
			if err := root.Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePath picks the config file from the flag value, the environment,
// or the default.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("LOCALNOTES_CONFIG"); env != "" {
		return env
	}
	return DefaultPath
}

// Validate rejects values that cannot be used.
func (c *Config) Validate() error {
	if c.Board.HistoryLimit < 1 {
		return fmt.Errorf("board.history_limit must be at least 1, got %d", c.Board.HistoryLimit)
	}
	if c.Board.BrushSize <= 0 {
		return fmt.Errorf("board.brush_size must be positive, got %v", c.Board.BrushSize)
	}
	if c.Share.Port < 1 || c.Share.Port > 65535 {
		return fmt.Errorf("share.port out of range: %d", c.Share.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// AutosavePath is the SQLite database used for autosave.
func (c *Config) AutosavePath() string {
	return filepath.Join(c.Autosave.DataDir, "autosave.db")
}

// expandEnv substitutes ${VAR} in every scalar after parsing, so values such
// as "#ff0000" are never read as YAML comments. Plain scalars lose their
// resolved tag and are re-resolved from the expanded text.
func expandEnv(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode {
		expanded := os.ExpandEnv(n.Value)
		if expanded != n.Value {
			n.Value = expanded
			if n.Style == 0 {
				n.Tag = ""
			}
		}
		return
	}
	for _, c := range n.Content {
		expandEnv(c)
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LOCALNOTES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Share.Port = port
		}
	}
	if v := os.Getenv("LOCALNOTES_DATA_DIR"); v != "" {
		cfg.Autosave.DataDir = v
	}
	if v := os.Getenv("LOCALNOTES_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Board.HistoryLimit == 0 {
		cfg.Board.HistoryLimit = 10
	}
	if cfg.Board.BrushSize == 0 {
		cfg.Board.BrushSize = 2
	}
	if cfg.Board.Color == "" {
		cfg.Board.Color = "#000"
	}
	if cfg.Board.PageWidth == 0 {
		cfg.Board.PageWidth = 827
	}
	if cfg.Board.PageHeight == 0 {
		cfg.Board.PageHeight = 1169
	}
	if cfg.Board.Background == "" {
		cfg.Board.Background = "#ffffff"
	}
	if cfg.Share.Port == 0 {
		cfg.Share.Port = 8888
	}
	if cfg.Share.DiscoverTimeout == 0 {
		cfg.Share.DiscoverTimeout = 3 * time.Second
	}
	if cfg.Autosave.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Autosave.DataDir = filepath.Join(home, ".localnotes")
		} else {
			cfg.Autosave.DataDir = ".localnotes"
		}
	}
	if cfg.Autosave.Keep == 0 {
		cfg.Autosave.Keep = 20
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
