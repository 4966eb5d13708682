// internal/config/config.go
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// Config represents the application configuration
type Config struct {
	Database             string   `toml:"database"`
	Prompt               string   `toml:"prompt"`
	TableStyle           string   `toml:"table_style"`
	Style                string   `toml:"style"`
	Multiline            bool     `toml:"multiline"`
	Infobar              bool     `toml:"infobar"`
	Verbose              bool     `toml:"verbose"`
	Editor               string   `toml:"editor"`
	CompleteWhileTyping  bool     `toml:"complete_while_typing"`
	CompleteDelayMS      int      `toml:"complete_delay_ms"`
	HistoryFile          string   `toml:"history_file"` // empty: XDG data dir
	HistoryLimit         int      `toml:"history_limit"`
	HistoryRetentionDays int      `toml:"history_retention_days"`
	HistorySearch        bool     `toml:"history_search"`
	BackupStepPages      int      `toml:"backup_step_pages"`
	ExecutableDirs       []string `toml:"executable_dirs"`
	Theme                Theme    `toml:"theme_colors"`

	path string
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	CardBg        string `toml:"card_bg"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Database:             "~/.sqlite",
		Prompt:               "SQLite >> ",
		TableStyle:           "rounded",
		Style:                "monokai",
		Infobar:              true,
		CompleteWhileTyping:  true,
		CompleteDelayMS:      150,
		HistoryLimit:         1000,
		HistoryRetentionDays: 90,
		HistorySearch:        true,
		BackupStepPages:      64,
		ExecutableDirs:       []string{"/usr/bin", "/usr/local/bin", "~/.local/bin"},
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			CardBg:        "#434C5E",
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("sqlrepl/config.toml")
}

// Load loads the config from the XDG path or creates the default one
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, errors.Wrap(err, "resolve config path")
	}
	return LoadFrom(path)
}

// topLevelKeys are back-filled into existing files that predate them.
var topLevelKeys = []string{
	"database", "prompt", "table_style", "style", "multiline", "infobar", "verbose",
	"editor", "complete_while_typing", "complete_delay_ms", "history_file",
	"history_limit", "history_retention_days", "history_search", "backup_step_pages",
	"executable_dirs", "theme_colors",
}

// LoadFrom loads the config at path, writing defaults on first run
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: create default
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Decode over the defaults so missing fields keep their default value
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	// Populate defaults for missing fields (migration)
	defaults := DefaultConfig()
	updated := false
	for _, key := range topLevelKeys {
		if !md.IsDefined(key) {
			updated = true
		}
	}
	if cfg.Theme.TextPrimary == "" {
		cfg.Theme = defaults.Theme
		updated = true
	}

	if updated {
		// Persist defaults so the user can see/edit them; in-memory values
		// are used even if this fails.
		_ = cfg.Save()
	}

	return cfg, nil
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return errors.Wrap(err, "resolve config path")
		}
		c.path = path
	}

	// Ensure directory exists with secure permissions
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	// Create/truncate file with secure permissions (owner read/write only)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "open config file")
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
