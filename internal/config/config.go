package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoggingConfig configures the daemon logger.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// Format selects the handler: "pretty" (colored, for terminals), "text" or "json"
	Format string `yaml:"format"`
}

// ShortcutsConfig adjusts the built-in global shortcut table. Keys are action
// names such as "Switch to Desktop 1" or "Switch One Desktop to the Right".
type ShortcutsConfig struct {
	// Overrides replaces the default key sequence, e.g. "Ctrl+Alt+Right".
	Overrides map[string]string `yaml:"overrides,omitempty"`
	// Disabled lists actions that are never grabbed.
	Disabled []string `yaml:"disabled,omitempty"`
	// Scroll enables the Ctrl+Alt pointer scroll bindings.
	Scroll *bool `yaml:"scroll,omitempty"`
}

// ScrollEnabled returns the effective value, defaulting to true.
func (s ShortcutsConfig) ScrollEnabled() bool {
	if s.Scroll == nil {
		return true
	}
	return *s.Scroll
}

// IsDisabled reports whether the named action is disabled.
func (s ShortcutsConfig) IsDisabled(name string) bool {
	for _, d := range s.Disabled {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return true
		}
	}
	return false
}

// Config holds the application configuration.
type Config struct {
	Display               string          `yaml:"display,omitempty"`
	XAuthority            string          `yaml:"xauthority,omitempty"`
	Screen                int             `yaml:"screen"`
	NavigationWrapsAround bool            `yaml:"navigation_wraps_around"`
	DesktopsFile          string          `yaml:"desktops_file,omitempty"`
	ReconcileInterval     int             `yaml:"reconcile_interval_seconds"`
	Logging               LoggingConfig   `yaml:"logging"`
	Shortcuts             ShortcutsConfig `yaml:"shortcuts"`
}

const DefaultReconcileInterval = 5

func DefaultConfig() *Config {
	return &Config{
		Screen:                0,
		NavigationWrapsAround: true,
		ReconcileInterval:     DefaultReconcileInterval,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "pretty",
		},
		Shortcuts: ShortcutsConfig{
			Overrides: make(map[string]string),
		},
	}
}

// ReconcileEvery returns the reconcile interval as a duration. Zero disables
// reconciliation.
func (c *Config) ReconcileEvery() time.Duration {
	if c == nil || c.ReconcileInterval <= 0 {
		return 0
	}
	return time.Duration(c.ReconcileInterval) * time.Second
}

// DesktopsPath returns the path of the desktop store, resolving the default
// location and a leading "~".
func (c *Config) DesktopsPath() (string, error) {
	if c != nil && strings.TrimSpace(c.DesktopsFile) != "" {
		return expandHome(c.DesktopsFile)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "deskgrid", "desktops.yaml"), nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Screen < 0 {
		return &ValidationError{Path: "screen", Err: fmt.Errorf("screen must be >= 0")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval_seconds", Err: fmt.Errorf("reconcile_interval_seconds must be >= 0")}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "pretty", "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: pretty, text, json")}
	}
	for name, keys := range c.Shortcuts.Overrides {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "shortcuts.overrides", Err: fmt.Errorf("overrides contains an empty action name")}
		}
		if strings.TrimSpace(keys) == "" {
			return &ValidationError{Path: "shortcuts.overrides." + name, Err: fmt.Errorf("key sequence must not be empty; use shortcuts.disabled instead")}
		}
	}
	for i, name := range c.Shortcuts.Disabled {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: fmt.Sprintf("shortcuts.disabled[%d]", i), Err: fmt.Errorf("disabled contains an empty action name")}
		}
	}
	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("%s: failed to write: %w", path, err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
