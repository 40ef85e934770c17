package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Width bounds for the rendered control.
const (
	MinWidth = 20
	MaxWidth = 200
)

// Config represents the dropdown configuration.
type Config struct {
	UI    UIConfig    `yaml:"ui"`
	Log   LogConfig   `yaml:"log"`
	Store StoreConfig `yaml:"store"`
}

// UIConfig holds terminal rendering and input settings.
type UIConfig struct {
	Width          int    `yaml:"width"`            // Control width in cells
	AccentColor    string `yaml:"accent_color"`     // lipgloss colour for highlight and focus
	Mouse          bool   `yaml:"mouse"`            // Enable mouse reporting
	AltScreen      bool   `yaml:"alt_screen"`       // Draw in the alternate screen buffer
	SubmitOnCommit bool   `yaml:"submit_on_commit"` // Single dropdown, single mode: first commit submits
	ShowHelp       bool   `yaml:"show_help"`        // Show the key help footer
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level     string `yaml:"level"`       // debug, info, warn, error
	File      string `yaml:"file"`        // Log file path (overrides default)
	MaxSizeMB int    `yaml:"max_size_mb"` // Rotate after this many megabytes
}

// StoreConfig holds settings for remembering selections between runs.
type StoreConfig struct {
	Remember bool   `yaml:"remember"` // Load and save the last selection per dropdown id
	Path     string `yaml:"path"`     // Database path (overrides default)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Width:          40,
			AccentColor:    "212",
			Mouse:          true,
			AltScreen:      false,
			SubmitOnCommit: false,
			ShowHelp:       true,
		},
		Log: LogConfig{
			Level:     "info",
			File:      "", // Use default from paths
			MaxSizeMB: 5,
		},
		Store: StoreConfig{
			Remember: false,
			Path:     "", // Use default from paths
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ReadFile loads the configuration stored in path without environment
// overrides. Use it when the result is saved back to disk.
func ReadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LogFile returns the configured log file, or the default under paths.
func (c *Config) LogFile(paths *Paths) string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return paths.LogFile()
}

// StorePath returns the configured database path, or the default under paths.
func (c *Config) StorePath(paths *Paths) string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return paths.DatabaseFile()
}

// Get retrieves a configuration value by dot-separated key.
// For example: "ui.width" or "store.remember"
func (c *Config) Get(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "ui":
		return c.getUIField(field)
	case "log":
		return c.getLogField(field)
	case "store":
		return c.getStoreField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "ui":
		return c.setUIField(field, value)
	case "log":
		return c.setLogField(field, value)
	case "store":
		return c.setStoreField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) getUIField(field string) (string, error) {
	switch field {
	case "width":
		return strconv.Itoa(c.UI.Width), nil
	case "accent_color":
		return c.UI.AccentColor, nil
	case "mouse":
		return strconv.FormatBool(c.UI.Mouse), nil
	case "alt_screen":
		return strconv.FormatBool(c.UI.AltScreen), nil
	case "submit_on_commit":
		return strconv.FormatBool(c.UI.SubmitOnCommit), nil
	case "show_help":
		return strconv.FormatBool(c.UI.ShowHelp), nil
	default:
		return "", fmt.Errorf("unknown field: ui.%s", field)
	}
}

func (c *Config) setUIField(field, value string) error {
	switch field {
	case "width":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for width: %w", err)
		}
		if v < MinWidth || v > MaxWidth {
			return fmt.Errorf("invalid width: must be between %d and %d", MinWidth, MaxWidth)
		}
		c.UI.Width = v
	case "accent_color":
		if !isValidColor(value) {
			return fmt.Errorf("invalid accent_color: %s (must be an ANSI number or #rrggbb)", value)
		}
		c.UI.AccentColor = value
	case "mouse", "alt_screen", "submit_on_commit", "show_help":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", field, err)
		}
		switch field {
		case "mouse":
			c.UI.Mouse = b
		case "alt_screen":
			c.UI.AltScreen = b
		case "submit_on_commit":
			c.UI.SubmitOnCommit = b
		case "show_help":
			c.UI.ShowHelp = b
		}
	default:
		return fmt.Errorf("unknown field: ui.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	case "max_size_mb":
		return strconv.Itoa(c.Log.MaxSizeMB), nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	case "max_size_mb":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_size_mb: %w", err)
		}
		if v < 1 {
			return errors.New("invalid max_size_mb: must be >= 1")
		}
		c.Log.MaxSizeMB = v
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

func (c *Config) getStoreField(field string) (string, error) {
	switch field {
	case "remember":
		return strconv.FormatBool(c.Store.Remember), nil
	case "path":
		return c.Store.Path, nil
	default:
		return "", fmt.Errorf("unknown field: store.%s", field)
	}
}

func (c *Config) setStoreField(field, value string) error {
	switch field {
	case "remember":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for remember: %w", err)
		}
		c.Store.Remember = b
	case "path":
		c.Store.Path = value
	default:
		return fmt.Errorf("unknown field: store.%s", field)
	}
	return nil
}

// Validate checks the configuration. Out-of-range widths are clamped rather
// than rejected.
func (c *Config) Validate() error {
	if c.UI.Width < MinWidth {
		c.UI.Width = MinWidth
	}
	if c.UI.Width > MaxWidth {
		c.UI.Width = MaxWidth
	}

	if !isValidColor(c.UI.AccentColor) {
		return fmt.Errorf("ui.accent_color must be an ANSI number or #rrggbb (got: %s)", c.UI.AccentColor)
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	if c.Log.MaxSizeMB < 1 {
		return errors.New("log.max_size_mb must be >= 1")
	}

	return nil
}

// Accent returns the accent colour as a lipgloss colour.
func (c *Config) Accent() lipgloss.Color {
	return lipgloss.Color(c.UI.AccentColor)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// isValidColor accepts the two forms lipgloss.Color understands without a
// colour profile: an ANSI palette index (0-255) or a #rrggbb hex string.
func isValidColor(s string) bool {
	if n, err := strconv.Atoi(s); err == nil {
		return n >= 0 && n <= 255
	}
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DROPDOWN_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("DROPDOWN_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("DROPDOWN_NO_MOUSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.UI.Mouse = false
		}
	}
}

// ListKeys returns all user-settable configuration keys.
func ListKeys() []string {
	return []string{
		"ui.width",
		"ui.accent_color",
		"ui.mouse",
		"ui.alt_screen",
		"ui.submit_on_commit",
		"ui.show_help",
		"log.level",
		"log.file",
		"log.max_size_mb",
		"store.remember",
		"store.path",
	}
}
