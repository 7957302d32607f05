// Package config handles configuration loading, validation, and management for editcore hosts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"editcore/internal/logging"
	"editcore/internal/textfield"
)

// Version is the current configuration schema version.
const Version = 2

// Bridge names accepted by input.bridge.
const (
	BridgeAuto     = "auto"
	BridgeTerminal = "terminal"
	BridgeIBus     = "ibus"
	BridgeNone     = "none"
)

// Config holds the complete host configuration.
type Config struct {
	// Version is the configuration schema version for migrations.
	Version int `toml:"version" json:"version" yaml:"version"`

	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
	Input   InputConfig   `toml:"input" json:"input" yaml:"input"`
	Pointer PointerConfig `toml:"pointer" json:"pointer" yaml:"pointer"`
	Editing EditingConfig `toml:"editing" json:"editing" yaml:"editing"`
	Store   StoreConfig   `toml:"store" json:"store" yaml:"store"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log output: "stdout", "stderr", "file", "both" or "discard".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the path to the log file (when Output is "file" or "both").
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the maximum log file size before rotation.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of old log files to keep.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`

	// MaxAgeDays is the maximum age of log files in days.
	MaxAgeDays int `toml:"max_age_days" json:"max_age_days" yaml:"max_age_days"`
}

// InputConfig selects the platform text input bridge.
type InputConfig struct {
	// Bridge is "auto", "terminal", "ibus" or "none". Auto tries IBus and
	// falls back to the terminal.
	Bridge string `toml:"bridge" json:"bridge" yaml:"bridge"`

	// UseWindowFocus hides cursors and toolbars while the window is
	// unfocused.
	UseWindowFocus bool `toml:"use_window_focus" json:"use_window_focus" yaml:"use_window_focus"`

	// IBusAddress overrides the IBus bus address. Empty means discover it
	// from IBUS_ADDRESS or the address file.
	IBusAddress string `toml:"ibus_address" json:"ibus_address" yaml:"ibus_address"`
}

// PointerConfig holds gesture thresholds.
type PointerConfig struct {
	LongPressTimeoutMs int     `toml:"long_press_timeout_ms" json:"long_press_timeout_ms" yaml:"long_press_timeout_ms"`
	TouchSlop          float32 `toml:"touch_slop" json:"touch_slop" yaml:"touch_slop"`
}

// EditingConfig holds undo and display settings.
type EditingConfig struct {
	UndoSnapshotIntervalMs int `toml:"undo_snapshot_interval_ms" json:"undo_snapshot_interval_ms" yaml:"undo_snapshot_interval_ms"`
	UndoMaxStoredChars     int `toml:"undo_max_stored_chars" json:"undo_max_stored_chars" yaml:"undo_max_stored_chars"`

	// PasswordMask is the single character shown for each character of a
	// password field.
	PasswordMask string `toml:"password_mask" json:"password_mask" yaml:"password_mask"`
}

// StoreConfig holds saved field state configuration.
type StoreConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dir := DataDir()

	return &Config{
		Version: Version,
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "file",
			FilePath:   logging.DefaultLogPath(),
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Input: InputConfig{
			Bridge:         BridgeAuto,
			UseWindowFocus: true,
		},
		Pointer: PointerConfig{
			LongPressTimeoutMs: int(textfield.DefaultLongPressTimeout / time.Millisecond),
			TouchSlop:          textfield.DefaultTouchSlop,
		},
		Editing: EditingConfig{
			UndoSnapshotIntervalMs: int(textfield.DefaultUndoSnapshotInterval / time.Millisecond),
			UndoMaxStoredChars:     textfield.DefaultUndoMaxStoredChars,
			PasswordMask:           "•",
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "fields.db"),
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads configuration from the specified path.
// If the file doesn't exist, returns default configuration.
// Supports TOML, JSON, and YAML formats based on file extension.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates the directories the configured files live in.
func (c *Config) EnsureDirectories() error {
	var dirs []string
	if c.Store.Enabled {
		dirs = append(dirs, filepath.Dir(c.Store.Path))
	}
	if c.Logging.Output == "file" || c.Logging.Output == "both" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with EDITCORE_ and use underscores.
// Values that do not parse are ignored.
func (c *Config) ApplyEnvOverrides() {
	// Logging overrides
	if v := os.Getenv("EDITCORE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("EDITCORE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("EDITCORE_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}

	// Input overrides
	if v := os.Getenv("EDITCORE_INPUT_BRIDGE"); v != "" {
		c.Input.Bridge = strings.ToLower(v)
	}
	if v := os.Getenv("EDITCORE_IBUS_ADDRESS"); v != "" {
		c.Input.IBusAddress = v
	}
	if v, err := strconv.ParseBool(os.Getenv("EDITCORE_USE_WINDOW_FOCUS")); err == nil {
		c.Input.UseWindowFocus = v
	}

	// Pointer overrides
	if v, err := strconv.Atoi(os.Getenv("EDITCORE_LONG_PRESS_TIMEOUT_MS")); err == nil {
		c.Pointer.LongPressTimeoutMs = v
	}

	// Store overrides
	if v := os.Getenv("EDITCORE_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v, err := strconv.ParseBool(os.Getenv("EDITCORE_STORE_ENABLED")); err == nil {
		c.Store.Enabled = v
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// LoggerConfig converts the logging section for logging.New. It assumes
// the configuration has been validated.
func (c *Config) LoggerConfig() *logging.Config {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Logging.Level); err == nil {
		lc.Level = level
	}
	if format, err := logging.ParseFormat(c.Logging.Format); err == nil {
		lc.Format = format
	}
	lc.Output = c.Logging.Output
	lc.FilePath = c.Logging.FilePath
	lc.MaxSize = int64(c.Logging.MaxSizeMB)
	lc.MaxBackups = c.Logging.MaxBackups
	lc.MaxAge = c.Logging.MaxAgeDays
	return lc
}

// ApplyToField copies the pointer, editing and input settings onto a field
// configuration.
func (c *Config) ApplyToField(fc textfield.Config) textfield.Config {
	fc.UseWindowFocus = c.Input.UseWindowFocus
	fc.LongPressTimeout = time.Duration(c.Pointer.LongPressTimeoutMs) * time.Millisecond
	fc.TouchSlop = c.Pointer.TouchSlop
	fc.UndoSnapshotInterval = time.Duration(c.Editing.UndoSnapshotIntervalMs) * time.Millisecond
	fc.UndoMaxStoredChars = c.Editing.UndoMaxStoredChars
	return fc
}

// PasswordMask returns the mask as a rune, or zero when unset.
func (c *Config) PasswordMask() rune {
	for _, r := range c.Editing.PasswordMask {
		return r
	}
	return 0
}
