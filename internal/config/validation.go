package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrInvalidConfig matches every ValidationErrors with errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidConfig
}

// ValidateConfig validates c and returns the error-level findings as
// ValidationErrors, or nil. Warnings are available from Check.
func ValidateConfig(c *Config) error {
	if errs := Check(c).Errors(); len(errs) > 0 {
		return errs
	}
	return nil
}

// Check returns every finding for c, warnings included.
func Check(c *Config) ValidationErrors {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateLogging(&c.Logging)...)
	errs = append(errs, validateInput(&c.Input)...)
	errs = append(errs, validatePointer(&c.Pointer)...)
	errs = append(errs, validateEditing(&c.Editing)...)
	errs = append(errs, validateStore(&c.Store)...)

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}

	switch l.Format {
	case "text", "json":
		// Valid formats
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format: %s (valid: text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stdout", "stderr", "discard":
	case "file", "both":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: fmt.Sprintf("file path is required when output is '%s'", l.Output),
			})
		}
	case "":
		errs = append(errs, *RequiredFieldError("logging.output"))
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid log output: %s (valid: stdout, stderr, file, both, discard)", l.Output),
		})
	}

	if l.MaxSizeMB < 1 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Message: "max size must be at least 1 MB",
		})
	}

	if l.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Message: "max backups cannot be negative",
		})
	}

	if l.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_age_days",
			Message: "max age cannot be negative",
		})
	}

	return errs
}

func validateInput(i *InputConfig) ValidationErrors {
	var errs ValidationErrors

	switch i.Bridge {
	case BridgeAuto, BridgeTerminal, BridgeIBus, BridgeNone:
	default:
		errs = append(errs, ValidationError{
			Field:   "input.bridge",
			Message: fmt.Sprintf("invalid bridge: %s (valid: auto, terminal, ibus, none)", i.Bridge),
		})
	}

	if i.IBusAddress != "" {
		if !strings.Contains(i.IBusAddress, ":") {
			errs = append(errs, ValidationError{
				Field:   "input.ibus_address",
				Message: "address must be a D-Bus address such as unix:path=/run/ibus",
			})
		} else if i.Bridge == BridgeTerminal || i.Bridge == BridgeNone {
			errs = append(errs, ValidationError{
				Field:   "input.ibus_address",
				Message: fmt.Sprintf("ignored with bridge %q", i.Bridge),
			})
		}
	}

	return errs
}

func validatePointer(p *PointerConfig) ValidationErrors {
	var errs ValidationErrors

	if p.LongPressTimeoutMs < 100 || p.LongPressTimeoutMs > 5000 {
		errs = append(errs, *RangeError("pointer.long_press_timeout_ms", 100, 5000))
	}

	if p.TouchSlop <= 0 || p.TouchSlop > 100 {
		errs = append(errs, ValidationError{
			Field:   "pointer.touch_slop",
			Message: "touch slop must be greater than 0 and at most 100",
		})
	}

	return errs
}

func validateEditing(e *EditingConfig) ValidationErrors {
	var errs ValidationErrors

	if e.UndoSnapshotIntervalMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "editing.undo_snapshot_interval_ms",
			Message: "interval cannot be negative",
		})
	}

	if e.UndoMaxStoredChars < 1 {
		errs = append(errs, ValidationError{
			Field:   "editing.undo_max_stored_chars",
			Message: "limit must be at least 1",
		})
	}

	if e.PasswordMask != "" && utf8.RuneCountInString(e.PasswordMask) != 1 {
		errs = append(errs, ValidationError{
			Field:   "editing.password_mask",
			Message: "mask must be a single character",
		})
	}

	return errs
}

func validateStore(s *StoreConfig) ValidationErrors {
	var errs ValidationErrors

	if !s.Enabled {
		return errs
	}

	if s.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "store.path",
			Message: "path is required when the store is enabled",
		})
	} else if !filepath.IsAbs(expandPath(s.Path)) {
		errs = append(errs, ValidationError{
			Field:   "store.path",
			Message: "relative path resolves against the working directory",
		})
	}

	return errs
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// IsWarning returns true if this is a non-fatal validation issue.
func (e *ValidationError) IsWarning() bool {
	switch e.Field {
	case "input.ibus_address":
		return strings.HasPrefix(e.Message, "ignored")
	case "store.path":
		return strings.HasPrefix(e.Message, "relative")
	}
	return false
}

// Warnings returns only warning-level validation errors.
func (e ValidationErrors) Warnings() ValidationErrors {
	var warnings ValidationErrors
	for _, err := range e {
		if err.IsWarning() {
			warnings = append(warnings, err)
		}
	}
	return warnings
}

// Errors returns only error-level validation errors.
func (e ValidationErrors) Errors() ValidationErrors {
	var errs ValidationErrors
	for _, err := range e {
		if !err.IsWarning() {
			errs = append(errs, err)
		}
	}
	return errs
}

// HasErrors returns true if there are any non-warning errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e.Errors()) > 0
}

// RequiredFieldError creates a validation error for a required field.
func RequiredFieldError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: "required field is missing",
	}
}

// RangeError creates a validation error for an out-of-range value.
func RangeError(field string, min, max any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("value must be between %v and %v", min, max),
	}
}
