package textfield

import (
	"fmt"
	"time"

	"editcore/internal/input"
	"editcore/internal/transform"
)

// ScrollOrientation is the direction a field scrolls when its text
// overflows.
type ScrollOrientation int

const (
	Vertical ScrollOrientation = iota
	Horizontal
)

func (o ScrollOrientation) String() string {
	if o == Horizontal {
		return "Horizontal"
	}
	return "Vertical"
}

// Default gesture and undo settings.
const (
	DefaultLongPressTimeout     = 500 * time.Millisecond
	DefaultTouchSlop            = 8
	DefaultUndoSnapshotInterval = 5 * time.Second
	DefaultUndoMaxStoredChars   = 100_000
)

// Config describes a field. It is fixed at construction except for the
// parts changed through SetWriteable and SetImeOptions.
type Config struct {
	Enabled    bool
	ReadOnly   bool
	SingleLine bool

	// MaxLines of 0 means unbounded. SingleLine forces it to 1.
	MaxLines int
	MinLines int
	SoftWrap bool

	ScrollOrientation    ScrollOrientation
	ImeOptions           input.ImeOptions
	KeyboardActions      input.KeyboardActions
	VisualTransformation transform.VisualTransformation

	// UseWindowFocus hides the cursor and toolbar while the window is not
	// focused.
	UseWindowFocus bool

	LongPressTimeout time.Duration
	TouchSlop        float32

	UndoSnapshotInterval time.Duration
	UndoMaxStoredChars   int
}

// DefaultConfig returns an enabled, editable, multi-line field config.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		MinLines:             1,
		SoftWrap:             true,
		ImeOptions:           input.DefaultImeOptions(),
		VisualTransformation: transform.None,
		LongPressTimeout:     DefaultLongPressTimeout,
		TouchSlop:            DefaultTouchSlop,
		UndoSnapshotInterval: DefaultUndoSnapshotInterval,
		UndoMaxStoredChars:   DefaultUndoMaxStoredChars,
	}
}

// ConfigError reports a field configuration that can never work. It is a
// programming error and is returned from New rather than corrected.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("textfield: invalid %s: %s", e.Field, e.Message)
}

// normalize fills zero values with defaults and checks the combination.
func (c Config) normalize() (Config, error) {
	if c.MinLines < 0 {
		return c, &ConfigError{Field: "MinLines", Message: fmt.Sprintf("must be non-negative, got %d", c.MinLines)}
	}
	if c.MaxLines < 0 {
		return c, &ConfigError{Field: "MaxLines", Message: fmt.Sprintf("must be non-negative, got %d", c.MaxLines)}
	}
	if c.MinLines == 0 {
		c.MinLines = 1
	}
	if c.SingleLine {
		c.MaxLines, c.MinLines = 1, 1
	}
	if c.MaxLines > 0 && c.MinLines > c.MaxLines {
		return c, &ConfigError{
			Field:   "MinLines",
			Message: fmt.Sprintf("minLines (%d) must be less than or equal to maxLines (%d)", c.MinLines, c.MaxLines),
		}
	}
	if c.ScrollOrientation == Horizontal && (!c.SingleLine || c.SoftWrap) {
		return c, &ConfigError{
			Field:   "ScrollOrientation",
			Message: "only single-line, non-wrap text fields can scroll horizontally",
		}
	}

	if c.VisualTransformation == nil {
		c.VisualTransformation = transform.None
	}
	if c.LongPressTimeout <= 0 {
		c.LongPressTimeout = DefaultLongPressTimeout
	}
	if c.TouchSlop <= 0 {
		c.TouchSlop = DefaultTouchSlop
	}
	if c.UndoSnapshotInterval <= 0 {
		c.UndoSnapshotInterval = DefaultUndoSnapshotInterval
	}
	if c.UndoMaxStoredChars <= 0 {
		c.UndoMaxStoredChars = DefaultUndoMaxStoredChars
	}
	if c.SingleLine {
		c.ImeOptions.SingleLine = true
	}
	return c, nil
}

func (c Config) writeable() bool { return c.Enabled && !c.ReadOnly }

func (c Config) isPassword() bool {
	switch c.VisualTransformation.(type) {
	case transform.Password, *transform.Password:
		return true
	}
	return false
}
