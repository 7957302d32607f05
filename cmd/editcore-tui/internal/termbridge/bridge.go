// Package termbridge connects text fields to a terminal. A terminal has no
// input method protocol of its own: composed text arrives already
// committed, so the bridge only forwards bracketed pastes and action keys
// to the open session and remembers what the field reported.
package termbridge

import (
	"log/slog"
	"strings"

	"editcore/internal/input"
	"editcore/internal/logging"
	"editcore/internal/text"
	"editcore/internal/textlayout"
)

// Bridge is a PlatformTextInputBridge for terminal hosts. It is not safe
// for concurrent use; the host drives it from its update loop.
type Bridge struct {
	logger *slog.Logger

	active   bool
	opts     input.ImeOptions
	value    text.TextFieldValue
	rect     textlayout.Rect
	hasRect  bool
	keyboard bool

	onEdit   input.EditCommandHandler
	onAction input.ImeActionHandler
}

var _ input.PlatformTextInputBridge = (*Bridge)(nil)

// New returns an idle bridge.
func New(logger *slog.Logger) *Bridge {
	return &Bridge{logger: logging.OrDiscard(logger).With("bridge", "terminal")}
}

func (b *Bridge) StartInput(value text.TextFieldValue, opts input.ImeOptions, onEditCommand input.EditCommandHandler, onImeAction input.ImeActionHandler) error {
	b.active = true
	b.opts = opts
	b.value = value
	b.hasRect = false
	b.onEdit = onEditCommand
	b.onAction = onImeAction
	b.logger.Debug("input started", "single_line", opts.SingleLine, "action", opts.ResolvedAction())
	return nil
}

func (b *Bridge) StopInput() {
	if !b.active {
		return
	}
	b.active = false
	b.keyboard = false
	b.hasRect = false
	b.onEdit = nil
	b.onAction = nil
	b.logger.Debug("input stopped")
}

func (b *Bridge) UpdateState(_, newValue text.TextFieldValue) {
	b.value = newValue
}

func (b *Bridge) NotifyFocusedRect(rect textlayout.Rect) {
	b.rect = rect
	b.hasRect = true
}

// ShowSoftwareKeyboard records the request. Terminals have no software
// keyboard; the host shows the state in its status line.
func (b *Bridge) ShowSoftwareKeyboard() { b.keyboard = b.active }

func (b *Bridge) HideSoftwareKeyboard() { b.keyboard = false }

// Active reports whether a session is open.
func (b *Bridge) Active() bool { return b.active }

// Options returns the options of the open session.
func (b *Bridge) Options() input.ImeOptions { return b.opts }

// Value returns the last value the field reported.
func (b *Bridge) Value() text.TextFieldValue { return b.value }

// FocusedRect returns the last focused rect, in field coordinates.
func (b *Bridge) FocusedRect() (textlayout.Rect, bool) { return b.rect, b.hasRect }

// KeyboardShown reports whether the field asked for a keyboard.
func (b *Bridge) KeyboardShown() bool { return b.keyboard }

// Paste commits s to the open session. Line breaks are normalized, and
// removed for single-line sessions.
func (b *Bridge) Paste(s string) bool {
	if !b.active || b.onEdit == nil || s == "" {
		return false
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.opts.SingleLine {
		s = strings.ReplaceAll(s, "\n", " ")
	}
	b.onEdit([]text.EditCommand{text.CommitText{Text: s, NewCursorPosition: 1}})
	return true
}

// PerformAction sends an action key press to the open session.
func (b *Bridge) PerformAction(a input.ImeAction) bool {
	if !b.active || b.onAction == nil {
		return false
	}
	b.onAction(a)
	return true
}
