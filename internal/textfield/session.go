package textfield

import (
	"context"
	"errors"

	"editcore/internal/input"
	"editcore/internal/selection"
	"editcore/internal/task"
	"editcore/internal/text"
	"editcore/internal/textlayout"
)

// Attach binds the field's background tasks to ctx. Tasks launched before
// Attach, or after Detach, are not run.
func (f *Field) Attach(ctx context.Context) {
	if f.scope != nil && !f.scope.Canceled() {
		return
	}
	f.scope = task.NewScope(ctx, f.logger)
}

// Detach cancels the field's tasks, waits for them, and closes the input
// session. No callback fires after Detach returns.
func (f *Field) Detach() {
	if f.scope != nil {
		f.scope.Close()
	}
	f.endSession()
}

func (f *Field) launch(name string, fn func(ctx context.Context) error) bool {
	if f.scope == nil {
		return false
	}
	return f.scope.Launch(name, fn)
}

// OnFocusChanged is called by the focus owner whenever the field gains or
// loses focus.
func (f *Field) OnFocusChanged(focused bool) {
	if f.hasFocus.Get() == focused {
		return
	}
	f.hasFocus.Set(focused)

	if focused && f.cfg.writeable() {
		f.startSession()
	} else {
		f.endSession()
	}

	if focused {
		f.bringSelectionEndIntoView()
	} else {
		f.manager.Deselect()
	}
}

// SetWriteable changes the enabled and read-only flags. While focused the
// session is closed when the field stops being writeable and reopened when
// it becomes writeable again.
func (f *Field) SetWriteable(enabled, readOnly bool) {
	if f.cfg.Enabled == enabled && f.cfg.ReadOnly == readOnly {
		return
	}
	f.cfg.Enabled, f.cfg.ReadOnly = enabled, readOnly
	f.manager.Update(f.value, f.transformed, f.cfg.writeable(), f.cfg.isPassword())

	if f.cfg.writeable() && f.hasFocus.Get() {
		f.startSession()
	} else {
		f.endSession()
	}
}

// SetImeOptions changes the IME options, restarting an open session so
// the platform sees them.
func (f *Field) SetImeOptions(opts input.ImeOptions) {
	if f.cfg.SingleLine {
		opts.SingleLine = true
	}
	f.cfg.ImeOptions = opts
	if f.Session() != nil {
		f.endSession()
		f.startSession()
	}
}

func (f *Field) startSession() {
	if f.Session() != nil {
		return
	}
	session, err := f.deps.InputService.StartInput(f.processor.Value(), f.cfg.ImeOptions, f.onEditCommand, f.onImeAction)
	if err != nil {
		if errors.Is(err, input.ErrSessionActive) {
			f.logger.Warn("input session not opened, another session is active")
		} else {
			f.logger.Warn("input session not opened", "error", err)
		}
		return
	}
	if session == nil {
		return
	}
	f.session = session
	f.notifyFocusedRect()
	f.logger.Debug("input session started", "ime_action", f.cfg.ImeOptions.ResolvedAction())
}

func (f *Field) endSession() {
	if f.session == nil {
		return
	}
	f.session.Close()
	f.session = nil
	f.logger.Debug("input session ended")
	// Composition does not survive the session.
	f.processor.Apply([]text.EditCommand{text.FinishComposingText{}})
	if v := f.processor.Value(); !v.Equal(f.value) {
		f.onValueChange(v)
	}
}

// selectionEndRect returns the box of the character at the selection end,
// in displayed coordinates.
func (f *Field) selectionEndRect(layout textlayout.Result) textlayout.Rect {
	end := f.transformed.Mapping.OriginalToTransformed(f.value.Selection.Max())
	n := len([]rune(f.transformed.Text))
	switch {
	case end < n:
		return layout.BoundingBox(end)
	case end > 0:
		return layout.BoundingBox(end - 1)
	default:
		return layout.CursorRect(0)
	}
}

// notifyFocusedRect tells the IME where the caret is.
func (f *Field) notifyFocusedRect() {
	layout := f.currentLayout()
	if layout == nil || !f.hasFocus.Get() || f.Session() == nil {
		return
	}
	f.session.NotifyFocusedRect(f.selectionEndRect(layout))
}

func (f *Field) bringSelectionEndIntoView() {
	layout := f.currentLayout()
	if layout == nil || f.deps.BringIntoView == nil {
		return
	}
	rect := f.selectionEndRect(layout)
	requester := f.deps.BringIntoView
	f.launch("bring-into-view", func(ctx context.Context) error {
		return requester.BringIntoView(ctx, rect)
	})
}

// requestFocusAndShowKeyboard focuses the field, or shows the keyboard if
// it already has focus.
func (f *Field) requestFocusAndShowKeyboard() {
	if !f.hasFocus.Get() {
		if f.requestFocus != nil {
			f.requestFocus()
		}
		return
	}
	if f.cfg.writeable() {
		f.actions.Keyboard.ShowSoftwareKeyboard()
	}
}

var _ selection.State = fieldState{}

var _ input.KeyboardController = sessionKeyboard{}
