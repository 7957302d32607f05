package textfield

import (
	"unicode/utf8"

	"editcore/internal/text"
	"editcore/internal/transform"
)

// Semantics actions. Each reports whether it was handled.

// SetText replaces the whole text. With an open session it goes through
// the processor like an IME edit so that later IME commands see it.
func (f *Field) SetText(s string) bool {
	if !f.cfg.writeable() {
		return false
	}
	if f.Session() != nil {
		f.applyCommands([]text.EditCommand{
			text.DeleteAll{},
			text.CommitText{Text: s, NewCursorPosition: 1},
		}, false)
		return true
	}
	f.onValueChange(text.ValueOf(s))
	return true
}

// InsertTextAtCursor replaces the selection with s.
func (f *Field) InsertTextAtCursor(s string) bool {
	if !f.cfg.writeable() {
		return false
	}
	if f.Session() != nil {
		f.applyCommands([]text.EditCommand{
			text.FinishComposingText{},
			text.CommitText{Text: s, NewCursorPosition: 1},
		}, false)
		return true
	}
	v := f.value
	n := v.Len()
	sel := v.Selection
	out := v.TextBeforeSelection(n) + s + v.TextAfterSelection(n)
	f.onValueChange(text.NewValue(out, text.CursorAt(sel.Min()+utf8.RuneCountInString(s)), nil))
	return true
}

// SetSelection selects [start, end). Offsets are in displayed coordinates
// unless relativeToOriginal is set. A non-empty selection made in
// displayed coordinates enters selection mode.
func (f *Field) SetSelection(start, end int, relativeToOriginal bool) bool {
	if !relativeToOriginal {
		r := transform.MapRangeBack(text.NewRange(start, end), f.transformed.Mapping)
		start, end = r.Start, r.End
	}
	switch {
	case !f.cfg.Enabled:
		return false
	case start == f.value.Selection.Start && end == f.value.Selection.End:
		return false
	case min(start, end) >= 0 && max(start, end) <= f.value.Len():
		if relativeToOriginal || start == end {
			f.manager.ExitSelectionMode()
		} else {
			f.manager.EnterSelectionMode()
		}
		f.onValueChange(f.value.WithSelection(text.NewRange(start, end)))
		return true
	default:
		f.manager.ExitSelectionMode()
		return false
	}
}

// Copy copies the selection, leaving it in place.
func (f *Field) Copy() bool {
	if f.value.Selection.Collapsed() || f.cfg.isPassword() {
		return false
	}
	return f.manager.Copy(false)
}

// Cut copies and deletes the selection.
func (f *Field) Cut() bool {
	if !f.cfg.writeable() {
		return false
	}
	return f.manager.Cut()
}

// Paste replaces the selection with the clipboard text.
func (f *Field) Paste() bool {
	if !f.cfg.writeable() {
		return false
	}
	return f.manager.Paste()
}

// PerformImeAction runs the configured IME action. It always reports true
// so the platform never runs its own default as well.
func (f *Field) PerformImeAction() bool {
	f.actions.RunAction(f.cfg.ImeOptions.ResolvedAction())
	return true
}

// Click focuses the field or shows the keyboard. Disabled fields still
// handle it.
func (f *Field) Click() bool {
	f.requestFocusAndShowKeyboard()
	return true
}

// LongClick enters selection mode.
func (f *Field) LongClick() bool {
	f.manager.EnterSelectionMode()
	return true
}
