package textfield

import (
	"gioui.org/f32"
	"gioui.org/io/key"

	"editcore/internal/input"
	"editcore/internal/selection"
	"editcore/internal/text"
)

// KeyEvent is a key press delivered to the focused field.
type KeyEvent struct {
	Name      key.Name
	Modifiers key.Modifiers

	// Text is what the key types, if anything.
	Text string
}

// HandleKey applies a hardware key press and reports whether the field
// consumed it. Only a focused, enabled field handles keys; read-only
// fields accept navigation and copy but no edits.
func (f *Field) HandleKey(e KeyEvent) bool {
	if !f.cfg.Enabled || !f.hasFocus.Get() {
		return false
	}
	shortcut := e.Modifiers.Contain(key.ModShortcut)
	shift := e.Modifiers.Contain(key.ModShift)

	if shortcut {
		switch e.Name {
		case "A":
			f.manager.SelectAll()
			return true
		case "C":
			f.Copy()
			return true
		case "X":
			f.Cut()
			return true
		case "V":
			f.Paste()
			return true
		case "Z":
			return f.undoRedo(shift)
		case "Y":
			return f.undoRedo(true)
		case key.NameHome:
			return f.moveTo(0, shift)
		case key.NameEnd:
			return f.moveTo(f.value.Len(), shift)
		}
	}

	v := f.processor.Value()
	sel := v.Selection
	switch e.Name {
	case key.NameLeftArrow:
		if !shift && !sel.Collapsed() {
			return f.moveTo(sel.Min(), false)
		}
		return f.moveTo(text.PrevGrapheme(v.Text, sel.End), shift)
	case key.NameRightArrow:
		if !shift && !sel.Collapsed() {
			return f.moveTo(sel.Max(), false)
		}
		return f.moveTo(text.NextGrapheme(v.Text, sel.End), shift)
	case key.NameUpArrow:
		return f.moveTo(f.verticalTarget(sel.End, -1), shift)
	case key.NameDownArrow:
		return f.moveTo(f.verticalTarget(sel.End, 1), shift)
	case key.NameHome:
		return f.moveTo(f.lineEdge(sel.End, false), shift)
	case key.NameEnd:
		return f.moveTo(f.lineEdge(sel.End, true), shift)
	case key.NameDeleteBackward:
		return f.keyEdit(text.Backspace{})
	case key.NameDeleteForward:
		if !sel.Collapsed() || v.Composition != nil {
			return f.keyEdit(text.CommitText{Text: "", NewCursorPosition: 1})
		}
		n := text.NextGrapheme(v.Text, sel.End) - sel.End
		return f.keyEdit(text.DeleteSurroundingTextInCodePoints{After: n})
	case key.NameReturn, key.NameEnter:
		if f.cfg.SingleLine {
			return f.PerformImeAction()
		}
		return f.keyEdit(text.CommitText{Text: "\n", NewCursorPosition: 1})
	case key.NameTab:
		if f.deps.Focus == nil {
			return false
		}
		dir := input.FocusNext
		if shift {
			dir = input.FocusPrevious
		}
		return f.deps.Focus.MoveFocus(dir)
	case key.NameEscape:
		if f.handleState.Get() == selection.Selection {
			f.manager.Deselect()
			return true
		}
		return false
	}

	if e.Text != "" && !shortcut && !e.Modifiers.Contain(key.ModAlt) {
		return f.keyEdit(text.CommitText{Text: e.Text, NewCursorPosition: 1})
	}
	return false
}

// keyEdit applies cmds typed on a hardware keyboard.
func (f *Field) keyEdit(cmds ...text.EditCommand) bool {
	if !f.cfg.writeable() {
		return false
	}
	f.undo.SnapshotIfNeeded(f.processor.Value())
	f.applyCommands(cmds, false)
	return true
}

// moveTo moves the cursor, or with extend the selection end, to the
// original offset to.
func (f *Field) moveTo(to int, extend bool) bool {
	v := f.processor.Value()
	to = max(0, min(to, v.Len()))

	var cmds []text.EditCommand
	if v.Composition != nil {
		cmds = append(cmds, text.FinishComposingText{})
	}
	start := to
	if extend {
		start = v.Selection.Start
	}
	cmds = append(cmds, text.SetSelection{Start: start, End: to})
	if start == to && f.handleState.Get() == selection.Selection {
		f.manager.ExitSelectionMode()
	}
	f.applyCommands(cmds, false)
	return true
}

// verticalTarget returns the original offset one line above (dir -1) or
// below (dir 1) offset, keeping the horizontal position. Without a layout
// it goes to the start or end of the text.
func (f *Field) verticalTarget(offset, dir int) int {
	layout := f.currentLayout()
	if layout == nil {
		if dir < 0 {
			return 0
		}
		return f.value.Len()
	}
	m := f.transformed.Mapping
	t := m.OriginalToTransformed(offset)
	line := layout.LineForOffset(t)
	switch {
	case dir < 0 && line == 0:
		return 0
	case dir > 0 && line >= layout.LineCount()-1:
		return f.value.Len()
	}
	r := layout.CursorRect(t)
	h := r.Max.Y - r.Min.Y
	p := f32.Pt(r.Min.X, r.Min.Y+h/2+float32(dir)*h)
	return m.TransformedToOriginal(layout.OffsetForPosition(p))
}

// lineEdge returns the original offset of the start or end of the line
// holding offset.
func (f *Field) lineEdge(offset int, end bool) int {
	layout := f.currentLayout()
	if layout == nil {
		if end {
			return f.value.Len()
		}
		return 0
	}
	m := f.transformed.Mapping
	r := layout.CursorRect(m.OriginalToTransformed(offset))
	x := float32(0)
	if end {
		x = layout.Size().X
	}
	p := f32.Pt(x, (r.Min.Y+r.Max.Y)/2)
	return m.TransformedToOriginal(layout.OffsetForPosition(p))
}

// undoRedo steps the undo history and publishes the result.
func (f *Field) undoRedo(redo bool) bool {
	if !f.cfg.writeable() {
		return false
	}
	f.undo.MakeSnapshot(f.processor.Value())
	var (
		v  text.TextFieldValue
		ok bool
	)
	if redo {
		v, ok = f.undo.Redo()
	} else {
		v, ok = f.undo.Undo()
	}
	if ok {
		f.onValueChange(v)
	}
	return true
}
