package selection

import (
	"log/slog"
	"unicode/utf8"

	"editcore/internal/logging"
	"editcore/internal/text"
	"editcore/internal/textlayout"
	"editcore/internal/transform"
)

// State is the field-owned state the manager reads and writes.
type State interface {
	HandleState() HandleState
	SetHandleState(s HandleState)
	ShowFloatingToolbar() bool
	SetShowFloatingToolbar(show bool)
	HasFocus() bool
	RequestFocus()

	// OnValueChange publishes a new value to the host.
	OnValueChange(v text.TextFieldValue)

	// BeforeClipboardEdit is called before a cut or paste replaces text.
	BeforeClipboardEdit()

	// LayoutResult returns the current layout, or nil while none exists or
	// the last one is stale.
	LayoutResult() textlayout.Result
}

// Manager runs the selection state machine of one field. It must only be
// used from the UI goroutine.
type Manager struct {
	state     State
	clipboard Clipboard
	toolbar   TextToolbar
	logger    *slog.Logger

	value       text.TextFieldValue
	transformed transform.TransformedText
	editable    bool
	password    bool

	dragging       bool
	dragAnchor     text.TextRange
	draggingHandle *Handle
}

// NewManager returns a manager bound to state. Clipboard and toolbar may be
// nil.
func NewManager(state State, clipboard Clipboard, toolbar TextToolbar, logger *slog.Logger) *Manager {
	return &Manager{
		state:       state,
		clipboard:   clipboard,
		toolbar:     toolbar,
		logger:      logging.OrDiscard(logger),
		transformed: transform.TransformedText{Mapping: transform.Identity},
		editable:    true,
	}
}

// Update records the value and displayed text of the latest recomposition.
func (m *Manager) Update(value text.TextFieldValue, transformed transform.TransformedText, editable, password bool) {
	if transformed.Mapping == nil {
		transformed.Mapping = transform.Identity
	}
	m.value = value
	m.transformed = transformed
	m.editable = editable
	m.password = password
}

// Value returns the value seen by the last Update or manager edit.
func (m *Manager) Value() text.TextFieldValue { return m.value }

// DraggingHandle returns the handle being dragged, if any.
func (m *Manager) DraggingHandle() (Handle, bool) {
	if m.draggingHandle == nil {
		return 0, false
	}
	return *m.draggingHandle, true
}

func (m *Manager) setHandleState(s HandleState) {
	old := m.state.HandleState()
	if old == s {
		return
	}
	m.state.SetHandleState(s)
	if old == Selection {
		m.HideSelectionToolbar()
	}
	m.logger.Debug("handle state changed", "from", old, "to", s)
}

func (m *Manager) publish(v text.TextFieldValue) {
	if v.Equal(m.value) {
		return
	}
	m.value = v
	m.state.OnValueChange(v)
}

func (m *Manager) toOriginal(transformed int) int {
	o := m.transformed.Mapping.TransformedToOriginal(transformed)
	return max(0, min(o, m.value.Len()))
}

// EnterSelectionMode shows the selection handles and the toolbar,
// requesting focus first if the field does not have it.
func (m *Manager) EnterSelectionMode() {
	if !m.state.HasFocus() {
		m.state.RequestFocus()
	}
	m.setHandleState(Selection)
	m.state.SetShowFloatingToolbar(true)
	m.ShowSelectionToolbar()
}

// ExitSelectionMode hides handles and toolbar without changing the value.
func (m *Manager) ExitSelectionMode() {
	m.leave(None)
}

// leave moves to s with the toolbar hidden. The host may already have
// moved the state when an edit changed the text, so the toolbar is hidden
// whatever the previous state was.
func (m *Manager) leave(s HandleState) {
	m.state.SetShowFloatingToolbar(false)
	m.setHandleState(s)
	m.HideSelectionToolbar()
}

// Deselect collapses the selection to its end and exits selection mode.
func (m *Manager) Deselect() {
	if !m.value.Selection.Collapsed() {
		m.publish(m.value.WithSelection(text.CursorAt(m.value.Selection.Max())))
	}
	m.leave(None)
}

// SelectAll selects the whole text and enters selection mode.
func (m *Manager) SelectAll() {
	m.publish(m.value.WithSelection(text.NewRange(0, m.value.Len())))
	m.EnterSelectionMode()
}

// Select sets the selection to sel, in original coordinates, as a mouse
// drag does: a non-empty range enters Selection without the toolbar.
func (m *Manager) Select(sel text.TextRange) {
	m.publish(m.value.WithSelection(sel))
	if sel.Collapsed() {
		m.leave(None)
	} else {
		m.setHandleState(Selection)
	}
}

// Copy writes the selected text to the clipboard. With cancelSelection the
// selection collapses to its end afterwards. It reports false when nothing
// was copied.
func (m *Manager) Copy(cancelSelection bool) bool {
	if m.value.Selection.Collapsed() || m.password || m.clipboard == nil {
		return false
	}
	if err := m.clipboard.WriteText(m.value.SelectedText()); err != nil {
		m.logger.Warn("copy failed", "error", err)
		return false
	}
	if cancelSelection {
		m.publish(m.value.WithSelection(text.CursorAt(m.value.Selection.Max())))
		m.leave(None)
	}
	return true
}

// Cut copies the selection to the clipboard and deletes it.
func (m *Manager) Cut() bool {
	if !m.editable || m.value.Selection.Collapsed() || m.password || m.clipboard == nil {
		return false
	}
	if err := m.clipboard.WriteText(m.value.SelectedText()); err != nil {
		m.logger.Warn("cut failed", "error", err)
		return false
	}
	sel := m.value.Selection
	n := m.value.Len()
	rest := m.value.TextBeforeSelection(n) + m.value.TextAfterSelection(n)
	m.state.BeforeClipboardEdit()
	m.publish(text.NewValue(rest, text.CursorAt(sel.Min()), nil))
	m.leave(None)
	return true
}

// Paste replaces the selection with the clipboard text.
func (m *Manager) Paste() bool {
	if !m.editable || m.clipboard == nil {
		return false
	}
	clip, err := m.clipboard.ReadText()
	if err != nil {
		m.logger.Warn("paste failed", "error", err)
		return false
	}
	if clip == "" {
		return false
	}
	sel := m.value.Selection
	n := m.value.Len()
	s := m.value.TextBeforeSelection(n) + clip + m.value.TextAfterSelection(n)
	m.state.BeforeClipboardEdit()
	m.publish(text.NewValue(s, text.CursorAt(sel.Min()+utf8.RuneCountInString(clip)), nil))
	m.leave(None)
	return true
}

// OnTap places the cursor at offset, given in displayed coordinates. A
// touch tap shows the cursor handle unless the text is empty.
func (m *Manager) OnTap(offset int, touch bool) {
	if !m.state.HasFocus() {
		m.state.RequestFocus()
	}
	m.publish(m.value.WithSelection(text.CursorAt(m.toOriginal(offset))))
	if touch && m.value.Len() > 0 {
		m.leave(Cursor)
	} else {
		m.leave(None)
	}
}

// OnLongPress selects the word at offset, given in displayed coordinates,
// and enters selection mode. A following OnDrag extends the selection.
func (m *Manager) OnLongPress(offset int) {
	if !m.state.HasFocus() {
		m.state.RequestFocus()
	}
	word := wordAt(m.value.Text, m.toOriginal(offset))
	if m.password {
		// Word boundaries would reveal the hidden text.
		word = text.CursorAt(m.toOriginal(offset))
	}
	m.publish(m.value.WithSelection(word))
	m.dragging = true
	m.dragAnchor = word
	m.setHandleState(Selection)
	// The toolbar waits for the drag to end.
	m.state.SetShowFloatingToolbar(false)
	m.HideSelectionToolbar()
}

// OnDrag extends the selection started by OnLongPress to offset. It
// reports whether a long press drag is in progress.
func (m *Manager) OnDrag(offset int) bool {
	if !m.dragging {
		return false
	}
	o := m.toOriginal(offset)
	var sel text.TextRange
	if o >= m.dragAnchor.Min() {
		sel = text.NewRange(m.dragAnchor.Min(), max(o, m.dragAnchor.Max()))
	} else {
		sel = text.NewRange(m.dragAnchor.Max(), o)
	}
	m.publish(m.value.WithSelection(sel))
	return true
}

// OnDragStop ends a long press drag or handle drag and shows the toolbar
// when a selection remains.
func (m *Manager) OnDragStop() {
	if !m.dragging && m.draggingHandle == nil {
		return
	}
	m.dragging = false
	m.draggingHandle = nil
	if m.state.HandleState() == Selection {
		m.state.SetShowFloatingToolbar(true)
		m.ShowSelectionToolbar()
	}
}

// DragHandle moves handle h to offset, given in displayed coordinates.
// Dragging a selection handle past the other one reverses the selection.
func (m *Manager) DragHandle(h Handle, offset int) {
	m.draggingHandle = &h
	o := m.toOriginal(offset)
	sel := m.value.Selection
	switch h {
	case CursorHandle:
		sel = text.CursorAt(o)
	case SelectionStartHandle:
		sel.Start = o
	case SelectionEndHandle:
		sel.End = o
	}
	m.state.SetShowFloatingToolbar(false)
	m.HideSelectionToolbar()
	m.publish(m.value.WithSelection(sel))
}

// ShowSelectionToolbar shows the floating toolbar over the selection. It
// needs focus and a current layout; without a layout nothing is shown and
// the caller retries once one arrives.
func (m *Manager) ShowSelectionToolbar() {
	if m.toolbar == nil || !m.state.HasFocus() {
		return
	}
	layout := m.state.LayoutResult()
	if layout == nil {
		m.logger.Debug("toolbar deferred, no current layout")
		return
	}

	var actions ToolbarActions
	if !m.value.Selection.Collapsed() && !m.password {
		actions.Copy = func() { m.Copy(true) }
		if m.editable {
			actions.Cut = func() { m.Cut() }
		}
	}
	if m.editable && m.clipboardHasText() {
		actions.Paste = func() { m.Paste() }
	}
	if m.value.Selection.Len() != m.value.Len() {
		actions.SelectAll = func() { m.SelectAll() }
	}
	if actions.Empty() {
		m.HideSelectionToolbar()
		return
	}
	m.toolbar.ShowMenu(m.contentRect(layout), actions)
}

// HideSelectionToolbar hides the floating toolbar if it is shown.
func (m *Manager) HideSelectionToolbar() {
	if m.toolbar != nil && m.toolbar.Shown() {
		m.toolbar.Hide()
	}
}

func (m *Manager) clipboardHasText() bool {
	if m.clipboard == nil {
		return false
	}
	s, err := m.clipboard.ReadText()
	return err == nil && s != ""
}

// contentRect bounds the selected text in displayed coordinates.
func (m *Manager) contentRect(layout textlayout.Result) textlayout.Rect {
	sel := transform.MapRange(m.value.Selection, m.transformed.Mapping)
	start := layout.CursorRect(sel.Min())
	end := layout.CursorRect(sel.Max())
	r := start
	if end.Min.X < r.Min.X {
		r.Min.X = end.Min.X
	}
	if end.Min.Y < r.Min.Y {
		r.Min.Y = end.Min.Y
	}
	if end.Max.X > r.Max.X {
		r.Max.X = end.Max.X
	}
	if end.Max.Y > r.Max.Y {
		r.Max.Y = end.Max.Y
	}
	if sel.Max() > sel.Min() && layout.LineForOffset(sel.Min()) != layout.LineForOffset(sel.Max()) {
		r.Min.X = 0
		r.Max.X = layout.Size().X
	}
	return r
}
