package textfield

import (
	"testing"

	"gioui.org/f32"
	"github.com/stretchr/testify/require"

	"editcore/internal/input"
	"editcore/internal/selection"
	"editcore/internal/text"
	"editcore/internal/textlayout"
)

var cell = f32.Pt(10, 20)

// harness plays the host: it keeps the value, feeds every change back
// through Update and lays the text out again.
type harness struct {
	t        *testing.T
	field    *Field
	bridge   *input.RecordingBridge
	toolbar  *recordingToolbar
	clip     *selection.MemoryClipboard
	values   []text.TextFieldValue
	relayout bool
}

func newHarness(t *testing.T, cfg Config, deps Deps) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		bridge:   &input.RecordingBridge{},
		toolbar:  &recordingToolbar{},
		clip:     &selection.MemoryClipboard{},
		relayout: true,
	}
	if deps.InputService == nil {
		deps.InputService = input.NewTextInputService(h.bridge, nil)
	}
	if deps.Toolbar == nil {
		deps.Toolbar = h.toolbar
	}
	if deps.Clipboard == nil {
		deps.Clipboard = h.clip
	}
	deps.OnValueChange = h.onValueChange

	f, err := New(cfg, deps)
	require.NoError(t, err)
	f.SetFocusRequester(func() { f.OnFocusChanged(true) })
	h.field = f
	h.layout()
	return h
}

func (h *harness) onValueChange(v text.TextFieldValue) {
	h.values = append(h.values, v)
	require.NoError(h.t, h.field.Update(v))
	if h.relayout {
		h.layout()
	}
}

func (h *harness) layout() {
	h.field.SetLayoutResult(textlayout.NewMonospace(h.field.TransformedText().Text, cell, 0))
}

func (h *harness) set(v text.TextFieldValue) {
	h.t.Helper()
	require.NoError(h.t, h.field.Update(v))
	h.layout()
}

func (h *harness) value() text.TextFieldValue { return h.field.Value() }

func (h *harness) handle() selection.HandleState { return h.field.HandleState().Get() }

type recordingToolbar struct {
	shown   bool
	actions selection.ToolbarActions
}

func (r *recordingToolbar) ShowMenu(_ textlayout.Rect, actions selection.ToolbarActions) {
	r.shown = true
	r.actions = actions
}

func (r *recordingToolbar) Hide() { r.shown = false }

func (r *recordingToolbar) Shown() bool { return r.shown }

type recordingFocus struct {
	moves []input.FocusDirection
}

func (r *recordingFocus) MoveFocus(d input.FocusDirection) bool {
	r.moves = append(r.moves, d)
	return true
}

func (r *recordingFocus) ClearFocus(bool) {}

type recordingKeyboard struct{ shown, hidden int }

func (k *recordingKeyboard) ShowSoftwareKeyboard() { k.shown++ }

func (k *recordingKeyboard) HideSoftwareKeyboard() { k.hidden++ }
