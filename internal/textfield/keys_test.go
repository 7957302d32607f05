package textfield

import (
	"testing"
	"time"

	"gioui.org/io/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editcore/internal/input"
	"editcore/internal/selection"
	"editcore/internal/text"
)

func typeText(h *harness, s string) {
	for _, r := range s {
		h.field.HandleKey(KeyEvent{Text: string(r)})
	}
}

func focusedHarness(t *testing.T, cfg Config, v text.TextFieldValue) *harness {
	h := newHarness(t, cfg, Deps{})
	h.set(v)
	h.field.OnFocusChanged(true)
	return h
}

func TestHandleKey_TypingAndDeleting(t *testing.T) {
	h := focusedHarness(t, DefaultConfig(), text.ValueOf(""))

	typeText(h, "héllo")
	assert.Equal(t, "héllo", h.value().Text)

	require.True(t, h.field.HandleKey(KeyEvent{Name: key.NameDeleteBackward}))
	assert.Equal(t, "héll", h.value().Text)

	h.field.HandleKey(KeyEvent{Name: key.NameLeftArrow})
	h.field.HandleKey(KeyEvent{Name: key.NameLeftArrow})
	require.True(t, h.field.HandleKey(KeyEvent{Name: key.NameDeleteForward}))
	assert.Equal(t, "hél", h.value().Text)
	assert.Equal(t, text.CursorAt(2), h.value().Selection)
}

func TestHandleKey_UnfocusedIgnored(t *testing.T) {
	h := newHarness(t, DefaultConfig(), Deps{})
	assert.False(t, h.field.HandleKey(KeyEvent{Text: "a"}))
	assert.Empty(t, h.values)
}

func TestHandleKey_ReadOnlyNavigatesButDoesNotEdit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReadOnly = true
	h := focusedHarness(t, cfg, text.ValueOf("abc"))

	assert.False(t, h.field.HandleKey(KeyEvent{Text: "x"}))
	assert.False(t, h.field.HandleKey(KeyEvent{Name: key.NameDeleteBackward}))
	assert.True(t, h.field.HandleKey(KeyEvent{Name: key.NameLeftArrow}))
	assert.Equal(t, text.NewValue("abc", text.CursorAt(2), nil), h.value())
}

func TestHandleKey_SelectionNavigation(t *testing.T) {
	h := focusedHarness(t, DefaultConfig(), text.ValueOf("a👍🏽c"))

	h.field.HandleKey(KeyEvent{Name: key.NameLeftArrow, Modifiers: key.ModShift})
	h.field.HandleKey(KeyEvent{Name: key.NameLeftArrow, Modifiers: key.ModShift})
	assert.Equal(t, text.NewRange(4, 1), h.value().Selection, "emoji with modifier moves as one")

	h.field.HandleKey(KeyEvent{Name: key.NameRightArrow})
	assert.Equal(t, text.CursorAt(4), h.value().Selection, "collapses to the end")

	h.field.HandleKey(KeyEvent{Name: key.NameHome, Modifiers: key.ModShift})
	assert.Equal(t, text.NewRange(4, 0), h.value().Selection)

	h.field.HandleKey(KeyEvent{Name: key.NameEnd})
	assert.Equal(t, text.CursorAt(4), h.value().Selection)
}

func TestHandleKey_VerticalMovement(t *testing.T) {
	h := focusedHarness(t, DefaultConfig(), text.NewValue("abc\ndefg\nhi", text.CursorAt(6), nil))

	h.field.HandleKey(KeyEvent{Name: key.NameUpArrow})
	assert.Equal(t, text.CursorAt(2), h.value().Selection)

	h.field.HandleKey(KeyEvent{Name: key.NameUpArrow})
	assert.Equal(t, text.CursorAt(0), h.value().Selection, "first line goes to the start")

	h.field.HandleKey(KeyEvent{Name: key.NameDownArrow})
	h.field.HandleKey(KeyEvent{Name: key.NameDownArrow})
	assert.Equal(t, text.CursorAt(9), h.value().Selection)

	h.field.HandleKey(KeyEvent{Name: key.NameDownArrow})
	assert.Equal(t, text.CursorAt(11), h.value().Selection, "last line goes to the end")
}

func TestHandleKey_Shortcuts(t *testing.T) {
	h := focusedHarness(t, DefaultConfig(), text.ValueOf("hello"))

	require.True(t, h.field.HandleKey(KeyEvent{Name: "A", Modifiers: key.ModShortcut}))
	assert.Equal(t, text.NewRange(0, 5), h.value().Selection)
	assert.Equal(t, selection.Selection, h.handle())

	require.True(t, h.field.HandleKey(KeyEvent{Name: "C", Modifiers: key.ModShortcut}))
	clip, _ := h.clip.ReadText()
	assert.Equal(t, "hello", clip)

	require.True(t, h.field.HandleKey(KeyEvent{Name: key.NameEscape}))
	assert.Equal(t, selection.None, h.handle())
	assert.Equal(t, text.CursorAt(5), h.value().Selection)
	assert.False(t, h.field.HandleKey(KeyEvent{Name: key.NameEscape}))

	require.True(t, h.field.HandleKey(KeyEvent{Name: "V", Modifiers: key.ModShortcut}))
	assert.Equal(t, "hellohello", h.value().Text)

	assert.False(t, h.field.HandleKey(KeyEvent{Name: "Q", Modifiers: key.ModShortcut, Text: "q"}))
}

func TestHandleKey_Enter(t *testing.T) {
	t.Run("multi-line inserts newline", func(t *testing.T) {
		h := focusedHarness(t, DefaultConfig(), text.ValueOf("a"))
		require.True(t, h.field.HandleKey(KeyEvent{Name: key.NameReturn}))
		assert.Equal(t, "a\n", h.value().Text)
	})
	t.Run("single-line runs the action", func(t *testing.T) {
		focus := &recordingFocus{}
		cfg := DefaultConfig()
		cfg.SingleLine = true
		cfg.ImeOptions.ImeAction = input.ImeActionNext
		h := newHarness(t, cfg, Deps{Focus: focus})
		h.field.OnFocusChanged(true)

		require.True(t, h.field.HandleKey(KeyEvent{Name: key.NameReturn}))
		assert.Equal(t, "", h.value().Text)
		assert.Equal(t, []input.FocusDirection{input.FocusNext}, focus.moves)

		require.True(t, h.field.HandleKey(KeyEvent{Name: key.NameTab, Modifiers: key.ModShift}))
		assert.Equal(t, input.FocusPrevious, focus.moves[1])
	})
}

func TestHandleKey_UndoRedo(t *testing.T) {
	h := focusedHarness(t, DefaultConfig(), text.ValueOf(""))
	now := time.Unix(1000, 0)
	h.field.undo = NewUndoManager(5*time.Second, 1000, func() time.Time { return now })

	typeText(h, "ab")
	now = now.Add(6 * time.Second)
	typeText(h, "cd")
	require.Equal(t, "abcd", h.value().Text)

	require.True(t, h.field.HandleKey(KeyEvent{Name: "Z", Modifiers: key.ModShortcut}))
	assert.Equal(t, "ab", h.value().Text)

	require.True(t, h.field.HandleKey(KeyEvent{Name: "Z", Modifiers: key.ModShortcut | key.ModShift}))
	assert.Equal(t, "abcd", h.value().Text)

	require.True(t, h.field.HandleKey(KeyEvent{Name: "Z", Modifiers: key.ModShortcut}))
	require.True(t, h.field.HandleKey(KeyEvent{Name: "Y", Modifiers: key.ModShortcut}))
	assert.Equal(t, "abcd", h.value().Text)
}

func TestHandleKey_CutAndPasteAreUndoSteps(t *testing.T) {
	h := focusedHarness(t, DefaultConfig(), text.ValueOf(""))
	now := time.Unix(1000, 0)
	h.field.undo = NewUndoManager(5*time.Second, 1000, func() time.Time { return now })
	shortcut := func(name key.Name) {
		require.True(t, h.field.HandleKey(KeyEvent{Name: name, Modifiers: key.ModShortcut}))
	}

	typeText(h, "hello world")
	require.True(t, h.field.SetSelection(6, 11, true))
	shortcut("X")
	typeText(h, "x")
	require.Equal(t, "hello x", h.value().Text)

	shortcut("Z")
	assert.Equal(t, "hello ", h.value().Text)
	shortcut("Z")
	assert.Equal(t, "hello world", h.value().Text)

	shortcut("Y")
	shortcut("Y")
	require.Equal(t, "hello x", h.value().Text)
	shortcut("V")
	require.Equal(t, "hello xworld", h.value().Text)
	shortcut("Z")
	assert.Equal(t, "hello x", h.value().Text)
}

func TestHandleKey_FinishesCompositionBeforeMoving(t *testing.T) {
	h := focusedHarness(t, DefaultConfig(), text.ValueOf(""))
	h.bridge.Send(text.SetComposingText{Text: "ni", NewCursorPosition: 1})
	require.NotNil(t, h.value().Composition)

	h.field.HandleKey(KeyEvent{Name: key.NameLeftArrow})
	assert.Nil(t, h.value().Composition)
	assert.Equal(t, text.CursorAt(1), h.value().Selection)
}
