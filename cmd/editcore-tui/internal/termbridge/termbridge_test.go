package termbridge

import (
	"testing"
	"time"

	"gioui.org/f32"
	"gioui.org/io/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editcore/internal/input"
	"editcore/internal/pointer"
	"editcore/internal/selection"
	"editcore/internal/text"
	"editcore/internal/textfield"
	"editcore/internal/textlayout"
)

func TestBridge_PasteNeedsSession(t *testing.T) {
	b := New(nil)
	assert.False(t, b.Paste("x"))
	assert.False(t, b.PerformAction(input.ImeActionDone))
}

func TestBridge_PasteCommits(t *testing.T) {
	b := New(nil)
	var got [][]text.EditCommand
	var actions []input.ImeAction
	opts := input.ImeOptions{SingleLine: true}
	require.NoError(t, b.StartInput(text.ValueOf("ab"), opts,
		func(cmds []text.EditCommand) { got = append(got, cmds) },
		func(a input.ImeAction) { actions = append(actions, a) }))

	assert.True(t, b.Active())
	assert.Equal(t, "ab", b.Value().Text)
	assert.True(t, b.Paste("one\r\ntwo\rthree"))
	assert.False(t, b.Paste(""))
	require.Len(t, got, 1)
	assert.Equal(t, []text.EditCommand{text.CommitText{Text: "one two three", NewCursorPosition: 1}}, got[0])

	assert.True(t, b.PerformAction(input.ImeActionNext))
	assert.Equal(t, []input.ImeAction{input.ImeActionNext}, actions)
}

func TestBridge_MultiLinePasteKeepsNewlines(t *testing.T) {
	b := New(nil)
	var got []text.EditCommand
	require.NoError(t, b.StartInput(text.TextFieldValue{}, input.ImeOptions{},
		func(cmds []text.EditCommand) { got = cmds }, nil))

	require.True(t, b.Paste("a\r\nb"))
	assert.Equal(t, []text.EditCommand{text.CommitText{Text: "a\nb", NewCursorPosition: 1}}, got)
	assert.False(t, b.PerformAction(input.ImeActionDone), "no action handler")
}

func TestBridge_StopClearsState(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.StartInput(text.TextFieldValue{}, input.ImeOptions{}, func([]text.EditCommand) {}, nil))
	rect := textlayout.Rect{Min: f32.Pt(1, 0), Max: f32.Pt(2, 1)}
	b.NotifyFocusedRect(rect)
	b.ShowSoftwareKeyboard()
	b.UpdateState(text.TextFieldValue{}, text.ValueOf("x"))

	got, ok := b.FocusedRect()
	assert.True(t, ok)
	assert.Equal(t, rect, got)
	assert.True(t, b.KeyboardShown())
	assert.Equal(t, "x", b.Value().Text)

	b.StopInput()
	assert.False(t, b.Active())
	assert.False(t, b.KeyboardShown())
	_, ok = b.FocusedRect()
	assert.False(t, ok)
	assert.False(t, b.Paste("x"))

	b.ShowSoftwareKeyboard()
	assert.False(t, b.KeyboardShown(), "no keyboard without a session")
}

func TestToolbar_Items(t *testing.T) {
	var tb Toolbar
	assert.Nil(t, tb.Items())

	var ran []string
	tb.ShowMenu(textlayout.Rect{}, selection.ToolbarActions{
		Copy:      func() { ran = append(ran, "copy") },
		SelectAll: func() { ran = append(ran, "all") },
	})
	require.True(t, tb.Shown())

	items := tb.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Copy", items[0].Label)
	assert.Equal(t, "Select all", items[1].Label)

	assert.True(t, tb.Run('a'))
	assert.False(t, tb.Run('x'), "cut not offered")
	assert.Equal(t, []string{"all"}, ran)

	tb.ShowMenu(textlayout.Rect{}, selection.ToolbarActions{})
	assert.False(t, tb.Shown(), "empty menu hides")
	assert.False(t, tb.Run('a'))
}

func TestKeyEvent(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.KeyMsg
		want textfield.KeyEvent
		ok   bool
	}{
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, textfield.KeyEvent{Name: "A", Text: "a"}, true},
		{"runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("日本")}, textfield.KeyEvent{Text: "日本"}, true},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true}, textfield.KeyEvent{Name: "B", Modifiers: key.ModAlt, Text: "b"}, true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, textfield.KeyEvent{Name: key.NameSpace, Text: " "}, true},
		{"shift left", tea.KeyMsg{Type: tea.KeyShiftLeft}, textfield.KeyEvent{Name: key.NameLeftArrow, Modifiers: key.ModShift}, true},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, textfield.KeyEvent{Name: key.NameDeleteBackward}, true},
		{"shift tab", tea.KeyMsg{Type: tea.KeyShiftTab}, textfield.KeyEvent{Name: key.NameTab, Modifiers: key.ModShift}, true},
		{"select all", tea.KeyMsg{Type: tea.KeyCtrlA}, textfield.KeyEvent{Name: "A", Modifiers: key.ModShortcut}, true},
		{"ctrl shift end", tea.KeyMsg{Type: tea.KeyCtrlShiftEnd}, textfield.KeyEvent{Name: key.NameEnd, Modifiers: key.ModShortcut | key.ModShift}, true},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Paste: true}, textfield.KeyEvent{}, false},
		{"unmapped", tea.KeyMsg{Type: tea.KeyF5}, textfield.KeyEvent{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := KeyEvent(tc.msg)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestKeysym(t *testing.T) {
	cases := []struct {
		name  string
		ev    textfield.KeyEvent
		sym   uint32
		state uint32
		ok    bool
	}{
		{"latin", textfield.KeyEvent{Name: "A", Text: "a"}, 'a', 0, true},
		{"unicode", textfield.KeyEvent{Text: "é"}, 0xe9, 0, true},
		{"beyond latin-1", textfield.KeyEvent{Text: "ж"}, 0x01000436, 0, true},
		{"shifted arrow", textfield.KeyEvent{Name: key.NameLeftArrow, Modifiers: key.ModShift}, keysymLeft, stateShift, true},
		{"backspace", textfield.KeyEvent{Name: key.NameDeleteBackward}, keysymBackSpace, 0, true},
		{"alt", textfield.KeyEvent{Name: "X", Modifiers: key.ModAlt, Text: "x"}, 'x', stateMod1, true},
		{"shortcut", textfield.KeyEvent{Name: "C", Modifiers: key.ModShortcut}, 0, 0, false},
		{"several runes", textfield.KeyEvent{Text: "ab"}, 0, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sym, state, ok := Keysym(tc.ev)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.sym, sym)
				assert.Equal(t, tc.state, state)
			}
		})
	}
}

func newTracker() *MouseTracker {
	now := time.Unix(100, 0)
	t := &MouseTracker{now: func() time.Time { return now }}
	t.start = now.Add(-time.Second)
	return t
}

func TestMouseTracker_PressDragRelease(t *testing.T) {
	tr := newTracker()

	e, ok := tr.Convert(tea.MouseMsg{X: 3, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Shift: true})
	require.True(t, ok)
	assert.Equal(t, pointer.Press, e.Type)
	require.Len(t, e.Pointers, 1)
	p := e.Pointers[0]
	assert.Equal(t, pointer.MousePointerID, p.ID)
	assert.Equal(t, pointer.TypeMouse, p.Type)
	assert.True(t, p.Down)
	assert.Equal(t, f32.Pt(3, 2.5), p.Position)
	assert.Equal(t, time.Second, e.Uptime)
	assert.True(t, e.Modifiers.Contain(key.ModShift))

	e, ok = tr.Convert(tea.MouseMsg{X: 5, Y: 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	require.True(t, ok)
	assert.Equal(t, pointer.Move, e.Type)
	assert.True(t, e.AnyDown())

	e, ok = tr.Convert(tea.MouseMsg{X: 5, Y: 2, Action: tea.MouseActionRelease})
	require.True(t, ok)
	assert.Equal(t, pointer.Release, e.Type)
	assert.False(t, e.AnyDown())

	_, ok = tr.Convert(tea.MouseMsg{X: 5, Y: 2, Action: tea.MouseActionRelease})
	assert.False(t, ok, "release without press")
}

func TestMouseTracker_WheelAndOtherButtons(t *testing.T) {
	tr := newTracker()

	e, ok := tr.Convert(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	require.True(t, ok)
	assert.Equal(t, pointer.Scroll, e.Type)
	assert.Equal(t, f32.Pt(0, 1), e.Pointers[0].ScrollDelta)
	assert.False(t, e.AnyDown())

	_, ok = tr.Convert(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.False(t, ok)
}
