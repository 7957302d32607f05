package main

import (
	"fmt"
	"strings"
	"testing"

	"gioui.org/f32"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editcore/cmd/editcore-tui/internal/termbridge"
	"editcore/internal/config"
	"editcore/internal/input"
	"editcore/internal/selection"
	"editcore/internal/store"
	"editcore/internal/text"
)

type memStore struct {
	values map[string]text.TextFieldValue
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]text.TextFieldValue)}
}

func (s *memStore) Save(id string, v text.TextFieldValue) error {
	s.values[id] = v
	return nil
}

func (s *memStore) Load(id string) (text.TextFieldValue, error) {
	v, ok := s.values[id]
	if !ok {
		return text.TextFieldValue{}, fmt.Errorf("%w: %q", store.ErrNotFound, id)
	}
	return v, nil
}

type harness struct {
	m     *model
	term  *termbridge.Bridge
	clip  *selection.MemoryClipboard
	store *memStore
}

// Screen rows of each field's first content line at a width of 40.
const (
	rowName     = 4
	rowEmail    = 9
	rowPassword = 14
	rowNotes    = 19
	rowConfig   = 27
)

func newHarness(t *testing.T, st *memStore) *harness {
	t.Helper()
	term := termbridge.New(nil)
	clip := &selection.MemoryClipboard{}
	m, err := newModel(modelOptions{
		Config:     config.DefaultConfig(),
		ConfigPath: "/home/ada/.config/editcore/config.toml",
		Service:    input.NewTextInputService(term, nil),
		Term:       term,
		Clipboard:  clip,
		Store:      st,
	})
	require.NoError(t, err)

	h := &harness{m: m, term: term, clip: clip, store: st}
	h.send(tea.WindowSizeMsg{Width: 40, Height: 30})
	h.send(m.Init()())
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) key(k tea.KeyType) {
	h.send(tea.KeyMsg{Type: k})
}

func (h *harness) click(x, y int) {
	h.send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	h.send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})
}

func (h *harness) field(id string) *formField {
	for _, ff := range h.m.fields {
		if ff.spec.id == id {
			return ff
		}
	}
	return nil
}

func (h *harness) value(id string) string {
	return h.field(id).field.Value().Text
}

func TestModel_FirstFieldFocused(t *testing.T) {
	h := newHarness(t, newMemStore())

	require.Equal(t, h.field("name"), h.m.focused())
	assert.True(t, h.term.Active())
	assert.True(t, h.term.Options().SingleLine)
	assert.Equal(t, input.ImeActionNext, h.term.Options().ImeAction)
	assert.Equal(t, "/home/ada/.config/editcore/config.toml", h.value("config"))
}

func TestModel_Typing(t *testing.T) {
	h := newHarness(t, newMemStore())

	h.typeText("Ada")
	h.typeText(" ")
	h.typeText("L")
	assert.Equal(t, "Ada L", h.value("name"))

	h.key(tea.KeyBackspace)
	h.key(tea.KeyLeft)
	h.typeText("!")
	assert.Equal(t, "Ada! ", h.value("name"))
	assert.Equal(t, text.CursorAt(4), h.field("name").field.Value().Selection)

	h.send(tea.KeyMsg{Type: tea.KeyCtrlZ})
	assert.Equal(t, "", h.value("name"), "one undo step for quick typing")
}

func TestModel_TabCyclesFocus(t *testing.T) {
	h := newHarness(t, newMemStore())

	h.key(tea.KeyTab)
	assert.Equal(t, h.field("email"), h.m.focused())
	assert.Equal(t, input.KeyboardEmail, h.term.Options().KeyboardType)

	h.key(tea.KeyShiftTab)
	h.key(tea.KeyShiftTab)
	assert.Equal(t, h.field("config"), h.m.focused(), "wraps to the last field")
	assert.False(t, h.term.Active(), "read-only fields open no session")

	h.key(tea.KeyTab)
	assert.Equal(t, h.field("name"), h.m.focused())
	assert.True(t, h.term.Active())
}

func TestModel_EnterRunsImeAction(t *testing.T) {
	h := newHarness(t, newMemStore())

	h.typeText("Ada")
	h.key(tea.KeyEnter)
	assert.Equal(t, "Ada", h.value("name"))
	assert.Equal(t, h.field("email"), h.m.focused())
}

func TestModel_ClickFocusesAndPlacesCursor(t *testing.T) {
	h := newHarness(t, newMemStore())
	h.typeText("Ada Lovelace")

	h.click(1, rowEmail)
	assert.Equal(t, h.field("email"), h.m.focused())

	h.click(4, rowName)
	require.Equal(t, h.field("name"), h.m.focused())
	assert.Equal(t, text.CursorAt(3), h.field("name").field.Value().Selection)

	h.typeText(",")
	assert.Equal(t, "Ada, Lovelace", h.value("name"))
}

func TestModel_ReadOnlyFieldRefusesEdits(t *testing.T) {
	h := newHarness(t, newMemStore())
	before := h.value("config")

	h.click(2, rowConfig)
	require.Equal(t, h.field("config"), h.m.focused())
	h.typeText("x")
	h.key(tea.KeyBackspace)
	assert.Equal(t, before, h.value("config"))
}

func TestModel_PasswordIsMasked(t *testing.T) {
	h := newHarness(t, newMemStore())

	h.click(1, rowPassword)
	h.typeText("secret")
	assert.Equal(t, "secret", h.value("password"))

	view := h.m.View()
	assert.Contains(t, view, "••••••")
	assert.NotContains(t, view, "secret")

	h.send(tea.KeyMsg{Type: tea.KeyCtrlA})
	h.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	got, err := h.clip.ReadText()
	require.NoError(t, err)
	assert.Empty(t, got, "passwords cannot be copied")
}

func TestModel_PasteThroughSession(t *testing.T) {
	h := newHarness(t, newMemStore())

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Ada\r\nLovelace"), Paste: true})
	assert.Equal(t, "Ada Lovelace", h.value("name"), "single-line paste joins lines")

	h.click(1, rowNotes)
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("one\r\ntwo"), Paste: true})
	assert.Equal(t, "one\ntwo", h.value("notes"))
}

func TestModel_NotesFollowCursor(t *testing.T) {
	h := newHarness(t, newMemStore())
	notes := h.field("notes")

	h.click(1, rowNotes)
	h.typeText("1\n2\n3\n4\n5\n6")
	assert.Equal(t, f32.Pt(0, 2), notes.scroll)
	assert.Equal(t, f32.Pt(0, 2), h.m.scene.Scroll(notes.field))

	h.send(tea.MouseMsg{X: 2, Y: rowNotes, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, f32.Pt(0, 1), notes.scroll)

	// Row rowNotes now shows line 1, which holds "2".
	h.click(1, rowNotes)
	assert.Equal(t, text.CursorAt(2), notes.field.Value().Selection)

	h.send(tea.MouseMsg{X: 2, Y: rowNotes, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	h.send(tea.MouseMsg{X: 2, Y: rowNotes, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, f32.Pt(0, 2), notes.scroll, "scrolling stops at the last line")
}

func TestModel_SelectAllShowsToolbar(t *testing.T) {
	h := newHarness(t, newMemStore())
	h.typeText("hello")

	h.send(tea.KeyMsg{Type: tea.KeyCtrlA})
	require.True(t, h.m.toolbar.Shown())

	items := h.m.toolbar.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Cut", items[0].Label)
	assert.Equal(t, "Copy", items[1].Label)
	assert.Contains(t, h.m.View(), "alt+c")

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true})
	got, err := h.clip.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.False(t, h.m.toolbar.Shown())
	assert.Equal(t, text.CursorAt(5), h.field("name").field.Value().Selection)
	assert.Equal(t, "hello", h.value("name"), "alt+c is not typed")
}

func TestModel_ToolbarClick(t *testing.T) {
	h := newHarness(t, newMemStore())
	h.typeText("hello")
	h.send(tea.KeyMsg{Type: tea.KeyCtrlA})

	spans := h.m.toolbarSpans()
	require.Len(t, spans, 2)
	_, row, ok := h.m.toolbarRow()
	require.True(t, ok)

	h.click(spans[0].x0, row)
	assert.Equal(t, "", h.value("name"), "cut")
	got, err := h.clip.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, h.field("name"), h.m.focused())
}

func TestModel_WindowFocusHidesCursor(t *testing.T) {
	h := newHarness(t, newMemStore())
	name := h.field("name").field

	assert.True(t, name.CursorVisible())
	h.send(tea.BlurMsg{})
	assert.False(t, name.CursorVisible())
	h.send(tea.FocusMsg{})
	assert.True(t, name.CursorVisible())
}

func TestModel_SaveAndRestore(t *testing.T) {
	st := newMemStore()
	h := newHarness(t, st)

	h.typeText("Ada")
	h.click(1, rowPassword)
	h.typeText("pw")
	h.click(1, rowNotes)
	h.typeText("notes")

	h.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, "saved", h.m.status)
	assert.False(t, h.m.statusErr)

	assert.Equal(t, "Ada", st.values["name"].Text)
	assert.Equal(t, "notes", st.values["notes"].Text)
	assert.Contains(t, st.values, "email")
	assert.NotContains(t, st.values, "password")
	assert.NotContains(t, st.values, "config")

	h2 := newHarness(t, st)
	h2.m.restore()
	assert.Equal(t, "Ada", h2.value("name"))
	assert.Equal(t, "notes", h2.value("notes"))
	assert.Equal(t, "", h2.value("password"))
	assert.Equal(t, "restored 3 fields", h2.m.status)
}

func TestModel_QuitSaves(t *testing.T) {
	st := newMemStore()
	h := newHarness(t, st)
	h.typeText("Ada")

	cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlQ})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Ada", st.values["name"].Text)
	assert.Nil(t, h.m.focused())
	assert.False(t, h.term.Active())
}

func TestModel_ConfigMessages(t *testing.T) {
	h := newHarness(t, newMemStore())

	h.send(configErrMsg{err: fmt.Errorf("bad config")})
	assert.True(t, h.m.statusErr)
	assert.Contains(t, h.m.View(), "bad config")

	next := config.DefaultConfig()
	h.send(configMsg{cfg: next})
	assert.Same(t, next, h.m.cfg)
	assert.False(t, h.m.statusErr)
}

func TestModel_ViewLayout(t *testing.T) {
	h := newHarness(t, newMemStore())
	h.typeText("Ada")

	lines := strings.Split(h.m.View(), "\n")
	require.Greater(t, len(lines), rowConfig)
	assert.Contains(t, lines[rowName], "Ada")
	assert.Contains(t, lines[rowName-2], "Name")
	assert.Contains(t, lines[rowConfig], "config.toml")
	assert.Contains(t, lines[len(lines)-1], "input: terminal")
}
