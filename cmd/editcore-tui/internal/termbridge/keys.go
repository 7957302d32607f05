package termbridge

import (
	"strings"

	"gioui.org/io/key"
	tea "github.com/charmbracelet/bubbletea"

	"editcore/internal/textfield"
)

type keySpec struct {
	name key.Name
	mods key.Modifiers
}

var keyTable = map[tea.KeyType]keySpec{
	tea.KeyLeft:          {key.NameLeftArrow, 0},
	tea.KeyRight:         {key.NameRightArrow, 0},
	tea.KeyUp:            {key.NameUpArrow, 0},
	tea.KeyDown:          {key.NameDownArrow, 0},
	tea.KeyHome:          {key.NameHome, 0},
	tea.KeyEnd:           {key.NameEnd, 0},
	tea.KeyShiftLeft:     {key.NameLeftArrow, key.ModShift},
	tea.KeyShiftRight:    {key.NameRightArrow, key.ModShift},
	tea.KeyShiftUp:       {key.NameUpArrow, key.ModShift},
	tea.KeyShiftDown:     {key.NameDownArrow, key.ModShift},
	tea.KeyShiftHome:     {key.NameHome, key.ModShift},
	tea.KeyShiftEnd:      {key.NameEnd, key.ModShift},
	tea.KeyCtrlHome:      {key.NameHome, key.ModShortcut},
	tea.KeyCtrlEnd:       {key.NameEnd, key.ModShortcut},
	tea.KeyCtrlShiftHome: {key.NameHome, key.ModShortcut | key.ModShift},
	tea.KeyCtrlShiftEnd:  {key.NameEnd, key.ModShortcut | key.ModShift},
	tea.KeyBackspace:     {key.NameDeleteBackward, 0},
	tea.KeyDelete:        {key.NameDeleteForward, 0},
	tea.KeyEnter:         {key.NameReturn, 0},
	tea.KeyTab:           {key.NameTab, 0},
	tea.KeyShiftTab:      {key.NameTab, key.ModShift},
	tea.KeyEsc:           {key.NameEscape, 0},
	tea.KeyCtrlA:         {"A", key.ModShortcut},
	tea.KeyCtrlC:         {"C", key.ModShortcut},
	tea.KeyCtrlX:         {"X", key.ModShortcut},
	tea.KeyCtrlV:         {"V", key.ModShortcut},
	tea.KeyCtrlZ:         {"Z", key.ModShortcut},
	tea.KeyCtrlY:         {"Y", key.ModShortcut},
}

// KeyEvent converts a terminal key press. It reports false for keys a
// field has no use for, and for pastes, which go through Bridge.Paste.
func KeyEvent(msg tea.KeyMsg) (textfield.KeyEvent, bool) {
	if msg.Paste {
		return textfield.KeyEvent{}, false
	}

	var mods key.Modifiers
	if msg.Alt {
		mods |= key.ModAlt
	}

	if spec, ok := keyTable[msg.Type]; ok {
		return textfield.KeyEvent{Name: spec.name, Modifiers: spec.mods | mods}, true
	}

	switch msg.Type {
	case tea.KeySpace:
		return textfield.KeyEvent{Name: key.NameSpace, Modifiers: mods, Text: " "}, true
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return textfield.KeyEvent{}, false
		}
		s := string(msg.Runes)
		var name key.Name
		if len(msg.Runes) == 1 {
			name = key.Name(strings.ToUpper(s))
		}
		return textfield.KeyEvent{Name: name, Modifiers: mods, Text: s}, true
	}
	return textfield.KeyEvent{}, false
}

// X keysyms and modifier bits, as IBus expects them.
const (
	keysymBackSpace = 0xff08
	keysymTab       = 0xff09
	keysymReturn    = 0xff0d
	keysymEscape    = 0xff1b
	keysymHome      = 0xff50
	keysymLeft      = 0xff51
	keysymUp        = 0xff52
	keysymRight     = 0xff53
	keysymDown      = 0xff54
	keysymEnd       = 0xff57
	keysymDelete    = 0xffff

	stateShift   = 1 << 0
	stateControl = 1 << 2
	stateMod1    = 1 << 3
)

var keysyms = map[key.Name]uint32{
	key.NameDeleteBackward: keysymBackSpace,
	key.NameTab:            keysymTab,
	key.NameReturn:         keysymReturn,
	key.NameEscape:         keysymEscape,
	key.NameHome:           keysymHome,
	key.NameLeftArrow:      keysymLeft,
	key.NameUpArrow:        keysymUp,
	key.NameRightArrow:     keysymRight,
	key.NameDownArrow:      keysymDown,
	key.NameEnd:            keysymEnd,
	key.NameDeleteForward:  keysymDelete,
}

// Keysym returns the X keysym and modifier state for e, for forwarding to
// an IME. It reports false when e has no single keysym.
func Keysym(e textfield.KeyEvent) (keyval, state uint32, ok bool) {
	if e.Modifiers.Contain(key.ModShift) {
		state |= stateShift
	}
	if e.Modifiers.Contain(key.ModShortcut) || e.Modifiers.Contain(key.ModCtrl) {
		state |= stateControl
	}
	if e.Modifiers.Contain(key.ModAlt) {
		state |= stateMod1
	}

	if sym, found := keysyms[e.Name]; found {
		return sym, state, true
	}

	runes := []rune(e.Text)
	if len(runes) != 1 {
		return 0, 0, false
	}
	r := runes[0]
	if r < 0x100 {
		return uint32(r), state, true
	}
	return 0x01000000 | uint32(r), state, true
}
