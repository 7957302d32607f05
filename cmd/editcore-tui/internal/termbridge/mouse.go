package termbridge

import (
	"time"

	"gioui.org/f32"
	"gioui.org/io/key"
	gpointer "gioui.org/io/pointer"
	tea "github.com/charmbracelet/bubbletea"

	"editcore/internal/pointer"
)

// MouseTracker turns terminal mouse reports into pointer events. Positions
// are in cells: x is the left edge of the cell, so a click places the
// cursor before the character under it, and y is the row center.
type MouseTracker struct {
	down  bool
	start time.Time
	now   func() time.Time
}

// NewMouseTracker returns a tracker that stamps events with the time since
// its creation.
func NewMouseTracker() *MouseTracker {
	t := &MouseTracker{now: time.Now}
	t.start = t.now()
	return t
}

// Convert returns the pointer event for msg. Only the left button and the
// wheel are reported; other buttons return false.
func (t *MouseTracker) Convert(msg tea.MouseMsg) (pointer.Event, bool) {
	var typ pointer.EventType
	var scroll f32.Point

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		typ, scroll = pointer.Scroll, f32.Pt(0, -1)
	case msg.Button == tea.MouseButtonWheelDown:
		typ, scroll = pointer.Scroll, f32.Pt(0, 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		typ = pointer.Press
		t.down = true
	case msg.Action == tea.MouseActionRelease:
		if !t.down {
			return pointer.Event{}, false
		}
		typ = pointer.Release
		t.down = false
	case msg.Action == tea.MouseActionMotion:
		typ = pointer.Move
	default:
		return pointer.Event{}, false
	}

	uptime := t.now().Sub(t.start)
	var mods key.Modifiers
	if msg.Shift {
		mods |= key.ModShift
	}
	if msg.Ctrl {
		mods |= key.ModCtrl
	}
	if msg.Alt {
		mods |= key.ModAlt
	}
	var buttons gpointer.Buttons
	if t.down {
		buttons = gpointer.ButtonPrimary
	}

	return pointer.Event{
		Type: typ,
		Pointers: []pointer.Data{{
			ID:          pointer.MousePointerID,
			Uptime:      uptime,
			Position:    f32.Pt(float32(msg.X), float32(msg.Y)+0.5),
			Down:        t.down,
			Pressure:    1,
			Type:        pointer.TypeMouse,
			ActiveHover: true,
			ScrollDelta: scroll,
		}},
		Uptime:    uptime,
		Buttons:   buttons,
		Modifiers: mods,
		Native:    msg,
	}, true
}
