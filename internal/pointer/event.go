// Package pointer normalizes raw pointer input into a consistent event
// stream.
//
// Platforms do not agree on how they report pointers. Some report two
// fingers landing in one callback, some skip the move between a hover and
// a press. Sender repairs the stream so every consumer sees one press or
// release per pointer transition, in order, with a move in front of any
// press or release that happens somewhere the pointer was not last seen.
package pointer

import (
	"fmt"
	"strings"
	"time"

	"gioui.org/f32"
	"gioui.org/io/key"
	gpointer "gioui.org/io/pointer"
)

// EventType is the kind of a pointer event.
type EventType uint8

const (
	Unknown EventType = iota
	Press
	Release
	Move
	Enter
	Exit
	Scroll
)

func (t EventType) String() string {
	switch t {
	case Press:
		return "Press"
	case Release:
		return "Release"
	case Move:
		return "Move"
	case Enter:
		return "Enter"
	case Exit:
		return "Exit"
	case Scroll:
		return "Scroll"
	default:
		return "Unknown"
	}
}

// isMove reports whether t already tells consumers where the pointer is.
func (t EventType) isMove() bool {
	return t == Move || t == Enter || t == Exit
}

// Type is the device behind a pointer.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeTouch
	TypeMouse
	TypeStylus
	TypeEraser
)

func (t Type) String() string {
	switch t {
	case TypeTouch:
		return "Touch"
	case TypeMouse:
		return "Mouse"
	case TypeStylus:
		return "Stylus"
	case TypeEraser:
		return "Eraser"
	default:
		return "Unknown"
	}
}

// ID identifies a pointer for as long as it is in contact or hovering.
type ID int64

// MousePointerID is the id used for the mouse when the platform gives none.
const MousePointerID ID = 0

// Historical is an intermediate sample coalesced into a Data.
type Historical struct {
	Uptime   time.Duration
	Position f32.Point
}

// Data is the state of one pointer in an Event.
type Data struct {
	ID       ID
	Uptime   time.Duration
	Position f32.Point
	Down     bool
	Pressure float32
	Type     Type

	// ActiveHover is set for pointers that report position while not
	// pressed, such as a mouse or a hovering stylus.
	ActiveHover bool

	ScrollDelta f32.Point
	Historical  []Historical
}

// Event is a snapshot of every pointer the platform knows about.
type Event struct {
	Type      EventType
	Pointers  []Data
	Uptime    time.Duration
	Buttons   gpointer.Buttons
	Modifiers key.Modifiers

	// Native is the platform event this one was built from. Nil for
	// synthetic events.
	Native any
}

// Pointer returns the data for id.
func (e Event) Pointer(id ID) (Data, bool) {
	for _, p := range e.Pointers {
		if p.ID == id {
			return p, true
		}
	}
	return Data{}, false
}

// AnyDown reports whether any pointer is pressed.
func (e Event) AnyDown() bool {
	for _, p := range e.Pointers {
		if p.Down {
			return true
		}
	}
	return false
}

// HasType reports whether any pointer is of type t.
func (e Event) HasType(t Type) bool {
	for _, p := range e.Pointers {
		if p.Type == t {
			return true
		}
	}
	return false
}

func (e Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[", e.Type)
	for i, p := range e.Pointers {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d@(%g,%g)", p.ID, p.Position.X, p.Position.Y)
		if p.Down {
			b.WriteString("↓")
		}
	}
	b.WriteString("]")
	return b.String()
}

// Result is what a consumer reports back for a dispatched event.
type Result struct {
	AnyMovementConsumed bool
}

// Merge combines results of events dispatched for one raw event.
func (r Result) Merge(others ...Result) Result {
	for _, o := range others {
		r.AnyMovementConsumed = r.AnyMovementConsumed || o.AnyMovementConsumed
	}
	return r
}
