package pointer

import (
	"slices"

	gpointer "gioui.org/io/pointer"
)

// GioTracker turns gio's per-pointer events into Event snapshots that list
// every pointer currently known. The mouse always has MousePointerID; touch
// ids are shifted by one so they never collide with it.
type GioTracker struct {
	pointers map[ID]Data
}

// NewGioTracker returns an empty tracker.
func NewGioTracker() *GioTracker {
	return &GioTracker{pointers: make(map[ID]Data)}
}

// Convert folds e into the tracked state and returns the resulting
// snapshot. It reports false for event kinds that carry no pointer state.
func (t *GioTracker) Convert(e gpointer.Event) (Event, bool) {
	if e.Kind == gpointer.Cancel {
		return t.cancel(e), true
	}

	typ := gioType(e.Kind)
	if typ == Unknown {
		return Event{}, false
	}

	id := MousePointerID
	ptrType := TypeMouse
	if e.Source == gpointer.Touch {
		id = ID(e.PointerID) + 1
		ptrType = TypeTouch
	}

	d := Data{
		ID:          id,
		Uptime:      e.Time,
		Position:    e.Position,
		Pressure:    1,
		Type:        ptrType,
		ActiveHover: ptrType == TypeMouse,
	}
	switch {
	case ptrType == TypeMouse:
		d.Down = e.Buttons != 0
	default:
		d.Down = typ != Release
	}
	t.pointers[id] = d

	out := Event{
		Type:      typ,
		Pointers:  t.snapshot(),
		Uptime:    e.Time,
		Buttons:   e.Buttons,
		Modifiers: e.Modifiers,
		Native:    e,
	}
	if typ == Scroll {
		for i := range out.Pointers {
			if out.Pointers[i].ID == id {
				out.Pointers[i].ScrollDelta = e.Scroll
			}
		}
	}

	if (ptrType == TypeTouch && typ == Release) || typ == Exit {
		delete(t.pointers, id)
	}
	return out, true
}

// cancel lifts every pointer and forgets them.
func (t *GioTracker) cancel(e gpointer.Event) Event {
	pointers := t.snapshot()
	for i := range pointers {
		pointers[i].Down = false
	}
	clear(t.pointers)
	return Event{Type: Release, Pointers: pointers, Uptime: e.Time, Native: e}
}

func (t *GioTracker) snapshot() []Data {
	out := make([]Data, 0, len(t.pointers))
	for _, d := range t.pointers {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Data) int { return int(a.ID - b.ID) })
	return out
}

func gioType(k gpointer.Kind) EventType {
	switch k {
	case gpointer.Press:
		return Press
	case gpointer.Release:
		return Release
	case gpointer.Move, gpointer.Drag:
		return Move
	case gpointer.Enter:
		return Enter
	case gpointer.Leave:
		return Exit
	case gpointer.Scroll:
		return Scroll
	default:
		return Unknown
	}
}
