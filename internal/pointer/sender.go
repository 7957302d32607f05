package pointer

import (
	"slices"

	"gioui.org/f32"
)

// Sender dispatches raw events and the synthetic events needed to keep the
// stream consistent. It remembers the last event it dispatched and compares
// every raw event against it. A Sender is not safe for concurrent use; one
// is owned by each scene.
type Sender struct {
	dispatch func(Event) Result
	previous *Event

	needUpdatePointerPosition bool
}

// NewSender returns a Sender that delivers events to dispatch.
func NewSender(dispatch func(Event) Result) *Sender {
	return &Sender{dispatch: dispatch}
}

// NeedUpdatePointerPosition reports whether the next UpdatePointerPosition
// call will re-send the last position.
func (s *Sender) NeedUpdatePointerPosition() bool { return s.needUpdatePointerPosition }

// SetNeedUpdatePointerPosition requests a position update, typically after
// content moved under a stationary pointer.
func (s *Sender) SetNeedUpdatePointerPosition(need bool) { s.needUpdatePointerPosition = need }

// Reset forgets the retained event.
func (s *Sender) Reset() {
	s.needUpdatePointerPosition = false
	s.previous = nil
}

// Send dispatches raw, preceded by any synthetic events it implies: a hover
// move to the new position, one release per pointer lifted without its own
// event, and one press per pointer landed without its own event.
func (s *Sender) Send(raw Event) Result {
	hover := s.sendMissingMoveForHover(raw)
	releases := s.sendMissingReleases(raw)
	presses := s.sendMissingPresses(raw)
	return hover.Merge(releases, presses, s.send(raw))
}

// UpdatePointerPosition re-sends the last mouse position as a Move when an
// update was requested. Touch-only streams are left alone.
func (s *Sender) UpdatePointerPosition() Result {
	if !s.needUpdatePointerPosition {
		return Result{}
	}
	s.needUpdatePointerPosition = false

	if s.previous == nil || !s.previous.HasType(TypeMouse) {
		return Result{}
	}
	return s.sendSyntheticMove(*s.previous)
}

// sendSyntheticMove sends the retained event as a Move with positions taken
// from source.
func (s *Sender) sendSyntheticMove(source Event) Result {
	if s.previous == nil {
		return Result{}
	}
	return s.send(synthetic(*s.previous, Move, func(p Data) Data {
		if src, ok := source.Pointer(p.ID); ok {
			p.Position = src.Position
		}
		return p
	}))
}

func (s *Sender) sendMissingMoveForHover(current Event) Result {
	if current.Type.isMove() || !hovering(current) || s.samePosition(current) {
		return Result{}
	}
	return s.sendSyntheticMove(current)
}

func (s *Sender) sendMissingReleases(current Event) Result {
	if s.previous == nil {
		return Result{}
	}
	prev := *s.previous
	released := difference(pressedIDs(prev), pressedIDs(current))

	var result Result
	// The last released pointer is carried by the raw event itself.
	for i := range max(0, len(released)-1) {
		sent := released[:i+1]
		result = result.Merge(s.send(synthetic(prev, Release, func(p Data) Data {
			p.Down = p.Down && !slices.Contains(sent, p.ID)
			return p
		})))
	}
	return result
}

func (s *Sender) sendMissingPresses(current Event) Result {
	var previouslyPressed []ID
	if s.previous != nil {
		previouslyPressed = pressedIDs(*s.previous)
	}
	pressed := difference(pressedIDs(current), previouslyPressed)

	var result Result
	for i := range max(0, len(pressed)-1) {
		sent := pressed[:i+1]
		result = result.Merge(s.send(synthetic(current, Press, func(p Data) Data {
			p.Down = slices.Contains(previouslyPressed, p.ID) || slices.Contains(sent, p.ID)
			return p
		})))
	}
	return result
}

func (s *Sender) send(e Event) Result {
	r := s.dispatch(e)
	s.retain(e)
	return r
}

// retain stores e as the baseline for the next event. Once nothing is
// pressed, lifted touch pointers are dropped so that a later touch starts
// from a clean slate.
func (s *Sender) retain(e Event) {
	e.Native = nil
	e.Pointers = slices.Clone(e.Pointers)
	if !e.AnyDown() {
		e.Pointers = slices.DeleteFunc(e.Pointers, func(p Data) bool { return p.Type == TypeTouch })
		if len(e.Pointers) == 0 {
			s.previous = nil
			return
		}
	}
	s.previous = &e
}

func (s *Sender) samePosition(current Event) bool {
	if s.previous == nil {
		return true
	}
	for _, p := range current.Pointers {
		if prev, ok := s.previous.Pointer(p.ID); ok && prev.Position != p.Position {
			return false
		}
	}
	return true
}

func hovering(e Event) bool {
	for _, p := range e.Pointers {
		if p.ActiveHover {
			return true
		}
	}
	return false
}

// pressedIDs returns the ids of pressed pointers in ascending order.
func pressedIDs(e Event) []ID {
	var ids []ID
	for _, p := range e.Pointers {
		if p.Down {
			ids = append(ids, p.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

func difference(a, b []ID) []ID {
	var out []ID
	for _, id := range a {
		if !slices.Contains(b, id) {
			out = append(out, id)
		}
	}
	return out
}

// synthetic copies e as an event of type t. Synthetic events carry no
// native event, no historical samples and no scroll.
func synthetic(e Event, t EventType, copyPointer func(Data) Data) Event {
	pointers := make([]Data, len(e.Pointers))
	for i, p := range e.Pointers {
		p = copyPointer(p)
		p.ScrollDelta = f32.Point{}
		p.Historical = nil
		pointers[i] = p
	}
	return Event{
		Type:      t,
		Pointers:  pointers,
		Uptime:    e.Uptime,
		Buttons:   e.Buttons,
		Modifiers: e.Modifiers,
	}
}
