package textfield

import (
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/io/key"

	"editcore/internal/pointer"
	"editcore/internal/text"
)

// gesture tracks the pointer that pressed on the field. Positions are in
// field coordinates.
type gesture struct {
	active bool
	id     pointer.ID
	touch  bool

	downAt  time.Duration
	downPos f32.Point

	// beyondSlop is set once the pointer moved further than the touch
	// slop; the press is then neither a tap nor a long press.
	beyondSlop  bool
	longPressed bool

	// anchor is the original offset a mouse drag selects from.
	anchor int
}

// HandlePointerEvent feeds one normalized pointer event to the field's
// gesture detector. Long press is recognized when an event of the pressed
// pointer arrives after the long press timeout without the pointer leaving
// the touch slop. A disabled field ignores pointer input.
func (f *Field) HandlePointerEvent(e pointer.Event) pointer.Result {
	if !f.cfg.Enabled {
		return pointer.Result{}
	}
	g := &f.gesture

	if !g.active {
		if e.Type != pointer.Press {
			return pointer.Result{}
		}
		p, ok := pressedPointer(e)
		if !ok {
			return pointer.Result{}
		}
		*g = gesture{
			active:  true,
			id:      p.ID,
			touch:   p.Type == pointer.TypeTouch || p.Type == pointer.TypeStylus,
			downAt:  e.Uptime,
			downPos: p.Position,
		}
		if !g.touch {
			f.mousePress(p.Position, e.Modifiers)
		}
		return pointer.Result{}
	}

	p, ok := e.Pointer(g.id)
	if !ok {
		// The pointer vanished; treat it as cancelled.
		f.endGesture()
		return pointer.Result{}
	}

	if g.touch {
		return f.touchEvent(e, p)
	}
	return f.mouseEvent(p)
}

func pressedPointer(e pointer.Event) (pointer.Data, bool) {
	for _, p := range e.Pointers {
		if p.Down {
			return p, true
		}
	}
	return pointer.Data{}, false
}

func (f *Field) touchEvent(e pointer.Event, p pointer.Data) pointer.Result {
	g := &f.gesture
	if !g.beyondSlop && !g.longPressed && distance(p.Position, g.downPos) > f.cfg.TouchSlop {
		g.beyondSlop = true
	}
	if !g.beyondSlop && !g.longPressed && e.Uptime-g.downAt >= f.cfg.LongPressTimeout {
		g.longPressed = true
		if offset, ok := f.offsetAt(g.downPos); ok {
			f.manager.OnLongPress(offset)
		} else {
			f.manager.EnterSelectionMode()
		}
	}

	if p.Down {
		if g.longPressed {
			if offset, ok := f.offsetAt(p.Position); ok {
				f.manager.OnDrag(offset)
			}
			return pointer.Result{AnyMovementConsumed: true}
		}
		return pointer.Result{}
	}

	// Released.
	longPressed, beyondSlop := g.longPressed, g.beyondSlop
	f.endGesture()
	switch {
	case longPressed:
		return pointer.Result{AnyMovementConsumed: true}
	case beyondSlop:
		return pointer.Result{}
	}
	f.tap(p.Position, true)
	return pointer.Result{}
}

func (f *Field) mousePress(pos f32.Point, mods key.Modifiers) {
	offset, ok := f.offsetAt(pos)
	if !ok {
		f.requestFocusAndShowKeyboard()
		return
	}
	if mods.Contain(key.ModShift) && f.hasFocus.Get() {
		f.gesture.anchor = f.value.Selection.Start
		f.extendMouseSelection(offset)
		return
	}
	f.tap(pos, false)
	f.gesture.anchor = f.transformed.Mapping.TransformedToOriginal(offset)
}

func (f *Field) mouseEvent(p pointer.Data) pointer.Result {
	g := &f.gesture
	if !p.Down {
		f.endGesture()
		return pointer.Result{}
	}
	if !g.beyondSlop && distance(p.Position, g.downPos) <= f.cfg.TouchSlop {
		return pointer.Result{}
	}
	g.beyondSlop = true
	if offset, ok := f.offsetAt(p.Position); ok {
		f.extendMouseSelection(offset)
	}
	return pointer.Result{AnyMovementConsumed: true}
}

// extendMouseSelection selects from the drag anchor to offset, given in
// displayed coordinates.
func (f *Field) extendMouseSelection(offset int) {
	end := f.transformed.Mapping.TransformedToOriginal(offset)
	f.manager.Select(text.NewRange(f.gesture.anchor, end))
}

func (f *Field) endGesture() {
	if f.gesture.longPressed {
		f.manager.OnDragStop()
	}
	f.gesture = gesture{}
}

func (f *Field) tap(pos f32.Point, touch bool) {
	wasFocused := f.hasFocus.Get()
	offset, ok := f.offsetAt(pos)
	if ok {
		f.manager.OnTap(offset, touch)
	} else if !wasFocused && f.requestFocus != nil {
		f.requestFocus()
	}
	if wasFocused && f.cfg.writeable() {
		f.actions.Keyboard.ShowSoftwareKeyboard()
	}
}

// offsetAt returns the displayed offset under pos. It fails while the
// layout is stale.
func (f *Field) offsetAt(pos f32.Point) (int, bool) {
	layout := f.currentLayout()
	if layout == nil {
		return 0, false
	}
	return layout.OffsetForPosition(pos), true
}

func distance(a, b f32.Point) float32 {
	d := a.Sub(b)
	return float32(math.Hypot(float64(d.X), float64(d.Y)))
}
