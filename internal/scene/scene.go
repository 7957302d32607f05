// Package scene routes pointer input and focus between the text fields of
// one root.
//
// A Scene owns a single pointer.Sender. Raw events are repaired by the
// sender, hit tested against the registered field bounds and delivered in
// field-local coordinates. The field that received a press keeps the
// stream until every pointer is up, even when the pointer leaves its
// bounds. Fields are focused in registration order; the scene is the
// input.FocusManager handed to every field it holds.
package scene

import (
	"log/slog"
	"slices"

	"gioui.org/f32"

	"editcore/internal/input"
	"editcore/internal/logging"
	"editcore/internal/pointer"
	"editcore/internal/textfield"
	"editcore/internal/textlayout"
)

type node struct {
	field  *textfield.Field
	bounds textlayout.Rect

	// scroll is how far the content is scrolled inside bounds.
	scroll f32.Point
}

// Scene is not safe for concurrent use. Call it from the UI goroutine.
type Scene struct {
	logger *slog.Logger
	sender *pointer.Sender

	nodes    []*node
	focused  *node
	captured *node

	windowFocused bool
}

// New returns an empty scene.
func New(logger *slog.Logger) *Scene {
	s := &Scene{
		logger:        logging.OrDiscard(logger).With("component", "scene"),
		windowFocused: true,
	}
	s.sender = pointer.NewSender(s.dispatch)
	return s
}

// Add registers f at bounds, in scene coordinates. Fields added later are
// on top for hit testing and after earlier ones in focus order.
func (s *Scene) Add(f *textfield.Field, bounds textlayout.Rect) {
	if s.find(f) != nil {
		s.SetBounds(f, bounds)
		return
	}
	n := &node{field: f, bounds: bounds}
	s.nodes = append(s.nodes, n)
	f.SetFocusRequester(func() { s.Focus(f) })
	f.SetWindowFocused(s.windowFocused)
	s.InvalidateLayout()
}

// Remove unregisters f, blurring it first when it has focus.
func (s *Scene) Remove(f *textfield.Field) {
	n := s.find(f)
	if n == nil {
		return
	}
	if s.focused == n {
		s.blur()
	}
	if s.captured == n {
		s.captured = nil
	}
	f.SetFocusRequester(nil)
	s.nodes = slices.DeleteFunc(s.nodes, func(o *node) bool { return o == n })
	s.InvalidateLayout()
}

// SetBounds moves f. It reports false when f is not registered.
func (s *Scene) SetBounds(f *textfield.Field, bounds textlayout.Rect) bool {
	n := s.find(f)
	if n == nil {
		return false
	}
	if n.bounds != bounds {
		n.bounds = bounds
		s.InvalidateLayout()
	}
	return true
}

// Bounds returns the bounds f was registered with.
func (s *Scene) Bounds(f *textfield.Field) (textlayout.Rect, bool) {
	if n := s.find(f); n != nil {
		return n.bounds, true
	}
	return textlayout.Rect{}, false
}

// SetScroll sets how far the content of f is scrolled inside its bounds.
// Hit testing still uses the bounds; positions delivered to f are in
// content coordinates. It reports false when f is not registered.
func (s *Scene) SetScroll(f *textfield.Field, offset f32.Point) bool {
	n := s.find(f)
	if n == nil {
		return false
	}
	if n.scroll != offset {
		n.scroll = offset
		s.InvalidateLayout()
	}
	return true
}

// Scroll returns the scroll offset of f.
func (s *Scene) Scroll(f *textfield.Field) f32.Point {
	if n := s.find(f); n != nil {
		return n.scroll
	}
	return f32.Point{}
}

// Fields returns the registered fields in focus order.
func (s *Scene) Fields() []*textfield.Field {
	out := make([]*textfield.Field, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.field
	}
	return out
}

// FieldAt returns the topmost field whose bounds contain p.
func (s *Scene) FieldAt(p f32.Point) *textfield.Field {
	if n := s.hit(p); n != nil {
		return n.field
	}
	return nil
}

func (s *Scene) find(f *textfield.Field) *node {
	for _, n := range s.nodes {
		if n.field == f {
			return n
		}
	}
	return nil
}

func (s *Scene) hit(p f32.Point) *node {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		if s.nodes[i].bounds.Contains(p) {
			return s.nodes[i]
		}
	}
	return nil
}

// Send feeds a raw platform event through the scene's sender.
func (s *Scene) Send(e pointer.Event) pointer.Result {
	return s.sender.Send(e)
}

// InvalidateLayout records that content may have moved under a stationary
// pointer. The next Frame re-sends the pointer position.
func (s *Scene) InvalidateLayout() {
	s.sender.SetNeedUpdatePointerPosition(true)
}

// Frame runs once per frame after layout.
func (s *Scene) Frame() pointer.Result {
	return s.sender.UpdatePointerPosition()
}

func (s *Scene) dispatch(e pointer.Event) pointer.Result {
	target := s.captured
	if target == nil {
		p, ok := primary(e)
		if !ok {
			return pointer.Result{}
		}
		target = s.hit(p.Position)
		if target == nil {
			return pointer.Result{}
		}
		if e.Type == pointer.Press {
			s.captured = target
			s.logger.Debug("pointer captured", "event", e.String(), "bounds", target.bounds.String())
		}
	}

	res := target.field.HandlePointerEvent(local(e, target.bounds.Min.Sub(target.scroll)))
	if s.captured == target && !e.AnyDown() {
		s.captured = nil
	}
	return res
}

// primary returns the first pressed pointer, or the first pointer when
// none is pressed.
func primary(e pointer.Event) (pointer.Data, bool) {
	for _, p := range e.Pointers {
		if p.Down {
			return p, true
		}
	}
	if len(e.Pointers) > 0 {
		return e.Pointers[0], true
	}
	return pointer.Data{}, false
}

// local returns e with every position moved into a field whose origin is
// at origin.
func local(e pointer.Event, origin f32.Point) pointer.Event {
	pointers := make([]pointer.Data, len(e.Pointers))
	for i, p := range e.Pointers {
		p.Position = p.Position.Sub(origin)
		if len(p.Historical) > 0 {
			h := make([]pointer.Historical, len(p.Historical))
			for j, sample := range p.Historical {
				sample.Position = sample.Position.Sub(origin)
				h[j] = sample
			}
			p.Historical = h
		}
		pointers[i] = p
	}
	e.Pointers = pointers
	return e
}

// Focused returns the focused field, or nil.
func (s *Scene) Focused() *textfield.Field {
	if s.focused == nil {
		return nil
	}
	return s.focused.field
}

// Focus moves focus to f. The previous owner loses focus before f gains
// it, so its input session is closed before f opens one. It reports false
// when f is not registered or disabled.
func (s *Scene) Focus(f *textfield.Field) bool {
	n := s.find(f)
	if n == nil || !f.Config().Enabled {
		return false
	}
	if s.focused == n {
		return true
	}
	s.blur()
	s.focused = n
	f.OnFocusChanged(true)
	s.logger.Debug("focus moved", "index", slices.Index(s.nodes, n))
	return true
}

func (s *Scene) blur() {
	if s.focused == nil {
		return
	}
	n := s.focused
	s.focused = nil
	n.field.OnFocusChanged(false)
}

// MoveFocus moves focus to the next or previous enabled field, wrapping at
// either end. With nothing focused, Next focuses the first field and
// Previous the last. It reports whether focus changed.
func (s *Scene) MoveFocus(direction input.FocusDirection) bool {
	count := len(s.nodes)
	if count == 0 {
		return false
	}
	step := 1
	if direction == input.FocusPrevious {
		step = -1
	}

	start := -1
	if s.focused != nil {
		start = slices.Index(s.nodes, s.focused)
	} else if step < 0 {
		start = count
	}

	for i := 1; i <= count; i++ {
		idx := ((start+step*i)%count + count) % count
		n := s.nodes[idx]
		if n == s.focused {
			return false
		}
		if n.field.Config().Enabled {
			return s.Focus(n.field)
		}
	}
	return false
}

// ClearFocus removes focus from the focused field.
func (s *Scene) ClearFocus(force bool) {
	if s.focused != nil {
		s.logger.Debug("focus cleared", "force", force)
	}
	s.blur()
}

// SetWindowFocused forwards the window focus to every field.
func (s *Scene) SetWindowFocused(focused bool) {
	s.windowFocused = focused
	for _, n := range s.nodes {
		n.field.SetWindowFocused(focused)
	}
}

// HandleKey delivers e to the focused field.
func (s *Scene) HandleKey(e textfield.KeyEvent) bool {
	if s.focused == nil {
		return false
	}
	return s.focused.field.HandleKey(e)
}

// Close blurs the focused field and forgets pointer state.
func (s *Scene) Close() {
	s.blur()
	s.captured = nil
	s.sender.Reset()
}

var _ input.FocusManager = (*Scene)(nil)
