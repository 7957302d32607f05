package pointer

import (
	"testing"

	"gioui.org/f32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pointerState struct {
	ID   ID
	Pos  f32.Point
	Down bool
}

type eventState struct {
	Type     EventType
	Pointers []pointerState
}

func stateOf(events []Event) []eventState {
	out := make([]eventState, len(events))
	for i, e := range events {
		out[i].Type = e.Type
		for _, p := range e.Pointers {
			out[i].Pointers = append(out[i].Pointers, pointerState{p.ID, p.Position, p.Down})
		}
	}
	return out
}

func mouse(t EventType, x, y float32, pressed bool) Event {
	return Event{
		Type: t,
		Pointers: []Data{{
			ID:          MousePointerID,
			Position:    f32.Pt(x, y),
			Down:        pressed,
			Type:        TypeMouse,
			ActiveHover: true,
		}},
		Native: struct{}{},
	}
}

func touch(id ID, x, y float32, pressed bool) Data {
	return Data{ID: id, Position: f32.Pt(x, y), Down: pressed, Type: TypeTouch, Pressure: 1}
}

func touches(t EventType, pointers ...Data) Event {
	return Event{Type: t, Pointers: pointers, Native: struct{}{}}
}

func record(sent *[]Event) func(Event) Result {
	return func(e Event) Result {
		*sent = append(*sent, e)
		return Result{}
	}
}

func sentBy(events ...Event) []Event {
	var sent []Event
	s := NewSender(record(&sent))
	for _, e := range events {
		s.Send(e)
	}
	return sent
}

func assertStream(t *testing.T, want, got []Event) {
	t.Helper()
	assert.Equal(t, stateOf(want), stateOf(got))
}

func TestSender_MouseConsistentOrderIsUnchanged(t *testing.T) {
	in := []Event{
		mouse(Enter, 10, 20, false),
		mouse(Press, 10, 20, true),
		mouse(Move, 10, 30, true),
		mouse(Release, 10, 30, false),
		mouse(Move, 10, 40, false),
		mouse(Press, 10, 40, true),
		mouse(Release, 10, 40, false),
		mouse(Exit, -1, -1, false),
	}
	assertStream(t, in, sentBy(in...))
}

func TestSender_PressMoveReleaseSequenceIsUnchanged(t *testing.T) {
	in := []Event{
		mouse(Press, 10, 20, true),
		mouse(Move, 10, 30, true),
		mouse(Release, 10, 30, false),
		mouse(Move, 10, 40, false),
		mouse(Press, 10, 40, true),
	}
	assertStream(t, in, sentBy(in...))
}

func TestSender_MouseMoveBeforeNonMoveAtNewPosition(t *testing.T) {
	got := sentBy(
		mouse(Enter, 10, 20, false),
		mouse(Press, 10, 25, true),
		mouse(Move, 10, 30, true),
		mouse(Release, 10, 35, false),
		mouse(Move, 10, 40, false),
		mouse(Press, 10, 45, true),
		mouse(Release, 10, 50, false),
		mouse(Exit, -1, -1, false),
	)
	assertStream(t, []Event{
		mouse(Enter, 10, 20, false),
		mouse(Move, 10, 25, false),
		mouse(Press, 10, 25, true),
		mouse(Move, 10, 30, true),
		mouse(Move, 10, 35, true),
		mouse(Release, 10, 35, false),
		mouse(Move, 10, 40, false),
		mouse(Move, 10, 45, false),
		mouse(Press, 10, 45, true),
		mouse(Move, 10, 50, true),
		mouse(Release, 10, 50, false),
		mouse(Exit, -1, -1, false),
	}, got)
}

func TestSender_TouchNeverGetsSyntheticMove(t *testing.T) {
	in := []Event{
		touches(Press, touch(1, 10, 25, true)),
		touches(Move, touch(1, 10, 30, true)),
		touches(Release, touch(1, 10, 35, false)),
		touches(Press, touch(2, 10, 45, true)),
		touches(Release, touch(2, 10, 50, false)),
	}
	assertStream(t, in, sentBy(in...))
}

func TestSender_TouchConsistentOrderIsUnchanged(t *testing.T) {
	in := []Event{
		touches(Press, touch(1, 1, 2, true)),
		touches(Move, touch(1, 1, 2, true)),
		touches(Press, touch(1, 1, 2, true), touch(2, 10, 20, true)),
		touches(Move, touch(1, 1, 2, true), touch(2, 10, 25, true)),
		touches(Move, touch(1, 1, 3, true), touch(2, 10, 25, true)),
		touches(Release, touch(1, 1, 3, false), touch(2, 10, 25, true)),
		touches(Move, touch(2, 10, 30, true)),
		touches(Release, touch(2, 10, 30, false)),
	}
	assertStream(t, in, sentBy(in...))
}

func TestSender_OnePressOrReleaseAtATime(t *testing.T) {
	got := sentBy(
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, true)),
		touches(Release, touch(2, 10, 20, false), touch(3, 100, 200, true)),
	)
	assertStream(t, []Event{
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, false), touch(3, 100, 200, false)),
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, false)),
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, true)),
		touches(Release, touch(1, 1, 3, false), touch(2, 10, 20, true), touch(3, 100, 200, true)),
		touches(Release, touch(2, 10, 20, false), touch(3, 100, 200, true)),
	}, got)
}

func TestSender_SimultaneousPressSplit(t *testing.T) {
	got := sentBy(
		touches(Press, touch(3, 100, 200, true), touch(1, 1, 3, true), touch(2, 10, 20, true)),
	)
	require.Len(t, got, 3)
	for i, e := range got {
		assert.Equal(t, Press, e.Type)
		downs := 0
		for _, p := range e.Pointers {
			if p.Down {
				downs++
			}
		}
		assert.Equal(t, i+1, downs, "event %d must add exactly one pressed pointer", i)
	}
	p1, _ := got[0].Pointer(1)
	assert.True(t, p1.Down, "lowest id is pressed first")
	p2, _ := got[1].Pointer(2)
	assert.True(t, p2.Down)
}

func TestSender_OnePressAtATimeAfterExistingPress(t *testing.T) {
	got := sentBy(
		touches(Press, touch(1, 1, 3, true)),
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, true)),
	)
	assertStream(t, []Event{
		touches(Press, touch(1, 1, 3, true)),
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, false)),
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, true)),
	}, got)
}

func TestSender_OneReleaseAtATime(t *testing.T) {
	got := sentBy(
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, true)),
		touches(Release, touch(1, 1, 3, false), touch(2, 10, 20, true), touch(3, 100, 200, true)),
		touches(Release, touch(2, 10, 20, false), touch(3, 100, 200, false)),
	)
	assertStream(t, []Event{
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, false), touch(3, 100, 200, false)),
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, false)),
		touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, true)),
		touches(Release, touch(1, 1, 3, false), touch(2, 10, 20, true), touch(3, 100, 200, true)),
		touches(Release, touch(1, 1, 3, false), touch(2, 10, 20, false), touch(3, 100, 200, true)),
		touches(Release, touch(2, 10, 20, false), touch(3, 100, 200, false)),
	}, got)
}

func TestSender_SyntheticEventsAreStripped(t *testing.T) {
	var sent []Event
	s := NewSender(record(&sent))

	first := touches(Press, touch(1, 1, 1, true), touch(2, 2, 2, true))
	first.Pointers[0].Historical = []Historical{{Position: f32.Pt(0, 0)}}
	first.Pointers[0].ScrollDelta = f32.Pt(3, 3)
	s.Send(first)

	require.Len(t, sent, 2)
	assert.Nil(t, sent[0].Native)
	assert.Nil(t, sent[0].Pointers[0].Historical)
	assert.Equal(t, f32.Point{}, sent[0].Pointers[0].ScrollDelta)
	assert.NotNil(t, sent[1].Native, "the raw event is delivered as is")
}

func TestSender_ResultMerging(t *testing.T) {
	t.Run("synthetic move consumed", func(t *testing.T) {
		s := NewSender(func(e Event) Result { return Result{AnyMovementConsumed: e.Type == Move} })
		assert.False(t, s.Send(mouse(Enter, 10, 20, false)).AnyMovementConsumed)
		assert.True(t, s.Send(mouse(Press, 10, 25, true)).AnyMovementConsumed)
	})

	t.Run("nothing consumed", func(t *testing.T) {
		s := NewSender(func(Event) Result { return Result{} })
		assert.False(t, s.Send(mouse(Enter, 10, 20, false)).AnyMovementConsumed)
		assert.False(t, s.Send(mouse(Press, 10, 25, true)).AnyMovementConsumed)
	})

	t.Run("first synthetic press consumed", func(t *testing.T) {
		s := NewSender(func(e Event) Result {
			downs := 0
			for _, p := range e.Pointers {
				if p.Down {
					downs++
				}
			}
			return Result{AnyMovementConsumed: e.Type == Press && downs == 1}
		})
		assert.True(t, s.Send(touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, true))).AnyMovementConsumed)
	})

	t.Run("first synthetic release consumed", func(t *testing.T) {
		s := NewSender(func(e Event) Result {
			ups := 0
			for _, p := range e.Pointers {
				if !p.Down {
					ups++
				}
			}
			return Result{AnyMovementConsumed: e.Type == Release && ups == 1}
		})
		s.Send(touches(Press, touch(1, 1, 3, true), touch(2, 10, 20, true), touch(3, 100, 200, true)))
		assert.True(t, s.Send(touches(Release, touch(1, 1, 3, false), touch(2, 10, 20, false), touch(3, 100, 200, false))).AnyMovementConsumed)
	})
}

func TestSender_UpdatePointerPosition(t *testing.T) {
	t.Run("after hover", func(t *testing.T) {
		var sent []Event
		s := NewSender(record(&sent))
		s.Send(mouse(Enter, 10, 20, false))

		s.SetNeedUpdatePointerPosition(true)
		s.UpdatePointerPosition()
		assertStream(t, []Event{mouse(Enter, 10, 20, false), mouse(Move, 10, 20, false)}, sent)
		assert.False(t, s.NeedUpdatePointerPosition())

		sent = nil
		s.Send(mouse(Move, 5, 15, false))
		s.SetNeedUpdatePointerPosition(true)
		s.UpdatePointerPosition()
		assertStream(t, []Event{mouse(Move, 5, 15, false), mouse(Move, 5, 15, false)}, sent)
	})

	t.Run("after press", func(t *testing.T) {
		var sent []Event
		s := NewSender(record(&sent))
		s.Send(mouse(Press, 10, 20, true))

		s.SetNeedUpdatePointerPosition(true)
		s.UpdatePointerPosition()
		assertStream(t, []Event{mouse(Press, 10, 20, true), mouse(Move, 10, 20, true)}, sent)
	})

	t.Run("not requested", func(t *testing.T) {
		var sent []Event
		s := NewSender(record(&sent))
		s.Send(mouse(Enter, 10, 20, false))
		s.UpdatePointerPosition()
		assert.Len(t, sent, 1)
	})

	t.Run("touch is left alone", func(t *testing.T) {
		var sent []Event
		s := NewSender(record(&sent))
		s.Send(touches(Press, touch(1, 10, 20, true)))

		s.SetNeedUpdatePointerPosition(true)
		s.UpdatePointerPosition()
		assert.Len(t, sent, 1)

		s.Send(touches(Move, touch(1, 5, 15, true)))
		s.SetNeedUpdatePointerPosition(true)
		s.UpdatePointerPosition()
		assert.Len(t, sent, 2)
	})
}

func TestSender_Reset(t *testing.T) {
	var sent []Event
	s := NewSender(record(&sent))
	s.Send(touches(Press, touch(1, 1, 1, true)))
	s.SetNeedUpdatePointerPosition(true)
	s.Reset()

	assert.False(t, s.NeedUpdatePointerPosition())

	// Without a baseline, pointer 1 is not released synthetically.
	s.Send(touches(Press, touch(2, 2, 2, true)))
	assertStream(t, []Event{
		touches(Press, touch(1, 1, 1, true)),
		touches(Press, touch(2, 2, 2, true)),
	}, sent)
}
