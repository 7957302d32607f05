package textlayout

import (
	"testing"

	"gioui.org/f32"
	"github.com/stretchr/testify/assert"
)

var unit = f32.Pt(10, 20)

func TestMonospace_SingleLine(t *testing.T) {
	m := NewMonospace("hello", unit, 0)

	assert.Equal(t, 1, m.LineCount())
	assert.Equal(t, f32.Pt(50, 20), m.Size())
	assert.Equal(t, Rect{Min: f32.Pt(20, 0), Max: f32.Pt(30, 20)}, m.BoundingBox(2))
	assert.Equal(t, Rect{Min: f32.Pt(50, 0), Max: f32.Pt(50, 20)}, m.CursorRect(5))

	assert.Equal(t, 0, m.OffsetForPosition(f32.Pt(-5, 5)))
	assert.Equal(t, 2, m.OffsetForPosition(f32.Pt(21, 5)))
	assert.Equal(t, 3, m.OffsetForPosition(f32.Pt(26, 5)))
	assert.Equal(t, 5, m.OffsetForPosition(f32.Pt(500, 5)))
}

func TestMonospace_Newlines(t *testing.T) {
	m := NewMonospace("ab\ncde", unit, 0)

	assert.Equal(t, 2, m.LineCount())
	assert.Equal(t, 0, m.LineForOffset(2))
	assert.Equal(t, 1, m.LineForOffset(3))
	assert.Equal(t, f32.Pt(30, 40), m.Size())

	// Past the end of the first line lands before the newline.
	assert.Equal(t, 2, m.OffsetForPosition(f32.Pt(200, 5)))
	assert.Equal(t, 4, m.OffsetForPosition(f32.Pt(10, 25)))
	assert.Equal(t, 6, m.OffsetForPosition(f32.Pt(200, 500)))
}

func TestMonospace_Wrap(t *testing.T) {
	m := NewMonospace("abcdef", unit, 4)

	assert.Equal(t, 2, m.LineCount())
	assert.Equal(t, Rect{Min: f32.Pt(0, 20), Max: f32.Pt(10, 40)}, m.BoundingBox(4))
	assert.Equal(t, 5, m.OffsetForPosition(f32.Pt(10, 25)))
}

func TestMonospace_Empty(t *testing.T) {
	m := NewMonospace("", unit, 0)

	assert.Equal(t, 1, m.LineCount())
	assert.Equal(t, 0, m.OffsetForPosition(f32.Pt(100, 100)))
	assert.Equal(t, Rect{Max: f32.Pt(0, 20)}, m.BoundingBox(0))
}

func TestRect_Contains(t *testing.T) {
	r := Rect{Min: f32.Pt(0, 0), Max: f32.Pt(10, 10)}
	assert.True(t, r.Contains(f32.Pt(0, 0)))
	assert.False(t, r.Contains(f32.Pt(10, 5)))
	assert.True(t, r.Offset(f32.Pt(5, 5)).Contains(f32.Pt(12, 12)))
}
