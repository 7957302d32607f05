// Package textlayout is the boundary between the editing core and whatever
// measures and places glyphs. The core only asks a laid out text where an
// offset is and which offset lies under a point.
package textlayout

import (
	"fmt"

	"gioui.org/f32"
)

// Rect is an axis-aligned rectangle in layout coordinates.
type Rect struct {
	Min, Max f32.Point
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p f32.Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Size returns the width and height of r.
func (r Rect) Size() f32.Point { return r.Max.Sub(r.Min) }

// Offset returns r moved by d.
func (r Rect) Offset(d f32.Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%v, %v)", r.Min, r.Max)
}

// Result is a laid out text.
type Result interface {
	// Text returns the laid out (transformed) text.
	Text() string
	Size() f32.Point
	LineCount() int
	LineForOffset(offset int) int

	// BoundingBox returns the box of the character at offset.
	BoundingBox(offset int) Rect

	// CursorRect returns a zero-width rect where a cursor before offset is
	// drawn. Offsets equal to the text length are valid.
	CursorRect(offset int) Rect

	// OffsetForPosition returns the caret offset closest to p.
	OffsetForPosition(p f32.Point) int
}
