package text

import "fmt"

// TextRange is a pair of rune offsets. Start may be greater than End for a
// reversed selection; Min and Max give the ordered bounds.
type TextRange struct {
	Start int
	End   int
}

// NewRange creates a range from start to end.
func NewRange(start, end int) TextRange {
	return TextRange{Start: start, End: end}
}

// CursorAt returns a collapsed range at offset.
func CursorAt(offset int) TextRange {
	return TextRange{Start: offset, End: offset}
}

func (r TextRange) Min() int { return min(r.Start, r.End) }

func (r TextRange) Max() int { return max(r.Start, r.End) }

// Collapsed reports whether the range is empty.
func (r TextRange) Collapsed() bool { return r.Start == r.End }

// Reversed reports whether Start is after End.
func (r TextRange) Reversed() bool { return r.Start > r.End }

// Len returns the number of runes covered by the range.
func (r TextRange) Len() int { return r.Max() - r.Min() }

// Contains reports whether offset lies in [Min, Max).
func (r TextRange) Contains(offset int) bool {
	return offset >= r.Min() && offset < r.Max()
}

// ContainsRange reports whether other lies fully inside r.
func (r TextRange) ContainsRange(other TextRange) bool {
	return r.Min() <= other.Min() && other.Max() <= r.Max()
}

// Intersects reports whether the two ranges overlap.
func (r TextRange) Intersects(other TextRange) bool {
	return r.Min() < other.Max() && other.Min() < r.Max()
}

// Coerce clamps both ends into [lo, hi], keeping their order.
func (r TextRange) Coerce(lo, hi int) TextRange {
	return TextRange{Start: clamp(r.Start, lo, hi), End: clamp(r.End, lo, hi)}
}

func (r TextRange) String() string {
	return fmt.Sprintf("TextRange(%d, %d)", r.Start, r.End)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
