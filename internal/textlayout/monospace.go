package textlayout

import (
	"math"

	"gioui.org/f32"
)

type cell struct {
	line, col int
}

// Monospace lays text out on a fixed grid. Every rune takes one cell; '\n'
// starts a new line. When WrapColumns is positive, lines wrap after that
// many cells.
type Monospace struct {
	text  string
	runes []rune
	cell  f32.Point
	wrap  int

	carets []cell
	lines  int
	cols   int
}

// NewMonospace lays out text with cells of the given size.
func NewMonospace(text string, cellSize f32.Point, wrapColumns int) *Monospace {
	m := &Monospace{
		text:  text,
		runes: []rune(text),
		cell:  cellSize,
		wrap:  wrapColumns,
	}
	m.layout()
	return m
}

func (m *Monospace) layout() {
	m.carets = make([]cell, len(m.runes)+1)
	line, col := 0, 0
	for i, r := range m.runes {
		if r != '\n' && m.wrap > 0 && col >= m.wrap {
			line++
			col = 0
		}
		m.carets[i] = cell{line, col}
		if r == '\n' {
			m.cols = max(m.cols, col)
			line++
			col = 0
			continue
		}
		col++
	}
	m.carets[len(m.runes)] = cell{line, col}
	m.cols = max(m.cols, col)
	m.lines = line + 1
}

func (m *Monospace) Text() string { return m.text }

func (m *Monospace) Size() f32.Point {
	return f32.Pt(float32(m.cols)*m.cell.X, float32(m.lines)*m.cell.Y)
}

func (m *Monospace) LineCount() int { return m.lines }

func (m *Monospace) LineForOffset(offset int) int {
	return m.carets[m.clamp(offset)].line
}

func (m *Monospace) BoundingBox(offset int) Rect {
	if len(m.runes) == 0 {
		return Rect{Max: f32.Pt(0, m.cell.Y)}
	}
	offset = min(m.clamp(offset), len(m.runes)-1)
	r := m.CursorRect(offset)
	if m.runes[offset] != '\n' {
		r.Max.X += m.cell.X
	}
	return r
}

func (m *Monospace) CursorRect(offset int) Rect {
	c := m.carets[m.clamp(offset)]
	x := float32(c.col) * m.cell.X
	y := float32(c.line) * m.cell.Y
	return Rect{Min: f32.Pt(x, y), Max: f32.Pt(x, y+m.cell.Y)}
}

func (m *Monospace) OffsetForPosition(p f32.Point) int {
	line := 0
	if m.cell.Y > 0 {
		line = int(math.Floor(float64(p.Y / m.cell.Y)))
	}
	line = max(0, min(line, m.lines-1))

	col := 0
	if m.cell.X > 0 {
		col = int(math.Round(float64(p.X / m.cell.X)))
	}

	best := -1
	for i, c := range m.carets {
		if c.line != line {
			if best >= 0 {
				break
			}
			continue
		}
		if c.col <= col || best < 0 {
			best = i
		}
	}
	return max(best, 0)
}

func (m *Monospace) clamp(offset int) int {
	return max(0, min(offset, len(m.runes)))
}
