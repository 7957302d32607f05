package text

const nowhere = -1

// EditingBuffer is the mutable working copy EditCommands operate on. Offsets
// passed to any method are clamped to the current text.
type EditingBuffer struct {
	runes     []rune
	selStart  int
	selEnd    int
	compStart int
	compEnd   int
}

// NewEditingBuffer creates a buffer holding value. The composition of value
// is carried over when it is non-empty.
func NewEditingBuffer(value TextFieldValue) *EditingBuffer {
	b := &EditingBuffer{
		runes:     []rune(value.Text),
		compStart: nowhere,
		compEnd:   nowhere,
	}
	sel := value.Selection.Coerce(0, len(b.runes))
	b.selStart, b.selEnd = sel.Start, sel.End
	if value.Composition != nil {
		b.SetComposition(value.Composition.Start, value.Composition.End)
	}
	return b
}

// Len returns the text length in runes.
func (b *EditingBuffer) Len() int { return len(b.runes) }

func (b *EditingBuffer) String() string { return string(b.runes) }

// Selection returns the selection. It may be reversed.
func (b *EditingBuffer) Selection() TextRange { return TextRange{Start: b.selStart, End: b.selEnd} }

// Cursor returns the cursor offset, or -1 when the selection is not
// collapsed.
func (b *EditingBuffer) Cursor() int {
	if b.selStart != b.selEnd {
		return nowhere
	}
	return b.selEnd
}

// SetCursor collapses the selection at offset.
func (b *EditingBuffer) SetCursor(offset int) {
	b.SetSelection(offset, offset)
}

// SetSelection clamps both bounds to the text. A reversed selection stays
// reversed.
func (b *EditingBuffer) SetSelection(start, end int) {
	b.selStart = clamp(start, 0, len(b.runes))
	b.selEnd = clamp(end, 0, len(b.runes))
}

// HasComposition reports whether an IME composition is active.
func (b *EditingBuffer) HasComposition() bool { return b.compStart != nowhere }

// Composition returns the composition range and whether one is active.
func (b *EditingBuffer) Composition() (TextRange, bool) {
	if !b.HasComposition() {
		return TextRange{}, false
	}
	return TextRange{Start: b.compStart, End: b.compEnd}, true
}

// SetComposition marks [start, end) as IME composition. An empty range
// commits any active composition instead.
func (b *EditingBuffer) SetComposition(start, end int) {
	start = clamp(start, 0, len(b.runes))
	end = clamp(end, 0, len(b.runes))
	if start == end {
		b.CommitComposition()
		return
	}
	b.compStart, b.compEnd = min(start, end), max(start, end)
}

// CommitComposition drops the composition marker, keeping its text.
func (b *EditingBuffer) CommitComposition() {
	b.compStart, b.compEnd = nowhere, nowhere
}

// Replace replaces [start, end) with s. The cursor is placed after the
// inserted text and any composition is dropped.
func (b *EditingBuffer) Replace(start, end int, s string) {
	start = clamp(start, 0, len(b.runes))
	end = clamp(end, 0, len(b.runes))
	lo, hi := min(start, end), max(start, end)

	ins := []rune(s)
	next := make([]rune, 0, len(b.runes)-(hi-lo)+len(ins))
	next = append(next, b.runes[:lo]...)
	next = append(next, ins...)
	next = append(next, b.runes[hi:]...)
	b.runes = next

	b.selStart = lo + len(ins)
	b.selEnd = b.selStart
	b.CommitComposition()
}

// Delete removes [start, end) and shifts selection and composition so they
// keep pointing at the same text. A composition that collapses is committed.
func (b *EditingBuffer) Delete(start, end int) {
	start = clamp(start, 0, len(b.runes))
	end = clamp(end, 0, len(b.runes))
	deleted := TextRange{Start: min(start, end), End: max(start, end)}
	if deleted.Collapsed() {
		return
	}

	b.runes = append(b.runes[:deleted.Start:deleted.Start], b.runes[deleted.End:]...)

	sel := rangeAfterDelete(b.Selection(), deleted)
	b.selStart, b.selEnd = sel.Start, sel.End

	if comp, ok := b.Composition(); ok {
		comp = rangeAfterDelete(comp, deleted)
		if comp.Collapsed() {
			b.CommitComposition()
		} else {
			b.compStart, b.compEnd = comp.Start, comp.End
		}
	}
}

// Value returns an immutable snapshot of the buffer.
func (b *EditingBuffer) Value() TextFieldValue {
	v := TextFieldValue{
		Text:      string(b.runes),
		Selection: b.Selection(),
	}
	if comp, ok := b.Composition(); ok {
		v.Composition = &comp
	}
	return v
}

// rangeAfterDelete maps target onto the text that remains once deleted has
// been removed.
func rangeAfterDelete(target, deleted TextRange) TextRange {
	lo, hi := target.Min(), target.Max()
	n := deleted.Len()
	switch {
	case deleted.Intersects(target):
		switch {
		case deleted.ContainsRange(target):
			lo = deleted.Min()
			hi = lo
		case target.ContainsRange(deleted):
			hi -= n
		case deleted.Contains(lo):
			lo = deleted.Min()
			hi -= n
		default:
			hi = deleted.Min()
		}
	case hi > deleted.Min():
		lo -= n
		hi -= n
	}
	return TextRange{Start: lo, End: hi}
}
