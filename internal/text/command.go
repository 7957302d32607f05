package text

import (
	"fmt"
	"unicode/utf8"
)

// EditCommand is a single edit applied to an EditingBuffer. The set of
// commands is closed; the unexported marker keeps other packages from adding
// to it.
type EditCommand interface {
	ApplyTo(b *EditingBuffer)
	String() string
	editCommand()
}

// CommitText replaces the composition, or the selection when there is none,
// with Text and ends composing.
//
// NewCursorPosition is relative to the inserted text: a value > 0 places the
// cursor NewCursorPosition-1 runes after its end, a value <= 0 places it
// -NewCursorPosition runes before its start.
type CommitText struct {
	Text              string
	NewCursorPosition int
}

func (c CommitText) ApplyTo(b *EditingBuffer) {
	if comp, ok := b.Composition(); ok {
		b.Replace(comp.Start, comp.End, c.Text)
	} else {
		sel := b.Selection()
		b.Replace(sel.Min(), sel.Max(), c.Text)
	}
	placeCursor(b, c.Text, c.NewCursorPosition)
}

func (c CommitText) String() string {
	return fmt.Sprintf("CommitText(text=%q, newCursorPosition=%d)", c.Text, c.NewCursorPosition)
}

// SetComposingText replaces the composition, or the selection when there is
// none, and marks the new text as composition. Empty text ends composing.
// NewCursorPosition follows CommitText.
type SetComposingText struct {
	Text              string
	NewCursorPosition int
}

func (c SetComposingText) ApplyTo(b *EditingBuffer) {
	var start int
	if comp, ok := b.Composition(); ok {
		start = comp.Start
		b.Replace(comp.Start, comp.End, c.Text)
	} else {
		sel := b.Selection()
		start = sel.Min()
		b.Replace(sel.Min(), sel.Max(), c.Text)
	}
	if n := utf8.RuneCountInString(c.Text); n > 0 {
		b.SetComposition(start, start+n)
	}
	placeCursor(b, c.Text, c.NewCursorPosition)
}

func (c SetComposingText) String() string {
	return fmt.Sprintf("SetComposingText(text=%q, newCursorPosition=%d)", c.Text, c.NewCursorPosition)
}

// FinishComposingText keeps the composed text and ends composing.
type FinishComposingText struct{}

func (FinishComposingText) ApplyTo(b *EditingBuffer) { b.CommitComposition() }

func (FinishComposingText) String() string { return "FinishComposingText()" }

// DeleteAll clears the text.
type DeleteAll struct{}

func (DeleteAll) ApplyTo(b *EditingBuffer) { b.Replace(0, b.Len(), "") }

func (DeleteAll) String() string { return "DeleteAll()" }

// DeleteSurroundingTextInCodePoints deletes After code points following the
// selection and Before code points preceding it. The selection itself is
// kept. Negative counts are treated as zero.
type DeleteSurroundingTextInCodePoints struct {
	Before int
	After  int
}

func (c DeleteSurroundingTextInCodePoints) ApplyTo(b *EditingBuffer) {
	end := b.Selection().Max()
	b.Delete(end, min(b.Len(), end+max(0, c.After)))

	start := b.Selection().Min()
	b.Delete(max(0, start-max(0, c.Before)), start)
}

func (c DeleteSurroundingTextInCodePoints) String() string {
	return fmt.Sprintf("DeleteSurroundingTextInCodePoints(before=%d, after=%d)", c.Before, c.After)
}

// SetSelection moves the selection. Bounds are clamped to the text.
type SetSelection struct {
	Start int
	End   int
}

func (c SetSelection) ApplyTo(b *EditingBuffer) { b.SetSelection(c.Start, c.End) }

func (c SetSelection) String() string {
	return fmt.Sprintf("SetSelection(start=%d, end=%d)", c.Start, c.End)
}

// SetComposingRegion ends any active composition and marks [Start, End) as
// the new one. An empty region only ends composing.
type SetComposingRegion struct {
	Start int
	End   int
}

func (c SetComposingRegion) ApplyTo(b *EditingBuffer) {
	b.CommitComposition()
	b.SetComposition(c.Start, c.End)
}

func (c SetComposingRegion) String() string {
	return fmt.Sprintf("SetComposingRegion(start=%d, end=%d)", c.Start, c.End)
}

// Backspace deletes the composition, else the selection, else the grapheme
// cluster before the cursor.
type Backspace struct{}

func (Backspace) ApplyTo(b *EditingBuffer) {
	if comp, ok := b.Composition(); ok {
		b.Delete(comp.Start, comp.End)
		return
	}
	cursor := b.Cursor()
	if cursor == nowhere {
		sel := b.Selection()
		b.Delete(sel.Min(), sel.Max())
		b.SetCursor(sel.Min())
		return
	}
	if cursor > 0 {
		b.Delete(precedingBreak(b.runes, cursor), cursor)
	}
}

func (Backspace) String() string { return "Backspace()" }

// MoveCursor collapses the selection to its start and moves the cursor by
// Amount grapheme clusters, forward when positive.
type MoveCursor struct {
	Amount int
}

func (c MoveCursor) ApplyTo(b *EditingBuffer) {
	at := b.Selection().Start
	if c.Amount > 0 {
		for range c.Amount {
			if at >= b.Len() {
				break
			}
			at = followingBreak(b.runes, at)
		}
	} else {
		for range -c.Amount {
			if at <= 0 {
				break
			}
			at = precedingBreak(b.runes, at)
		}
	}
	b.SetCursor(at)
}

func (c MoveCursor) String() string { return fmt.Sprintf("MoveCursor(amount=%d)", c.Amount) }

func (CommitText) editCommand()                        {}
func (SetComposingText) editCommand()                  {}
func (FinishComposingText) editCommand()               {}
func (DeleteAll) editCommand()                         {}
func (DeleteSurroundingTextInCodePoints) editCommand() {}
func (SetSelection) editCommand()                      {}
func (SetComposingRegion) editCommand()                {}
func (Backspace) editCommand()                         {}
func (MoveCursor) editCommand()                        {}

func placeCursor(b *EditingBuffer, inserted string, pos int) {
	cursor := b.Selection().End
	var next int
	if pos > 0 {
		next = cursor + pos - 1
	} else {
		next = cursor + pos - utf8.RuneCountInString(inserted)
	}
	b.SetCursor(clamp(next, 0, b.Len()))
}
