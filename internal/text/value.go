package text

import (
	"fmt"
	"unicode/utf8"
)

// TextFieldValue is an immutable snapshot of a text field's editing state.
// Use NewValue to build one; it coerces Selection and Composition into the
// bounds of Text.
type TextFieldValue struct {
	Text      string
	Selection TextRange

	// Composition marks the range currently owned by the IME. Nil when no
	// composition is active.
	Composition *TextRange
}

// NewValue returns a value with selection and composition clamped to text.
// A collapsed composition is dropped.
func NewValue(text string, selection TextRange, composition *TextRange) TextFieldValue {
	n := utf8.RuneCountInString(text)
	v := TextFieldValue{
		Text:      text,
		Selection: selection.Coerce(0, n),
	}
	if composition != nil {
		c := composition.Coerce(0, n)
		if !c.Collapsed() {
			c = TextRange{Start: c.Min(), End: c.Max()}
			v.Composition = &c
		}
	}
	return v
}

// ValueOf returns a value with the cursor placed at the end of text.
func ValueOf(text string) TextFieldValue {
	return NewValue(text, CursorAt(utf8.RuneCountInString(text)), nil)
}

// Len returns the text length in runes.
func (v TextFieldValue) Len() int {
	return utf8.RuneCountInString(v.Text)
}

// Equal reports whether both values hold the same text, selection and
// composition.
func (v TextFieldValue) Equal(o TextFieldValue) bool {
	return v.Text == o.Text && v.Selection == o.Selection && compositionEqual(v.Composition, o.Composition)
}

// WithSelection returns a copy with a new selection, clamped to the text.
func (v TextFieldValue) WithSelection(sel TextRange) TextFieldValue {
	return NewValue(v.Text, sel, v.Composition)
}

// WithoutComposition returns a copy with the composition cleared.
func (v TextFieldValue) WithoutComposition() TextFieldValue {
	v.Composition = nil
	return v
}

// SelectedText returns the text covered by the selection.
func (v TextFieldValue) SelectedText() string {
	r := []rune(v.Text)
	sel := v.Selection.Coerce(0, len(r))
	return string(r[sel.Min():sel.Max()])
}

// TextBeforeSelection returns up to n runes before the selection.
func (v TextFieldValue) TextBeforeSelection(n int) string {
	r := []rune(v.Text)
	end := v.Selection.Coerce(0, len(r)).Min()
	start := max(0, end-max(0, n))
	return string(r[start:end])
}

// TextAfterSelection returns up to n runes after the selection.
func (v TextFieldValue) TextAfterSelection(n int) string {
	r := []rune(v.Text)
	start := v.Selection.Coerce(0, len(r)).Max()
	end := min(len(r), start+max(0, n))
	return string(r[start:end])
}

func (v TextFieldValue) String() string {
	if v.Composition == nil {
		return fmt.Sprintf("TextFieldValue(text=%q, selection=%v)", v.Text, v.Selection)
	}
	return fmt.Sprintf("TextFieldValue(text=%q, selection=%v, composition=%v)", v.Text, v.Selection, *v.Composition)
}

func compositionEqual(a, b *TextRange) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
