// Package transform maps between the text a field stores and the text it
// displays.
//
// A VisualTransformation never changes the stored value. Selection, cursor
// and composition offsets live in original coordinates and are converted
// through the OffsetMapping whenever they meet the displayed text.
package transform

import (
	"strings"
	"unicode/utf8"

	"editcore/internal/text"
)

// OffsetMapping converts offsets between the original and transformed text.
type OffsetMapping interface {
	OriginalToTransformed(offset int) int
	TransformedToOriginal(offset int) int
}

type identity struct{}

func (identity) OriginalToTransformed(offset int) int { return offset }
func (identity) TransformedToOriginal(offset int) int { return offset }

// Identity maps every offset to itself.
var Identity OffsetMapping = identity{}

// TransformedText is the displayed text plus its mapping to the original.
type TransformedText struct {
	Text    string
	Mapping OffsetMapping
}

// VisualTransformation changes how text is displayed without changing it.
type VisualTransformation interface {
	Filter(s string) TransformedText
}

type none struct{}

func (none) Filter(s string) TransformedText {
	return TransformedText{Text: s, Mapping: Identity}
}

// None displays text unchanged.
var None VisualTransformation = none{}

// DefaultMask is the character Password uses when Mask is zero.
const DefaultMask = '•'

// Password displays every character as Mask.
type Password struct {
	Mask rune
}

func (p Password) Filter(s string) TransformedText {
	mask := p.Mask
	if mask == 0 {
		mask = DefaultMask
	}
	return TransformedText{
		Text:    strings.Repeat(string(mask), utf8.RuneCountInString(s)),
		Mapping: Identity,
	}
}

// MapRange maps r from original to transformed coordinates. The direction
// of r is kept.
func MapRange(r text.TextRange, m OffsetMapping) text.TextRange {
	return text.NewRange(m.OriginalToTransformed(r.Start), m.OriginalToTransformed(r.End))
}

// MapRangeBack maps r from transformed to original coordinates.
func MapRangeBack(r text.TextRange, m OffsetMapping) text.TextRange {
	return text.NewRange(m.TransformedToOriginal(r.Start), m.TransformedToOriginal(r.End))
}

// CompositionRange returns the range to underline in the displayed text for
// the IME composition comp, or nil when nothing is being composed.
func CompositionRange(comp *text.TextRange, m OffsetMapping) *text.TextRange {
	if comp == nil {
		return nil
	}
	r := MapRange(*comp, m)
	if r.Collapsed() {
		return nil
	}
	ordered := text.NewRange(r.Min(), r.Max())
	return &ordered
}
