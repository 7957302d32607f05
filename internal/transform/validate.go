package transform

import (
	"fmt"
	"unicode/utf8"
)

// Direction names the OffsetMapping method a MappingError came from.
type Direction int

const (
	OriginalToTransformed Direction = iota
	TransformedToOriginal
)

func (d Direction) String() string {
	if d == TransformedToOriginal {
		return "transformedToOriginal"
	}
	return "originalToTransformed"
}

// MappingError reports an OffsetMapping that produced an offset outside the
// text it maps into.
type MappingError struct {
	Direction Direction
	Offset    int
	Result    int
	Length    int
}

func (e *MappingError) Error() string {
	target := "transformed"
	if e.Direction == TransformedToOriginal {
		target = "original"
	}
	return fmt.Sprintf("OffsetMapping.%s returned invalid mapping: %d -> %d is not in range of %s text [0, %d]",
		e.Direction, e.Offset, e.Result, target, e.Length)
}

// FilterWithValidation filters s with vt and checks that its mapping keeps
// every offset of both texts within bounds. A nil vt behaves like None.
func FilterWithValidation(vt VisualTransformation, s string) (TransformedText, error) {
	if vt == nil {
		vt = None
	}
	out := vt.Filter(s)
	if out.Mapping == nil {
		out.Mapping = Identity
	}

	origLen := utf8.RuneCountInString(s)
	transLen := utf8.RuneCountInString(out.Text)

	for i := 0; i <= origLen; i++ {
		if got := out.Mapping.OriginalToTransformed(i); got < 0 || got > transLen {
			return out, &MappingError{Direction: OriginalToTransformed, Offset: i, Result: got, Length: transLen}
		}
	}
	for i := 0; i <= transLen; i++ {
		if got := out.Mapping.TransformedToOriginal(i); got < 0 || got > origLen {
			return out, &MappingError{Direction: TransformedToOriginal, Offset: i, Result: got, Length: origLen}
		}
	}
	return out, nil
}
