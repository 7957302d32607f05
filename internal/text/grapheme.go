package text

import "github.com/rivo/uniseg"

// graphemeBoundaries returns the rune offsets of every grapheme cluster
// boundary in runes, including 0 and len(runes).
func graphemeBoundaries(runes []rune) []int {
	bounds := []int{0}
	g := uniseg.NewGraphemes(string(runes))
	at := 0
	for g.Next() {
		at += len(g.Runes())
		bounds = append(bounds, at)
	}
	return bounds
}

// precedingBreak returns the grapheme boundary strictly before offset, or 0.
func precedingBreak(runes []rune, offset int) int {
	prev := 0
	for _, b := range graphemeBoundaries(runes) {
		if b >= offset {
			break
		}
		prev = b
	}
	return prev
}

// followingBreak returns the grapheme boundary strictly after offset, or
// len(runes).
func followingBreak(runes []rune, offset int) int {
	for _, b := range graphemeBoundaries(runes) {
		if b > offset {
			return b
		}
	}
	return len(runes)
}

// PrevGrapheme returns the grapheme boundary before the rune offset in s,
// or 0.
func PrevGrapheme(s string, offset int) int {
	return precedingBreak([]rune(s), offset)
}

// NextGrapheme returns the grapheme boundary after the rune offset in s,
// or the rune length of s.
func NextGrapheme(s string, offset int) int {
	return followingBreak([]rune(s), offset)
}
