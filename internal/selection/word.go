package selection

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"editcore/internal/text"
)

// wordAt returns the word containing offset, using Unicode word
// boundaries. If offset falls on whitespace or punctuation the range is
// collapsed at offset. An offset at the end of the text selects the last
// word.
func wordAt(s string, offset int) text.TextRange {
	n := utf8.RuneCountInString(s)
	offset = max(0, min(offset, n))

	var prev text.TextRange
	havePrev := false
	pos := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		l := utf8.RuneCountInString(word)
		r := text.NewRange(pos, pos+l)
		pos += l

		if offset < r.End {
			if isWord(word) {
				return r
			}
			// Between two words the caret belongs to the one before it.
			if offset == r.Start && havePrev {
				return prev
			}
			return text.CursorAt(offset)
		}
		prev, havePrev = r, isWord(word)
	}
	if havePrev {
		return prev
	}
	return text.CursorAt(offset)
}

func isWord(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			return true
		}
	}
	return false
}
