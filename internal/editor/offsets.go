package editor

import (
	"strings"
	"unicode/utf8"
)

// OffsetAt converts a 0-based line and rune column into a byte offset of doc.
// Positions past the end of a line clamp to the line end.
func OffsetAt(doc string, line, col int) int {
	off := 0
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(doc[off:], '\n')
		if nl < 0 {
			return len(doc)
		}
		off += nl + 1
	}
	end := len(doc)
	if nl := strings.IndexByte(doc[off:], '\n'); nl >= 0 {
		end = off + nl
	}
	for c := 0; c < col && off < end; c++ {
		_, size := utf8.DecodeRuneInString(doc[off:end])
		off += size
	}
	return off
}

// LineRange returns the byte range covering lines [first, last] of doc.
func LineRange(doc string, first, last int) Range {
	if first < 0 {
		first = 0
	}
	from := OffsetAt(doc, first, 0)
	to := OffsetAt(doc, last, 0)
	if nl := strings.IndexByte(doc[to:], '\n'); nl >= 0 {
		to += nl
	} else {
		to = len(doc)
	}
	return Range{From: from, To: to}
}
