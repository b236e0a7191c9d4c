package dates

import (
	"iter"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

// Scan yields every non-overlapping token in text in ascending offset order.
// Each range over the returned sequence is an independent pass.
//
// Matches without a date capture are skipped. They only happen when the date
// format is empty (zero-width or whitespace-only runs) and can never carry a date.
func (p *Pattern) Scan(text string) iter.Seq[model.Match] {
	return func(yield func(model.Match) bool) {
		pos := 0
		for pos <= len(text) {
			loc := p.re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			start, end := pos+loc[0], pos+loc[1]
			if start == end {
				_, size := utf8.DecodeRuneInString(text[start:])
				if size == 0 {
					return
				}
				pos = start + size
				continue
			}
			m := model.Match{
				Offset:  start,
				Length:  end - start,
				Raw:     text[start:end],
				RawDate: text[pos+loc[2] : pos+loc[3]],
			}
			if loc[4] >= 0 {
				m.RawTime = text[pos+loc[4] : pos+loc[5]]
				m.HasTime = true
			}
			if m.RawDate == "" {
				pos = end
				continue
			}
			if !yield(m) {
				return
			}
			pos = end
		}
	}
}

// All collects Scan into a slice.
func (p *Pattern) All(text string) []model.Match {
	return slices.Collect(p.Scan(text))
}

// Contains reports whether text holds at least one token.
func (p *Pattern) Contains(text string) bool {
	for range p.Scan(text) {
		return true
	}
	return false
}

// Token is a scanned match together with its classification.
// OK is false when the match is not a valid date; callers keep Match.Raw as is.
type Token struct {
	Match          model.Match
	Classification model.Classification
	OK             bool
}

// Tokens scans text and classifies each match against now.
func (p *Pattern) Tokens(text string, now time.Time) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for m := range p.Scan(text) {
			c, ok := Classify(m, p, now)
			if !yield(Token{Match: m, Classification: c, OK: ok}) {
				return
			}
		}
	}
}
