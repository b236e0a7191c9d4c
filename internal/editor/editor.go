// Package editor decorates a markdown document being edited: date tokens in
// list items are replaced by pills, except the token under the cursor so it
// can still be edited as raw text.
package editor

import (
	"strings"
	"time"

	"github.com/yuin/goldmark/text"

	"github.com/Munckenh/obsidian-relative-dates/internal/dates"
	"github.com/Munckenh/obsidian-relative-dates/internal/mdtask"
	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

// Range is a half-open byte range. The zero Range means "everything".
type Range struct {
	From int
	To   int
}

func (r Range) IsZero() bool { return r.From == 0 && r.To == 0 }

func (r Range) intersects(from, to int) bool {
	return r.IsZero() || (from <= r.To && to >= r.From)
}

// State is what the editor currently shows.
type State struct {
	Doc string
	// Cursor is the selection head as a byte offset into Doc.
	Cursor   int
	Focused  bool
	Viewport Range
}

// Decoration replaces Doc[From:To] with a badge.
type Decoration struct {
	From  int         `json:"from"`
	To    int         `json:"to"`
	Raw   string      `json:"raw"`
	Badge model.Badge `json:"badge"`
}

// Decorate rebuilds the full decoration set for st. Only list item text inside
// the viewport is scanned; code spans, raw HTML and tokens whose prefix is
// backslash-escaped stay as written.
//
// While focused, a token touching the cursor (start <= cursor <= end) is left
// undecorated. An unfocused editor has no live cursor, so every token gets a
// pill; a focus change must be passed to Decorator.Update to rebuild.
func Decorate(st State, s model.Settings, now time.Time) []Decoration {
	p := dates.Compile(s)
	if !p.Contains(st.Doc) {
		return nil
	}
	src := []byte(st.Doc)
	doc := mdtask.New().Parser().Parse(text.NewReader(src))

	var out []Decoration
	for _, r := range mdtask.Regions(doc, src) {
		if !st.Viewport.intersects(r.From, r.To) {
			continue
		}
		struck := mdtask.StruckThrough(r.Item)
		for tok := range p.Tokens(st.Doc[r.From:r.To], now) {
			from := r.From + tok.Match.Offset
			to := from + tok.Match.Length
			if st.Focused && st.Cursor >= from && st.Cursor <= to {
				continue
			}
			if !tok.OK || mdtask.Escaped(src, from) {
				continue
			}
			out = append(out, Decoration{
				From: from,
				To:   to,
				Raw:  tok.Match.Raw,
				Badge: model.Badge{
					Text:          tok.Classification.Label,
					Bucket:        tok.Classification.Bucket,
					StruckThrough: struck,
				},
			})
		}
	}
	return out
}

// Apply splices render(badge) over every decorated span of doc.
// decorations must be sorted and non-overlapping, as Decorate returns them.
func Apply(doc string, decorations []Decoration, render func(model.Badge) string) string {
	if len(decorations) == 0 {
		return doc
	}
	var b strings.Builder
	last := 0
	for _, d := range decorations {
		if d.From < last || d.To > len(doc) {
			continue
		}
		b.WriteString(doc[last:d.From])
		b.WriteString(render(d.Badge))
		last = d.To
	}
	b.WriteString(doc[last:])
	return b.String()
}
