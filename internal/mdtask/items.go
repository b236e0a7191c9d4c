package mdtask

import (
	"sort"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// Marker returns li's task marker, if it has one.
func Marker(li *ast.ListItem) (*TaskMarker, bool) {
	first := li.FirstChild()
	if first == nil {
		return nil, false
	}
	m, ok := first.FirstChild().(*TaskMarker)
	return m, ok
}

// StruckThrough reports whether li or any enclosing list item is done or cancelled.
func StruckThrough(li *ast.ListItem) bool {
	for n := ast.Node(li); n != nil; n = n.Parent() {
		item, ok := n.(*ast.ListItem)
		if !ok {
			continue
		}
		if m, ok := Marker(item); ok && Done(m.State) {
			return true
		}
	}
	return false
}

// SetState rewrites li's marker and the attributes mirrored on li.
// It returns false when li is not a task.
func SetState(li *ast.ListItem, state byte) bool {
	m, ok := Marker(li)
	if !ok {
		return false
	}
	m.State = state
	li.SetAttributeString("data-task", []byte{state})
	return true
}

// Region is one line of a list item's own text, as byte offsets into the source.
// Nested items produce their own regions. Code spans and raw HTML split a line
// into several regions and are never part of one.
type Region struct {
	From int
	To   int
	Item *ast.ListItem
}

// Regions collects the text lines of every list item in doc, sorted by offset.
// Line terminators are excluded.
func Regions(doc ast.Node, src []byte) []Region {
	var out []Region
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		li, ok := n.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue, nil
		}
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			if c.Kind() != ast.KindParagraph && c.Kind() != ast.KindTextBlock {
				continue
			}
			literals := literalSpans(c, src)
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				from, to := seg.Start, seg.Stop
				for to > from && (src[to-1] == '\n' || src[to-1] == '\r') {
					to--
				}
				out = appendOutside(out, Region{From: from, To: to, Item: li}, literals)
			}
		}
		return ast.WalkContinue, nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

type span struct{ from, to int }

// literalSpans returns the source ranges under block whose text is shown
// verbatim or not at all: code spans (with their backticks) and raw HTML.
func literalSpans(block ast.Node, src []byte) []span {
	var spans []span
	_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.CodeSpan:
			first, ok1 := n.FirstChild().(*ast.Text)
			last, ok2 := n.LastChild().(*ast.Text)
			if ok1 && ok2 {
				from, to := first.Segment.Start, last.Segment.Stop
				for from > 0 && src[from-1] == '`' {
					from--
				}
				for to < len(src) && src[to] == '`' {
					to++
				}
				spans = append(spans, span{from, to})
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				spans = append(spans, span{seg.Start, seg.Stop})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	sort.Slice(spans, func(i, j int) bool { return spans[i].from < spans[j].from })
	return spans
}

// appendOutside appends the non-empty parts of r that no span covers.
func appendOutside(out []Region, r Region, spans []span) []Region {
	for _, s := range spans {
		if s.to <= r.From || s.from >= r.To {
			continue
		}
		if s.from > r.From {
			out = append(out, Region{From: r.From, To: s.from, Item: r.Item})
		}
		r.From = max(r.From, s.to)
	}
	if r.To > r.From {
		out = append(out, r)
	}
	return out
}

// Escaped reports whether src[off] is punctuation escaped by a backslash.
// Markdown shows such a character as a literal, so it never starts a token.
func Escaped(src []byte, off int) bool {
	if off <= 0 || off >= len(src) || !util.IsPunct(src[off]) {
		return false
	}
	n := 0
	for i := off - 1; i >= 0 && src[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
