// Package render turns markdown into HTML with date tokens in list items
// replaced by pills, and keeps pill strikethrough in sync with task state.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Munckenh/obsidian-relative-dates/internal/dates"
	"github.com/Munckenh/obsidian-relative-dates/internal/mdtask"
	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

var ErrNotTask = errors.New("item is not a task")

type item struct {
	node   *ast.ListItem
	parent int
	pills  []*Pill
}

// Document is a parsed markdown source whose list items carry pills.
// It is owned by one caller at a time.
type Document struct {
	source []byte
	root   ast.Node
	md     goldmark.Markdown
	items  []*item
}

// Item is a read-only view of one list item.
type Item struct {
	Index  int           `json:"index"`
	Parent int           `json:"parent"`
	Task   string        `json:"task,omitempty"`
	Struck bool          `json:"struck"`
	Badges []model.Badge `json:"badges"`
}

// Parse builds the document for src. Every list item's own text (nested lists
// excluded) is scanned; valid tokens become pills, everything else is kept.
func Parse(src []byte, s model.Settings, now time.Time) *Document {
	md := mdtask.New(pills{})
	d := &Document{
		source: src,
		root:   md.Parser().Parse(text.NewReader(src)),
		md:     md,
	}
	d.indexItems()

	p := dates.Compile(s)
	for _, it := range d.items {
		struck := mdtask.StruckThrough(it.node)
		for _, t := range itemTexts(it.node) {
			it.pills = append(it.pills, splice(t, src, p, now, struck)...)
		}
	}
	return d
}

func (d *Document) indexItems() {
	index := map[*ast.ListItem]int{}
	_ = ast.Walk(d.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		li, ok := n.(*ast.ListItem)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		it := &item{node: li, parent: -1}
		for a := li.Parent(); a != nil; a = a.Parent() {
			if pl, ok := a.(*ast.ListItem); ok {
				it.parent = index[pl]
				break
			}
		}
		index[li] = len(d.items)
		d.items = append(d.items, it)
		return ast.WalkContinue, nil
	})
}

// itemTexts returns li's text nodes outside nested lists and code spans, after
// merging adjacent text runs so a token is never split across nodes.
func itemTexts(li *ast.ListItem) []*ast.Text {
	var out []*ast.Text
	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		switch n.Kind() {
		case ast.KindList, ast.KindCodeSpan, ast.KindRawHTML, ast.KindCodeBlock, ast.KindFencedCodeBlock:
			return
		}
		coalesce(n)
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				out = append(out, t)
				continue
			}
			visit(c)
		}
	}
	visit(li)
	return out
}

func coalesce(parent ast.Node) {
	for c := parent.FirstChild(); c != nil; {
		t, ok := c.(*ast.Text)
		next := c.NextSibling()
		if ok && !t.IsRaw() && !t.SoftLineBreak() && !t.HardLineBreak() {
			if nt, ok := next.(*ast.Text); ok && !nt.IsRaw() && nt.Segment.Start == t.Segment.Stop {
				t.Segment = t.Segment.WithStop(nt.Segment.Stop)
				t.SetSoftLineBreak(nt.SoftLineBreak())
				t.SetHardLineBreak(nt.HardLineBreak())
				parent.RemoveChild(parent, nt)
				continue
			}
		}
		c = next
	}
}

// splice replaces t with text/pill/text... siblings in source order.
// Invalid tokens and tokens with an escaped prefix stay inside the surrounding
// text, where the markdown renderer unescapes them.
func splice(t *ast.Text, src []byte, p *dates.Pattern, now time.Time, struck bool) []*Pill {
	seg := t.Segment
	value := string(src[seg.Start:seg.Stop])
	parent := t.Parent()

	var out []*Pill
	last := 0
	for tok := range p.Tokens(value, now) {
		if !tok.OK || mdtask.Escaped(src, seg.Start+tok.Match.Offset) {
			continue
		}
		m := tok.Match
		if m.Offset > last {
			parent.InsertBefore(parent, t, ast.NewTextSegment(text.NewSegment(seg.Start+last, seg.Start+m.Offset)))
		}
		n := &Pill{
			Badge: model.Badge{
				Text:          tok.Classification.Label,
				Bucket:        tok.Classification.Bucket,
				StruckThrough: struck,
			},
			Raw: m.Raw,
		}
		parent.InsertBefore(parent, t, n)
		out = append(out, n)
		last = m.End()
	}
	if len(out) == 0 {
		return nil
	}
	// The tail keeps the original node's line break, even when empty.
	if last < len(value) || t.SoftLineBreak() || t.HardLineBreak() {
		rest := ast.NewTextSegment(text.NewSegment(seg.Start+last, seg.Stop))
		rest.SetSoftLineBreak(t.SoftLineBreak())
		rest.SetHardLineBreak(t.HardLineBreak())
		parent.InsertBefore(parent, t, rest)
	}
	parent.RemoveChild(parent, t)
	return out
}

func (d *Document) Len() int { return len(d.items) }

// Items lists every list item in document order.
func (d *Document) Items() []Item {
	out := make([]Item, 0, len(d.items))
	for i, it := range d.items {
		v := Item{
			Index:  i,
			Parent: it.parent,
			Struck: mdtask.StruckThrough(it.node),
			Badges: make([]model.Badge, 0, len(it.pills)),
		}
		if m, ok := mdtask.Marker(it.node); ok {
			v.Task = string(m.State)
		}
		for _, p := range it.pills {
			v.Badges = append(v.Badges, p.Badge)
		}
		out = append(out, v)
	}
	return out
}

// Toggle flips item i between open and done (cancelled items reopen), then
// refreshes the strikethrough of the item's pills and all its descendants'.
// Labels and buckets are left alone.
func (d *Document) Toggle(i int) error {
	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("item %d out of range (0..%d)", i, len(d.items)-1)
	}
	it := d.items[i]
	m, ok := mdtask.Marker(it.node)
	if !ok {
		return fmt.Errorf("item %d: %w", i, ErrNotTask)
	}
	next := byte('x')
	if mdtask.Done(m.State) {
		next = ' '
	}
	mdtask.SetState(it.node, next)
	d.restrike(i)
	return nil
}

func (d *Document) restrike(root int) {
	for j, it := range d.items {
		if j != root && !d.descends(j, root) {
			continue
		}
		struck := mdtask.StruckThrough(it.node)
		for _, p := range it.pills {
			p.Badge.StruckThrough = struck
		}
	}
}

func (d *Document) descends(j, ancestor int) bool {
	for p := d.items[j].parent; p >= 0; p = d.items[p].parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// Render writes the document as an HTML fragment.
func (d *Document) Render(w io.Writer) error {
	return d.md.Renderer().Render(w, d.source, d.root)
}

func (d *Document) HTML() (string, error) {
	var b bytes.Buffer
	if err := d.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}
