package mdtask

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const sample = `# Tasks

- [x] done parent
  - [ ] child of done
    - [ ] grandchild
- [-] cancelled
- plain item
- [ ] open
- [a](https://example.com) link first

` + "```" + `
- [x] not a list
` + "```" + `
`

func listItems(doc ast.Node) []*ast.ListItem {
	var out []*ast.ListItem
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if li, ok := n.(*ast.ListItem); ok && entering {
			out = append(out, li)
		}
		return ast.WalkContinue, nil
	})
	return out
}

func TestMarkerAndStruckThrough(t *testing.T) {
	doc := Parse([]byte(sample))
	items := listItems(doc)
	if len(items) != 7 {
		t.Fatalf("expected 7 list items, got %d", len(items))
	}
	cases := []struct {
		state  byte
		task   bool
		struck bool
	}{
		{'x', true, true},
		{' ', true, true},
		{' ', true, true},
		{'-', true, true},
		{0, false, false},
		{' ', true, false},
		{0, false, false},
	}
	for i, tc := range cases {
		m, ok := Marker(items[i])
		if ok != tc.task {
			t.Fatalf("item %d: expected task=%v, got %v", i, tc.task, ok)
		}
		if ok && m.State != tc.state {
			t.Fatalf("item %d: expected state %q, got %q", i, tc.state, m.State)
		}
		if got := StruckThrough(items[i]); got != tc.struck {
			t.Fatalf("item %d: expected struck=%v, got %v", i, tc.struck, got)
		}
	}
}

func TestSetState(t *testing.T) {
	doc := Parse([]byte(sample))
	items := listItems(doc)
	if !SetState(items[0], ' ') {
		t.Fatalf("expected the first item to be a task")
	}
	if StruckThrough(items[1]) {
		t.Fatalf("child should no longer be struck once the parent is reopened")
	}
	if SetState(items[4], 'x') {
		t.Fatalf("plain items have no marker to set")
	}
}

func TestRenderHTML(t *testing.T) {
	var b bytes.Buffer
	if err := New().Convert([]byte(sample), &b); err != nil {
		t.Fatalf("convert: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		`<li class="task-list-item" data-task="x">`,
		`<li class="task-list-item" data-task="-">`,
		`data-task="x" checked=""`,
		`<a href="https://example.com">a</a>`,
		"<li>plain item</li>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Count(out, "task-list-item-checkbox") != 5 {
		t.Fatalf("expected 5 checkboxes in:\n%s", out)
	}
}

func TestRegions(t *testing.T) {
	src := []byte(sample)
	doc := New().Parser().Parse(text.NewReader(src))
	regions := Regions(doc, src)
	var got []string
	for _, r := range regions {
		got = append(got, string(src[r.From:r.To]))
	}
	want := []string{
		"[x] done parent",
		"[ ] child of done",
		"[ ] grandchild",
		"[-] cancelled",
		"plain item",
		"[ ] open",
		"[a](https://example.com) link first",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected regions:\n got %q\nwant %q", got, want)
	}
	for i := 1; i < len(regions); i++ {
		if regions[i].From < regions[i-1].To {
			t.Fatalf("regions overlap at %d", i)
		}
	}
}

func TestRegions_SkipCodeSpans(t *testing.T) {
	src := []byte("- [ ] run `@ 2024-06-10` now and ``a`b`` later\n")
	doc := New().Parser().Parse(text.NewReader(src))
	var got []string
	for _, r := range Regions(doc, src) {
		got = append(got, string(src[r.From:r.To]))
	}
	want := []string{"[ ] run ", " now and ", " later"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected regions:\n got %q\nwant %q", got, want)
	}
}

func TestEscaped(t *testing.T) {
	cases := []struct {
		src  string
		off  int
		want bool
	}{
		{`a \@x`, 3, true},
		{`a \\@x`, 4, false},
		{`a \\\@x`, 5, true},
		{`a @x`, 2, false},
		{`a \dx`, 3, false},
		{`@x`, 0, false},
	}
	for _, tc := range cases {
		if got := Escaped([]byte(tc.src), tc.off); got != tc.want {
			t.Fatalf("%q at %d: expected %v, got %v", tc.src, tc.off, tc.want, got)
		}
	}
}
