// Package mdtask configures goldmark for markdown task lists and exposes the
// task state of list items.
//
// Unlike goldmark's GFM task list, any single character between the brackets
// is a marker ("[x]", "[-]", "[>]", ...). "x", "X" and "-" mean done or cancelled.
package mdtask

import (
	"regexp"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const ItemClass = "task-list-item"

var KindTaskMarker = ast.NewNodeKind("TaskMarker")

// TaskMarker is the "[x]" at the start of a list item.
type TaskMarker struct {
	ast.BaseInline
	State byte
}

func NewTaskMarker(state byte) *TaskMarker {
	return &TaskMarker{State: state}
}

func (n *TaskMarker) Kind() ast.NodeKind { return KindTaskMarker }

func (n *TaskMarker) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"State": string(n.State)}, nil)
}

// Done reports whether a task state marks the item done or cancelled.
func Done(state byte) bool {
	return state == 'x' || state == 'X' || state == '-'
}

var taskMarkerRe = regexp.MustCompile(`^\[([^\]\r\n])\](?:\s+|$)`)

type taskMarkerParser struct{}

func (p *taskMarkerParser) Trigger() []byte { return []byte{'['} }

func (p *taskMarkerParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	// Only the very first inline of a list item's first block:
	// List > ListItem > TextBlock|Paragraph > (here)
	if parent.Parent() == nil || parent.Parent().FirstChild() != parent || parent.HasChildren() {
		return nil
	}
	li, ok := parent.Parent().(*ast.ListItem)
	if !ok {
		return nil
	}
	line, _ := block.PeekLine()
	m := taskMarkerRe.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}
	state := line[m[2]]
	block.Advance(m[1])
	li.SetAttributeString("class", []byte(ItemClass))
	li.SetAttributeString("data-task", []byte{state})
	return NewTaskMarker(state)
}

func (p *taskMarkerParser) CloseBlock(parent ast.Node, pc parser.Context) {}

type taskMarkerHTMLRenderer struct{}

func (r *taskMarkerHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindTaskMarker, r.renderTaskMarker)
}

func (r *taskMarkerHTMLRenderer) renderTaskMarker(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*TaskMarker)
	_, _ = w.WriteString(`<input class="task-list-item-checkbox" type="checkbox" disabled="" data-task="`)
	_, _ = w.Write(util.EscapeHTML([]byte{n.State}))
	_ = w.WriteByte('"')
	if Done(n.State) {
		_, _ = w.WriteString(` checked=""`)
	}
	_, _ = w.WriteString("> ")
	return ast.WalkContinue, nil
}

type tasks struct{}

// Tasks is the goldmark extension for task markers.
var Tasks goldmark.Extender = &tasks{}

func (e *tasks) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		// Before the link parser, which also triggers on '['.
		util.Prioritized(&taskMarkerParser{}, 0),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&taskMarkerHTMLRenderer{}, 500),
	))
}

// New returns the markdown pipeline shared by the editor and rendered views.
// Raw HTML passthrough stays disabled.
func New(extra ...goldmark.Extender) goldmark.Markdown {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
		emoji.Emoji,
		Tasks,
	}
	exts = append(exts, extra...)
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
}

// Parse parses src with a fresh pipeline.
func Parse(src []byte) ast.Node {
	return New().Parser().Parse(text.NewReader(src))
}
