package render

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
	"github.com/Munckenh/obsidian-relative-dates/internal/pill"
)

var KindPill = ast.NewNodeKind("DatePill")

// Pill is an inline node standing in for a recognised date token.
type Pill struct {
	ast.BaseInline
	Badge model.Badge
	Raw   string
}

func (n *Pill) Kind() ast.NodeKind { return KindPill }

func (n *Pill) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Text":   n.Badge.Text,
		"Bucket": string(n.Badge.Bucket),
		"Raw":    n.Raw,
	}, nil)
}

type pillHTMLRenderer struct{}

func (r *pillHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindPill, r.renderPill)
}

func (r *pillHTMLRenderer) renderPill(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(pill.HTML(node.(*Pill).Badge))
	}
	return ast.WalkSkipChildren, nil
}

type pills struct{}

func (pills) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&pillHTMLRenderer{}, 500),
	))
}
