package render

import (
	"html/template"
	"io"
	"strconv"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
	"github.com/Munckenh/obsidian-relative-dates/internal/pill"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
{{ .Stylesheet }}
li.task-list-item { list-style: none; }
</style>
</head>
<body>
<main>
{{ .Body }}
</main>
</body>
</html>
`))

type pageVM struct {
	Title      string
	Stylesheet template.CSS
	Body       template.HTML
}

// Page writes d as a standalone HTML document with the pill stylesheet inlined.
func Page(w io.Writer, title string, d *Document, s model.Settings) error {
	body, err := d.HTML()
	if err != nil {
		return err
	}
	return pageTmpl.Execute(w, pageVM{
		Title:      title,
		Stylesheet: template.CSS(pill.Stylesheet(s)),
		// Safe because the pipeline never passes raw HTML through.
		Body: template.HTML(body),
	})
}

// MarkItems tags every list item with data-item="<index>" so a page can
// address items when toggling.
func (d *Document) MarkItems() {
	for i, it := range d.items {
		it.node.SetAttributeString("data-item", []byte(strconv.Itoa(i)))
	}
}
