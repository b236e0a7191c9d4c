// Package pill renders classified date tokens as badges: HTML fragments for
// rendered views and lipgloss-styled strings for terminals.
package pill

import (
	"html/template"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

const (
	BaseClass   = "date-pill"
	StruckClass = "struck-through"
)

// BucketClass is the modifier class for b, e.g. "date-pill-this-week".
func BucketClass(b model.Bucket) string {
	return BaseClass + "-" + string(b)
}

// Class returns the full class list for a badge.
func Class(b model.Badge) string {
	c := BaseClass + " " + BucketClass(b.Bucket)
	if b.StruckThrough {
		c += " " + StruckClass
	}
	return c
}

// HTML renders b as a span. The label is escaped.
func HTML(b model.Badge) string {
	return `<span class="` + template.HTMLEscapeString(Class(b)) + `">` +
		template.HTMLEscapeString(b.Text) + `</span>`
}
