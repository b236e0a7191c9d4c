// Package dates recognises prefix-marked date tokens in text and classifies
// them into urgency buckets with a relative label.
package dates

import (
	"regexp"
	"strings"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

type field int

const (
	fieldYear4 field = iota
	fieldYear2
	fieldMonth
	fieldDay
	fieldHour24
	fieldHour12
	fieldMinute
	fieldMeridiem
)

type placeholder struct {
	token string
	field field
	expr  string
}

// Longer tokens must come first so "YYYY" is not read as two "YY".
var datePlaceholders = []placeholder{
	{"YYYY", fieldYear4, `\d{4}`},
	{"YY", fieldYear2, `\d{2}`},
	{"MM", fieldMonth, `\d{2}`},
	{"DD", fieldDay, `\d{2}`},
}

var timePlaceholders = []placeholder{
	{"HH", fieldHour24, `\d{2}`},
	{"hh", fieldHour12, `\d{2}`},
	{"mm", fieldMinute, `\d{2}`},
	{"a", fieldMeridiem, `(?:am|pm)`},
	{"A", fieldMeridiem, `(?:AM|PM)`},
}

// layout is a format string compiled two ways: as a non-capturing fragment for
// the token pattern and as an anchored parser with one group per field.
type layout struct {
	format string
	expr   string
	fields []field
	parser *regexp.Regexp
}

func compileLayout(format string, table []placeholder) layout {
	var expr, capture, lit strings.Builder
	var fields []field

	flush := func() {
		if lit.Len() == 0 {
			return
		}
		q := regexp.QuoteMeta(lit.String())
		expr.WriteString(q)
		capture.WriteString(q)
		lit.Reset()
	}

	for i := 0; i < len(format); {
		ph, ok := placeholderAt(format[i:], table)
		if !ok {
			lit.WriteByte(format[i])
			i++
			continue
		}
		flush()
		expr.WriteString(ph.expr)
		capture.WriteString("(" + ph.expr + ")")
		fields = append(fields, ph.field)
		i += len(ph.token)
	}
	flush()

	return layout{
		format: format,
		expr:   expr.String(),
		fields: fields,
		parser: regexp.MustCompile("^" + capture.String() + "$"),
	}
}

func placeholderAt(s string, table []placeholder) (placeholder, bool) {
	for _, ph := range table {
		if strings.HasPrefix(s, ph.token) {
			return ph, true
		}
	}
	return placeholder{}, false
}

// Pattern is the compiled token matcher for one configuration.
// It is safe for concurrent use.
type Pattern struct {
	prefix string
	date   layout
	time   layout
	re     *regexp.Regexp
}

// BuildPattern compiles the token pattern for s:
//
//	prefix \s* (date) (?: \s* (time) )?
//
// Literal characters in the prefix and formats are escaped. Construction never
// fails; empty strings simply produce a permissive pattern.
func BuildPattern(s model.Settings) *Pattern {
	date := compileLayout(s.DateFormat, datePlaceholders)
	tm := compileLayout(s.TimeFormat, timePlaceholders)
	expr := regexp.QuoteMeta(s.Prefix) + `\s*(` + date.expr + `)(?:\s*(` + tm.expr + `))?`
	return &Pattern{
		prefix: s.Prefix,
		date:   date,
		time:   tm,
		re:     regexp.MustCompile(expr),
	}
}

func (p *Pattern) String() string { return p.re.String() }

// Prefix returns the literal token prefix the pattern was built with.
func (p *Pattern) Prefix() string { return p.prefix }

// DateFormat and TimeFormat return the format strings the pattern was built from.
func (p *Pattern) DateFormat() string { return p.date.format }
func (p *Pattern) TimeFormat() string { return p.time.format }
