package format

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes v as EDN. Map keys become kebab-case keywords
// (dateFormat => :date-format). Only the shapes JSON can produce are emitted.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	e := ednWriter{pretty: pretty}
	e.value(x, 0)
	e.buf.WriteByte('\n')
	_, err = w.Write(e.buf.Bytes())
	return err
}

type ednWriter struct {
	buf    bytes.Buffer
	pretty bool
}

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			e.buf.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			e.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.collection('[', ']', depth, len(t), func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.collection('{', '}', depth, len(keys), func(i int) {
			e.buf.WriteString(Keyword(keys[i]))
			e.buf.WriteByte(' ')
			e.value(t[keys[i]], depth+1)
		})
	}
}

// collection writes n elements between open and close, one per line when pretty.
func (e *ednWriter) collection(open, close byte, depth, n int, elem func(i int)) {
	e.buf.WriteByte(open)
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.buf.WriteByte('\n')
			e.buf.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.buf.WriteByte(' ')
		}
		elem(i)
	}
	if e.pretty && n > 0 {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	}
	e.buf.WriteByte(close)
}

// Keyword turns a JSON field name into an EDN keyword.
func Keyword(name string) string {
	var b strings.Builder
	b.WriteByte(':')
	for i, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
