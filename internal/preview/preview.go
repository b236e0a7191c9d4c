// Package preview renders markdown for the terminal with date tokens shown as
// colored pills.
package preview

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/Munckenh/obsidian-relative-dates/internal/editor"
	"github.com/Munckenh/obsidian-relative-dates/internal/model"
	"github.com/Munckenh/obsidian-relative-dates/internal/pill"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style + wrap width. Auto style is avoided: it queries the terminal
	// and can block.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderer(style string, width int) (*glamour.TermRenderer, error) {
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	if r := mdRenderers[key]; r != nil {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	mdRenderers[key] = r
	return r, nil
}

// Terminal renders src with glamour and swaps every decorated token for a
// lipgloss pill. On a glamour failure it falls back to Plain.
func Terminal(src string, s model.Settings, now time.Time, width int) string {
	if width < 10 {
		width = 10
	}
	decorations := editor.Decorate(editor.State{Doc: src}, s, now)

	// Placeholders are plain capital words as wide as the pill they stand for,
	// so glamour wraps the line the way it will finally look.
	var b strings.Builder
	swaps := make([]string, 0, 2*len(decorations))
	last := 0
	for i, d := range decorations {
		rendered := pill.Terminal(d.Badge, s)
		ph := placeholder(i, len(d.Badge.Text)+2)
		b.WriteString(src[last:d.From])
		b.WriteString(ph)
		last = d.To
		swaps = append(swaps, ph, rendered)
	}
	b.WriteString(src[last:])

	r, err := renderer(MarkdownStyle(), width)
	if err != nil {
		return Plain(src, s, now)
	}
	out, err := r.Render(b.String())
	if err != nil {
		return Plain(src, s, now)
	}
	out = strings.TrimRight(out, "\n")
	if len(swaps) > 0 {
		out = strings.NewReplacer(swaps...).Replace(out)
	}
	return out
}

// placeholder encodes i in letters A-P and pads with Q up to width.
func placeholder(i, width int) string {
	var b strings.Builder
	b.WriteString("RDP")
	for k := 0; k < 4; k++ {
		b.WriteByte(byte('A' + (i>>(4*(3-k)))&0xf))
	}
	for b.Len() < width {
		b.WriteByte('Q')
	}
	return b.String()
}

// Plain replaces every decorated token with "[label]" and leaves the rest of
// src untouched.
func Plain(src string, s model.Settings, now time.Time) string {
	decorations := editor.Decorate(editor.State{Doc: src}, s, now)
	return editor.Apply(src, decorations, func(b model.Badge) string {
		return "[" + b.Text + "]"
	})
}
