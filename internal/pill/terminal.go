package pill

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

// terminalColor returns v when a terminal can show it (hex or an ANSI color
// number) and fallback otherwise. CSS names and functions are browser-only.
func terminalColor(v, fallback string) string {
	v = strings.TrimSpace(v)
	if hexColorRe.MatchString(v) {
		return v
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 255 {
		return v
	}
	return fallback
}

// Style returns the lipgloss style for b under s: bucket color as background,
// pill text color as foreground. Struck pills are faint and crossed out.
func Style(b model.Badge, s model.Settings) lipgloss.Style {
	fg := terminalColor(s.PillTextColor, model.DefaultSettings().PillTextColor)
	bg := terminalColor(s.PillColors.For(b.Bucket), model.DefaultPillColors().For(b.Bucket))
	st := lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Padding(0, 1)
	if b.StruckThrough {
		st = st.Strikethrough(true).Faint(true)
	}
	return st
}

func Terminal(b model.Badge, s model.Settings) string {
	return Style(b, s).Render(b.Text)
}
