package preview

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ApplyColorProfilePreference sets Lip Gloss's color profile for terminal output.
// Only NO_COLOR disables colors; otherwise the terminal's capabilities win, with
// TERM/COLORTERM trusted when they claim more than the detector reports.
func ApplyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// ApplyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) RELDATES_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("15;0" = fg;bg)
func ApplyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("RELDATES_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if bg, ok := colorFGBGBackground(); ok {
		lipgloss.SetHasDarkBackground(bg < 7)
	}
}

// MarkdownStyle picks the glamour standard style: "light" or "dark".
func MarkdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("RELDATES_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// Keep markdown aligned with the terminal theme preference.
	switch strings.ToLower(strings.TrimSpace(os.Getenv("RELDATES_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// Prefer COLORFGBG over terminal queries, which can block.
	if bg, ok := colorFGBGBackground(); ok {
		if bg >= 7 {
			return "light"
		}
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// colorFGBGBackground reads the last segment of COLORFGBG as the background index.
func colorFGBGBackground() (int, bool) {
	v := strings.TrimSpace(os.Getenv("COLORFGBG"))
	if v == "" {
		return 0, false
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || bg < 0 {
		return 0, false
	}
	return bg, true
}
