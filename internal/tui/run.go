package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Munckenh/obsidian-relative-dates/internal/preview"
)

func Run(opts Options) error {
	preview.ApplyColorProfilePreference()
	preview.ApplyThemePreference()

	m := newEditorModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus()).Run()
	return err
}
