// Package tui is the interactive editor: a textarea on the left and the same
// document with date pills on the right.
package tui

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/Munckenh/obsidian-relative-dates/internal/editor"
	"github.com/Munckenh/obsidian-relative-dates/internal/model"
	"github.com/Munckenh/obsidian-relative-dates/internal/pill"
)

type Options struct {
	Path     string
	Content  string
	Settings model.Settings
	Now      func() time.Time
	Logger   *log.Logger
	// Save persists the document. Defaults to writing Path.
	Save func(path, content string) error
}

type savedMsg struct{ at time.Time }

type saveErrMsg struct{ err error }

// tickMsg re-evaluates labels so "Today" rolls over at midnight.
type tickMsg time.Time

type editorModel struct {
	opts Options

	textarea  textarea.Model
	decorator *editor.Decorator

	width  int
	height int
	// top is the first document line shown in both panes.
	top int

	dirty  bool
	status string
}

func newEditorModel(opts Options) editorModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Save == nil {
		opts.Save = func(path, content string) error {
			return os.WriteFile(path, []byte(content), 0o644)
		}
	}

	ta := textarea.New()
	ta.Placeholder = "- [ ] something @" + time.Now().Format("2006-01-02")
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(40)
	ta.SetHeight(10)
	ta.SetValue(opts.Content)
	ta.Focus()

	m := editorModel{opts: opts, textarea: ta, width: 80, height: 12}
	m.decorator = editor.NewDecorator(m.editorState(true), opts.Settings, opts.Now)
	return m
}

func (m editorModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tickEvery())
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// cursorOffset is the textarea cursor as a byte offset into its value.
func (m editorModel) cursorOffset() int {
	li := m.textarea.LineInfo()
	return editor.OffsetAt(m.textarea.Value(), m.textarea.Line(), li.StartColumn+li.ColumnOffset)
}

func (m editorModel) editorState(focused bool) editor.State {
	doc := m.textarea.Value()
	return editor.State{
		Doc:      doc,
		Cursor:   m.cursorOffset(),
		Focused:  focused,
		Viewport: editor.LineRange(doc, m.top, m.top+m.paneHeight()-1),
	}
}

func (m editorModel) paneHeight() int {
	// One line for the status bar.
	if h := m.height - 1; h > 1 {
		return h
	}
	return 1
}

func (m editorModel) paneWidth() int {
	if w := m.width/2 - 1; w > 10 {
		return w
	}
	return 10
}

// scrollToCursor keeps the cursor row inside [top, top+height).
func (m *editorModel) scrollToCursor() bool {
	row, h := m.textarea.Line(), m.paneHeight()
	prev := m.top
	switch {
	case row < m.top:
		m.top = row
	case row >= m.top+h:
		m.top = row - h + 1
	}
	return m.top != prev
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	focused := m.decorator.State().Focused
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textarea.SetWidth(m.paneWidth())
		m.textarea.SetHeight(m.paneHeight())
		m.scrollToCursor()
		m.decorator.Update(editor.Update{State: m.editorState(focused), ViewportChanged: true})
		return m, nil

	case tea.FocusMsg, tea.BlurMsg:
		_, focused = msg.(tea.FocusMsg)
		m.decorator.Update(editor.Update{State: m.editorState(focused), FocusChanged: true})
		return m, nil

	case tickMsg:
		m.decorator.Update(editor.Update{State: m.editorState(focused), DocChanged: true})
		return m, tickEvery()

	case savedMsg:
		m.dirty = false
		m.status = "saved " + msg.at.Format("15:04:05")
		return m, nil

	case saveErrMsg:
		m.status = "save failed: " + msg.err.Error()
		m.opts.Logger.Error("save failed", "path", m.opts.Path, "err", msg.err)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			return m, m.save()
		}
	}

	before := m.decorator.State()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	scrolled := m.scrollToCursor()

	st := m.editorState(focused)
	docChanged := st.Doc != before.Doc
	if docChanged {
		m.dirty = true
		m.status = ""
	}
	m.decorator.Update(editor.Update{
		State:           st,
		DocChanged:      docChanged,
		SelectionSet:    st.Cursor != before.Cursor,
		ViewportChanged: scrolled,
	})
	return m, cmd
}

func (m editorModel) save() tea.Cmd {
	path, content, save := m.opts.Path, m.textarea.Value(), m.opts.Save
	return func() tea.Msg {
		if err := save(path, content); err != nil {
			return saveErrMsg{err: err}
		}
		return savedMsg{at: time.Now()}
	}
}

var (
	paneStyle   = lipgloss.NewStyle().PaddingLeft(1)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// preview renders the visible document lines with pills, clipped to the pane.
func (m editorModel) preview() string {
	settings := m.decorator.Settings()
	rendered := m.decorator.Render(func(b model.Badge) string { return pill.Terminal(b, settings) })
	lines := strings.Split(rendered, "\n")

	w, h := m.paneWidth(), m.paneHeight()
	out := make([]string, 0, h)
	for i := m.top; i < len(lines) && len(out) < h; i++ {
		line := lines[i]
		if xansi.StringWidth(line) > w {
			line = xansi.Truncate(line, w, "…")
		}
		out = append(out, line)
	}
	for len(out) < h {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func (m editorModel) statusLine() string {
	name := m.opts.Path
	if name == "" {
		name = "(unsaved)"
	}
	if m.dirty {
		name += " *"
	}
	parts := []string{name, "ctrl+s save", "esc quit"}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return statusStyle.Render(xansi.Truncate(strings.Join(parts, " · "), m.width, "…"))
}

func (m editorModel) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.textarea.View(),
		paneStyle.Width(m.paneWidth()).Render(m.preview()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}
