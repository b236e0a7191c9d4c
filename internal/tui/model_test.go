package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

var testNow = time.Date(2024, time.June, 10, 9, 15, 0, 0, time.UTC)

const testDoc = "- [ ] a @2024-06-10\n- [ ] b @2024-06-11\n"

func newTestModel(t *testing.T, save func(path, content string) error) editorModel {
	t.Helper()
	m := newEditorModel(Options{
		Path:     "todo.md",
		Content:  testDoc,
		Settings: model.DefaultSettings(),
		Now:      func() time.Time { return testNow },
		Save:     save,
	})
	return step(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
}

func step(t *testing.T, m editorModel, msg tea.Msg) editorModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(editorModel)
}

func TestEditor_PreviewShowsPills(t *testing.T) {
	m := newTestModel(t, nil)
	if got := len(m.decorator.Decorations()); got != 2 {
		t.Fatalf("expected 2 decorations, got %d", got)
	}
	view := xansi.Strip(m.View())
	for _, want := range []string{"Today", "Tomorrow", "todo.md"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestEditor_CursorRevealsToken(t *testing.T) {
	m := newTestModel(t, nil)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	decs := m.decorator.Decorations()
	if len(decs) != 1 || decs[0].Badge.Text != "Today" {
		t.Fatalf("expected only the first token decorated, got %+v", decs)
	}

	m = step(t, m, tea.BlurMsg{})
	if got := len(m.decorator.Decorations()); got != 2 {
		t.Fatalf("blurred editor should decorate everything, got %d", got)
	}
	m = step(t, m, tea.FocusMsg{})
	if got := len(m.decorator.Decorations()); got != 1 {
		t.Fatalf("refocused editor should hide the token again, got %d", got)
	}
}

func TestEditor_TypingMarksDirtyAndRebuilds(t *testing.T) {
	m := newTestModel(t, nil)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("- [x] c @2024-06-12")})
	if !m.dirty {
		t.Fatalf("expected the model to be dirty")
	}
	if !strings.HasSuffix(m.textarea.Value(), "@2024-06-12") {
		t.Fatalf("unexpected value %q", m.textarea.Value())
	}
	// The new token sits under the cursor, so it stays raw.
	if got := len(m.decorator.Decorations()); got != 2 {
		t.Fatalf("expected 2 decorations, got %d", got)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyHome})
	decs := m.decorator.Decorations()
	if len(decs) != 3 || decs[2].Badge.Text != "Wednesday" || !decs[2].Badge.StruckThrough {
		t.Fatalf("expected a struck Wednesday pill, got %+v", decs)
	}
}

func TestEditor_Save(t *testing.T) {
	var saved string
	m := newTestModel(t, func(path, content string) error {
		if path != "todo.md" {
			t.Fatalf("unexpected path %q", path)
		}
		saved = content
		return nil
	})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected a save command")
	}
	msg := cmd()
	if _, ok := msg.(savedMsg); !ok {
		t.Fatalf("expected savedMsg, got %T", msg)
	}
	if saved != testDoc+"x" {
		t.Fatalf("unexpected saved content %q", saved)
	}
	m = step(t, m, msg)
	if m.dirty || !strings.HasPrefix(m.status, "saved") {
		t.Fatalf("expected a clean model after save, got dirty=%v status=%q", m.dirty, m.status)
	}
}

func TestEditor_SaveError(t *testing.T) {
	m := newTestModel(t, func(string, string) error { return errors.New("disk full") })
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = step(t, m, cmd())
	if !strings.Contains(m.status, "disk full") {
		t.Fatalf("expected the error in the status line, got %q", m.status)
	}
}

func TestEditor_Quit(t *testing.T) {
	m := newTestModel(t, nil)
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := m.Update(tea.KeyMsg{Type: k})
		if cmd == nil {
			t.Fatalf("%v: expected a quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%v: expected tea.QuitMsg", k)
		}
	}
}

func TestEditor_ViewportLimitsDecorations(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("- [ ] item @2024-06-11\n")
	}
	m := newEditorModel(Options{
		Content:  b.String(),
		Settings: model.DefaultSettings(),
		Now:      func() time.Time { return testNow },
	})
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 11})
	// Cursor sits on the last (empty) line; ten lines are visible above it.
	if got := len(m.decorator.Decorations()); got != 9 {
		t.Fatalf("expected 9 visible decorations, got %d", got)
	}
}
