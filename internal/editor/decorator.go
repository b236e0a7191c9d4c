package editor

import (
	"time"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

// Update describes one editor event. Any set flag triggers a full rebuild.
type Update struct {
	State           State
	DocChanged      bool
	ViewportChanged bool
	SelectionSet    bool
	FocusChanged    bool
}

func (u Update) needsRebuild() bool {
	return u.DocChanged || u.ViewportChanged || u.SelectionSet || u.FocusChanged
}

// Decorator owns the cached decoration set of one editor view.
// It is not safe for concurrent use; the owning event loop serialises calls.
type Decorator struct {
	settings    model.Settings
	now         func() time.Time
	state       State
	decorations []Decoration
}

func NewDecorator(st State, s model.Settings, now func() time.Time) *Decorator {
	if now == nil {
		now = time.Now
	}
	d := &Decorator{settings: s, now: now, state: st}
	d.rebuild()
	return d
}

func (d *Decorator) rebuild() {
	d.decorations = Decorate(d.state, d.settings, d.now())
}

// Update records the new state and rebuilds when the event calls for it.
// It reports whether the decorations were rebuilt.
func (d *Decorator) Update(u Update) bool {
	d.state = u.State
	if !u.needsRebuild() {
		return false
	}
	d.rebuild()
	return true
}

// SetSettings swaps the configuration and rebuilds.
func (d *Decorator) SetSettings(s model.Settings) {
	d.settings = s
	d.rebuild()
}

func (d *Decorator) Settings() model.Settings { return d.settings }

func (d *Decorator) State() State { return d.state }

func (d *Decorator) Decorations() []Decoration {
	return append([]Decoration(nil), d.decorations...)
}

// Render returns the document with the current decorations spliced in.
func (d *Decorator) Render(render func(model.Badge) string) string {
	return Apply(d.state.Doc, d.decorations, render)
}
