package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
	"github.com/Munckenh/obsidian-relative-dates/internal/preview"
	"github.com/Munckenh/obsidian-relative-dates/internal/render"
)

type renderOptions struct {
	to       string
	fragment bool
	width    int
}

var renderTargets = []string{"ansi", "html", "text"}

func (o renderOptions) validate() error {
	for _, t := range renderTargets {
		if o.to == t {
			return nil
		}
	}
	return errChoice("to", o.to, renderTargets...)
}

func newRenderCmd(app *App) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markdown with date pills",
		Example: strings.TrimSpace(`
reldates render notes.md --to ansi --width 100
reldates render notes.md --to html --fragment
cat notes.md | reldates render --to text
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return writeErr(cmd, err)
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			src, name, err := readInput(cmd, path)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.settings()
			if err != nil {
				return writeErr(cmd, err)
			}
			if opts.to == "ansi" {
				preview.ApplyColorProfilePreference()
				preview.ApplyThemePreference()
			}
			if err := renderTo(cmd.OutOrStdout(), src, name, s, app.now(), opts); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.to, "to", "ansi", "Output (ansi|html|text)")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "HTML only: write the body without the page wrapper")
	cmd.Flags().IntVar(&opts.width, "width", 80, "ANSI only: wrap width")
	return cmd
}

func renderTo(w io.Writer, src []byte, name string, s model.Settings, now time.Time, opts renderOptions) error {
	switch opts.to {
	case "html":
		doc := render.Parse(src, s, now)
		if opts.fragment {
			return doc.Render(w)
		}
		return render.Page(w, filepath.Base(name), doc, s)
	case "text":
		_, err := io.WriteString(w, preview.Plain(string(src), s, now))
		return err
	default:
		_, err := fmt.Fprintln(w, preview.Terminal(string(src), s, now, opts.width))
		return err
	}
}
