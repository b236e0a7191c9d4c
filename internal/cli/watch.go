package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Munckenh/obsidian-relative-dates/internal/preview"
	"github.com/Munckenh/obsidian-relative-dates/internal/store"
)

const watchDebounce = 100 * time.Millisecond

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

func newWatchCmd(app *App) *cobra.Command {
	opts := renderOptions{}
	var wipe bool

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a file whenever it or the settings change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return writeErr(cmd, err)
			}
			path := args[0]
			cfgPath, err := store.Resolve(app.ConfigPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			if opts.to == "ansi" {
				preview.ApplyColorProfilePreference()
				preview.ApplyThemePreference()
			}

			out := cmd.OutOrStdout()
			redraw := func(changed []string) {
				src, err := os.ReadFile(path)
				if err != nil {
					app.log().Warn("read failed", "path", path, "err", err)
					return
				}
				s, err := app.settings()
				if err != nil {
					app.log().Warn("settings not reloaded", "err", err)
					return
				}
				if wipe {
					_, _ = out.Write([]byte(clearScreen))
				}
				if err := renderTo(out, src, path, s, app.now(), opts); err != nil {
					app.log().Error("render failed", "err", err)
					return
				}
				app.log().Info("rendered", "path", path, "changed", changed)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			redraw(nil)
			err = watchFiles(ctx, []string{path, cfgPath}, watchDebounce, app.log(), redraw)
			if err != nil && !errors.Is(err, context.Canceled) {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.to, "to", "ansi", "Output (ansi|html|text)")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "HTML only: write the body without the page wrapper")
	cmd.Flags().IntVar(&opts.width, "width", 80, "ANSI only: wrap width")
	cmd.Flags().BoolVar(&wipe, "clear", true, "Clear the screen before each render")
	return cmd
}

// watchFiles calls onChange with the changed paths once events for any of
// files have been quiet for debounce. It watches the parent directories so
// editors that save by rename are seen. It returns when ctx is done.
func watchFiles(ctx context.Context, files []string, debounce time.Duration, logger *log.Logger, onChange func(changed []string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	wanted := map[string]bool{}
	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			// A settings directory that does not exist yet is not fatal.
			logger.Debug("not watching", "dir", d, "err", err)
			continue
		}
		logger.Debug("watching", "dir", d)
	}
	if len(w.WatchList()) == 0 {
		return errors.New("watch: nothing to watch")
	}

	var fire <-chan time.Time
	pending := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || !wanted[name] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			pending[name] = true
			fire = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			slices.Sort(changed)
			onChange(changed)
		}
	}
}
