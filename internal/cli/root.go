// Package cli is the reldates command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Munckenh/obsidian-relative-dates/internal/format"
	"github.com/Munckenh/obsidian-relative-dates/internal/model"
	"github.com/Munckenh/obsidian-relative-dates/internal/store"
)

type App struct {
	ConfigPath string
	Now        string
	LogLevel   string
	PrettyJSON bool
	Format     string

	logger *log.Logger
	// clock is fixed when --now is given.
	clock func() time.Time
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "reldates",
		Short:        "Relative date pills for markdown task lists",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Show every date token in a file with its label and urgency
  reldates scan notes.md

  # Render to the terminal, HTML or plain text
  reldates render notes.md --to ansi
  reldates render notes.md --to html > notes.html

  # Edit with live pills, or serve a browser preview
  reldates edit notes.md
  reldates serve notes.md --addr 127.0.0.1:3336

  # Settings
  reldates config set dateFormat DD-MM-YYYY
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := store.LoadDotEnv(); err != nil {
			return writeErr(cmd, err)
		}
		// .env may have set these after flag defaults were read.
		if !cmd.Flags().Changed("log-level") {
			app.LogLevel = envOr("RELDATES_LOG_LEVEL", app.LogLevel)
		}
		if !cmd.Flags().Changed("config") {
			app.ConfigPath = envOr("RELDATES_CONFIG", app.ConfigPath)
		}
		logger, err := newLogger(cmd.ErrOrStderr(), app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.logger = logger

		app.clock = time.Now
		if strings.TrimSpace(app.Now) != "" {
			now, err := parseNow(app.Now, time.Local)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.clock = func() time.Time { return now }
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("RELDATES_CONFIG", ""), "Settings file (.json, .yaml or .yml; default: ~/.reldates/config.json)")
	cmd.PersistentFlags().StringVar(&app.Now, "now", "", "Pretend the current time is this (YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("RELDATES_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("RELDATES_FORMAT", "json"), "Output format (json|edn|yaml)")

	cmd.AddCommand(newScanCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "reldates",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}), nil
}

func (app *App) now() time.Time {
	if app.clock == nil {
		return time.Now()
	}
	return app.clock()
}

func (app *App) log() *log.Logger {
	if app.logger == nil {
		app.logger = log.New(io.Discard)
	}
	return app.logger
}

// settings loads the effective settings: defaults, file, then environment.
func (app *App) settings() (model.Settings, error) {
	s, err := store.Load(app.ConfigPath)
	if err != nil {
		return s, err
	}
	app.log().Debug("settings loaded", "prefix", s.Prefix, "dateFormat", s.DateFormat, "timeFormat", s.TimeFormat)
	return s, nil
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return b, "-", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, path, err
	}
	return b, path, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
