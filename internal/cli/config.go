package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
	"github.com/Munckenh/obsidian-relative-dates/internal/pill"
	"github.com/Munckenh/obsidian-relative-dates/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change settings",
		Example: strings.TrimSpace(`
reldates config show
reldates config set prefix "due:"
reldates config set timeFormat "hh:mm a"
reldates config set pillColors.overdue "#ff0000"
reldates config reset pillColors
`),
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigPathCmd(app))
	cmd.AddCommand(newConfigKeysCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	cmd.AddCommand(newConfigResetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings (file + environment)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.settings()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": s,
				"meta": map[string]any{"cssVars": pill.Vars(s)},
			})
		},
	}
}

func newConfigPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where settings are read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Resolve(app.ConfigPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, statErr := os.Stat(p)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":   p,
					"exists": statErr == nil,
				},
			})
		},
	}
}

func newConfigKeysCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List settable keys with their current and default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.settings()
			if err != nil {
				return writeErr(cmd, err)
			}
			def := model.DefaultSettings()
			rows := make([]map[string]string, 0, len(store.Keys()))
			for _, k := range store.Keys() {
				cur, _ := store.Get(s, k)
				dv, _ := store.Get(def, k)
				rows = append(rows, map[string]string{"key": k, "value": cur, "default": dv})
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Environment overrides must not be persisted, so start from the file.
			s, err := store.LoadFile(app.ConfigPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := store.Set(&s, args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.Save(app.ConfigPath, s); err != nil {
				return writeErr(cmd, err)
			}
			app.log().Info("setting saved", "key", args[0], "value", args[1])
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
}

func newConfigResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [key]",
		Short: "Restore defaults (all settings, one key, or pillColors)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			s, err := store.LoadFile(app.ConfigPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := store.Reset(&s, key); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.Save(app.ConfigPath, s); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
}
