package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/Munckenh/obsidian-relative-dates/internal/tui"
)

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a markdown file with live date pills",
		Long:  "Open the file in a split editor. Tokens turn into pills as you type, except the one under the cursor. The file is created on first save.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			b, err := os.ReadFile(path)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return writeErr(cmd, err)
			}
			s, err := app.settings()
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log().Info("editing", "path", path, "bytes", len(b))
			return tui.Run(tui.Options{
				Path:     path,
				Content:  string(b),
				Settings: s,
				Now:      app.now,
				Logger:   app.log(),
			})
		},
	}
}
