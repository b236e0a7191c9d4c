package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Munckenh/obsidian-relative-dates/internal/web"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a live HTML preview of a markdown file",
		Long: strings.TrimSpace(`
Serve the file as HTML with date pills. Every reload re-reads the file and the
settings. Clicking a checkbox toggles the task for this session (the file is
not modified) and re-strikes the pills of the item and everything under it.
`),
		Example: strings.TrimSpace(`
reldates serve notes.md
reldates serve notes.md --addr :3336
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return writeErr(cmd, err)
			}
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}
			// Fail early on a broken settings file.
			if _, err := app.settings(); err != nil {
				return writeErr(cmd, err)
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:     listenAddr,
				Path:     path,
				Settings: app.settings,
				Now:      app.now,
				Logger:   app.log().WithPrefix("web"),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"file":      path,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"open " + url},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "reldates preview running at %s (file=%s)\n", url, path)

			return http.Serve(ln, srv.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3336", "Bind address (host:port or :port)")
	return cmd
}
