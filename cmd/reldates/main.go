package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Munckenh/obsidian-relative-dates/internal/cli"
)

func isMarkdownPath(s string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(s))) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// rewriteBareFileArgs makes `reldates notes.md` work like `reldates render notes.md`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first, so the first positional
// token is located with minimal flag awareness.
func rewriteBareFileArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}
	valueFlags := map[string]bool{
		"--config":    true,
		"--now":       true,
		"--log-level": true,
		"--format":    true,
	}

	insertAt := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "render")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isMarkdownPath(argv[i+1]) {
				return insertAt(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isMarkdownPath(a):
			return insertAt(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteBareFileArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
