// Package web serves a live HTML preview of one markdown file with date pills.
package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
	"github.com/Munckenh/obsidian-relative-dates/internal/pill"
	"github.com/Munckenh/obsidian-relative-dates/internal/render"
)

//go:embed templates/*.html
var assetsFS embed.FS

type ServerConfig struct {
	Addr string
	// Path is the markdown file to serve. It is re-read on every page load.
	Path string

	// Settings is called per request so edits to the settings file show up on reload.
	Settings func() (model.Settings, error)
	Now      func() time.Time
	Logger   *log.Logger
}

type Server struct {
	mu   sync.Mutex
	cfg  ServerConfig
	tmpl *template.Template

	// Toggles applied on top of the file, in click order. They are dropped when
	// the file content changes.
	toggles []int
	source  []byte
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Path = strings.TrimSpace(cfg.Path)
	if cfg.Path == "" {
		return nil, errors.New("web: path is empty")
	}
	if cfg.Settings == nil {
		cfg.Settings = func() (model.Settings, error) { return model.DefaultSettings(), nil }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	tmpl, err := template.New("base").ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /styles.css", s.handleStyles)
	mux.HandleFunc("POST /toggle/{n}", s.handleToggle)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return s.logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(start).Round(time.Microsecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// document rebuilds the page state from scratch: file, settings, clock, then
// the recorded toggles. Callers hold s.mu.
func (s *Server) document() (*render.Document, model.Settings, error) {
	settings, err := s.cfg.Settings()
	if err != nil {
		return nil, settings, err
	}
	src, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		return nil, settings, err
	}
	if s.source != nil && !bytes.Equal(src, s.source) && len(s.toggles) > 0 {
		s.cfg.Logger.Info("file changed; dropping toggles", "path", s.cfg.Path, "toggles", len(s.toggles))
		s.toggles = nil
	}
	s.source = src

	doc := render.Parse(src, settings, s.cfg.Now())
	kept := s.toggles[:0]
	for _, n := range s.toggles {
		if err := doc.Toggle(n); err != nil {
			s.cfg.Logger.Warn("skipping toggle", "item", n, "err", err)
			continue
		}
		kept = append(kept, n)
	}
	s.toggles = kept
	return doc, settings, nil
}

type pageVM struct {
	Title   string
	Now     string
	Toggles int
	Body    template.HTML
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc, _, err := s.document()
	toggles := len(s.toggles)
	s.mu.Unlock()
	if err != nil {
		s.fail(w, err)
		return
	}
	doc.MarkItems()
	body, err := doc.HTML()
	if err != nil {
		s.fail(w, err)
		return
	}

	var b bytes.Buffer
	err = s.tmpl.ExecuteTemplate(&b, "index.html", pageVM{
		Title:   filepath.Base(s.cfg.Path),
		Now:     s.cfg.Now().Format("Mon 2 Jan 2006 15:04"),
		Toggles: toggles,
		// The markdown pipeline never passes raw HTML through.
		Body: template.HTML(body),
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b.Bytes())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || n < 0 {
		http.Error(w, "invalid item index", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, _, err := s.document()
	if err != nil {
		s.fail(w, err)
		return
	}
	if n >= doc.Len() {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err := doc.Toggle(n); err != nil {
		if errors.Is(err, render.ErrNotTask) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.fail(w, err)
		return
	}
	s.toggles = append(s.toggles, n)
	s.cfg.Logger.Info("toggled", "item", n)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

const baseCSS = `
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
header .meta { color: #808080; font-size: 0.85em; }
li.task-list-item { list-style: none; }
li.task-list-item > input, li.task-list-item > p > input { margin-right: 0.4em; }
`

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	settings, err := s.cfg.Settings()
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = io.WriteString(w, pill.Stylesheet(settings))
	_, _ = io.WriteString(w, baseCSS)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.cfg.Logger.Error("request failed", "err", err)
	status := http.StatusInternalServerError
	if errors.Is(err, os.ErrNotExist) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
