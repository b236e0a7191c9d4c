package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.reldates).
	if v := strings.TrimSpace(os.Getenv("RELDATES_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".reldates"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Resolve returns path, or the default config path when path is empty.
func Resolve(path string) (string, error) {
	if p := strings.TrimSpace(path); p != "" {
		return p, nil
	}
	return ConfigPath()
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the settings file at path (default location when empty). Fields
// the file does not set keep their defaults, and RELDATES_* environment
// variables override the result. A missing file is not an error.
func Load(path string) (model.Settings, error) {
	s, err := LoadFile(path)
	if err != nil {
		return s, err
	}
	if err := applyEnvOverrides(&s); err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

// LoadFile is Load without environment overrides. Use it before Save so env
// values never end up persisted.
func LoadFile(path string) (model.Settings, error) {
	s := model.DefaultSettings()
	path, err := Resolve(path)
	if err != nil {
		return s, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(b, &s)
	} else {
		err = json.Unmarshal(b, &s)
	}
	if err != nil {
		return model.DefaultSettings(), fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

var envKeys = []struct {
	env string
	key string
}{
	{"RELDATES_PREFIX", KeyPrefix},
	{"RELDATES_DATE_FORMAT", KeyDateFormat},
	{"RELDATES_TIME_FORMAT", KeyTimeFormat},
}

func applyEnvOverrides(s *model.Settings) error {
	for _, e := range envKeys {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		if err := Set(s, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// Save writes s to path (default location when empty) in the format its
// extension names. The previous file is kept as path+".bak".
func Save(path string, s model.Settings) error {
	path, err := Resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var b []byte
	if isYAML(path) {
		b, err = yaml.Marshal(s)
	} else {
		b, err = json.MarshalIndent(s, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return err
	}

	base := filepath.Base(path)
	// Best effort: the backup must never block a save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, base+".bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, base+".*.tmp", path, b, 0o600)
}
