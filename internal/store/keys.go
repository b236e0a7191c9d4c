package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
	"github.com/Munckenh/obsidian-relative-dates/internal/pill"
)

const (
	KeyPrefix        = "prefix"
	KeyDateFormat    = "dateFormat"
	KeyTimeFormat    = "timeFormat"
	KeyPillColors    = "pillColors"
	KeyPillTextColor = "pillTextColor"
)

// Keys lists every settable key in display order.
func Keys() []string {
	keys := []string{KeyPrefix, KeyDateFormat, KeyTimeFormat}
	for _, b := range model.Buckets() {
		keys = append(keys, colorKey(b))
	}
	return append(keys, KeyPillTextColor)
}

func colorKey(b model.Bucket) string {
	name := string(b)
	if b == model.BucketThisWeek {
		name = "thisWeek"
	}
	return KeyPillColors + "." + name
}

type UnknownKeyError struct {
	Key string
}

func (e UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown setting %q (expected one of: %s)", e.Key, strings.Join(Keys(), ", "))
}

type InvalidValueError struct {
	Key    string
	Value  string
	Reason string
}

func (e InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Key, e.Reason)
}

// colorField returns the bucket color field addressed by key.
func colorField(s *model.Settings, key string) (*string, bool) {
	switch key {
	case colorKey(model.BucketOverdue):
		return &s.PillColors.Overdue, true
	case colorKey(model.BucketToday):
		return &s.PillColors.Today, true
	case colorKey(model.BucketTomorrow):
		return &s.PillColors.Tomorrow, true
	case colorKey(model.BucketThisWeek):
		return &s.PillColors.ThisWeek, true
	case colorKey(model.BucketFuture):
		return &s.PillColors.Future, true
	case KeyPillTextColor:
		return &s.PillTextColor, true
	}
	return nil, false
}

// Get returns the current value of key.
func Get(s model.Settings, key string) (string, error) {
	switch key {
	case KeyPrefix:
		return s.Prefix, nil
	case KeyDateFormat:
		return s.DateFormat, nil
	case KeyTimeFormat:
		return s.TimeFormat, nil
	}
	if f, ok := colorField(&s, key); ok {
		return *f, nil
	}
	return "", UnknownKeyError{Key: key}
}

// Set validates value and stores it under key. Formats must be one of the
// supported choices and colors any CSS color value (see pill.ValidColor).
func Set(s *model.Settings, key, value string) error {
	switch key {
	case KeyPrefix:
		if strings.ContainsAny(value, "\r\n") {
			return InvalidValueError{Key: key, Value: value, Reason: "must be a single line"}
		}
		s.Prefix = value
		return nil
	case KeyDateFormat:
		if !slices.Contains(model.DateFormats, value) {
			return InvalidValueError{Key: key, Value: value, Reason: "expected " + strings.Join(model.DateFormats, "|")}
		}
		s.DateFormat = value
		return nil
	case KeyTimeFormat:
		if !slices.Contains(model.TimeFormats, value) {
			return InvalidValueError{Key: key, Value: value, Reason: "expected " + strings.Join(model.TimeFormats, "|")}
		}
		s.TimeFormat = value
		return nil
	}
	f, ok := colorField(s, key)
	if !ok {
		return UnknownKeyError{Key: key}
	}
	value = strings.TrimSpace(value)
	if !pill.ValidColor(value) {
		return InvalidValueError{Key: key, Value: value, Reason: "expected a CSS color like #d1453b or rebeccapurple"}
	}
	*f = value
	return nil
}

// Reset restores key to its default. An empty key resets everything and
// "pillColors" resets the five bucket colors.
func Reset(s *model.Settings, key string) error {
	def := model.DefaultSettings()
	switch key {
	case "":
		*s = def
		return nil
	case KeyPillColors:
		s.PillColors = def.PillColors
		return nil
	}
	v, err := Get(def, key)
	if err != nil {
		return err
	}
	return Set(s, key, v)
}
