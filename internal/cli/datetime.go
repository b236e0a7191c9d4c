package cli

import (
	"fmt"
	"strings"
	"time"
)

// parseNow parses the --now flag:
// - YYYY-MM-DD (midnight in loc)
// - YYYY-MM-DD HH:MM or YYYY-MM-DDTHH:MM (in loc)
// - RFC3339 / RFC3339Nano (keeps its own offset)
func parseNow(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty --now")
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --now %q (expected YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)", s)
}
