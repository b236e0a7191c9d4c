package model

import "time"

// Bucket is the urgency class of a date relative to "now".
type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketToday    Bucket = "today"
	BucketTomorrow Bucket = "tomorrow"
	BucketThisWeek Bucket = "this-week"
	BucketFuture   Bucket = "future"
)

// Buckets returns every bucket in timeline order.
func Buckets() []Bucket {
	return []Bucket{BucketOverdue, BucketToday, BucketTomorrow, BucketThisWeek, BucketFuture}
}

// Supported format choices offered by the settings surface.
// The engine itself accepts any format string.
var (
	DateFormats = []string{"YYYY-MM-DD", "DD-MM-YYYY", "MM-DD-YYYY"}
	TimeFormats = []string{"HH:mm", "hh:mm a", "hh:mm A"}
)

type PillColors struct {
	Overdue  string `json:"overdue" yaml:"overdue"`
	Today    string `json:"today" yaml:"today"`
	Tomorrow string `json:"tomorrow" yaml:"tomorrow"`
	ThisWeek string `json:"thisWeek" yaml:"thisWeek"`
	Future   string `json:"future" yaml:"future"`
}

// For returns the color configured for b. Unknown buckets get the future color.
func (c PillColors) For(b Bucket) string {
	switch b {
	case BucketOverdue:
		return c.Overdue
	case BucketToday:
		return c.Today
	case BucketTomorrow:
		return c.Tomorrow
	case BucketThisWeek:
		return c.ThisWeek
	default:
		return c.Future
	}
}

// Settings is the user configuration. It is treated as an immutable value:
// callers pass a copy into every engine call.
type Settings struct {
	Prefix        string     `json:"prefix" yaml:"prefix"`
	DateFormat    string     `json:"dateFormat" yaml:"dateFormat"`
	TimeFormat    string     `json:"timeFormat" yaml:"timeFormat"`
	PillColors    PillColors `json:"pillColors" yaml:"pillColors"`
	PillTextColor string     `json:"pillTextColor" yaml:"pillTextColor"`
}

func DefaultPillColors() PillColors {
	return PillColors{
		Overdue:  "#d1453b",
		Today:    "#058527",
		Tomorrow: "#ad6200",
		ThisWeek: "#692ec2",
		Future:   "#808080",
	}
}

func DefaultSettings() Settings {
	return Settings{
		Prefix:        "@",
		DateFormat:    "YYYY-MM-DD",
		TimeFormat:    "HH:mm",
		PillColors:    DefaultPillColors(),
		PillTextColor: "#ffffff",
	}
}

// Match is one token found by the scanner.
// Offset and Length are byte offsets into the scanned text.
type Match struct {
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	Raw     string `json:"raw"`
	RawDate string `json:"rawDate"`
	RawTime string `json:"rawTime,omitempty"`
	HasTime bool   `json:"hasTime"`
}

// End is the offset just past the match.
func (m Match) End() int { return m.Offset + m.Length }

type Classification struct {
	Label  string    `json:"label"`
	Bucket Bucket    `json:"bucket"`
	When   time.Time `json:"when"`
}

// Badge is a rendering request for one pill.
type Badge struct {
	Text          string `json:"text"`
	Bucket        Bucket `json:"bucket"`
	StruckThrough bool   `json:"struckThrough"`
}
