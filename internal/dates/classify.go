package dates

import (
	"strconv"
	"strings"
	"time"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

type parts struct {
	year, month, day int
	hour, minute     int
	hasYear          bool
	hasMonth         bool
	hasDay           bool
	hour12           bool
	meridiem         string
}

func (l layout) extract(raw string, pt *parts) bool {
	m := l.parser.FindStringSubmatch(raw)
	if m == nil {
		return false
	}
	for i, f := range l.fields {
		v := m[i+1]
		if f == fieldMeridiem {
			pt.meridiem = strings.ToLower(v)
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		switch f {
		case fieldYear4:
			pt.year, pt.hasYear = n, true
		case fieldYear2:
			pt.year, pt.hasYear = expandTwoDigitYear(n), true
		case fieldMonth:
			pt.month, pt.hasMonth = n, true
		case fieldDay:
			pt.day, pt.hasDay = n, true
		case fieldHour24:
			pt.hour, pt.hour12 = n, false
		case fieldHour12:
			pt.hour, pt.hour12 = n, true
		case fieldMinute:
			pt.minute = n
		}
	}
	return true
}

// expandTwoDigitYear pivots at 68: 00-68 => 20xx, 69-99 => 19xx.
func expandTwoDigitYear(yy int) int {
	if yy > 68 {
		return 1900 + yy
	}
	return 2000 + yy
}

func daysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Parse reads rawDate and rawTime with the pattern's formats. The result lives in
// loc; a format without a year takes defaultYear. An empty rawTime means midnight.
// ok is false for anything that is not a real calendar moment.
func (p *Pattern) Parse(rawDate, rawTime string, loc *time.Location, defaultYear int) (time.Time, bool) {
	pt := parts{year: defaultYear}
	if !p.date.extract(rawDate, &pt) {
		return time.Time{}, false
	}
	if rawTime != "" && !p.time.extract(rawTime, &pt) {
		return time.Time{}, false
	}
	if !pt.hasMonth || !pt.hasDay {
		return time.Time{}, false
	}
	if pt.month < 1 || pt.month > 12 {
		return time.Time{}, false
	}
	if pt.day < 1 || pt.day > daysInMonth(pt.year, time.Month(pt.month)) {
		return time.Time{}, false
	}
	if pt.minute < 0 || pt.minute > 59 {
		return time.Time{}, false
	}
	if pt.hour12 {
		if pt.hour < 1 || pt.hour > 12 {
			return time.Time{}, false
		}
	} else if pt.hour < 0 || pt.hour > 23 {
		return time.Time{}, false
	}
	switch pt.meridiem {
	case "pm":
		if pt.hour < 12 {
			pt.hour += 12
		}
	case "am":
		if pt.hour == 12 {
			pt.hour = 0
		}
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(pt.year, time.Month(pt.month), pt.day, pt.hour, pt.minute, 0, 0, loc), true
}

// Classify parses m and assigns its bucket and label relative to now.
// The second result is false when m is not a valid date.
func Classify(m model.Match, p *Pattern, now time.Time) (model.Classification, bool) {
	raw := ""
	if m.HasTime {
		raw = m.RawTime
	}
	when, ok := p.Parse(m.RawDate, raw, now.Location(), now.Year())
	if !ok {
		return model.Classification{}, false
	}
	b := BucketFor(when, now)
	return model.Classification{Label: Label(when, now, b), Bucket: b, When: when}, true
}

// ClassifyRaw classifies a raw date/time pair under s without scanning.
func ClassifyRaw(rawDate, rawTime string, s model.Settings, now time.Time) (model.Classification, bool) {
	m := model.Match{RawDate: rawDate, RawTime: rawTime, HasTime: rawTime != ""}
	return Classify(m, Compile(s), now)
}

// civilDay numbers calendar days so that differences ignore DST and time of day.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DaysFrom returns the number of calendar days from now's day to when's day,
// both read in now's location.
func DaysFrom(when, now time.Time) int {
	return int(civilDay(when.In(now.Location())) - civilDay(now))
}

// BucketFor compares calendar days only. Tomorrow is taken before the week
// window, so "this-week" covers today+2 through today+7 inclusive.
func BucketFor(when, now time.Time) model.Bucket {
	switch d := DaysFrom(when, now); {
	case d < 0:
		return model.BucketOverdue
	case d == 0:
		return model.BucketToday
	case d == 1:
		return model.BucketTomorrow
	case d <= 7:
		return model.BucketThisWeek
	default:
		return model.BucketFuture
	}
}

// Label renders the relative text for when in bucket b:
// "Today", "Tomorrow", a weekday name, "18 Jun" or "1 Jan 2025",
// followed by " 3 PM" / " 2:30 PM" when the time is not midnight.
func Label(when, now time.Time, b model.Bucket) string {
	when = when.In(now.Location())
	var base string
	switch b {
	case model.BucketToday:
		base = "Today"
	case model.BucketTomorrow:
		base = "Tomorrow"
	case model.BucketThisWeek:
		base = when.Weekday().String()
	default:
		if when.Year() == now.Year() {
			base = when.Format("2 Jan")
		} else {
			base = when.Format("2 Jan 2006")
		}
	}
	return base + timeSuffix(when)
}

func timeSuffix(t time.Time) string {
	h, m := t.Hour(), t.Minute()
	switch {
	case h == 0 && m == 0:
		return ""
	case m == 0:
		return " " + t.Format("3 PM")
	default:
		return " " + t.Format("3:04 PM")
	}
}
