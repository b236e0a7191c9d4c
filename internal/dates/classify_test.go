package dates

import (
	"testing"
	"time"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

// 2024-06-10 is a Monday.
var testNow = time.Date(2024, time.June, 10, 9, 15, 0, 0, time.UTC)

func TestClassifyRaw_Boundaries(t *testing.T) {
	s := model.DefaultSettings()
	cases := []struct {
		date, time string
		bucket     model.Bucket
		label      string
	}{
		{"2024-06-09", "", model.BucketOverdue, "9 Jun"},
		{"2023-12-31", "", model.BucketOverdue, "31 Dec 2023"},
		{"2024-06-10", "", model.BucketToday, "Today"},
		{"2024-06-11", "", model.BucketTomorrow, "Tomorrow"},
		{"2024-06-12", "", model.BucketThisWeek, "Wednesday"},
		{"2024-06-14", "", model.BucketThisWeek, "Friday"},
		{"2024-06-17", "", model.BucketThisWeek, "Monday"},
		{"2024-06-18", "", model.BucketFuture, "18 Jun"},
		{"2025-01-01", "", model.BucketFuture, "1 Jan 2025"},
		{"2024-06-10", "14:30", model.BucketToday, "Today 2:30 PM"},
		{"2024-06-11", "15:00", model.BucketTomorrow, "Tomorrow 3 PM"},
		{"2024-06-10", "00:00", model.BucketToday, "Today"},
		{"2024-06-10", "00:05", model.BucketToday, "Today 12:05 AM"},
		{"2024-06-14", "09:00", model.BucketThisWeek, "Friday 9 AM"},
		{"2024-06-09", "23:59", model.BucketOverdue, "9 Jun 11:59 PM"},
	}
	for _, tc := range cases {
		got, ok := ClassifyRaw(tc.date, tc.time, s, testNow)
		if !ok {
			t.Fatalf("%s %s: expected a classification", tc.date, tc.time)
		}
		if got.Bucket != tc.bucket {
			t.Fatalf("%s %s: expected bucket %q, got %q", tc.date, tc.time, tc.bucket, got.Bucket)
		}
		if got.Label != tc.label {
			t.Fatalf("%s %s: expected label %q, got %q", tc.date, tc.time, tc.label, got.Label)
		}
	}
}

func TestClassifyRaw_InvalidIsAbsent(t *testing.T) {
	s := model.DefaultSettings()
	cases := []struct{ date, time string }{
		{"2024-02-30", ""},
		{"2023-02-29", ""},
		{"2024-06-32", ""},
		{"2024-13-01", ""},
		{"2024-00-10", ""},
		{"2024-06-00", ""},
		{"2024-06-10", "24:00"},
		{"2024-06-10", "12:60"},
		{"2024/06/10", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got, ok := ClassifyRaw(tc.date, tc.time, s, testNow); ok {
			t.Fatalf("%q %q: expected absent, got %+v", tc.date, tc.time, got)
		}
	}
	if _, ok := ClassifyRaw("2024-02-29", "", s, testNow); !ok {
		t.Fatalf("leap day should be valid")
	}
}

func TestClassifyRaw_TwelveHourClock(t *testing.T) {
	cases := []struct {
		timeFormat, raw string
		wantHour        int
		wantMinute      int
		ok              bool
	}{
		{"hh:mm a", "02:30 pm", 14, 30, true},
		{"hh:mm a", "12:00 am", 0, 0, true},
		{"hh:mm a", "12:15 pm", 12, 15, true},
		{"hh:mm A", "11:45 PM", 23, 45, true},
		{"hh:mm A", "00:10 AM", 0, 0, false},
		{"hh:mm A", "13:00 PM", 0, 0, false},
		{"hh:mm", "09:05", 9, 5, true},
	}
	for _, tc := range cases {
		s := model.DefaultSettings()
		s.TimeFormat = tc.timeFormat
		got, ok := ClassifyRaw("2024-06-10", tc.raw, s, testNow)
		if ok != tc.ok {
			t.Fatalf("%s %q: expected ok=%v, got %v", tc.timeFormat, tc.raw, tc.ok, ok)
		}
		if !ok {
			continue
		}
		if got.When.Hour() != tc.wantHour || got.When.Minute() != tc.wantMinute {
			t.Fatalf("%s %q: expected %02d:%02d, got %s", tc.timeFormat, tc.raw, tc.wantHour, tc.wantMinute, got.When.Format("15:04"))
		}
	}
}

func TestClassifyRaw_AlternateDateFormats(t *testing.T) {
	cases := []struct {
		format, raw string
		want        model.Bucket
	}{
		{"DD-MM-YYYY", "11-06-2024", model.BucketTomorrow},
		{"MM-DD-YYYY", "06-11-2024", model.BucketTomorrow},
		{"DD-MM-YY", "10-06-24", model.BucketToday},
		{"DD-MM-YY", "10-06-99", model.BucketOverdue},
		{"DD/MM", "12/06", model.BucketThisWeek},
	}
	for _, tc := range cases {
		s := model.DefaultSettings()
		s.DateFormat = tc.format
		got, ok := ClassifyRaw(tc.raw, "", s, testNow)
		if !ok {
			t.Fatalf("%s %q: expected a classification", tc.format, tc.raw)
		}
		if got.Bucket != tc.want {
			t.Fatalf("%s %q: expected %q, got %q", tc.format, tc.raw, tc.want, got.Bucket)
		}
	}
}

func TestBucketFor_Totality(t *testing.T) {
	// Walking day by day must visit buckets in timeline order without going back.
	order := map[model.Bucket]int{}
	for i, b := range model.Buckets() {
		order[b] = i
	}
	prev := -1
	for d := -30; d <= 30; d++ {
		when := testNow.AddDate(0, 0, d)
		b := BucketFor(when, testNow)
		idx, ok := order[b]
		if !ok {
			t.Fatalf("day %d: unknown bucket %q", d, b)
		}
		if idx < prev {
			t.Fatalf("day %d: bucket %q goes back in the timeline", d, b)
		}
		prev = idx
	}
}

func TestBucketFor_UsesNowLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 23:30 in New York is already the next day in UTC.
	now := time.Date(2024, time.June, 10, 23, 30, 0, 0, ny)
	got, ok := ClassifyRaw("2024-06-10", "", model.DefaultSettings(), now)
	if !ok || got.Bucket != model.BucketToday {
		t.Fatalf("expected today in now's location, got %+v ok=%v", got, ok)
	}
	if got.When.Location() != ny {
		t.Fatalf("expected parsed date in %v, got %v", ny, got.When.Location())
	}
}

func TestDaysFrom_AcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2024, time.March, 9, 23, 0, 0, 0, ny)
	when := time.Date(2024, time.March, 11, 0, 0, 0, 0, ny)
	if got := DaysFrom(when, now); got != 2 {
		t.Fatalf("expected 2 days across the DST switch, got %d", got)
	}
}

func TestLabel_OverdueUsesDateForms(t *testing.T) {
	when := time.Date(2024, time.June, 3, 15, 0, 0, 0, time.UTC)
	if got := Label(when, testNow, model.BucketOverdue); got != "3 Jun 3 PM" {
		t.Fatalf("unexpected label %q", got)
	}
}
