package dates

import (
	"strings"
	"testing"
	"time"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

// formatWith writes t using the same placeholder alphabet the pattern builder reads.
func formatWith(format string, table []placeholder, t time.Time) string {
	var b strings.Builder
	for i := 0; i < len(format); {
		ph, ok := placeholderAt(format[i:], table)
		if !ok {
			b.WriteByte(format[i])
			i++
			continue
		}
		switch ph.token {
		case "YYYY":
			b.WriteString(t.Format("2006"))
		case "YY":
			b.WriteString(t.Format("06"))
		case "MM":
			b.WriteString(t.Format("01"))
		case "DD":
			b.WriteString(t.Format("02"))
		case "HH":
			b.WriteString(t.Format("15"))
		case "hh":
			b.WriteString(t.Format("03"))
		case "mm":
			b.WriteString(t.Format("04"))
		case "a":
			b.WriteString(t.Format("pm"))
		case "A":
			b.WriteString(t.Format("PM"))
		}
		i += len(ph.token)
	}
	return b.String()
}

func TestBuildPattern_RoundTripsEverySupportedFormat(t *testing.T) {
	when := time.Date(2024, time.June, 14, 16, 5, 0, 0, time.UTC)
	prefixes := []string{"@", "📅", "due:", "[d]", "$", "(+)", "^.*"}
	for _, df := range model.DateFormats {
		for _, tf := range model.TimeFormats {
			for _, prefix := range prefixes {
				s := model.Settings{Prefix: prefix, DateFormat: df, TimeFormat: tf}
				p := BuildPattern(s)
				rawDate := formatWith(df, datePlaceholders, when)
				rawTime := formatWith(tf, timePlaceholders, when)
				text := "- [ ] ship it " + prefix + " " + rawDate + " " + rawTime + " please"

				got := p.All(text)
				if len(got) != 1 {
					t.Fatalf("%q %q %q: expected 1 match in %q, got %d", prefix, df, tf, text, len(got))
				}
				m := got[0]
				if m.RawDate != rawDate || m.RawTime != rawTime || !m.HasTime {
					t.Fatalf("%q %q %q: captures %q/%q, want %q/%q", prefix, df, tf, m.RawDate, m.RawTime, rawDate, rawTime)
				}
				if text[m.Offset:m.End()] != m.Raw {
					t.Fatalf("%q: offset/length do not address the raw token", prefix)
				}
				c, ok := Classify(m, p, testNow)
				if !ok || c.Label != "Friday 4:05 PM" {
					t.Fatalf("%q %q %q: unexpected classification %+v ok=%v", prefix, df, tf, c, ok)
				}
			}
		}
	}
}

func TestBuildPattern_EscapesLiterals(t *testing.T) {
	s := model.Settings{Prefix: "+", DateFormat: "YYYY.MM.DD", TimeFormat: "HH:mm"}
	p := BuildPattern(s)
	if p.Contains("+2024x06x10") {
		t.Fatalf("'.' in the date format must be literal")
	}
	if !p.Contains("+2024.06.10") {
		t.Fatalf("expected literal dots to match")
	}
	if p.Contains("2024.06.10") {
		t.Fatalf("prefix is required")
	}
}

func TestBuildPattern_TimeIsOptional(t *testing.T) {
	p := BuildPattern(model.DefaultSettings())
	got := p.All("call @2024-06-10, then @ 2024-06-11 09:30")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].HasTime || got[0].Raw != "@2024-06-10" {
		t.Fatalf("unexpected first match %+v", got[0])
	}
	if !got[1].HasTime || got[1].RawTime != "09:30" || got[1].Raw != "@ 2024-06-11 09:30" {
		t.Fatalf("unexpected second match %+v", got[1])
	}
}

func TestBuildPattern_EmptyConfigIsWellFormed(t *testing.T) {
	p := BuildPattern(model.Settings{})
	if p.String() == "" {
		t.Fatalf("expected a non-empty pattern source")
	}
	for _, text := range []string{"notokens", "no tokens  here\n\tat all"} {
		if got := p.All(text); len(got) != 0 {
			t.Fatalf("%q: matches without a date must be skipped, got %+v", text, got)
		}
	}

	p = BuildPattern(model.Settings{Prefix: "@"})
	if got := p.All("mail me @ home @x"); len(got) != 0 {
		t.Fatalf("a bare prefix must not be reported, got %+v", got)
	}
	for range p.Tokens("mail me @ home", testNow) {
		t.Fatalf("expected no tokens")
	}
}

func TestScan_NonOverlappingAndSorted(t *testing.T) {
	p := BuildPattern(model.DefaultSettings())
	text := "@2024-06-10@2024-06-11 and @2024-06-12 10:00 @@2024-06-13 @2024-6-1"
	got := p.All(text)
	if len(got) != 4 {
		t.Fatalf("expected 4 matches, got %d: %+v", len(got), got)
	}
	end := -1
	for _, m := range got {
		if m.Offset < end {
			t.Fatalf("match at %d overlaps previous ending at %d", m.Offset, end)
		}
		end = m.End()
	}
}

func TestScan_NoMatchesIsEmpty(t *testing.T) {
	p := BuildPattern(model.DefaultSettings())
	if got := p.All("- [ ] nothing to see 2024-06-10"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestScan_IsRestartable(t *testing.T) {
	p := BuildPattern(model.DefaultSettings())
	seq := p.Scan("@2024-06-10 @2024-06-11 @2024-06-12")
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
		break
	}
	third := 0
	for range seq {
		third++
	}
	if first != 3 || second != 1 || third != 3 {
		t.Fatalf("expected independent passes, got %d/%d/%d", first, second, third)
	}
}

func TestTokens_KeepsInvalidMatches(t *testing.T) {
	p := BuildPattern(model.DefaultSettings())
	var ok, bad int
	for tok := range p.Tokens("@2024-02-30 and @2024-06-10", testNow) {
		if tok.OK {
			ok++
		} else {
			bad++
			if tok.Match.Raw != "@2024-02-30" {
				t.Fatalf("unexpected invalid token %q", tok.Match.Raw)
			}
		}
	}
	if ok != 1 || bad != 1 {
		t.Fatalf("expected 1 valid and 1 invalid token, got %d/%d", ok, bad)
	}
}

func TestCompile_MemoizesPerFormat(t *testing.T) {
	a := model.DefaultSettings()
	b := model.DefaultSettings()
	b.PillColors.Today = "#000000"
	if Compile(a) != Compile(b) {
		t.Fatalf("colors must not affect the compiled pattern")
	}
	c := model.DefaultSettings()
	c.Prefix = "due:"
	if Compile(a) == Compile(c) {
		t.Fatalf("different prefixes must not share a pattern")
	}
	if !Compile(c).Contains("due: 2024-06-10") || Compile(c).Contains("@2024-06-10") {
		t.Fatalf("compiled pattern does not follow its own settings")
	}
}
