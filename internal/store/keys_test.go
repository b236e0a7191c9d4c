package store

import (
	"errors"
	"testing"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

func TestSet_Validates(t *testing.T) {
	cases := []struct {
		key, value string
		ok         bool
	}{
		{KeyPrefix, "due:", true},
		{KeyPrefix, "", true},
		{KeyPrefix, "a\nb", false},
		{KeyDateFormat, "MM-DD-YYYY", true},
		{KeyDateFormat, "YYYY.MM.DD", false},
		{KeyTimeFormat, "hh:mm A", true},
		{KeyTimeFormat, "HH:mm:ss", false},
		{"pillColors.today", "#0a0", true},
		{"pillColors.thisWeek", "#00AA00", true},
		{"pillColors.future", "rebeccapurple", true},
		{"pillColors.overdue", "rgb(209 69 59)", true},
		{"pillColors.future", "red; background: url(x)", false},
		{"pillColors.today", "", false},
		{KeyPillTextColor, "#12345", false},
	}
	for _, tc := range cases {
		s := model.DefaultSettings()
		err := Set(&s, tc.key, tc.value)
		if tc.ok && err != nil {
			t.Fatalf("%s=%q: unexpected error %v", tc.key, tc.value, err)
		}
		if !tc.ok {
			var iv InvalidValueError
			if !errors.As(err, &iv) {
				t.Fatalf("%s=%q: expected InvalidValueError, got %v", tc.key, tc.value, err)
			}
			if s != model.DefaultSettings() {
				t.Fatalf("%s=%q: rejected value must not change settings", tc.key, tc.value)
			}
			continue
		}
		got, err := Get(s, tc.key)
		if err != nil || got != tc.value {
			t.Fatalf("%s: expected %q back, got %q (%v)", tc.key, tc.value, got, err)
		}
	}
}

func TestSet_UnknownKey(t *testing.T) {
	s := model.DefaultSettings()
	var uk UnknownKeyError
	if err := Set(&s, "pillColors.yesterday", "#fff"); !errors.As(err, &uk) || uk.Key != "pillColors.yesterday" {
		t.Fatalf("expected UnknownKeyError, got %v", err)
	}
	if _, err := Get(s, "nope"); !errors.As(err, &uk) {
		t.Fatalf("expected UnknownKeyError from Get, got %v", err)
	}
}

func TestKeys_AllGettable(t *testing.T) {
	s := model.DefaultSettings()
	for _, k := range Keys() {
		if _, err := Get(s, k); err != nil {
			t.Fatalf("key %q: %v", k, err)
		}
	}
	if len(Keys()) != 9 {
		t.Fatalf("expected 9 keys, got %v", Keys())
	}
}

func TestReset(t *testing.T) {
	s := model.DefaultSettings()
	s.Prefix = "!"
	s.PillColors.Today = "#000"
	s.PillColors.Overdue = "#111"

	if err := Reset(&s, "pillColors.today"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.PillColors.Today != "#058527" || s.PillColors.Overdue != "#111" {
		t.Fatalf("expected only today reset, got %+v", s.PillColors)
	}
	if err := Reset(&s, KeyPillColors); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.PillColors != model.DefaultPillColors() || s.Prefix != "!" {
		t.Fatalf("expected colors reset and prefix kept, got %+v", s)
	}
	if err := Reset(&s, ""); err != nil || s != model.DefaultSettings() {
		t.Fatalf("expected full reset, got %+v (%v)", s, err)
	}
	var uk UnknownKeyError
	if err := Reset(&s, "bogus"); !errors.As(err, &uk) {
		t.Fatalf("expected UnknownKeyError, got %v", err)
	}
}
