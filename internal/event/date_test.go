package event

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string // canonical form, "" means unparseable
	}{
		{name: "canonical", input: "2025-06-01", expected: "2025-06-01"},
		{name: "rfc3339", input: "2025-06-01T20:00:00Z", expected: "2025-06-01"},
		{name: "long month", input: "June 1, 2025", expected: "2025-06-01"},
		{name: "short month", input: "Jun 1 2025", expected: "2025-06-01"},
		{name: "slashes", input: "02/15/2026", expected: "2026-02-15"},
		{name: "two digit year", input: "02/15/26", expected: "2026-02-15"},
		{name: "dotted", input: "4.4.26", expected: "2026-04-04"},
		{name: "padded", input: "  2025-06-01 ", expected: "2025-06-01"},
		{name: "garbage", input: "next friday probably", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.expected == "" {
				if !got.IsZero() {
					t.Errorf("ParseDate(%q) = %v, want zero time", tt.input, got)
				}
				return
			}
			if got.IsZero() {
				t.Fatalf("ParseDate(%q) failed to parse", tt.input)
			}
			if canonical := CanonicalDate(got); canonical != tt.expected {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, canonical, tt.expected)
			}
		})
	}
}

func TestParseDateYearless(t *testing.T) {
	got := ParseDate("Jun 1")
	if got.IsZero() {
		t.Fatal("expected yearless date to parse")
	}
	if got.Year() != time.Now().Year() {
		t.Errorf("expected current year, got %d", got.Year())
	}
	if got.Month() != time.June || got.Day() != 1 {
		t.Errorf("expected June 1, got %v", got)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "24h", input: "20:00", expected: "20:00", ok: true},
		{name: "24h seconds", input: "20:00:30", expected: "20:00", ok: true},
		{name: "12h", input: "8:00 PM", expected: "20:00", ok: true},
		{name: "12h compact", input: "8pm", expected: "20:00", ok: true},
		{name: "12h morning", input: "9:30 AM", expected: "09:30", ok: true},
		{name: "garbage", input: "doors", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTime(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseTime(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ParseTime(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStartsAt(t *testing.T) {
	got := StartsAt("2025-06-01", "20:00")
	want := time.Date(2025, time.June, 1, 20, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", got, want)
	}

	midnight := StartsAt("2025-06-01", "")
	if midnight.Hour() != 0 {
		t.Errorf("expected midnight for missing time, got %v", midnight)
	}

	if !StartsAt("not a date", "20:00").IsZero() {
		t.Error("expected zero time for invalid date")
	}
}
