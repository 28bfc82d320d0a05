package calendar

import (
	"strings"
	"testing"

	"github.com/khoward/eventpipe/internal/event"
)

func timedEvent() *event.Event {
	evt := &event.Event{
		Title:       "The Jazz Trio",
		Description: "An evening of standards.",
		StartDate:   "2030-06-01",
		StartTime:   "20:00",
		EndTime:     "23:00",
		VenueName:   "Blue Note",
		Address:     "123 Main St",
		TicketURL:   "https://tickets.example.com/jazz",
	}
	evt.Identifier = event.Identifier(evt.Title, evt.StartDate, evt.VenueName)
	return evt
}

func TestGenerateICS(t *testing.T) {
	ics := GenerateICS([]*event.Event{timedEvent()})

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"BEGIN:VEVENT",
		"END:VEVENT",
		"UID:" + timedEvent().Identifier + "@eventpipe",
		"DTSTART:20300601T200000Z",
		"DTEND:20300601T230000Z",
		"SUMMARY:The Jazz Trio",
		"LOCATION:Blue Note\\, 123 Main St",
		"URL:https://tickets.example.com/jazz",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("expected ICS to contain %q\n%s", want, ics)
		}
	}

	if !strings.Contains(ics, "\r\n") {
		t.Error("ICS lines must be CRLF-terminated")
	}
}

func TestGenerateICSAllDay(t *testing.T) {
	evt := &event.Event{
		Title:     "Street Fair",
		StartDate: "2030-07-04",
		EndDate:   "2030-07-06",
	}
	evt.Identifier = event.Identifier(evt.Title, evt.StartDate, "")

	ics := GenerateICS([]*event.Event{evt})

	if !strings.Contains(ics, "DTSTART;VALUE=DATE:20300704") {
		t.Errorf("expected all-day DTSTART, got:\n%s", ics)
	}
	if !strings.Contains(ics, "DTEND;VALUE=DATE:20300706") {
		t.Errorf("expected all-day DTEND, got:\n%s", ics)
	}
}

func TestGenerateICSMultipleEvents(t *testing.T) {
	other := &event.Event{Title: "Acoustic Night", StartDate: "2030-07-12", StartTime: "19:30"}
	other.Identifier = event.Identifier(other.Title, other.StartDate, "")

	ics := GenerateICS([]*event.Event{timedEvent(), other})

	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("expected 2 VEVENT blocks, got %d", got)
	}
	if got := strings.Count(ics, "BEGIN:VCALENDAR"); got != 1 {
		t.Errorf("expected a single VCALENDAR wrapper, got %d", got)
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"a,b", "a\\,b"},
		{"a;b", "a\\;b"},
		{"a\nb", "a\\nb"},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := escapeICS(tt.input); got != tt.expected {
			t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
