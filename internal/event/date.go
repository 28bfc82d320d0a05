package event

import (
	"strings"
	"time"
)

// DateLayout is the canonical date form used everywhere in the
// pipeline, including identifier derivation.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order by ParseDate. Listings sites are
// inconsistent; these cover the forms seen across HTML, feed, and API
// sources.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"01/02/2006",
	"01/02/06",
	"1/2/2006",
	"1.2.06",
	"01.02.06",
}

// yearlessLayouts are tried last and assume the current year.
var yearlessLayouts = []string{
	"Jan 2",
	"January 2",
}

// ParseDate attempts to parse free-form date text into a time.Time.
// Returns the zero time if no known layout matches.
func ParseDate(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}

	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			now := time.Now()
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}

	return time.Time{}
}

// CanonicalDate formats a parsed date in the canonical YYYY-MM-DD form.
func CanonicalDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeLayout is the canonical time-of-day form.
const TimeLayout = "15:04"

var timeLayouts = []string{
	TimeLayout,
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
	"3pm",
	"3:04pm",
}

// ParseTime attempts to parse free-form time-of-day text ("20:00",
// "8:00 PM", "8pm") into canonical HH:MM form. The second return is
// false if no known layout matches.
func ParseTime(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format(TimeLayout), true
		}
	}

	return "", false
}

// StartsAt combines a canonical date and optional canonical time into
// a point in time, used for past-event filtering. Midnight when no
// time is given.
func StartsAt(date, timeOfDay string) time.Time {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}
	}
	if timeOfDay == "" {
		return d
	}
	t, err := time.Parse(TimeLayout, timeOfDay)
	if err != nil {
		return d
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
