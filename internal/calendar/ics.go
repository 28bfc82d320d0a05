// Package calendar renders accepted events as an iCalendar document so
// an import run's output can be handed straight to calendar clients.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/khoward/eventpipe/internal/event"
)

const prodID = "-//eventpipe//eventpipe//EN"

// GenerateICS renders events as a single VCALENDAR document. Events
// with a start time become timed entries; events without one become
// all-day entries.
func GenerateICS(events []*event.Event) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", prodID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(time.Now().UTC())
	for _, evt := range events {
		writeEvent(&ics, evt, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *event.Event, stamp string) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@eventpipe\r\n", evt.Identifier))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))

	if evt.StartTime == "" {
		writeAllDay(ics, evt)
	} else {
		writeTimed(ics, evt)
	}

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Title)))
	if evt.Description != "" {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(evt.Description)))
	}

	location := evt.VenueName
	if evt.Address != "" {
		location = strings.TrimPrefix(location+", "+evt.Address, ", ")
	}
	if location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))
	}

	if evt.TicketURL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.TicketURL))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func writeAllDay(ics *strings.Builder, evt *event.Event) {
	start := strings.ReplaceAll(evt.StartDate, "-", "")
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", start))
	if evt.EndDate != "" {
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", strings.ReplaceAll(evt.EndDate, "-", "")))
	}
}

func writeTimed(ics *strings.Builder, evt *event.Event) {
	start := event.StartsAt(evt.StartDate, evt.StartTime)
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))

	if evt.EndTime != "" {
		endDate := evt.StartDate
		if evt.EndDate != "" {
			endDate = evt.EndDate
		}
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(event.StartsAt(endDate, evt.EndTime))))
	}
}

// formatICSTime formats a time.Time as an iCalendar datetime string.
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
