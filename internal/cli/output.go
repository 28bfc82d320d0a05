package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/khoward/eventpipe/internal/event"
	"github.com/khoward/eventpipe/internal/importer"
	"github.com/khoward/eventpipe/internal/logger"
)

// OutputFormat specifies the output format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the import result in the specified format.
func WriteOutput(w io.Writer, result *importer.Result, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result, verbose)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

type jsonOutput struct {
	*importer.Result
	Metrics map[string]interface{} `json:"metrics,omitempty"`
}

// writeJSON outputs the result as JSON, with the metrics snapshot
// attached in verbose mode.
func writeJSON(w io.Writer, result *importer.Result, verbose bool) error {
	out := jsonOutput{Result: result}
	if verbose {
		out.Metrics = logger.MetricsSnapshot()
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeText outputs the result as human-readable text. Display order
// is by start date; the importer itself imposes no ordering beyond
// source encounter.
func writeText(w io.Writer, result *importer.Result, verbose bool) error {
	if len(result.Accepted) == 0 {
		fmt.Fprintln(w, "No new events found.")
	} else {
		display := make([]*event.Event, len(result.Accepted))
		copy(display, result.Accepted)
		sortByStart(display)

		fmt.Fprintf(w, "Accepted (%d):\n", len(display))
		for _, evt := range display {
			line := fmt.Sprintf("  NEW: %s %s", evt.StartDate, evt.Title)
			if evt.VenueName != "" {
				line += " @ " + evt.VenueName
			}
			fmt.Fprintln(w, line)
			if verbose {
				fmt.Fprintf(w, "       ID: %s\n", evt.Identifier)
				if evt.StartTime != "" {
					fmt.Fprintf(w, "       Time: %s\n", evt.StartTime)
				}
				if evt.TicketURL != "" {
					fmt.Fprintf(w, "       Tickets: %s\n", evt.TicketURL)
				}
			}
		}
	}

	if len(result.Rejected) > 0 {
		fmt.Fprintf(w, "\nRejected (%d):\n", len(result.Rejected))
		for _, rej := range result.Rejected {
			title := rej.Raw.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(w, "  %s: %s (%s)\n", rej.Source, title, rej.Reason)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\nSource errors (%d):\n", len(result.Errors))
		for _, srcErr := range result.Errors {
			fmt.Fprintf(w, "  %s: %s\n", srcErr.Source, srcErr.Error)
		}
	}

	if result.Duplicate > 0 {
		fmt.Fprintf(w, "\nDuplicates dropped: %d\n", result.Duplicate)
	}

	fmt.Fprintf(w, "\nTotal: %d accepted, %d rejected, %d source errors\n",
		len(result.Accepted), len(result.Rejected), len(result.Errors))
	return nil
}

// sortByStart orders events by start date, then time, then title.
func sortByStart(events []*event.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartDate != events[j].StartDate {
			return events[i].StartDate < events[j].StartDate
		}
		if events[i].StartTime != events[j].StartTime {
			return events[i].StartTime < events[j].StartTime
		}
		return events[i].Title < events[j].Title
	})
}
