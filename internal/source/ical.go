package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apognu/gocal"
	"github.com/khoward/eventpipe/internal/config"
	"github.com/khoward/eventpipe/internal/event"
)

// ICal reads an iCalendar feed, expanding recurrence rules across a
// bounded future span.
type ICal struct {
	name   string
	cfg    config.ICal
	client *http.Client

	now func() time.Time
}

// NewICal builds an iCalendar source from configuration.
func NewICal(cfg config.Source) (Source, error) {
	if cfg.ICal.URL == "" {
		return nil, &ConfigError{Source: cfg.Name, Reason: "ical source requires a url"}
	}
	return &ICal{
		name:   cfg.Name,
		cfg:    cfg.ICal,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}, nil
}

func (s *ICal) Name() string { return s.name }

// Fetch downloads and parses the feed. The expansion window runs from
// now to now plus the configured horizon, so a weekly residency shows
// up as individual dated events rather than one recurrence rule.
func (s *ICal) Fetch(ctx context.Context) ([]RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: s.name, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: s.name, Err: fmt.Errorf("fetching feed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: s.name, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	start := s.now()
	events, err := s.parse(resp.Body, start, start.Add(s.cfg.Horizon))
	if err != nil {
		return nil, &FetchError{Source: s.name, Err: err}
	}
	return events, nil
}

// parse expands the feed between start and end, applies the configured
// fixed timezone offset correction, and deduplicates within the feed.
func (s *ICal) parse(r io.Reader, start, end time.Time) ([]RawEvent, error) {
	parser := gocal.NewParser(r)
	parser.Start, parser.End = &start, &end
	if err := parser.Parse(); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	events := make([]RawEvent, 0, len(parser.Events))
	seen := make(map[string]bool)

	for _, entry := range parser.Events {
		if entry.Summary == "" || entry.Start == nil {
			continue
		}

		begins := entry.Start.Add(s.cfg.TZOffset)

		venueName := s.cfg.Venue
		if venueName == "" {
			venueName = entry.Location
		}

		raw := RawEvent{
			Title:       entry.Summary,
			Description: entry.Description,
			StartDate:   event.CanonicalDate(begins),
			StartTime:   begins.Format(event.TimeLayout),
			VenueName:   venueName,
		}

		if entry.End != nil {
			finishes := entry.End.Add(s.cfg.TZOffset)
			raw.EndTime = finishes.Format(event.TimeLayout)
			if endDate := event.CanonicalDate(finishes); endDate != raw.StartDate {
				raw.EndDate = endDate
			}
		}

		key := event.Identifier(raw.Title, raw.StartDate, raw.VenueName)
		if seen[key] {
			continue
		}
		seen[key] = true

		events = append(events, raw)
	}

	return events, nil
}
