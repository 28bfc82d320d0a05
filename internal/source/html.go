package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/khoward/eventpipe/internal/config"
	"github.com/khoward/eventpipe/internal/event"
)

// HTML scrapes a listings page, selecting repeating event-card nodes
// via configured selectors.
type HTML struct {
	name   string
	cfg    config.HTML
	client *http.Client

	// now is stubbed in tests for past-event filtering
	now func() time.Time
}

// NewHTML builds an HTML source from configuration.
func NewHTML(cfg config.Source) (Source, error) {
	if cfg.HTML.URL == "" {
		return nil, &ConfigError{Source: cfg.Name, Reason: "html source requires a url"}
	}
	if cfg.HTML.Selectors.Event == "" || cfg.HTML.Selectors.Title == "" {
		return nil, &ConfigError{Source: cfg.Name, Reason: "html source requires event and title selectors"}
	}
	return &HTML{
		name:   cfg.Name,
		cfg:    cfg.HTML,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}, nil
}

func (s *HTML) Name() string { return s.name }

// Fetch downloads the page and extracts one raw event per matched node.
func (s *HTML) Fetch(ctx context.Context) ([]RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: s.name, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: s.name, Err: fmt.Errorf("fetching page: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: s.name, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: s.name, Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	return s.parse(doc), nil
}

// parse walks the matched event nodes. Nodes missing a title, a
// parseable date, or a parseable start time are skipped silently, as
// are events already in the past at fetch time.
func (s *HTML) parse(doc *goquery.Document) []RawEvent {
	sel := s.cfg.Selectors
	events := make([]RawEvent, 0)
	seen := make(map[string]bool)

	doc.Find(sel.Event).Each(func(i int, node *goquery.Selection) {
		title := text(node, sel.Title)
		if title == "" {
			return
		}

		date := event.ParseDate(text(node, sel.Date))
		if date.IsZero() {
			return
		}
		startDate := event.CanonicalDate(date)

		startTime, ok := event.ParseTime(text(node, sel.Time))
		if !ok {
			return
		}

		if event.StartsAt(startDate, startTime).Before(s.now()) {
			return
		}

		endTime, ok := event.ParseTime(text(node, sel.EndTime))
		if !ok {
			endTime = s.defaultEnd(startTime)
		}

		venueName := text(node, sel.Venue)
		if venueName == "" {
			venueName = s.cfg.VenueName
		}

		raw := RawEvent{
			Title:        title,
			Description:  text(node, sel.Description),
			StartDate:    startDate,
			StartTime:    startTime,
			EndTime:      endTime,
			VenueName:    venueName,
			Address:      text(node, sel.Address),
			LocationName: text(node, sel.Location),
			Price:        text(node, sel.Price),
			TicketURL:    s.ticketURL(node),
		}

		key := event.Identifier(raw.Title, raw.StartDate, raw.VenueName)
		if seen[key] {
			return
		}
		seen[key] = true

		events = append(events, raw)
	})

	return events
}

// defaultEnd derives a missing end time from the start time plus the
// configured duration. Events that would roll past midnight are capped
// at 23:59 since the record carries no end date for them.
func (s *HTML) defaultEnd(startTime string) string {
	t, err := time.Parse(event.TimeLayout, startTime)
	if err != nil {
		return ""
	}
	end := t.Add(s.cfg.Duration)
	if end.Day() != t.Day() {
		return "23:59"
	}
	return end.Format(event.TimeLayout)
}

// ticketURL extracts an href from the configured URL selector,
// resolving relative links against the page URL.
func (s *HTML) ticketURL(node *goquery.Selection) string {
	if s.cfg.Selectors.URL == "" {
		return ""
	}
	href, ok := node.Find(s.cfg.Selectors.URL).First().Attr("href")
	if !ok || href == "" {
		return ""
	}

	base, err := url.Parse(s.cfg.URL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// text returns the trimmed text of the first node matching selector
// within node, or "" when the selector is unset or matches nothing.
func text(node *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(node.Find(selector).First().Text())
}
