package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dghubble/sling"
	"github.com/khoward/eventpipe/internal/config"
	"github.com/khoward/eventpipe/internal/event"
)

// REST calls a JSON events API with configured pagination and maps the
// provider's schema into raw events via the configured field mapping.
type REST struct {
	name   string
	cfg    config.REST
	client *http.Client
	base   *sling.Sling
}

type pageParams struct {
	Page    int `url:"page"`
	PerPage int `url:"per_page"`
}

// NewREST builds a REST source from configuration.
func NewREST(cfg config.Source) (Source, error) {
	if cfg.REST.URL == "" {
		return nil, &ConfigError{Source: cfg.Name, Reason: "rest source requires a url"}
	}
	if len(cfg.REST.Fields) == 0 {
		return nil, &ConfigError{Source: cfg.Name, Reason: "rest source requires a field mapping"}
	}

	client := &http.Client{Timeout: cfg.Timeout}
	base := sling.New().
		Client(client).
		Base(cfg.REST.URL).
		Set("User-Agent", UserAgent).
		Set("Accept", "application/json")
	if cfg.REST.APIKey != "" {
		base.Set("Authorization", "Bearer "+cfg.REST.APIKey)
	}

	return &REST{
		name:   cfg.Name,
		cfg:    cfg.REST,
		client: client,
		base:   base,
	}, nil
}

func (s *REST) Name() string { return s.name }

// Fetch pages through the endpoint until a short or empty page, the
// configured page cap, or a permanent error.
func (s *REST) Fetch(ctx context.Context) ([]RawEvent, error) {
	events := make([]RawEvent, 0)
	seen := make(map[string]bool)

	for page := 1; page <= s.cfg.MaxPages; page++ {
		items, err := s.fetchPage(ctx, page)
		if err != nil {
			return nil, &FetchError{Source: s.name, Err: err}
		}

		for _, item := range items {
			raw := s.mapItem(item)
			key := event.Identifier(raw.Title, raw.StartDate, raw.VenueName)
			if seen[key] {
				continue
			}
			seen[key] = true
			events = append(events, raw)
		}

		if len(items) < s.cfg.PageSize {
			break
		}
	}

	return events, nil
}

// fetchPage retrieves one page, retrying transient failures with
// exponential backoff. Client errors other than 429 are permanent.
func (s *REST) fetchPage(ctx context.Context, page int) ([]map[string]interface{}, error) {
	var items []map[string]interface{}

	operation := func() error {
		req, err := s.base.New().
			Get(s.cfg.Path).
			QueryStruct(pageParams{Page: page, PerPage: s.cfg.PageSize}).
			Request()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		resp, err := s.client.Do(req.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("calling endpoint: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			// fall through to decode
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		items, err = decodeItems(resp.Body, s.cfg.ItemsKey)
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	retrying := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.cfg.MaxRetries)), ctx)

	if err := backoff.Retry(operation, retrying); err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	return items, nil
}

// decodeItems unwraps either a top-level JSON array or an object whose
// itemsKey member holds the array.
func decodeItems(r io.Reader, itemsKey string) ([]map[string]interface{}, error) {
	var items []map[string]interface{}

	if itemsKey == "" {
		if err := json.NewDecoder(r).Decode(&items); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	payload, ok := envelope[itemsKey]
	if !ok {
		return nil, fmt.Errorf("response missing %q key", itemsKey)
	}
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", itemsKey, err)
	}
	return items, nil
}

// mapItem applies the configured provider-key mapping to one item.
// Unknown mapping targets are ignored so a config typo surfaces as a
// missing field rather than a crash.
func (s *REST) mapItem(item map[string]interface{}) RawEvent {
	var raw RawEvent
	for field, providerKey := range s.cfg.Fields {
		value, ok := item[providerKey]
		if !ok || value == nil {
			continue
		}
		text := fmt.Sprintf("%v", value)

		switch field {
		case "title":
			raw.Title = text
		case "description":
			raw.Description = text
		case "start_date":
			raw.StartDate = text
		case "end_date":
			raw.EndDate = text
		case "start_time":
			raw.StartTime = text
		case "end_time":
			raw.EndTime = text
		case "venue_name":
			raw.VenueName = text
		case "address":
			raw.Address = text
		case "location_name":
			raw.LocationName = text
		case "ticket_url":
			raw.TicketURL = text
		case "price":
			raw.Price = text
		case "venue_phone":
			raw.VenuePhone = text
		case "venue_website":
			raw.VenueWebsite = text
		}
	}
	return raw
}
