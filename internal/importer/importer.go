package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/khoward/eventpipe/internal/config"
	"github.com/khoward/eventpipe/internal/event"
	"github.com/khoward/eventpipe/internal/logger"
	"github.com/khoward/eventpipe/internal/source"
	"github.com/khoward/eventpipe/internal/venue"
)

// VenueResolver matches or creates a venue entity for a free-text
// name and returns its reference.
type VenueResolver interface {
	Resolve(name, locationHint string, fields venue.Fields) (uint, error)
}

// Publisher turns an accepted event into the host's persisted content
// representation. Must be idempotent keyed on the event identifier.
type Publisher interface {
	Publish(evt *event.Event, venueID uint) error
}

// Rejection records a raw event that failed validation, with the
// reason it was turned away.
type Rejection struct {
	Raw    source.RawEvent `json:"raw"`
	Source string          `json:"source"`
	Reason string          `json:"reason"`
}

// SourceError records a recoverable failure attributed to one source.
type SourceError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Result is the outcome of one import pass. The Rejected and Errors
// lists are the sole channel for failure visibility; nothing partial
// is ever silently published.
type Result struct {
	RunID     string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Accepted  []*event.Event `json:"accepted"`
	Rejected  []Rejection    `json:"rejected"`
	Errors    []SourceError  `json:"errors"`
	Duplicate int            `json:"duplicates_dropped"`
}

// Options wires an Importer. Venues and Publisher may be nil for a
// dry run; Published seeds the dedup set with identifiers from prior
// runs and may be nil.
type Options struct {
	Registry  *source.Registry
	Venues    VenueResolver
	Publisher Publisher
	Published map[string]struct{}
}

// Importer orchestrates import passes.
type Importer struct {
	registry  *source.Registry
	venues    VenueResolver
	publisher Publisher
	published map[string]struct{}
}

// New creates an Importer. Options.Registry must be non-nil.
func New(opts Options) *Importer {
	return &Importer{
		registry:  opts.Registry,
		venues:    opts.Venues,
		publisher: opts.Publisher,
		published: opts.Published,
	}
}

type fetchOutcome struct {
	events []source.RawEvent
	err    error
}

// Run executes one import pass over the configured sources. Sources
// are fetched concurrently; their results are merged in configured
// order by a single writer, so accepted events preserve
// source-encounter order and the dedup set needs no locking.
func (imp *Importer) Run(ctx context.Context, cfgs []config.Source) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Accepted:  make([]*event.Event, 0),
		Rejected:  make([]Rejection, 0),
		Errors:    make([]SourceError, 0),
	}

	// Construction happens up front so a configuration mistake fails
	// the run before any network traffic.
	sources := make([]source.Source, len(cfgs))
	for i, cfg := range cfgs {
		src, err := imp.registry.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("building source %q: %w", cfg.Name, err)
		}
		sources[i] = src
	}

	logger.Info("starting import", logger.Fields{
		"run_id":  result.RunID,
		"sources": len(sources),
	})

	outcomes := make([]fetchOutcome, len(sources))
	var wg sync.WaitGroup
	for i := range sources {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, cfgs[i].Timeout)
			defer cancel()

			began := time.Now()
			events, err := sources[i].Fetch(fetchCtx)
			logger.RecordTiming("import.fetch."+sources[i].Name(), time.Since(began))
			outcomes[i] = fetchOutcome{events: events, err: err}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(imp.published))
	for id := range imp.published {
		seen[id] = struct{}{}
	}

	for i, src := range sources {
		if outcomes[i].err != nil {
			logger.Error("source fetch failed", logger.Fields{
				"run_id": result.RunID,
				"source": src.Name(),
			}, outcomes[i].err)
			logger.IncrCounter("import.source_errors")
			result.Errors = append(result.Errors, SourceError{Source: src.Name(), Error: outcomes[i].err.Error()})
			continue
		}

		for _, raw := range outcomes[i].events {
			imp.process(src.Name(), raw, seen, result)
		}
	}

	logger.Info("import finished", logger.Fields{
		"run_id":   result.RunID,
		"accepted": len(result.Accepted),
		"rejected": len(result.Rejected),
		"errors":   len(result.Errors),
		"dropped":  result.Duplicate,
	})

	return result, nil
}

// process validates one raw event, maps it into a standardized record,
// applies the dedup check, resolves its venue, and publishes it.
func (imp *Importer) process(srcName string, raw source.RawEvent, seen map[string]struct{}, result *Result) {
	reject := func(reason string) {
		logger.IncrCounter("import.rejected")
		result.Rejected = append(result.Rejected, Rejection{Raw: raw, Source: srcName, Reason: reason})
	}

	if raw.Title == "" {
		reject("missing title")
		return
	}

	startDate := event.ParseDate(raw.StartDate)
	if startDate.IsZero() {
		reject(fmt.Sprintf("unparseable start date %q", raw.StartDate))
		return
	}

	evt := imp.standardize(raw, event.CanonicalDate(startDate))
	if evt.EndDate != "" && evt.EndDate < evt.StartDate {
		reject(fmt.Sprintf("end date %s before start date %s", evt.EndDate, evt.StartDate))
		return
	}

	// Identical triples across runs and across sources collapse to one
	// accepted event; re-running the same import is a no-op.
	if _, dup := seen[evt.Identifier]; dup {
		result.Duplicate++
		logger.IncrCounter("import.duplicates")
		return
	}

	var venueID uint
	if evt.VenueName != "" && imp.venues != nil {
		id, err := imp.venues.Resolve(evt.VenueName, evt.LocationName, venue.Fields{
			Street:  raw.Address,
			Phone:   raw.VenuePhone,
			Website: raw.VenueWebsite,
		})
		if err != nil {
			reject(fmt.Sprintf("venue resolution failed: %v", err))
			return
		}
		venueID = id
	}

	if imp.publisher != nil {
		if err := imp.publisher.Publish(evt, venueID); err != nil {
			logger.Error("publish failed", logger.Fields{"source": srcName, "identifier": evt.Identifier}, err)
			result.Errors = append(result.Errors, SourceError{Source: srcName, Error: err.Error()})
			return
		}
	}

	seen[evt.Identifier] = struct{}{}
	logger.IncrCounter("import.accepted")
	result.Accepted = append(result.Accepted, evt)
}

// standardize maps a raw field bag into the canonical record. Field
// renames and defaults happen here, once, independent of source. The
// title is carried verbatim; normalization applies only inside the
// identifier derivation.
func (imp *Importer) standardize(raw source.RawEvent, startDate string) *event.Event {
	evt := &event.Event{
		Title:        raw.Title,
		Description:  raw.Description,
		StartDate:    startDate,
		VenueName:    raw.VenueName,
		Address:      raw.Address,
		LocationName: raw.LocationName,
		TicketURL:    raw.TicketURL,
		Price:        raw.Price,
	}

	// Unparseable optional fields degrade to absent rather than
	// rejecting the whole listing.
	if end := event.ParseDate(raw.EndDate); !end.IsZero() {
		evt.EndDate = event.CanonicalDate(end)
	}
	if t, ok := event.ParseTime(raw.StartTime); ok {
		evt.StartTime = t
	}
	if t, ok := event.ParseTime(raw.EndTime); ok {
		evt.EndTime = t
	}

	evt.Identifier = event.Identifier(evt.Title, evt.StartDate, evt.VenueName)
	return evt
}
