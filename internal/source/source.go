package source

import (
	"context"
	"fmt"

	"github.com/khoward/eventpipe/internal/config"
)

// UserAgent identifies the importer to listing sites and APIs.
const UserAgent = "eventpipe/1.0 (github.com/khoward/eventpipe)"

// RawEvent carries whatever fields a source could extract from one
// listing. Fields may be empty; the importer applies defaults and
// validation once, independent of source.
type RawEvent struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	VenueName    string `json:"venue_name,omitempty"`
	Address      string `json:"address,omitempty"`
	LocationName string `json:"location_name,omitempty"`
	TicketURL    string `json:"ticket_url,omitempty"`
	Price        string `json:"price,omitempty"`
	VenuePhone   string `json:"venue_phone,omitempty"`
	VenueWebsite string `json:"venue_website,omitempty"`
}

// Source is the contract each data origin implements. Fetch returns
// the raw events currently listed, or an error wrapping the transport
// or parse failure. One source's failure never aborts the batch; the
// importer records it and moves on.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawEvent, error)
}

// FetchError reports a transport or parse failure for one source.
// Recoverable: the source contributes zero events this run.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: fetch failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ConfigError reports an operator mistake in a source configuration,
// such as an unregistered type. Unlike FetchError it is returned to
// the caller rather than collected, since re-running cannot fix it.
type ConfigError struct {
	Source string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("source %s: %s", e.Source, e.Reason)
}

// Factory builds a Source from its configuration.
type Factory func(cfg config.Source) (Source, error)

// Registry maps source type names to factories. It is populated at
// startup and injected into the importer; there is no ambient global
// registration.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates a type name with a factory, replacing any
// previous registration for that name.
func (r *Registry) Register(typ string, factory Factory) {
	r.factories[typ] = factory
}

// New builds the source described by cfg. Returns a *ConfigError if
// the type is not registered or the factory rejects the configuration.
func (r *Registry) New(cfg config.Source) (Source, error) {
	factory, ok := r.factories[cfg.Type]
	if !ok {
		return nil, &ConfigError{Source: cfg.Name, Reason: fmt.Sprintf("unknown source type %q", cfg.Type)}
	}
	return factory(cfg)
}

// DefaultRegistry returns a registry with the built-in source types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("html", NewHTML)
	r.Register("ical", NewICal)
	r.Register("rest", NewREST)
	return r
}
