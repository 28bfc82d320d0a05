// Package config loads the importer configuration from a YAML file
// into explicit structs. Nothing in the pipeline reads ambient global
// settings; the loaded Config is passed to the orchestrator and each
// source at construction time.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Load when a field is unset.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultHorizon       = 6 * 30 * 24 * time.Hour
	DefaultEventDuration = 3 * time.Hour
	DefaultPageSize      = 100
	DefaultMaxPages      = 3
	DefaultMaxRetries    = 3
	MinEventDuration     = 2 * time.Hour
	MaxEventDuration     = 5 * time.Hour
)

// Selectors name the repeating event node and its fields on a scraped
// page. Event and Title are required; the rest are optional.
type Selectors struct {
	Event       string `yaml:"event"`
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Time        string `yaml:"time"`
	EndTime     string `yaml:"end_time"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Venue       string `yaml:"venue"`
	Address     string `yaml:"address"`
	Location    string `yaml:"location"`
	Price       string `yaml:"price"`
}

// HTML configures a scraped listings page.
type HTML struct {
	URL       string        `yaml:"url"`
	Selectors Selectors     `yaml:"selectors"`
	VenueName string        `yaml:"venue_name"` // fixed venue when the page is a single venue's calendar
	Duration  time.Duration `yaml:"duration"`   // default end time offset, clamped to 2-5h
}

// ICal configures an iCalendar feed.
type ICal struct {
	URL      string        `yaml:"url"`
	Horizon  time.Duration `yaml:"horizon"`   // how far ahead to expand recurrences
	TZOffset time.Duration `yaml:"tz_offset"` // fixed offset correction some feeds require
	Venue    string        `yaml:"venue"`     // overrides LOCATION when set
}

// REST configures a JSON events API. Fields maps raw event field names
// (title, start_date, start_time, venue_name, ...) to provider JSON
// keys. Pagination uses "page" and "per_page" query parameters.
type REST struct {
	URL        string            `yaml:"url"`
	Path       string            `yaml:"path"`
	APIKey     string            `yaml:"api_key"`
	ItemsKey   string            `yaml:"items_key"` // key holding the item array; empty means top-level array
	PageSize   int               `yaml:"page_size"`
	MaxPages   int               `yaml:"max_pages"`
	MaxRetries int               `yaml:"max_retries"`
	Fields     map[string]string `yaml:"fields"`
}

// Source is one configured origin of event listings. Type selects the
// factory ("html", "ical", "rest"); exactly one of the per-type blocks
// is consulted.
type Source struct {
	Name    string        `yaml:"name"`
	Type    string        `yaml:"type"`
	Timeout time.Duration `yaml:"timeout"`
	HTML    HTML          `yaml:"html"`
	ICal    ICal          `yaml:"ical"`
	REST    REST          `yaml:"rest"`
}

// Config is the full importer configuration.
type Config struct {
	Database string   `yaml:"database"`
	Sources  []Source `yaml:"sources"`
}

// Load reads and validates a YAML configuration file, applying
// defaults for unset durations and pagination bounds.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Credentials live in the environment, not the file; ${VAR}
	// references expand before parsing.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("config %s: no sources defined", path)
	}

	seen := make(map[string]bool, len(cfg.Sources))
	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		if src.Name == "" {
			return nil, fmt.Errorf("config %s: source %d has no name", path, i)
		}
		if seen[src.Name] {
			return nil, fmt.Errorf("config %s: duplicate source name %q", path, src.Name)
		}
		seen[src.Name] = true
		if src.Type == "" {
			return nil, fmt.Errorf("config %s: source %q has no type", path, src.Name)
		}
		applyDefaults(src)
	}

	return &cfg, nil
}

func applyDefaults(src *Source) {
	if src.Timeout <= 0 {
		src.Timeout = DefaultTimeout
	}

	if src.HTML.Duration <= 0 {
		src.HTML.Duration = DefaultEventDuration
	}
	if src.HTML.Duration < MinEventDuration {
		src.HTML.Duration = MinEventDuration
	}
	if src.HTML.Duration > MaxEventDuration {
		src.HTML.Duration = MaxEventDuration
	}

	if src.ICal.Horizon <= 0 {
		src.ICal.Horizon = DefaultHorizon
	}

	if src.REST.PageSize <= 0 {
		src.REST.PageSize = DefaultPageSize
	}
	if src.REST.MaxPages <= 0 {
		src.REST.MaxPages = DefaultMaxPages
	}
	if src.REST.MaxRetries <= 0 {
		src.REST.MaxRetries = DefaultMaxRetries
	}
}
