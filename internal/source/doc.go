// Package source defines the contract every event origin implements
// and the concrete sources shipped with the importer: an HTML scraper
// (goquery), an iCalendar feed reader (gocal), and a JSON API client
// (sling). Sources yield raw field bags; defaulting and validation are
// the importer's job.
//
// Sources are constructed through an explicit Registry mapping a config
// type name to a factory. An unknown type is a ConfigError, which is
// fatal for the run; a failed Fetch is a FetchError, which costs the
// batch only that source's events.
package source
