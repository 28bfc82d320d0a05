// Package cli implements the command-line interface for eventpipe.
//
// The cli package provides the Cobra-based CLI that loads the source
// configuration, runs one import pass, persists venues and published
// events, and reports the result as text or JSON, optionally emitting
// an iCalendar file of the accepted events.
package cli
