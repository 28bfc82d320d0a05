// Package event defines the standardized event record that every
// source normalizes into, and the content-hash identifier used to
// deduplicate events across repeated import runs.
//
// The identifier is a pure function of the normalized title, the exact
// start date string, and the normalized venue name. Two raw listings
// that normalize to the same triple collide to the same identifier,
// which is what makes re-running an import idempotent.
package event
