// Package importer runs one import pass: it invokes every configured
// source, normalizes the raw listings into standardized events,
// deduplicates against identifiers seen this run and identifiers
// already published, resolves venues, and hands surviving records to
// the publisher.
//
// Failure semantics follow a strict split: individual source failures,
// malformed listings, and venue or publish failures are collected into
// the Result and never abort the batch; only an operator mistake in
// the configuration (an unregistered source type) is returned as an
// error from Run.
package importer
