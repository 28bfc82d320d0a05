// Package storage opens the SQLite database backing venue and
// published-event persistence and runs schema migrations.
package storage
