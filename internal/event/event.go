package event

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/khoward/eventpipe/internal/normalize"
)

// Event is the canonical record produced by every source. Field values
// are kept as the source supplied them (the title is NOT normalized
// here); normalization is applied only when deriving the identifier.
// Dates are canonical YYYY-MM-DD strings, times are HH:MM.
type Event struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	VenueName    string `json:"venue_name,omitempty"`
	Address      string `json:"address,omitempty"`
	LocationName string `json:"location_name,omitempty"`
	TicketURL    string `json:"ticket_url,omitempty"`
	Price        string `json:"price,omitempty"`
	Identifier   string `json:"identifier"`
}

// Identifier derives the deduplication key for an event: the md5 digest
// of normalize(title) + startDate + normalize(venue), lowercase hex,
// 32 characters. startDate is consumed verbatim in its YYYY-MM-DD form;
// two events whose dates differ only in formatting are a data-quality
// bug upstream, not a dedup case. Empty title or venue still produce a
// valid identifier; validation happens in the importer, not here.
func Identifier(title, startDate, venue string) string {
	sum := md5.Sum([]byte(normalize.Normalize(title) + startDate + normalize.Normalize(venue)))
	return hex.EncodeToString(sum[:])
}
