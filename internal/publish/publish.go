// Package publish maps accepted standardized events into the persisted
// content representation consumed by the host. Publishing is idempotent
// keyed on the event identifier: re-publishing the same identifier
// updates the stored row instead of duplicating it, and the set of
// already-published identifiers feeds the importer's dedup check.
package publish

import (
	"fmt"
	"time"

	"github.com/khoward/eventpipe/internal/event"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PublishedEvent is the persisted content row for one event.
type PublishedEvent struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Identifier string `gorm:"not null;uniqueIndex" json:"identifier"`

	Title        string `gorm:"not null" json:"title"`
	Description  string `json:"description,omitempty"`
	StartDate    string `gorm:"not null;index" json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	LocationName string `json:"location_name,omitempty"`
	TicketURL    string `json:"ticket_url,omitempty"`
	Price        string `json:"price,omitempty"`
	VenueID      uint   `gorm:"index" json:"venue_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for GORM.
func (PublishedEvent) TableName() string {
	return "published_events"
}

// Store persists published events.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database handle. The PublishedEvent table
// must already be migrated (see storage.Open).
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Publish upserts the event row keyed on its identifier.
func (s *Store) Publish(evt *event.Event, venueID uint) error {
	row := PublishedEvent{
		Identifier:   evt.Identifier,
		Title:        evt.Title,
		Description:  evt.Description,
		StartDate:    evt.StartDate,
		EndDate:      evt.EndDate,
		StartTime:    evt.StartTime,
		EndTime:      evt.EndTime,
		LocationName: evt.LocationName,
		TicketURL:    evt.TicketURL,
		Price:        evt.Price,
		VenueID:      venueID,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "identifier"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "start_date", "end_date",
			"start_time", "end_time", "location_name",
			"ticket_url", "price", "venue_id", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("publishing %s: %w", evt.Identifier, err)
	}
	return nil
}

// Identifiers returns the set of previously-published identifiers used
// by the importer to drop already-known events across runs.
func (s *Store) Identifiers() (map[string]struct{}, error) {
	var ids []string
	if err := s.db.Model(&PublishedEvent{}).Pluck("identifier", &ids).Error; err != nil {
		return nil, fmt.Errorf("listing identifiers: %w", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Get loads a published event by identifier.
func (s *Store) Get(identifier string) (*PublishedEvent, error) {
	var row PublishedEvent
	if err := s.db.Where("identifier = ?", identifier).First(&row).Error; err != nil {
		return nil, fmt.Errorf("loading %s: %w", identifier, err)
	}
	return &row, nil
}
