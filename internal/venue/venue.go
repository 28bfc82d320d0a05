// Package venue resolves free-text venue names into persisted venue
// entities with structured address metadata.
//
// Lookup is by exact, case-sensitive name: venues the operator already
// curated keep their casing as canonical, and near-duplicate names are
// deliberately never merged. Structured fields are first-write-wins; a
// later source may backfill columns that are still empty but can never
// overwrite populated ones.
package venue

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Venue is a named location entity referenced by published events.
type Venue struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null;uniqueIndex" json:"name"`
	Street      string  `json:"street,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	Zip         string  `json:"zip,omitempty"`
	Country     string  `json:"country,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Website     string  `json:"website,omitempty"`
	Capacity    int     `json:"capacity,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	Description string  `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for GORM.
func (Venue) TableName() string {
	return "venues"
}

// Fields carries the structured venue metadata a source asserted
// alongside an event. Empty values are simply absent.
type Fields struct {
	Street    string
	City      string
	State     string
	Zip       string
	Country   string
	Phone     string
	Website   string
	Capacity  int
	Latitude  float64
	Longitude float64
}

// CreationError reports a venue persistence failure. Recoverable: the
// event that needed the venue is rejected, the batch continues.
type CreationError struct {
	Name string
	Err  error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("venue %q: %v", e.Name, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// Store resolves and persists venues. Creation is serialized under a
// mutex so two sources racing on the same new venue name in one run
// cannot create duplicate entities.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewStore wraps an open database handle. The Venue table must already
// be migrated (see storage.Open).
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Resolve returns the ID of the venue with exactly the given name,
// creating it if absent. On create, city and state fall back to a
// best-effort split of locationHint ("City, State" on the first
// comma). On lookup, structured fields only backfill columns that are
// still empty; populated columns are never touched.
func (s *Store) Resolve(name, locationHint string, fields Fields) (uint, error) {
	if name == "" {
		return 0, &CreationError{Name: name, Err: errors.New("empty venue name")}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing Venue
	err := s.db.Where("name = ?", name).First(&existing).Error
	switch {
	case err == nil:
		if err := s.backfill(&existing, fields); err != nil {
			return 0, &CreationError{Name: name, Err: err}
		}
		return existing.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return 0, &CreationError{Name: name, Err: err}
	}

	created := Venue{
		Name:      name,
		Street:    fields.Street,
		City:      fields.City,
		State:     fields.State,
		Zip:       fields.Zip,
		Country:   fields.Country,
		Phone:     fields.Phone,
		Website:   fields.Website,
		Capacity:  fields.Capacity,
		Latitude:  fields.Latitude,
		Longitude: fields.Longitude,
	}
	if created.City == "" && created.State == "" {
		created.City, created.State = splitLocation(locationHint)
	}

	if err := s.db.Create(&created).Error; err != nil {
		return 0, &CreationError{Name: name, Err: err}
	}
	return created.ID, nil
}

// Get loads a venue by ID.
func (s *Store) Get(id uint) (*Venue, error) {
	var v Venue
	if err := s.db.First(&v, id).Error; err != nil {
		return nil, fmt.Errorf("loading venue %d: %w", id, err)
	}
	return &v, nil
}

// backfill writes only the columns still empty on the stored venue.
func (s *Store) backfill(existing *Venue, fields Fields) error {
	updates := make(map[string]interface{})

	setIfEmpty := func(column, current, incoming string) {
		if current == "" && incoming != "" {
			updates[column] = incoming
		}
	}

	setIfEmpty("street", existing.Street, fields.Street)
	setIfEmpty("city", existing.City, fields.City)
	setIfEmpty("state", existing.State, fields.State)
	setIfEmpty("zip", existing.Zip, fields.Zip)
	setIfEmpty("country", existing.Country, fields.Country)
	setIfEmpty("phone", existing.Phone, fields.Phone)
	setIfEmpty("website", existing.Website, fields.Website)

	if existing.Capacity == 0 && fields.Capacity != 0 {
		updates["capacity"] = fields.Capacity
	}
	if existing.Latitude == 0 && existing.Longitude == 0 && (fields.Latitude != 0 || fields.Longitude != 0) {
		updates["latitude"] = fields.Latitude
		updates["longitude"] = fields.Longitude
	}

	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(existing).Updates(updates).Error
}

// splitLocation extracts city and state from a free-text "City, State"
// hint by splitting on the first comma.
func splitLocation(hint string) (city, state string) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", ""
	}
	parts := strings.SplitN(hint, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}
