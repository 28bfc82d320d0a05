package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khoward/eventpipe/internal/publish"
	"github.com/khoward/eventpipe/internal/venue"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath is used when the configuration names no database file.
const DefaultPath = "~/.local/share/eventpipe/events.db"

// Open connects to the SQLite database at path, creating parent
// directories as needed, and migrates the venue and published-event
// tables. A leading ~/ expands to the user's home directory.
func Open(path string) (*gorm.DB, error) {
	if path == "" {
		path = DefaultPath
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.AutoMigrate(&venue.Venue{}, &publish.PublishedEvent{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}
