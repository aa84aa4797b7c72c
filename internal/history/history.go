// Package history keeps a transcript of each transformation on disk.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Record is one completed round-trip.
type Record struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Style      string    `json:"style,omitempty"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// Store writes records as individual JSON files into a directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir, or nil when dir is empty.
func New(dir string) *Store {
	if dir == "" {
		return nil
	}
	return &Store{dir: dir}
}

// Save writes r to <dir>/<timestamp>-<id>.json and returns the path.
// Saving to a nil store is a no-op.
func (s *Store) Save(r Record) (string, error) {
	if s == nil {
		return "", nil
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	id := strings.ReplaceAll(r.ID, "-", "")
	if len(id) > 16 {
		id = id[:16]
	}
	name := fmt.Sprintf("%s-%s.json", r.StartedAt.Format("2006-01-02-15.04.05"), id)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
