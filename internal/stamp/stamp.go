// Package stamp persists the "last run" timestamp marker used by the
// age sweep's stamp mode.
package stamp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the marker file written into a project directory.
const FileName = "cargo-sweep.timestamp"

// Stamp records when a stamp was taken.
type Stamp struct {
	Timestamp time.Time `json:"timestamp"`
}

// New returns a stamp for the current instant.
func New() Stamp {
	return Stamp{Timestamp: time.Now().UTC()}
}

// Cutoff returns the stamp's instant for use as an absolute age cutoff.
func (s Stamp) Cutoff() time.Time {
	return s.Timestamp
}

// Store writes the stamp into dir, replacing any previous marker.
func (s Stamp) Store(dir string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stamp: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write stamp %s: %w", path, err)
	}
	return nil
}

// Load reads the marker previously stored in dir.
func Load(dir string) (Stamp, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Stamp{}, fmt.Errorf("read stamp %s: %w", path, err)
	}
	var s Stamp
	if err := json.Unmarshal(data, &s); err != nil {
		return Stamp{}, fmt.Errorf("parse stamp %s: %w", path, err)
	}
	if s.Timestamp.IsZero() {
		return Stamp{}, fmt.Errorf("stamp %s carries no timestamp", path)
	}
	return s, nil
}
