package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Unit describes one fake compilation unit to materialize in a test
// target directory.
type Unit struct {
	ID        string
	Profile   string
	Toolchain string // empty writes a malformed record (unresolved toolchain)
	BuiltAt   time.Time
	// Artifacts maps paths relative to the profile directory to sizes.
	Artifacts map[string]int64
}

// WriteUnit materializes a fingerprint record and its artifacts under root.
// The record directory's mtime is set last so it reflects BuiltAt.
func WriteUnit(t testing.TB, root string, unit Unit) {
	t.Helper()

	profile := unit.Profile
	if profile == "" {
		profile = "debug"
	}
	profileDir := filepath.Join(root, profile)
	recordDir := filepath.Join(profileDir, ".fingerprint", unit.ID)
	if err := os.MkdirAll(recordDir, 0o755); err != nil {
		t.Fatalf("mkdir record dir: %v", err)
	}

	recordPath := filepath.Join(recordDir, "lib-"+unit.ID+".json")
	if unit.Toolchain != "" {
		payload, err := json.Marshal(map[string]string{"rustc_version": unit.Toolchain})
		if err != nil {
			t.Fatalf("marshal record: %v", err)
		}
		if err := os.WriteFile(recordPath, payload, 0o644); err != nil {
			t.Fatalf("write record: %v", err)
		}
	} else {
		if err := os.WriteFile(recordPath, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("write record: %v", err)
		}
	}

	for rel, size := range unit.Artifacts {
		WriteFile(t, filepath.Join(profileDir, rel), size)
	}

	builtAt := unit.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now()
	}
	if err := os.Chtimes(recordDir, builtAt, builtAt); err != nil {
		t.Fatalf("chtimes record dir: %v", err)
	}
}

// WriteTarget materializes several units under a fresh target root and
// returns the root path.
func WriteTarget(t testing.TB, units ...Unit) string {
	t.Helper()

	root := t.TempDir()
	for _, unit := range units {
		WriteUnit(t, root, unit)
	}
	return root
}
