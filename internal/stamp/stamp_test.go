package stamp

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreAndLoad(t *testing.T) {
	dir := t.TempDir()

	s := New()
	if err := s.Store(dir); err != nil {
		t.Fatalf("store: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Timestamp.Equal(s.Timestamp) {
		t.Errorf("round trip changed timestamp: %v != %v", loaded.Timestamp, s.Timestamp)
	}
	if loaded.Cutoff().After(time.Now()) {
		t.Error("cutoff should not be in the future")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing stamp")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for stamp without timestamp")
	}
}

func TestStoreReplacesPrevious(t *testing.T) {
	dir := t.TempDir()

	first := Stamp{Timestamp: time.Now().UTC().Add(-time.Hour)}
	if err := first.Store(dir); err != nil {
		t.Fatalf("store first: %v", err)
	}
	second := New()
	if err := second.Store(dir); err != nil {
		t.Fatalf("store second: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Timestamp.Equal(second.Timestamp) {
		t.Errorf("expected newest stamp, got %v", loaded.Timestamp)
	}
}
