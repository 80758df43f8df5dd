package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return store
}

func TestRecordRunAssignsIdentity(t *testing.T) {
	store := openTestStore(t)

	recorded, err := store.RecordRun(context.Background(), Run{
		Root:           "/tmp/project/target",
		Policy:         "age",
		DryRun:         true,
		ReclaimedBytes: 4096,
		RemovedGroups:  2,
		KeptGroups:     5,
	})
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if recorded.ID == "" {
		t.Error("expected generated run ID")
	}
	if recorded.CreatedAt.IsZero() {
		t.Error("expected generated timestamp")
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i, policy := range []string{"age", "size", "toolchains"} {
		_, err := store.RecordRun(context.Background(), Run{
			Root:      "/work/target",
			Policy:    policy,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(context.Background(), 2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Policy != "toolchains" || runs[1].Policy != "size" {
		t.Errorf("unexpected order: %q then %q", runs[0].Policy, runs[1].Policy)
	}
}

func TestRecentRunsRoundTripsFields(t *testing.T) {
	store := openTestStore(t)

	original := Run{
		Root:           "/srv/builds/target",
		Policy:         "size",
		DryRun:         false,
		ReclaimedBytes: 1 << 30,
		RemovedGroups:  12,
		KeptGroups:     3,
		FailedGroups:   1,
	}
	recorded, err := store.RecordRun(context.Background(), original)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := store.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != recorded.ID {
		t.Errorf("ID = %q, want %q", got.ID, recorded.ID)
	}
	if got.ReclaimedBytes != original.ReclaimedBytes {
		t.Errorf("ReclaimedBytes = %d, want %d", got.ReclaimedBytes, original.ReclaimedBytes)
	}
	if got.FailedGroups != original.FailedGroups {
		t.Errorf("FailedGroups = %d, want %d", got.FailedGroups, original.FailedGroups)
	}
	if got.DryRun {
		t.Error("DryRun should round-trip as false")
	}
	if !got.CreatedAt.Equal(recorded.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, recorded.CreatedAt)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if store.Path() != path {
		t.Errorf("Path = %q, want %q", store.Path(), path)
	}
}
