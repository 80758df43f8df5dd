package sweep

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"cargosweep/internal/fingerprint"
	"cargosweep/internal/logging"
	"cargosweep/internal/testsupport"
)

const kb = 1024

// scenarioTarget builds the three-group cache from the design scenarios:
// 10KB at 3 days, 20KB at 1 day, 5KB at 5 days (scaled from MB for tests).
func scenarioTarget(t *testing.T) string {
	t.Helper()
	now := time.Now()
	return testsupport.WriteTarget(t,
		testsupport.Unit{
			ID:        "ten-1111111111111111",
			Profile:   "debug",
			Toolchain: "1.70.0",
			BuiltAt:   now.Add(-3 * 24 * time.Hour),
			Artifacts: map[string]int64{"deps/libten-1111111111111111.rlib": 10 * kb},
		},
		testsupport.Unit{
			ID:        "twenty-2222222222222222",
			Profile:   "debug",
			Toolchain: "1.70.0",
			BuiltAt:   now.Add(-1 * 24 * time.Hour),
			Artifacts: map[string]int64{"deps/libtwenty-2222222222222222.rlib": 20 * kb},
		},
		testsupport.Unit{
			ID:        "five-3333333333333333",
			Profile:   "debug",
			Toolchain: "1.70.0",
			BuiltAt:   now.Add(-5 * 24 * time.Hour),
			Artifacts: map[string]int64{"deps/libfive-3333333333333333.rlib": 5 * kb},
		},
	)
}

func TestSweepOlderThanScenario(t *testing.T) {
	root := scenarioTarget(t)

	report, err := New(root, logging.NewNop(), Options{}).SweepOlderThan(context.Background(), 2*24*time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.ReclaimedBytes != 15*kb {
		t.Errorf("reclaimed = %d, want %d", report.ReclaimedBytes, 15*kb)
	}
	if report.RemovedGroups != 2 || report.KeptGroups != 1 {
		t.Errorf("report = %+v, want 2 removed / 1 kept", report)
	}
}

func TestSweepUntilFitsScenario(t *testing.T) {
	root := scenarioTarget(t)

	report, err := New(root, logging.NewNop(), Options{Apply: true}).SweepUntilFits(context.Background(), 15*kb)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	// Oldest-first removal cannot stop after 5KB+10KB: the remaining 20KB
	// still exceeds the budget, so all three groups go.
	if report.ReclaimedBytes != 35*kb {
		t.Errorf("reclaimed = %d, want %d", report.ReclaimedBytes, 35*kb)
	}
	if report.RemovedGroups != 3 {
		t.Errorf("removed = %d, want 3", report.RemovedGroups)
	}

	stats, err := CollectStats(root, logging.NewNop())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalBytes != 0 || stats.Units != 0 {
		t.Errorf("stats after sweep = %+v, want empty", stats)
	}
}

func TestSweepUntilFitsUnderBudget(t *testing.T) {
	root := scenarioTarget(t)

	report, err := New(root, logging.NewNop(), Options{}).SweepUntilFits(context.Background(), 100*kb)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.RemovedGroups != 0 || report.ReclaimedBytes != 0 {
		t.Errorf("report = %+v, want nothing removed", report)
	}
}

func TestSweepNotBuiltWith(t *testing.T) {
	now := time.Now()
	root := testsupport.WriteTarget(t,
		testsupport.Unit{ID: "cur-1111111111111111", Toolchain: "1.70.0", BuiltAt: now,
			Artifacts: map[string]int64{"deps/libcur-1111111111111111.rlib": 1 * kb}},
		testsupport.Unit{ID: "old-2222222222222222", Toolchain: "1.65.0", BuiltAt: now,
			Artifacts: map[string]int64{"deps/libold-2222222222222222.rlib": 2 * kb}},
		testsupport.Unit{ID: "unk-3333333333333333", BuiltAt: now,
			Artifacts: map[string]int64{"deps/libunk-3333333333333333.rlib": 4 * kb}},
	)

	report, err := New(root, logging.NewNop(), Options{}).SweepNotBuiltWith(context.Background(), []string{"1.70.0"})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.ReclaimedBytes != 2*kb {
		t.Errorf("reclaimed = %d, want only the 1.65.0 group's bytes", report.ReclaimedBytes)
	}
	if report.RemovedGroups != 1 || report.KeptGroups != 2 {
		t.Errorf("report = %+v, want 1 removed / 2 kept", report)
	}
}

func TestSweepNotBuiltWithEmptyKeepSet(t *testing.T) {
	root := t.TempDir()
	_, err := New(root, logging.NewNop(), Options{}).SweepNotBuiltWith(context.Background(), nil)
	if !errors.Is(err, ErrEmptyKeepSet) {
		t.Fatalf("error = %v, want ErrEmptyKeepSet", err)
	}
}

func TestSweepInvalidCutoff(t *testing.T) {
	s := New(t.TempDir(), logging.NewNop(), Options{})
	if _, err := s.SweepOlderThan(context.Background(), 0); !errors.Is(err, ErrInvalidCutoff) {
		t.Errorf("zero duration: err = %v, want ErrInvalidCutoff", err)
	}
	if _, err := s.SweepOlderThan(context.Background(), -time.Hour); !errors.Is(err, ErrInvalidCutoff) {
		t.Errorf("negative duration: err = %v, want ErrInvalidCutoff", err)
	}
	if _, err := s.SweepOlderThanTime(context.Background(), time.Time{}); !errors.Is(err, ErrInvalidCutoff) {
		t.Errorf("zero time: err = %v, want ErrInvalidCutoff", err)
	}
}

func TestSweepOlderThanTime(t *testing.T) {
	root := scenarioTarget(t)
	cutoff := time.Now().Add(-2 * 24 * time.Hour)

	report, err := New(root, logging.NewNop(), Options{}).SweepOlderThanTime(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.ReclaimedBytes != 15*kb {
		t.Errorf("reclaimed = %d, want %d", report.ReclaimedBytes, 15*kb)
	}
}

func TestSweepMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-target")
	_, err := New(missing, logging.NewNop(), Options{}).SweepOlderThan(context.Background(), time.Hour)
	if !errors.Is(err, fingerprint.ErrRootUnavailable) {
		t.Fatalf("error = %v, want ErrRootUnavailable", err)
	}
}

func TestApplyRefusesLockedRoot(t *testing.T) {
	root := scenarioTarget(t)

	holder := flock.New(filepath.Join(root, lockFileName))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire holder lock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	_, err = New(root, logging.NewNop(), Options{Apply: true}).SweepOlderThan(context.Background(), time.Hour)
	if !errors.Is(err, ErrRootLocked) {
		t.Fatalf("error = %v, want ErrRootLocked", err)
	}

	// Dry runs never take the lock.
	if _, err := New(root, logging.NewNop(), Options{}).SweepOlderThan(context.Background(), time.Hour); err != nil {
		t.Fatalf("dry run under held lock: %v", err)
	}
}

func TestCollectStats(t *testing.T) {
	now := time.Now()
	root := testsupport.WriteTarget(t,
		testsupport.Unit{ID: "a-1111111111111111", Profile: "debug", Toolchain: "1.70.0", BuiltAt: now,
			Artifacts: map[string]int64{"deps/liba-1111111111111111.rlib": 3 * kb}},
		testsupport.Unit{ID: "b-2222222222222222", Profile: "release", BuiltAt: now,
			Artifacts: map[string]int64{"deps/libb-2222222222222222.rlib": 5 * kb}},
	)

	stats, err := CollectStats(root, logging.NewNop())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Units != 2 || stats.TotalBytes != 8*kb {
		t.Errorf("stats = %+v", stats)
	}
	if stats.UnknownToolchain != 1 {
		t.Errorf("unknown toolchain count = %d, want 1", stats.UnknownToolchain)
	}
	if len(stats.Profiles) != 2 || stats.Profiles[0].Profile != "debug" || stats.Profiles[1].Profile != "release" {
		t.Errorf("profiles = %+v", stats.Profiles)
	}
	if stats.DiskTotalBytes == 0 {
		t.Errorf("disk total should be populated")
	}
}
