package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cargosweep/internal/testsupport"
)

func TestSizeRejectsUnparseableBudget(t *testing.T) {
	cfg := writeTestConfig(t, false)

	_, _, err := runCLI(t, []string{"size", "--max-size", "lots", t.TempDir()}, cfg)
	if err == nil {
		t.Fatal("expected parse error for --max-size lots")
	}
}

func TestSizeRequiresBudgetFlag(t *testing.T) {
	cfg := writeTestConfig(t, false)

	_, _, err := runCLI(t, []string{"size", t.TempDir()}, cfg)
	if err == nil {
		t.Fatal("expected error when --max-size is missing")
	}
}

func TestSizeDeleteEvictsOldestFirst(t *testing.T) {
	cfg := writeTestConfig(t, false)
	now := time.Now()
	root := testsupport.WriteTarget(t,
		testsupport.Unit{
			ID:        "oldest-aaaa1111bbbb2222",
			Toolchain: "1.75.0",
			BuiltAt:   now.Add(-48 * time.Hour),
			Artifacts: map[string]int64{
				"deps/liboldest-aaaa1111bbbb2222.rlib": 6 * 1024,
			},
		},
		testsupport.Unit{
			ID:        "newest-cccc3333dddd4444",
			Toolchain: "1.75.0",
			BuiltAt:   now,
			Artifacts: map[string]int64{
				"deps/libnewest-cccc3333dddd4444.rlib": 6 * 1024,
			},
		},
	)

	out, _, err := runCLI(t, []string{"size", "--max-size", "8KiB", "--delete", root}, cfg)
	if err != nil {
		t.Fatalf("size --delete: %v", err)
	}
	requireContains(t, out, "freed")

	oldest := filepath.Join(root, "debug", "deps", "liboldest-aaaa1111bbbb2222.rlib")
	if _, err := os.Stat(oldest); !os.IsNotExist(err) {
		t.Fatalf("expected oldest artifact removed, stat err: %v", err)
	}
	newest := filepath.Join(root, "debug", "deps", "libnewest-cccc3333dddd4444.rlib")
	if _, err := os.Stat(newest); err != nil {
		t.Fatalf("newest artifact must survive: %v", err)
	}
}

func TestSizeWithinBudgetRemovesNothing(t *testing.T) {
	cfg := writeTestConfig(t, false)
	root := testsupport.WriteTarget(t,
		testsupport.Unit{
			ID:        "only-aaaa1111bbbb2222",
			Toolchain: "1.75.0",
			BuiltAt:   time.Now(),
			Artifacts: map[string]int64{
				"deps/libonly-aaaa1111bbbb2222.rlib": 1024,
			},
		},
	)

	out, _, err := runCLI(t, []string{"size", "--max-size", "1MiB", "--delete", root}, cfg)
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	requireContains(t, out, "0 removed")
}
