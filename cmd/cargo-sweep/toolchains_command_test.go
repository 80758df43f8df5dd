package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cargosweep/internal/testsupport"
)

func TestToolchainsKeepFlagRemovesOthers(t *testing.T) {
	cfg := writeTestConfig(t, false)
	root := testsupport.WriteTarget(t,
		testsupport.Unit{
			ID:        "kept-aaaa1111bbbb2222",
			Toolchain: "1.75.0",
			BuiltAt:   time.Now(),
			Artifacts: map[string]int64{
				"deps/libkept-aaaa1111bbbb2222.rlib": 1024,
			},
		},
		testsupport.Unit{
			ID:        "stale-cccc3333dddd4444",
			Toolchain: "1.60.0",
			BuiltAt:   time.Now(),
			Artifacts: map[string]int64{
				"deps/libstale-cccc3333dddd4444.rlib": 1024,
			},
		},
		testsupport.Unit{
			ID:        "mystery-eeee5555ffff6666",
			BuiltAt:   time.Now(),
			Artifacts: map[string]int64{
				"deps/libmystery-eeee5555ffff6666.rlib": 1024,
			},
		},
	)

	out, _, err := runCLI(t, []string{"toolchains", "--keep", "1.75.0", "--delete", root}, cfg)
	if err != nil {
		t.Fatalf("toolchains --delete: %v", err)
	}
	requireContains(t, out, "1 removed")

	stale := filepath.Join(root, "debug", "deps", "libstale-cccc3333dddd4444.rlib")
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale toolchain artifact removed, stat err: %v", err)
	}
	kept := filepath.Join(root, "debug", "deps", "libkept-aaaa1111bbbb2222.rlib")
	if _, err := os.Stat(kept); err != nil {
		t.Fatalf("kept toolchain artifact must survive: %v", err)
	}
	mystery := filepath.Join(root, "debug", "deps", "libmystery-eeee5555ffff6666.rlib")
	if _, err := os.Stat(mystery); err != nil {
		t.Fatalf("unresolved toolchain artifact must survive: %v", err)
	}
}
