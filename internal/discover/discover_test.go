package discover

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"cargosweep/internal/cargo"
	"cargosweep/internal/logging"
)

func writeProject(t *testing.T, dir string, withTarget bool) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n"
	if err := os.WriteFile(filepath.Join(dir, cargo.ManifestFileName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if withTarget {
		if err := os.MkdirAll(filepath.Join(dir, "target", "debug"), 0o755); err != nil {
			t.Fatalf("mkdir target: %v", err)
		}
	}
}

func TestFindProjectsCollectsTargets(t *testing.T) {
	t.Setenv(cargo.TargetDirEnv, "")
	root := t.TempDir()
	writeProject(t, filepath.Join(root, "alpha"), true)
	writeProject(t, filepath.Join(root, "beta"), true)
	writeProject(t, filepath.Join(root, "never-built"), false)

	got, err := FindProjects(root, false, logging.NewNop())
	if err != nil {
		t.Fatalf("find projects: %v", err)
	}
	want := []string{
		filepath.Join(root, "alpha", "target"),
		filepath.Join(root, "beta", "target"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("targets = %v, want %v", got, want)
	}
}

func TestFindProjectsSkipsHidden(t *testing.T) {
	t.Setenv(cargo.TargetDirEnv, "")
	root := t.TempDir()
	writeProject(t, filepath.Join(root, ".cache", "proj"), true)

	got, err := FindProjects(root, false, logging.NewNop())
	if err != nil {
		t.Fatalf("find projects: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("hidden project should be skipped, got %v", got)
	}

	got, err = FindProjects(root, true, logging.NewNop())
	if err != nil {
		t.Fatalf("find projects (hidden): %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected hidden project with --hidden, got %v", got)
	}
}

func TestFindProjectsSharedTargetDeduplicated(t *testing.T) {
	root := t.TempDir()
	shared := filepath.Join(root, "zz-shared-target")
	t.Setenv(cargo.TargetDirEnv, shared)
	if err := os.MkdirAll(shared, 0o755); err != nil {
		t.Fatalf("mkdir shared: %v", err)
	}
	writeProject(t, filepath.Join(root, "alpha"), false)
	writeProject(t, filepath.Join(root, "beta"), false)
	// A project nested inside the scheduled target dir must not be seen.
	writeProject(t, filepath.Join(shared, "vendored"), false)

	got, err := FindProjects(root, false, logging.NewNop())
	if err != nil {
		t.Fatalf("find projects: %v", err)
	}
	if !reflect.DeepEqual(got, []string{shared}) {
		t.Fatalf("targets = %v, want just %s", got, shared)
	}
}

func TestFindProjectsMissingRoot(t *testing.T) {
	if _, err := FindProjects(filepath.Join(t.TempDir(), "nope"), false, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing root")
	}
}
