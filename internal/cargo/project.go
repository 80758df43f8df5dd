package cargo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ManifestFileName is the canonical Cargo manifest name.
const ManifestFileName = "Cargo.toml"

// TargetDirEnv overrides the target directory location when set, matching
// Cargo's own behavior.
const TargetDirEnv = "CARGO_TARGET_DIR"

// Package is the [package] table of a manifest.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Workspace is the [workspace] table of a manifest.
type Workspace struct {
	Members []string `toml:"members"`
}

// Manifest is the subset of Cargo.toml the sweeper needs.
type Manifest struct {
	Package   *Package   `toml:"package"`
	Workspace *Workspace `toml:"workspace"`
}

// IsWorkspaceRoot reports whether the manifest declares a workspace.
func (m *Manifest) IsWorkspaceRoot() bool {
	return m.Workspace != nil
}

// Name returns the package name, or "" for a bare workspace manifest.
func (m *Manifest) Name() string {
	if m.Package == nil {
		return ""
	}
	return m.Package.Name
}

// LoadManifest parses the Cargo.toml at path. A file that is valid TOML
// but declares neither a package nor a workspace is rejected.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if manifest.Package == nil && manifest.Workspace == nil {
		return nil, fmt.Errorf("%s declares neither [package] nor [workspace]", path)
	}
	return &manifest, nil
}

// IsProject reports whether dir contains a Cargo manifest.
func IsProject(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ManifestFileName))
	return err == nil && info.Mode().IsRegular()
}

// buildConfig is the [build] table of .cargo/config.toml.
type buildConfig struct {
	Build struct {
		TargetDir string `toml:"target-dir"`
	} `toml:"build"`
}

// TargetDir resolves a project's target directory the way Cargo would:
// the CARGO_TARGET_DIR environment variable, then build.target-dir from
// .cargo/config.toml, then <project>/target. The returned path is not
// guaranteed to exist.
func TargetDir(projectDir string) string {
	if env := strings.TrimSpace(os.Getenv(TargetDirEnv)); env != "" {
		return resolveAgainst(projectDir, env)
	}
	if configured := configuredTargetDir(projectDir); configured != "" {
		return resolveAgainst(projectDir, configured)
	}
	return filepath.Join(projectDir, "target")
}

// ExistingTargetDir resolves the target directory and verifies it exists.
func ExistingTargetDir(projectDir string) (string, error) {
	dir := TargetDir(projectDir)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("target directory %s does not exist", dir)
		}
		return "", fmt.Errorf("stat target directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("target path %s is not a directory", dir)
	}
	return dir, nil
}

func configuredTargetDir(projectDir string) string {
	for _, name := range []string{"config.toml", "config"} {
		data, err := os.ReadFile(filepath.Join(projectDir, ".cargo", name))
		if err != nil {
			continue
		}
		var cfg buildConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			continue
		}
		if dir := strings.TrimSpace(cfg.Build.TargetDir); dir != "" {
			return dir
		}
	}
	return ""
}

func resolveAgainst(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
