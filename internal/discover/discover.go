package discover

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"cargosweep/internal/cargo"
	"cargosweep/internal/logging"
)

// FindProjects walks root and returns the existing target directories of
// every Cargo project beneath it, deduplicated (workspace members share
// one target) and sorted. Hidden directories are skipped unless
// includeHidden, and subtrees under an already-collected target directory
// are never descended into.
func FindProjects(root string, includeHidden bool, logger *slog.Logger) ([]string, error) {
	logger = logging.NewComponentLogger(logger, "discover")

	targets := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable path",
				logging.String("path", path),
				logging.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && !includeHidden && isHidden(d.Name()) {
			return fs.SkipDir
		}
		if underScheduledTarget(targets, path) {
			// Already cleaning everything here; no reason to look inside.
			return fs.SkipDir
		}
		if !cargo.IsProject(path) {
			return nil
		}
		target, err := cargo.ExistingTargetDir(path)
		if err != nil {
			logger.Debug("project has no target directory",
				logging.String("project", path),
				logging.Error(err))
			return fs.SkipDir
		}
		targets[target] = struct{}{}
		// No reason to look at src and such.
		return fs.SkipDir
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(targets))
	for target := range targets {
		out = append(out, target)
	}
	sort.Strings(out)
	return out, nil
}

// isHidden reports whether a name is a unix style hidden entry.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// underScheduledTarget checks every ancestor of path against the set of
// target directories collected so far.
func underScheduledTarget(targets map[string]struct{}, path string) bool {
	for p := path; ; {
		if _, ok := targets[p]; ok {
			return true
		}
		parent := filepath.Dir(p)
		if parent == p {
			return false
		}
		p = parent
	}
}
