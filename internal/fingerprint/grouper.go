package fingerprint

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cargosweep/internal/logging"
)

// outputSubdirs are the per-profile directories scanned for unit artifacts,
// in addition to the profile directory itself. Incremental state uses its
// own keying scheme and is left alone.
var outputSubdirs = []string{"deps", "build", "examples"}

// ArtifactFile is one filesystem entry belonging to a group. Directories
// (build script output dirs) are sized recursively and removed whole.
type ArtifactFile struct {
	Path string
	Size uint64
}

// ArtifactGroup pairs a compilation unit with every output file that must
// be deleted together with its bookkeeping record.
type ArtifactGroup struct {
	Unit CompilationUnit
	// Files holds matched artifacts sorted by path. A unit that produced
	// no standalone artifact has an empty set; its record alone is removed.
	Files []ArtifactFile
	// TotalSize is the combined size of Files at classification time.
	TotalSize uint64
}

// BuildGroups joins parsed units against the target root's output
// directories, producing one group per unit. The join is an explicit
// unit-to-files index built once per run; iteration order never affects
// the grouping, only the (sorted) reporting order.
func BuildGroups(root string, units []CompilationUnit, logger *slog.Logger) []ArtifactGroup {
	logger = logging.NewComponentLogger(logger, "fingerprint")

	groups := make([]ArtifactGroup, len(units))
	byProfile := make(map[string][]*ArtifactGroup)
	for i := range units {
		groups[i] = ArtifactGroup{Unit: units[i]}
		byProfile[units[i].Profile] = append(byProfile[units[i].Profile], &groups[i])
	}

	for profile, profileGroups := range byProfile {
		profileDir := filepath.Join(root, profile)
		scanOutputDir(profileDir, profileGroups, true, logger)
		for _, sub := range outputSubdirs {
			scanOutputDir(filepath.Join(profileDir, sub), profileGroups, false, logger)
		}
	}

	for i := range groups {
		sort.Slice(groups[i].Files, func(a, b int) bool {
			return groups[i].Files[a].Path < groups[i].Files[b].Path
		})
		for _, f := range groups[i].Files {
			groups[i].TotalSize += f.Size
		}
	}
	return groups
}

func scanOutputDir(dir string, groups []*ArtifactGroup, profileRoot bool, logger *slog.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("skipping unreadable output directory",
				logging.String("dir", dir),
				logging.Error(err))
		}
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if profileRoot && name == BookkeepingDirName {
			continue
		}
		group := matchGroup(groups, name)
		if group == nil {
			continue
		}
		path := filepath.Join(dir, name)
		size, err := entrySize(path, entry)
		if err != nil {
			logger.Warn("skipping unmeasurable artifact",
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		group.Files = append(group.Files, ArtifactFile{Path: path, Size: size})
	}
}

// matchGroup finds the unit whose hash key the entry name embeds. Keys are
// long hex suffixes, so collisions between units are not expected; the
// first match in unit order wins to keep grouping deterministic.
func matchGroup(groups []*ArtifactGroup, name string) *ArtifactGroup {
	for _, group := range groups {
		if strings.Contains(name, group.Unit.Key) {
			return group
		}
	}
	return nil
}

func entrySize(path string, entry os.DirEntry) (uint64, error) {
	if entry.IsDir() {
		return dirSize(path)
	}
	info, err := entry.Info()
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

func dirSize(path string) (uint64, error) {
	var size uint64
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += uint64(info.Size())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}
