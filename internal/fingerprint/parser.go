package fingerprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"cargosweep/internal/logging"
)

// BookkeepingDirName is the per-profile directory Cargo stores fingerprint
// records in.
const BookkeepingDirName = ".fingerprint"

// ErrRootUnavailable reports that a target root or one of its bookkeeping
// directories could not be opened. It is the only fatal parsing condition;
// malformed individual records degrade to ToolchainUnknown instead.
var ErrRootUnavailable = errors.New("target root unavailable")

// ParseRoot enumerates every compilation unit recorded beneath a target
// root. The result is sorted by unit ID (then profile) so repeated runs
// over an unmodified cache report identically.
func ParseRoot(root string, logger *slog.Logger) ([]CompilationUnit, error) {
	logger = logging.NewComponentLogger(logger, "fingerprint")

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrRootUnavailable, root, err)
	}

	var units []CompilationUnit
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		profileDir := filepath.Join(root, entry.Name())
		bookkeeping := filepath.Join(profileDir, BookkeepingDirName)
		if _, statErr := os.Stat(bookkeeping); statErr != nil {
			// Not a profile directory; skip silently.
			continue
		}
		profileUnits, err := parseProfile(bookkeeping, entry.Name(), logger)
		if err != nil {
			return nil, err
		}
		units = append(units, profileUnits...)
	}

	sort.Slice(units, func(i, j int) bool {
		if units[i].ID == units[j].ID {
			return units[i].Profile < units[j].Profile
		}
		return units[i].ID < units[j].ID
	})
	return units, nil
}

func parseProfile(bookkeeping, profile string, logger *slog.Logger) ([]CompilationUnit, error) {
	entries, err := os.ReadDir(bookkeeping)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrRootUnavailable, bookkeeping, err)
	}

	units := make([]CompilationUnit, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			// Stray file in the bookkeeping directory; not a unit record.
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warn("skipping unreadable unit record",
				logging.String("unit", entry.Name()),
				logging.Error(err))
			continue
		}
		recordDir := filepath.Join(bookkeeping, entry.Name())
		units = append(units, CompilationUnit{
			ID:           entry.Name(),
			Key:          unitKey(entry.Name()),
			Profile:      profile,
			Toolchain:    readToolchain(recordDir),
			LastModified: info.ModTime(),
			RecordDir:    recordDir,
		})
	}
	return units, nil
}

// readToolchain recovers the toolchain from a unit's record directory:
// first from any JSON record file, then from a companion dep-info file.
// Absent or malformed metadata yields ToolchainUnknown rather than an
// error so one bad record cannot abort a full enumeration.
func readToolchain(recordDir string) string {
	entries, err := os.ReadDir(recordDir)
	if err != nil {
		return ToolchainUnknown
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if filepath.Ext(name) != ".json" {
			continue
		}
		if tc := toolchainFromJSON(filepath.Join(recordDir, name)); tc != "" {
			return tc
		}
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "dep-") {
			continue
		}
		if tc := toolchainFromDepInfo(filepath.Join(recordDir, name)); tc != "" {
			return tc
		}
	}
	return ToolchainUnknown
}

func toolchainFromJSON(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return ""
	}
	return strings.TrimSpace(rec.toolchain())
}

var depInfoRustcPattern = regexp.MustCompile(`rustc ([0-9]+\.[0-9]+\.[0-9][^\s]*)`)

// toolchainFromDepInfo scans the head of a dependency-info file for a rustc
// version marker. These files are mostly opaque, so only a bounded prefix
// is inspected.
func toolchainFromDepInfo(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	head := make([]byte, 4096)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return ""
	}
	match := depInfoRustcPattern.FindSubmatch(head[:n])
	if match == nil {
		return ""
	}
	return string(match[1])
}
