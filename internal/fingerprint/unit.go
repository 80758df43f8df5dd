package fingerprint

import (
	"encoding/json"
	"time"
)

// ToolchainUnknown marks a unit whose originating toolchain could not be
// recovered from its bookkeeping record.
const ToolchainUnknown = "unknown"

// CompilationUnit is one fingerprint record in a target directory.
type CompilationUnit struct {
	// ID is the bookkeeping directory name, e.g. "serde-17f48a92cd1b2f3e".
	// Unique within a target root.
	ID string
	// Key is the hash-derived suffix of ID used to match output files.
	Key string
	// Profile is the profile directory the unit belongs to (debug,
	// release, ...). Reporting only.
	Profile string
	// Toolchain identifies the compiler version/channel that produced the
	// unit, or ToolchainUnknown.
	Toolchain string
	// LastModified is the bookkeeping directory's modification time, a
	// proxy for when the unit was last built.
	LastModified time.Time
	// RecordDir is the absolute path of the bookkeeping directory.
	RecordDir string
}

// record mirrors the subset of a fingerprint JSON file we care about.
// Cargo's format varies across versions; unknown fields are ignored and a
// record that fails to parse simply yields an unknown toolchain.
type record struct {
	RustcVersion string          `json:"rustc_version"`
	Rustc        json.RawMessage `json:"rustc"`
}

// toolchain extracts a toolchain name from the record, or "".
func (r record) toolchain() string {
	if r.RustcVersion != "" {
		return r.RustcVersion
	}
	var s string
	if len(r.Rustc) > 0 && json.Unmarshal(r.Rustc, &s) == nil {
		return s
	}
	return ""
}

// unitKey derives the file-matching key from a unit directory name. Cargo
// names these directories <crate>-<hash>; output files embed the same hash.
// When the name carries no recognizable hash suffix the full name is used.
func unitKey(id string) string {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] != '-' {
			continue
		}
		suffix := id[i+1:]
		if isHashSuffix(suffix) {
			return suffix
		}
		break
	}
	return id
}

func isHashSuffix(s string) bool {
	if len(s) < 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
