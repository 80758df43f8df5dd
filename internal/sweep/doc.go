// Package sweep implements the eviction engine for Cargo target
// directories.
//
// It classifies artifact groups produced by the fingerprint package under
// one of three retention policies (age cutoff, toolchain keep-set, size
// budget) and materializes the resulting deletion plan. Dry-run is the
// default; deletion is atomic per group, and per-group failures downgrade
// to partial-success reporting so a run reclaims whatever is safely
// available.
package sweep
