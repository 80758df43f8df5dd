// Package fingerprint reads Cargo's on-disk bookkeeping records and
// correlates them with the physical build artifacts they describe.
//
// Each profile directory under a target root (debug, release, custom
// profiles) carries a .fingerprint directory whose immediate children are
// one compilation unit each. The parser reconstructs unit identity,
// timestamp, and originating toolchain from those records; the grouper then
// joins every unit against the profile's output directories so a unit and
// its artifacts can be deleted as one atomic group.
package fingerprint
