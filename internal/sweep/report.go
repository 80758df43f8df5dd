package sweep

import "fmt"

// GroupFailure records a group that could not be fully removed.
type GroupFailure struct {
	UnitID string
	Err    error
}

func (f GroupFailure) String() string {
	return fmt.Sprintf("%s: %v", f.UnitID, f.Err)
}

// EvictionReport aggregates the outcome of one sweep over one target root.
type EvictionReport struct {
	// ReclaimedBytes counts bytes actually freed, or the bytes a delete
	// run would free when dry-run.
	ReclaimedBytes uint64
	// RemovedGroups counts groups fully removed (or would-be in dry-run).
	RemovedGroups int
	// KeptGroups counts groups the policy retained.
	KeptGroups int
	// Failures lists groups whose removal was incomplete. Bytes freed
	// before the failing file are still counted in ReclaimedBytes; the
	// bookkeeping record of a failed group is left in place.
	Failures []GroupFailure
	// Decisions holds the per-group verdicts when verbose reporting was
	// requested; nil otherwise.
	Decisions []Decision
}
