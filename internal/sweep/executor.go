package sweep

import (
	"context"
	"fmt"

	"cargosweep/internal/fingerprint"
	"cargosweep/internal/logging"
)

// execute materializes the decision set. In dry-run mode no file is
// touched; bytes are accumulated as if every removal succeeded. In apply
// mode each group's files are deleted before its bookkeeping record, and
// only bytes actually freed are credited.
func (s *Sweeper) execute(ctx context.Context, decisions []Decision) *EvictionReport {
	report := &EvictionReport{}
	if s.verbose {
		report.Decisions = decisions
	}

	for _, decision := range decisions {
		if s.verbose {
			s.logDecision(ctx, decision)
		}
		if !decision.Remove {
			report.KeptGroups++
			continue
		}
		if !s.apply {
			report.ReclaimedBytes += decision.Group.TotalSize
			report.RemovedGroups++
			continue
		}
		s.removeGroup(ctx, decision.Group, report)
	}
	return report
}

// removeGroup deletes a group's artifacts and then its record directory.
// On the first failing artifact the record is left in place so the unit
// stays enumerable; processing continues with the remaining groups.
func (s *Sweeper) removeGroup(ctx context.Context, group fingerprint.ArtifactGroup, report *EvictionReport) {
	for _, file := range group.Files {
		if err := s.remove(file.Path); err != nil {
			report.Failures = append(report.Failures, GroupFailure{
				UnitID: group.Unit.ID,
				Err:    fmt.Errorf("remove %s: %w", file.Path, err),
			})
			s.logger.WarnContext(ctx, "group removal incomplete; record kept",
				logging.String("unit", group.Unit.ID),
				logging.Error(err))
			return
		}
		report.ReclaimedBytes += file.Size
	}

	if err := s.remove(group.Unit.RecordDir); err != nil {
		report.Failures = append(report.Failures, GroupFailure{
			UnitID: group.Unit.ID,
			Err:    fmt.Errorf("remove record %s: %w", group.Unit.RecordDir, err),
		})
		s.logger.WarnContext(ctx, "record removal failed",
			logging.String("unit", group.Unit.ID),
			logging.Error(err))
		return
	}
	report.RemovedGroups++
}

func (s *Sweeper) logDecision(ctx context.Context, decision Decision) {
	verdict := "keep"
	if decision.Remove {
		verdict = "remove"
	}
	s.logger.InfoContext(ctx, "classified unit",
		logging.String("unit", decision.Group.Unit.ID),
		logging.String("profile", decision.Group.Unit.Profile),
		logging.String("toolchain", decision.Group.Unit.Toolchain),
		logging.String("policy", decision.Policy),
		logging.String("verdict", verdict),
		logging.Uint64("size_bytes", decision.Group.TotalSize))
}
