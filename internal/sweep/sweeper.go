package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"cargosweep/internal/fingerprint"
	"cargosweep/internal/logging"
)

// lockFileName is created inside the target root while a delete run is in
// flight so concurrent sweeps of the same root cannot interleave.
const lockFileName = ".cargo-sweep.lock"

var (
	// ErrInvalidCutoff reports a non-positive retention duration or a
	// zero cutoff timestamp. Raised before any filesystem access.
	ErrInvalidCutoff = errors.New("invalid cutoff")
	// ErrEmptyKeepSet reports a toolchain sweep with nothing to keep,
	// which would schedule every attributed unit for removal.
	ErrEmptyKeepSet = errors.New("empty toolchain keep-set")
	// ErrRootLocked reports that another process holds the sweep lock on
	// the target root.
	ErrRootLocked = errors.New("target root is locked by another sweep")
)

// removeFunc allows tests to stub filesystem removal.
type removeFunc func(path string) error

// Options control sweep execution.
type Options struct {
	// Apply performs deletions. The default (false) is a dry run that
	// reports the bytes a delete run would free.
	Apply bool
	// Verbose includes per-group decisions in the report and logs each
	// verdict as it is made.
	Verbose bool
}

// Sweeper evaluates retention policies against one target root. Roots are
// independent: callers sweeping several roots construct one Sweeper per
// root, and a failure on one never affects the others.
type Sweeper struct {
	root    string
	logger  *slog.Logger
	apply   bool
	verbose bool
	remove  removeFunc
}

// New constructs a Sweeper for the given target root.
func New(root string, logger *slog.Logger, opts Options) *Sweeper {
	return &Sweeper{
		root:    filepath.Clean(root),
		logger:  logging.NewComponentLogger(logger, "sweep"),
		apply:   opts.Apply,
		verbose: opts.Verbose,
		remove:  os.RemoveAll,
	}
}

// Root returns the target root this sweeper operates on.
func (s *Sweeper) Root() string { return s.root }

// SweepOlderThan removes every group last built strictly earlier than
// keep ago. A unit exactly at the boundary is kept.
func (s *Sweeper) SweepOlderThan(ctx context.Context, keep time.Duration) (*EvictionReport, error) {
	if keep <= 0 {
		return nil, fmt.Errorf("%w: retention duration must be positive", ErrInvalidCutoff)
	}
	return s.run(ctx, AgePolicy{Cutoff: time.Now().Add(-keep)})
}

// SweepOlderThanTime removes every group last built strictly before the
// given absolute cutoff, typically loaded from a stamp file.
func (s *Sweeper) SweepOlderThanTime(ctx context.Context, cutoff time.Time) (*EvictionReport, error) {
	if cutoff.IsZero() {
		return nil, fmt.Errorf("%w: cutoff timestamp is zero", ErrInvalidCutoff)
	}
	return s.run(ctx, AgePolicy{Cutoff: cutoff})
}

// SweepNotBuiltWith removes every group whose toolchain is resolved and
// absent from keep. Units with an unresolved toolchain are kept. The
// keep-set must already be resolved by the caller (explicit flag value or
// the host's installed toolchains).
func (s *Sweeper) SweepNotBuiltWith(ctx context.Context, keep []string) (*EvictionReport, error) {
	if len(keep) == 0 {
		return nil, ErrEmptyKeepSet
	}
	return s.run(ctx, NewToolchainPolicy(keep))
}

// SweepUntilFits removes the oldest groups until the root's grouped total
// is at or under budget bytes. An already-fitting root removes nothing.
func (s *Sweeper) SweepUntilFits(ctx context.Context, budget uint64) (*EvictionReport, error) {
	return s.run(ctx, SizePolicy{Budget: budget})
}

func (s *Sweeper) run(ctx context.Context, policy Policy) (*EvictionReport, error) {
	units, err := fingerprint.ParseRoot(s.root, s.logger)
	if err != nil {
		return nil, err
	}
	groups := fingerprint.BuildGroups(s.root, units, s.logger)
	decisions := policy.Evaluate(groups)

	if s.apply {
		lock := flock.New(filepath.Join(s.root, lockFileName))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: %s", ErrRootLocked, s.root)
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	report := s.execute(ctx, decisions)

	s.logger.InfoContext(ctx, "sweep finished",
		logging.String("root", s.root),
		logging.String("policy", policy.Name()),
		logging.Bool("dry_run", !s.apply),
		logging.Uint64("reclaimed_bytes", report.ReclaimedBytes),
		logging.Int("removed_groups", report.RemovedGroups),
		logging.Int("kept_groups", report.KeptGroups),
		logging.Int("failed_groups", len(report.Failures)))
	return report, nil
}
