package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cargosweep/internal/cargo"
	"cargosweep/internal/config"
	"cargosweep/internal/discover"
	"cargosweep/internal/history"
	"cargosweep/internal/logging"
	"cargosweep/internal/sweep"
)

// sweepFlags are the flags shared by every sweeping subcommand.
type sweepFlags struct {
	apply         bool
	recursive     bool
	includeHidden bool
	jsonOut       bool
}

func (f *sweepFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.apply, "delete", "d", false, "Delete matching artifacts instead of reporting them")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "Sweep every Cargo project found under the given paths")
	cmd.Flags().BoolVar(&f.includeHidden, "hidden", false, "Descend into hidden directories during recursive discovery")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Emit machine-readable JSON instead of text")
}

// resolveRoots turns command-line paths into the target directories to
// sweep. A path naming a Cargo project resolves to its target directory;
// any other path is taken as a target directory itself. With recursive
// set, each path is walked for projects instead.
func resolveRoots(args []string, recursive, includeHidden bool, logger *slog.Logger) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	seen := make(map[string]struct{})
	var roots []string
	add := func(root string) {
		if _, dup := seen[root]; dup {
			return
		}
		seen[root] = struct{}{}
		roots = append(roots, root)
	}

	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return nil, err
		}

		if recursive {
			found, err := discover.FindProjects(path, includeHidden, logger)
			if err != nil {
				return nil, fmt.Errorf("discover projects under %s: %w", path, err)
			}
			if len(found) == 0 {
				logger.Warn("no Cargo projects with a target directory found",
					logging.String("path", path))
			}
			for _, target := range found {
				add(target)
			}
			continue
		}

		if cargo.IsProject(path) {
			target, err := cargo.ExistingTargetDir(path)
			if err != nil {
				return nil, err
			}
			add(target)
			continue
		}
		add(path)
	}

	sort.Strings(roots)
	return roots, nil
}

// sweepResult is the per-root outcome surfaced to the user.
type sweepResult struct {
	Root           string   `json:"root"`
	Policy         string   `json:"policy"`
	DryRun         bool     `json:"dry_run"`
	ReclaimedBytes uint64   `json:"reclaimed_bytes"`
	Reclaimed      string   `json:"reclaimed"`
	RemovedGroups  int      `json:"removed_groups"`
	KeptGroups     int      `json:"kept_groups"`
	Failures       []string `json:"failures,omitempty"`
}

// runSweep resolves roots and applies fn to each one sequentially. A root
// that fails is reported and does not stop the remaining roots.
func runSweep(ctx *commandContext, cmd *cobra.Command, args []string, flags *sweepFlags, policy string, fn func(context.Context, *sweep.Sweeper) (*sweep.EvictionReport, error)) error {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	roots, err := resolveRoots(args, flags.recursive, ctx.includeHidden(flags.includeHidden), logger)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return fmt.Errorf("nothing to sweep")
	}

	store, historyEnabled, err := ctx.openHistory()
	if err != nil {
		logger.Warn("run history unavailable", logging.Error(err))
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var (
		results []sweepResult
		failed  int
	)
	for _, root := range roots {
		sweeper := sweep.New(root, logger, sweep.Options{
			Apply:   flags.apply,
			Verbose: ctx.verbose(),
		})
		report, err := fn(cmd.Context(), sweeper)
		if err != nil {
			failed++
			logger.Error("sweep failed",
				logging.String("root", root),
				logging.Error(err))
			continue
		}

		result := sweepResult{
			Root:           root,
			Policy:         policy,
			DryRun:         !flags.apply,
			ReclaimedBytes: report.ReclaimedBytes,
			Reclaimed:      humanize.IBytes(report.ReclaimedBytes),
			RemovedGroups:  report.RemovedGroups,
			KeptGroups:     report.KeptGroups,
		}
		for _, failure := range report.Failures {
			result.Failures = append(result.Failures, failure.String())
		}
		results = append(results, result)

		if !flags.jsonOut {
			printSweepResult(cmd, result, report)
		}
		if historyEnabled && store != nil {
			recordRun(cmd.Context(), store, logger, result)
		}
	}

	if flags.jsonOut {
		if err := writeJSON(cmd, results); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d roots failed", failed, len(roots))
	}
	return nil
}

func printSweepResult(cmd *cobra.Command, result sweepResult, report *sweep.EvictionReport) {
	out := cmd.OutOrStdout()

	verb := "freed"
	if result.DryRun {
		verb = "would free"
	}
	fmt.Fprintf(out, "%s: %s %s (%d removed, %d kept)\n",
		result.Root, verb, result.Reclaimed, result.RemovedGroups, result.KeptGroups)

	for _, failure := range result.Failures {
		fmt.Fprintf(out, "  failed: %s\n", failure)
	}

	if len(report.Decisions) > 0 {
		fmt.Fprintln(out, renderDecisions(report.Decisions))
	}
}

func renderDecisions(decisions []sweep.Decision) string {
	rows := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		verdict := "keep"
		if d.Remove {
			verdict = "remove"
		}
		rows = append(rows, []string{
			d.Group.Unit.ID,
			d.Group.Unit.Profile,
			d.Group.Unit.Toolchain,
			d.Group.Unit.LastModified.Format(time.RFC3339),
			humanize.IBytes(d.Group.TotalSize),
			verdict,
		})
	}
	return renderTable(
		[]string{"Unit", "Profile", "Toolchain", "Last Built", "Size", "Verdict"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func recordRun(ctx context.Context, store *history.Store, logger *slog.Logger, result sweepResult) {
	_, err := store.RecordRun(ctx, history.Run{
		Root:           result.Root,
		Policy:         result.Policy,
		DryRun:         result.DryRun,
		ReclaimedBytes: result.ReclaimedBytes,
		RemovedGroups:  result.RemovedGroups,
		KeptGroups:     result.KeptGroups,
		FailedGroups:   len(result.Failures),
	})
	if err != nil {
		logger.Warn("could not record sweep run",
			logging.String("root", result.Root),
			logging.Error(err))
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
