package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cargosweep/internal/stamp"
	"cargosweep/internal/sweep"
)

func newAgeCommand(ctx *commandContext) *cobra.Command {
	var flags sweepFlags
	var days uint
	var useStamp bool

	cmd := &cobra.Command{
		Use:   "age [path...]",
		Short: "Remove artifacts older than a retention window",
		Long: `Remove build artifacts last touched strictly before the cutoff.

The cutoff is either --days before now, or the instant recorded by a
previous "cargo-sweep stamp" when --use-stamp is given. Artifacts exactly
at the cutoff are kept. Without --delete this only reports what a delete
run would free.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if useStamp {
				if cmd.Flags().Changed("days") {
					return fmt.Errorf("--days and --use-stamp are mutually exclusive")
				}
				return runSweep(ctx, cmd, args, &flags, "age", func(runCtx context.Context, s *sweep.Sweeper) (*sweep.EvictionReport, error) {
					loaded, err := stamp.Load(stampDir(args))
					if err != nil {
						return nil, err
					}
					return s.SweepOlderThanTime(runCtx, loaded.Cutoff())
				})
			}
			if days == 0 {
				return fmt.Errorf("%w: --days must be at least 1", sweep.ErrInvalidCutoff)
			}
			keep := time.Duration(days) * 24 * time.Hour
			return runSweep(ctx, cmd, args, &flags, "age", func(runCtx context.Context, s *sweep.Sweeper) (*sweep.EvictionReport, error) {
				return s.SweepOlderThan(runCtx, keep)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().UintVar(&days, "days", 30, "Retention window in days")
	cmd.Flags().BoolVar(&useStamp, "use-stamp", false, "Use the recorded stamp as the cutoff instead of --days")
	return cmd
}

// stampDir picks where the stamp marker is looked up: the first given
// path, or the working directory.
func stampDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
