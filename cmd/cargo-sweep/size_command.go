package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cargosweep/internal/sweep"
)

func newSizeCommand(ctx *commandContext) *cobra.Command {
	var flags sweepFlags
	var maxSize string

	cmd := &cobra.Command{
		Use:   "size [path...]",
		Short: "Remove the oldest artifacts until a size budget fits",
		Long: `Remove build artifacts oldest-first until the target directory's
tracked total is at or under --max-size. A directory already within
budget removes nothing. Without --delete this only reports what a
delete run would free.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			budget, err := humanize.ParseBytes(maxSize)
			if err != nil {
				return fmt.Errorf("parse --max-size %q: %w", maxSize, err)
			}
			return runSweep(ctx, cmd, args, &flags, "size", func(runCtx context.Context, s *sweep.Sweeper) (*sweep.EvictionReport, error) {
				return s.SweepUntilFits(runCtx, budget)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&maxSize, "max-size", "", "Size budget, e.g. 10GB or 512MiB")
	_ = cmd.MarkFlagRequired("max-size")
	return cmd
}
