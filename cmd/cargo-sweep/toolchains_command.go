package main

import (
	"context"

	"github.com/spf13/cobra"

	"cargosweep/internal/sweep"
	"cargosweep/internal/toolchain"
)

func newToolchainsCommand(ctx *commandContext) *cobra.Command {
	var flags sweepFlags
	var keep []string

	cmd := &cobra.Command{
		Use:   "toolchains [path...]",
		Short: "Remove artifacts built by toolchains no longer kept",
		Long: `Remove build artifacts attributed to compiler toolchains outside the
keep-set. The keep-set is --keep when given, otherwise the toolchains
rustup reports as installed. Artifacts whose toolchain cannot be
determined are always kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keepSet := keep
			if len(keepSet) == 0 {
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				keepSet, err = toolchain.NewLister(logger).KeepSet(cmd.Context())
				if err != nil {
					return err
				}
			}
			return runSweep(ctx, cmd, args, &flags, "toolchains", func(runCtx context.Context, s *sweep.Sweeper) (*sweep.EvictionReport, error) {
				return s.SweepNotBuiltWith(runCtx, keepSet)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&keep, "keep", nil, "Toolchains to keep (default: installed rustup toolchains)")
	return cmd
}
