package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cargosweep/internal/sweep"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var (
		recursive     bool
		includeHidden bool
		jsonOut       bool
	)

	cmd := &cobra.Command{
		Use:   "stats [path...]",
		Short: "Show target directory usage without removing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			roots, err := resolveRoots(args, recursive, ctx.includeHidden(includeHidden), logger)
			if err != nil {
				return err
			}
			if len(roots) == 0 {
				return fmt.Errorf("nothing to inspect")
			}

			var all []*sweep.Stats
			for _, root := range roots {
				stats, err := sweep.CollectStats(root, logger)
				if err != nil {
					return err
				}
				all = append(all, stats)
			}

			if jsonOut {
				return writeJSON(cmd, all)
			}
			out := cmd.OutOrStdout()
			for _, stats := range all {
				fmt.Fprintln(out, renderStats(stats))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Inspect every Cargo project found under the given paths")
	cmd.Flags().BoolVar(&includeHidden, "hidden", false, "Descend into hidden directories during recursive discovery")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON instead of text")
	return cmd
}

func renderStats(stats *sweep.Stats) string {
	rows := make([][]string, 0, len(stats.Profiles)+1)
	for _, profile := range stats.Profiles {
		rows = append(rows, []string{
			profile.Profile,
			strconv.Itoa(profile.Units),
			humanize.IBytes(profile.TotalBytes),
		})
	}
	rows = append(rows, []string{
		"total",
		strconv.Itoa(stats.Units),
		humanize.IBytes(stats.TotalBytes),
	})

	table := renderTable(
		[]string{"Profile", "Units", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	)

	summary := fmt.Sprintf("%s\n%s\n%d units without a resolved toolchain; disk: %s free of %s",
		stats.Root, table,
		stats.UnknownToolchain,
		humanize.IBytes(stats.DiskFreeBytes),
		humanize.IBytes(stats.DiskTotalBytes))
	return summary
}
