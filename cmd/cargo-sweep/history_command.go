package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past sweep runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, enabled, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if !enabled {
				return fmt.Errorf("run history is disabled; enable it in the configuration file")
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No sweep runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.CreatedAt.Local().Format(time.RFC3339),
					run.Policy,
					run.Root,
					yesNo(run.DryRun),
					humanize.IBytes(run.ReclaimedBytes),
					strconv.Itoa(run.RemovedGroups),
					strconv.Itoa(run.KeptGroups),
					strconv.Itoa(run.FailedGroups),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Policy", "Root", "Dry Run", "Reclaimed", "Removed", "Kept", "Failed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON instead of text")
	return cmd
}
