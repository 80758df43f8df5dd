package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cargosweep/internal/config"
	"cargosweep/internal/stamp"
)

func newStampCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stamp [path]",
		Short: "Record the current time for a later age sweep",
		Long: `Write a timestamp marker into the given directory (default: the
working directory). A later "cargo-sweep age --use-stamp" removes
everything not rebuilt since the marker was taken.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				return err
			}

			s := stamp.New()
			if err := s.Store(expanded); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stamped %s at %s\n",
				expanded, s.Timestamp.Format(time.RFC3339))
			return nil
		},
	}
	return cmd
}
