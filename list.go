package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobuk/sheetsync/internal/store"
)

func (a *App) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"list"},
		Short:   "List recent runs",
		Example: `  sheetsync history
  sheetsync history --limit 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := a.store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of runs to show")
	return cmd
}

func printRuns(out io.Writer, runs []store.Run) {
	colorHeader.Fprintln(out, "📋 Recent runs:")
	for _, r := range runs {
		took := r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond)
		fmt.Fprintf(out, "  %s %-16s ", r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Command)

		switch {
		case r.Error != "":
			colorErr.Fprintf(out, "%-12s %s", r.State, r.Error)
		case r.Failed > 0:
			colorWarn.Fprintf(out, "%-12s +%d ~%d -%d (kept %d, failed %d)",
				r.State, r.Created, r.Updated, r.Deleted, r.Skipped, r.Failed)
		default:
			colorOK.Fprintf(out, "%-12s +%d ~%d -%d (kept %d)",
				r.State, r.Created, r.Updated, r.Deleted, r.Skipped)
		}
		colorMuted.Fprintf(out, " %s\n", took)
	}
}
