package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/reconcile"
)

func (a *App) collapseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "collapse",
		Aliases: []string{"cleanup"},
		Short:   "Delete duplicate free blocks starting on the same day",
		Long: `For every free-block title in the sheet, searches the calendar from
months_past before today to the end of the sync window and keeps only the
first event per title and start day. Past events are included.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := log.WithRunID(cmd.Context())
			started := time.Now()
			command := a.commandName("collapse")

			source, provider, cfg, err := a.engine(ctx)
			if err != nil {
				a.record(ctx, command, started, reconcile.Summary{}, err)
				return err
			}

			a.l.Infof(ctx, "🧹 Collapsing duplicates in calendar %s", cfg.CalendarID)
			sum, err := reconcile.NewCollapser(source, provider, cfg, a.l).Run(ctx)
			state := reconcile.StateDone
			if err != nil {
				state = reconcile.StateFetch
			}
			a.record(ctx, command, started, reconcile.Summary{State: state, Deleted: sum.Deleted, Failed: sum.Failed}, err)
			if err != nil {
				return err
			}

			c := colorOK
			if sum.Failed > 0 {
				c = colorErr
			}
			c.Fprintf(cmd.OutOrStdout(), "✅ collapse finished: %d titles checked, %d duplicates deleted, %d failed\n",
				sum.Titles, sum.Deleted, sum.Failed)
			return nil
		},
	}
}
