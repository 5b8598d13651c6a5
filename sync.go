package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/reconcile"
)

func (a *App) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Make the calendar match the sheet",
		Long: `Reads the sheet, lists the calendar over the sync window and applies
the difference: stale managed events are deleted, busy markers recolored,
missing events created. With --dry-run the changes are only logged.`,
		Example: `  sheetsync sync
  sheetsync sync --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := a.runSync(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), "sync", sum)
			return nil
		},
	}
}

// runSync performs and records one reconciliation.
func (a *App) runSync(ctx context.Context) (reconcile.Summary, error) {
	ctx = log.WithRunID(ctx)
	started := time.Now()
	command := a.commandName("sync")

	source, provider, cfg, err := a.engine(ctx)
	if err != nil {
		a.record(ctx, command, started, reconcile.Summary{}, err)
		return reconcile.Summary{}, err
	}

	a.l.Infof(ctx, "🚀 Starting sync of calendar %s", cfg.CalendarID)
	sum, err := reconcile.NewDriver(source, provider, cfg, a.l).Run(ctx)
	a.record(ctx, command, started, sum, err)
	return sum, err
}
