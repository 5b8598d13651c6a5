package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/reconcile"
)

func (a *App) desyncCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "desync",
		Short: "Remove every managed event that has not started yet",
		Long: `Deletes the busy markers and free blocks sheetsync manages in the sync
window, except those that already started. Other events are left alone.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := log.WithRunID(cmd.Context())
			if !yes && !a.dryRun && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("⚠️  Remove managed events from %s? (y/N): ", a.cfg.Calendar.CalendarID)) {
				fmt.Fprintln(cmd.OutOrStdout(), "❌ Cancelled")
				return nil
			}

			started := time.Now()
			command := a.commandName("desync")
			cfg, err := reconcile.NewConfig(a.cfg)
			if err != nil {
				return err
			}
			provider, err := a.newProvider(ctx)
			if err != nil {
				a.record(ctx, command, started, reconcile.Summary{}, err)
				return err
			}

			a.l.Infof(ctx, "🚀 Starting desync of calendar %s", cfg.CalendarID)
			// desync never reads the sheet
			sum, err := reconcile.NewDriver(nil, provider, cfg, a.l).Desync(ctx)
			a.record(ctx, command, started, sum, err)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), "desync", sum)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
