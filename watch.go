package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/bobuk/sheetsync/internal/store"
)

func (a *App) watchCmd() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run sync on a cron schedule until interrupted",
		Long: `Runs sync once, then on every tick of the schedule. A tick is skipped
while the previous sync is still running, or when the last recorded sync
started less than sync.min_interval ago.`,
		Example: `  sheetsync watch
  sheetsync watch --schedule "0 * * * *"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if schedule == "" {
				schedule = a.cfg.Sync.Schedule
			}
			sched, err := cron.ParseStandard(schedule)
			if err != nil {
				return fmt.Errorf("parse schedule %q: %w", schedule, err)
			}

			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			// the first run and the ticks share one chain, so they never overlap
			job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).
				Then(cron.FuncJob(func() { a.tick(ctx) }))

			c := cron.New(cron.WithLocation(loc))
			c.Schedule(sched, job)

			a.l.Infof(ctx, "👀 Watching with schedule %q", schedule)
			job.Run()
			c.Start()

			<-ctx.Done()
			<-c.Stop().Done()
			a.l.Infof(ctx, "watch stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule, defaults to sync.schedule")
	return cmd
}

func (a *App) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if wait := a.untilDue(ctx, time.Now()); wait > 0 {
		a.l.Debugf(ctx, "last sync too recent, next allowed in %s", wait.Round(time.Second))
		return
	}

	sum, err := a.runSync(ctx)
	if err != nil {
		a.l.Errorf(ctx, "sync failed: %v", err)
		return
	}
	printSummary(a.root.OutOrStdout(), "sync", sum)
}

// untilDue returns how long until the minimum interval since the last
// recorded sync has passed, or zero when a sync may run now.
func (a *App) untilDue(ctx context.Context, now time.Time) time.Duration {
	last, err := a.store.LastRun(ctx, a.commandName("sync"))
	if errors.Is(err, store.ErrNotFound) {
		return 0
	}
	if err != nil {
		a.l.Warnf(ctx, "read last run: %v", err)
		return 0
	}
	if wait := last.Add(a.cfg.Sync.MinInterval.Duration).Sub(now); wait > 0 {
		return wait
	}
	return 0
}
