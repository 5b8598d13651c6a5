package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/reconcile"
	"github.com/bobuk/sheetsync/internal/store"
)

var (
	colorOK     = color.New(color.FgGreen)
	colorWarn   = color.New(color.FgYellow)
	colorErr    = color.New(color.FgRed, color.Bold)
	colorHeader = color.New(color.Bold)
	colorMuted  = color.New(color.Faint)
)

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

// commandName is what a run is recorded as; dry runs are kept apart so
// they never satisfy the watch interval.
func (a *App) commandName(name string) string {
	if a.dryRun {
		return name + "-dry-run"
	}
	return name
}

func (a *App) record(ctx context.Context, command string, started time.Time, sum reconcile.Summary, runErr error) {
	r := store.Run{
		ID:         log.RunID(ctx),
		Command:    command,
		StartedAt:  started,
		FinishedAt: time.Now(),
		State:      sum.State.String(),
		Created:    sum.Created,
		Updated:    sum.Updated,
		Deleted:    sum.Deleted,
		Skipped:    sum.Skipped,
		Failed:     sum.Failed,
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	if err := a.store.RecordRun(ctx, r); err != nil {
		a.l.Warnf(ctx, "record run: %v", err)
	}
}

func printSummary(out io.Writer, command string, sum reconcile.Summary) {
	if sum.State == reconcile.StateAborted {
		colorWarn.Fprintf(out, "⚠️  %s aborted: the table has no usable rows, calendar left untouched\n", command)
		return
	}

	c := colorOK
	mark := "✅"
	if sum.Failed > 0 {
		c, mark = colorErr, "❗️"
	}
	c.Fprintf(out, "%s %s finished: %d created, %d updated, %d deleted", mark, command, sum.Created, sum.Updated, sum.Deleted)
	if sum.Skipped > 0 {
		colorMuted.Fprintf(out, ", %d past kept", sum.Skipped)
	}
	if sum.Failed > 0 {
		colorErr.Fprintf(out, ", %d failed", sum.Failed)
	}
	fmt.Fprintln(out)
}
