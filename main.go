package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bobuk/sheetsync/internal/config"
	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/store"
)

var (
	// Version is set at build time
	Version = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp()
	err := app.root.ExecuteContext(ctx)
	if cerr := app.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// App holds what every command needs once the config has been loaded.
type App struct {
	root       *cobra.Command
	configPath string
	dryRun     bool

	cfg        *config.Config
	l          log.Logger
	store      *store.Store
	httpClient *http.Client
}

func NewApp() *App {
	a := &App{}

	a.root = &cobra.Command{
		Use:   "sheetsync",
		Short: "Mirror a busy/free spreadsheet into a calendar",
		Long: `sheetsync reads rows describing busy time and free blocks from a
spreadsheet and makes a calendar match them. Events it did not create are
never touched, and events that already started are never deleted.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd.Context()) },
	}

	a.root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.FileName, "config file")
	a.root.PersistentFlags().BoolVarP(&a.dryRun, "dry-run", "n", false, "log calendar changes instead of making them")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.authCmd())
	a.root.AddCommand(a.forgetCmd())
	a.root.AddCommand(a.syncCmd())
	a.root.AddCommand(a.desyncCmd())
	a.root.AddCommand(a.collapseCmd())
	a.root.AddCommand(a.historyCmd())
	a.root.AddCommand(a.watchCmd())

	return a
}

func (a *App) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.l = log.Init(log.ZapConfig{
		Level:        cfg.General.LogLevel,
		Encoding:     cfg.General.LogEncoding,
		ColorEnabled: isatty.IsTerminal(os.Stderr.Fd()),
	})

	a.store, err = store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	a.l.Debugf(ctx, "config loaded, database %s", cfg.DBPath())
	return nil
}

func (a *App) close() error {
	if a.l != nil {
		_ = a.l.Sync()
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		// no config needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sheetsync %s\n", Version)
		},
	}
}
