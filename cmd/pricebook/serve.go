package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/pricebook/pkg/catalog/reload"
	"mercator-hq/pricebook/pkg/cli"
	"mercator-hq/pricebook/pkg/config"
	"mercator-hq/pricebook/pkg/processing"
	"mercator-hq/pricebook/pkg/server"
	"mercator-hq/pricebook/pkg/telemetry"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pricing API server",
	Long: `Start the JSON HTTP API together with the catalog watcher and the
scheduled catalog reload.

The watcher runs when catalog.path is set and catalog.watch is true. The
scheduler runs when catalog.reload_schedule is set. An invalid catalog file
keeps the current catalog in service.

Examples:
  # Start with default config
  pricebook serve

  # Override listen address
  pricebook serve --listen 0.0.0.0:9090

  # Validate config and catalog without starting the server
  pricebook serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config and catalog without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	if serveFlags.dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration valid\n", cli.MarkOK)
		fmt.Fprintf(cmd.OutOrStdout(), "%s Catalog valid (%d entries)\n", cli.MarkOK, len(cat.Entries()))
		return nil
	}

	tel, err := telemetry.New(&cfg.Telemetry)
	if err != nil {
		return cli.NewConfigError("telemetry", err.Error())
	}
	logger := tel.Logger()

	processor := processing.NewProcessor(cat, cfg,
		processing.WithMetrics(tel.Metrics()),
		processing.WithTracer(tel.Tracer()),
		processing.WithLogger(logger),
	)
	srv := server.NewServer(cfg, processor, tel)

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	printBanner(cmd, cfg, len(cat.Entries()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})

	if cfg.Catalog.Path != "" {
		reloader := reload.NewReloader(cfg.Catalog.Path, tel.Metrics(), processor)

		if cfg.Catalog.Watch {
			watcher, err := reload.NewWatcher(reloader, cfg.Catalog.Debounce)
			if err != nil {
				stop()
				_ = g.Wait()
				return cli.NewCommandError("serve", err)
			}
			g.Go(func() error {
				defer watcher.Stop()
				return watcher.Watch(gctx)
			})
		}

		if cfg.Catalog.ReloadSchedule != "" {
			scheduler := reload.NewScheduler(reloader, cfg.Catalog.ReloadSchedule)
			g.Go(func() error {
				return scheduler.Run(gctx)
			})
		}
	}

	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("telemetry shutdown failed", "error", shutdownErr)
	}

	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	slog.Info("pricebook stopped")
	return nil
}

func printBanner(cmd *cobra.Command, cfg *config.Config, entries int) {
	out := cmd.OutOrStdout()
	source := cfg.Catalog.Path
	if source == "" {
		source = "built-in"
	}
	fmt.Fprintf(out, "Pricebook %s\n", Version)
	fmt.Fprintf(out, "%s Catalog loaded: %s (%d entries)\n", cli.MarkOK, source, entries)
	fmt.Fprintf(out, "%s Listening on %s\n", cli.MarkOK, cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "%s Metrics at %s\n", cli.MarkOK, cfg.Telemetry.Metrics.Path)
	}
}
