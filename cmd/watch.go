package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/server"
)

func newWatchCmd() *cobra.Command {
	var (
		schedule    string
		metricsAddr string
		immediate   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process the inbox on a schedule",
		Long: `Run the inbox loop on a cron schedule until interrupted. Health endpoints
and, when Prometheus export is enabled, /metrics are served on the metrics
address.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), schedule, metricsAddr, immediate)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule (overrides config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics and health address (overrides config)")
	cmd.Flags().BoolVar(&immediate, "now", true, "Run once immediately before the first scheduled run")

	return cmd
}

func runWatch(parent context.Context, schedule, metricsAddr string, immediate bool) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if schedule != "" {
		cfg.Schedule = schedule
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}

	logger := slog.Default()

	provider, instrConfig, err := newInstrumentation(ctx)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, provider, instrConfig)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return err
	}

	state := server.NewRunState()
	health := server.NewHealthChecker(state)
	health.SetReady(false)
	metricsServer := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    cfg.MetricsAddr,
		InstrumentationProvider: provider,
		Health:                  health,
		Logger:                  logger,
	})
	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logging.Err(err))
		}
	}()

	runInbox := func() {
		if !state.Begin() {
			logger.Info("previous inbox run still in progress, skipping")
			return
		}
		started := time.Now()
		summary := a.loop.Run(ctx)
		state.Finish(started, summary)
		logger.Info("inbox run finished", "summary", summary.String(), logging.Duration(time.Since(started)))
	}

	scheduler := cron.New(cron.WithLogger(logging.NewCronLogger(logger)))
	if _, err := scheduler.AddFunc(cfg.Schedule, runInbox); err != nil {
		shutdownErr := shutdown(metricsServer, provider.Shutdown, a.Close)
		return errors.Join(fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err), shutdownErr)
	}

	if immediate {
		runInbox()
	}
	scheduler.Start()
	health.SetReady(true)
	logger.Info("watching inbox", "schedule", cfg.Schedule, "metrics_addr", metricsServer.Addr())

	<-ctx.Done()
	logger.Info("shutdown signal received")
	state.Shutdown()

	// Wait for a running job before closing the stores it uses.
	<-scheduler.Stop().Done()

	return shutdown(metricsServer, provider.Shutdown, a.Close)
}

func shutdown(metricsServer *server.MetricsServer, providerShutdown func(context.Context) error, closeApp func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()

	var errs []error
	if err := metricsServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("metrics server: %w", err))
	}
	if err := providerShutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("instrumentation: %w", err))
	}
	if err := closeApp(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
