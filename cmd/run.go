package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the inbox once",
		Long: `Fetch every email matching the configured query, process the ones that
have no saved result yet and print a summary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runOnce(ctx, cmd)
		},
	}
}

func runOnce(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, instrConfig, err := newInstrumentation(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Warn("error during instrumentation shutdown", "error", err)
		}
	}()

	a, err := newApp(ctx, cfg, provider, instrConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("error during shutdown", "error", err)
		}
	}()

	summary := a.loop.Run(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), summary.String())
	return nil
}
