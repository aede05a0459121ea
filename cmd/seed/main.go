// Command seed fills the configured employee store with a generated organization.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/observability"
	"github.com/spec-kit/orgchart-service/internal/persistence"
	"github.com/spec-kit/orgchart-service/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newSeedCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a fake organization into the configured employee store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.seed == 0 {
				opts.seed = time.Now().UnixNano()
			}
			return runSeed(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.count, "count", 25, "number of employees to create")
	cmd.Flags().IntVar(&opts.roots, "roots", 1, "number of employees without a manager")
	cmd.Flags().IntVar(&opts.span, "span", 4, "direct reports per manager")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}

func runSeed(ctx context.Context, opts seedOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	store, err := persistence.OpenEmployeeStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open employee store", zap.Error(err))
		return err
	}
	defer store.Close()

	employees := service.NewEmployeeService(service.EmployeeDependencies{EmployeeRepo: store.Repository, Logger: logger})
	created, err := seedOrganization(ctx, employees, opts)
	if err != nil {
		logger.Error("seed failed", zap.Int("created", len(created)), zap.Error(err))
		return err
	}

	logger.Info("seed complete",
		zap.String("driver", cfg.Store.Driver),
		zap.Int("created", len(created)),
		zap.Int64("seed", opts.seed))
	return nil
}
