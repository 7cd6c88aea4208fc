// Package cli implements the back-office batch commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/app"
	jobmetrics "github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/jobs"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/platform/db"
)

// roundTo trims summary durations for display.
const roundTo = time.Millisecond

var rootCmd = &cobra.Command{
	Use:   "anywhere",
	Short: "Batch maintenance commands for the booking back office",
	Long: `anywhere runs the financial reconciliation batches for the travel
booking back office: VAT and commission recomputation, booking item
grouping, legacy document migration and cash image reconciliation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "anywhere: %v\n", err)
		os.Exit(1)
	}
}

// runtime bundles the dependencies shared by every batch command.
type runtime struct {
	cfg     *app.Config
	logger  *slog.Logger
	pool    *pgxpool.Pool
	metrics *jobmetrics.Metrics
}

// withRuntime loads configuration, connects the database and hands the
// bundle to fn, closing the pool afterwards.
func withRuntime(ctx context.Context, fn func(ctx context.Context, rt *runtime) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	rt := &runtime{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		metrics: jobmetrics.NewMetrics(registry),
	}
	return fn(ctx, rt)
}
