package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/cashimage"
)

var cashImagesCmd = &cobra.Command{
	Use:   "migrate-cash-images",
	Short: "Reconcile legacy cash images into the attachment table",
	Long: `Walks the legacy cash image rows and links each one to its booking,
booking item group or cash book as an attachment. Rows with unknown
relatable types, missing targets or existing attachments are counted
and skipped. Inserts are keyed on (cash image, target) so re-runs
never duplicate.`,
	Example: `  # Preview without writing
  anywhere migrate-cash-images --dry-run

  # Migrate, linking even when the target row is gone
  anywhere migrate-cash-images --force

  # Per-type counts of what is left
  anywhere migrate-cash-images --debug`,
	RunE: runCashImages,
}

func init() {
	rootCmd.AddCommand(cashImagesCmd)

	cashImagesCmd.Flags().Bool("dry-run", false, "Report outcomes without writing attachments")
	cashImagesCmd.Flags().Bool("force", false, "Skip the target-existence check")
	cashImagesCmd.Flags().Bool("debug", false, "Print per-type reconciliation counts and exit")
}

func runCashImages(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")
	debug, _ := cmd.Flags().GetBool("debug")

	return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
		reconciler := cashimage.NewReconciler(cashimage.NewRepository(rt.pool), rt.logger, rt.metrics)
		out := cmd.OutOrStdout()

		if debug {
			stats, err := reconciler.Debug(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-40s %8s %8s %8s\n", "relatable_type", "total", "migrated", "missing")
			for _, stat := range stats {
				fmt.Fprintf(out, "%-40s %8d %8d %8d\n",
					stat.RelatableType, stat.Total, stat.Migrated, stat.Missing)
			}
			return nil
		}

		summary, err := reconciler.MigrateAll(ctx, cashimage.Options{DryRun: dryRun, Force: force})
		if err != nil {
			return err
		}
		mode := "migrated"
		if dryRun {
			mode = "previewed"
		}
		fmt.Fprintf(out, "Cash image run %s %s in %s\n", summary.RunID, mode, summary.Elapsed.Round(roundTo))
		for _, outcome := range []cashimage.Outcome{
			cashimage.OutcomeMigrated,
			cashimage.OutcomeDryRunPreview,
			cashimage.OutcomeSkippedDuplicate,
			cashimage.OutcomeSkippedMissing,
			cashimage.OutcomeSkippedUnknown,
		} {
			if count, ok := summary.Outcomes[outcome]; ok {
				fmt.Fprintf(out, "  %-22s %d\n", outcome, count)
			}
		}
		return nil
	})
}
