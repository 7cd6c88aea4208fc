package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/booking"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/catalog"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/documents"
)

var groupCmd = &cobra.Command{
	Use:   "group-booking-items",
	Short: "Group booking items by product type and migrate their documents",
	Long: `Partitions every booking's items by product type into booking item
groups, upserting the group rows so re-runs update totals in place.
After grouping, the legacy attachment tables are migrated into the
unified customer documents store. Items whose booking has not been
grouped yet are skipped and picked up on the next run.`,
	Example: `  anywhere group-booking-items

  # Grouping only, leave legacy documents alone
  anywhere group-booking-items --skip-documents`,
	RunE: runGroup,
}

func init() {
	rootCmd.AddCommand(groupCmd)

	groupCmd.Flags().Int("chunk", 0, "Bookings fetched per chunk (default from GROUPING_CHUNK_SIZE)")
	groupCmd.Flags().Bool("skip-documents", false, "Only group items, do not migrate legacy documents")
}

func runGroup(cmd *cobra.Command, args []string) error {
	chunk, _ := cmd.Flags().GetInt("chunk")
	skipDocs, _ := cmd.Flags().GetBool("skip-documents")

	return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
		repo := booking.NewRepository(rt.pool)
		calc := booking.NewCostCalculator(catalog.NewRepository(rt.pool))
		svc := booking.NewService(repo, calc, rt.logger, rt.metrics)

		if chunk == 0 {
			chunk = rt.cfg.GroupingChunkSize
		}
		summary, err := svc.GroupAllBookings(ctx, chunk)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Grouping run %s finished in %s\n", summary.RunID, summary.Elapsed.Round(roundTo))
		fmt.Fprintf(out, "  processed: %d\n  skipped:   %d\n  failed:    %d\n",
			summary.Processed, summary.Skipped, summary.Failed)
		if summary.Failed > 0 {
			return fmt.Errorf("%d bookings failed, see logs for details", summary.Failed)
		}
		if skipDocs {
			return nil
		}

		migrator := documents.NewMigrator(documents.NewRepository(rt.pool), repo, rt.logger, rt.metrics).
			WithChunkSize(rt.cfg.DocumentChunkSize)
		summaries, err := migrator.MigrateAll(ctx)
		for _, s := range summaries {
			fmt.Fprintf(out, "Documents %-22s processed %4d, skipped %4d (%s)\n",
				s.Source, s.Processed, s.Skipped, s.Elapsed.Round(roundTo))
		}
		return err
	})
}
