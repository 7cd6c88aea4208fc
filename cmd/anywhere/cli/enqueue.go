package cli

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/app"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/jobs"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <task>",
	Short: "Submit a batch job to the background worker",
	Long: `Submits a task to the Redis-backed job queue instead of running it
in-process. Supported tasks:

  recompute-vat    booking financial recompute (--booking-id, --chunk)
  migrate-documents legacy document migration (--source)`,
	Example: `  anywhere enqueue recompute-vat
  anywhere enqueue recompute-vat --booking-id 1205
  anywhere enqueue migrate-documents --source passport`,
	Args: cobra.ExactArgs(1),
	RunE: runEnqueue,
}

func init() {
	rootCmd.AddCommand(enqueueCmd)

	enqueueCmd.Flags().String("booking-id", "", "Booking to recompute (default: all)")
	enqueueCmd.Flags().Int("chunk", 0, "Chunk size for the recompute sweep")
	enqueueCmd.Flags().String("source", "", "Legacy document source to migrate (default: all)")
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	bookingID, _ := cmd.Flags().GetString("booking-id")
	chunk, _ := cmd.Flags().GetInt("chunk")
	source, _ := cmd.Flags().GetString("source")

	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	var info *asynq.TaskInfo
	switch args[0] {
	case "recompute-vat":
		info, err = client.EnqueueBookingRecompute(ctx, bookingID, chunk)
	case "migrate-documents":
		info, err = client.EnqueueDocumentsMigrate(ctx, source)
	default:
		return fmt.Errorf("unknown task %q (expected recompute-vat or migrate-documents)", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %s (id %s, queue %s)\n", info.Type, info.ID, info.Queue)
	return nil
}
