package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hibiken/asynq"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/booking"
)

// BookingRecomputer rebuilds booking financials for one booking or the
// whole table.
type BookingRecomputer interface {
	RecomputeFinancials(ctx context.Context, opts booking.RecomputeOptions) (booking.BatchSummary, error)
}

// BookingRecomputeJob coordinates the recompute workflow.
type BookingRecomputeJob struct {
	Service BookingRecomputer
	Logger  *slog.Logger
}

// NewBookingRecomputeJob constructs the job handler.
func NewBookingRecomputeJob(service BookingRecomputer, logger *slog.Logger) *BookingRecomputeJob {
	return &BookingRecomputeJob{Service: service, Logger: logger}
}

// Handle executes the booking recompute job.
func (j *BookingRecomputeJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("booking recompute: dependencies not configured")
	}
	var payload BookingRecomputePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	opts := booking.RecomputeOptions{ChunkSize: payload.Chunk}
	if payload.BookingID != "" && payload.BookingID != "all" {
		id, err := strconv.ParseInt(payload.BookingID, 10, 64)
		if err != nil || id <= 0 {
			j.log().Error("invalid booking id", slog.String("booking_id", payload.BookingID))
			return asynq.SkipRetry
		}
		opts.BookingID = &id
	}

	summary, err := j.Service.RecomputeFinancials(ctx, opts)
	if err != nil {
		j.log().Error("recompute financials", slog.Any("error", err))
		return err
	}
	j.log().Info("recomputed booking financials",
		slog.String("run_id", summary.RunID.String()),
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Elapsed))
	if summary.Failed > 0 {
		return fmt.Errorf("recompute run %s: %d bookings failed", summary.RunID, summary.Failed)
	}
	return nil
}

func (j *BookingRecomputeJob) log() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskBookingRecompute))
	}
	return slog.Default().With(slog.String("job", TaskBookingRecompute))
}
