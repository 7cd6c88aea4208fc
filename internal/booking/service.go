package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	jobmetrics "github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/jobs"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/money"
)

const (
	// DefaultRecomputeChunk bounds how many booking ids are pulled per page
	// during a full financial recompute.
	DefaultRecomputeChunk = 50
	// DefaultGroupingChunk bounds the grouping sweep page size.
	DefaultGroupingChunk = 100
)

// BatchSummary reports the outcome of one batch run.
type BatchSummary struct {
	RunID     uuid.UUID
	Processed int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// RecomputeOptions scope a financial recompute run.
type RecomputeOptions struct {
	// BookingID limits the run to a single booking when non-nil.
	BookingID *int64
	ChunkSize int
}

// Service drives the booking financial batches: VAT/commission recompute and
// item grouping.
type Service struct {
	repo    Repository
	calc    *CostCalculator
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewService constructs the batch service.
func NewService(repo Repository, calc *CostCalculator, logger *slog.Logger, metrics *jobmetrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, calc: calc, logger: logger, metrics: metrics}
}

// RecomputeFinancials recomputes output VAT and commission for one booking
// or for every booking, chunked. A single booking's failure is counted and
// logged, never fatal to the run; only storage-level paging errors abort.
func (s *Service) RecomputeFinancials(ctx context.Context, opts RecomputeOptions) (BatchSummary, error) {
	tracker := s.metrics.Track("booking_recompute")
	summary := BatchSummary{RunID: uuid.New()}
	start := time.Now()

	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultRecomputeChunk
	}

	log := s.logger.With(slog.String("run_id", summary.RunID.String()), slog.String("batch", "recompute_financials"))

	var runErr error
	if opts.BookingID != nil {
		s.recomputeOne(ctx, log, *opts.BookingID, &summary)
	} else {
		runErr = s.eachBookingID(ctx, chunk, func(id int64) {
			s.recomputeOne(ctx, log, id, &summary)
		})
	}

	summary.Elapsed = time.Since(start)
	s.metrics.AddRows("booking_recompute", "processed", summary.Processed)
	s.metrics.AddRows("booking_recompute", "skipped", summary.Skipped)
	s.metrics.AddRows("booking_recompute", "failed", summary.Failed)
	log.Info("recompute finished",
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Elapsed))
	return summary, tracker.End(runErr)
}

func (s *Service) recomputeOne(ctx context.Context, log *slog.Logger, id int64, summary *BatchSummary) {
	err := s.RecomputeBooking(ctx, id)
	switch {
	case err == nil:
		summary.Processed++
	case errors.Is(err, ErrZeroGrandTotal):
		summary.Skipped++
		log.Warn("booking skipped", slog.Int64("booking_id", id), slog.String("reason", "grand total not positive"))
	default:
		summary.Failed++
		log.Error("booking recompute failed", slog.Int64("booking_id", id), slog.Any("error", err))
	}
}

// RecomputeBooking recomputes financials for a single booking inside one
// transaction. Items are processed first; items with unresolved products or
// negative amounts are left untouched and excluded from the cost
// accumulation. Booking-level fields persist only when every item update
// succeeded. Re-running with unchanged inputs yields identical figures.
func (s *Service) RecomputeBooking(ctx context.Context, id int64) error {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking %d: %w", id, err)
	}
	if !money.Normalize(b.GrandTotal).IsPositive() {
		return ErrZeroGrandTotal
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return fmt.Errorf("list items of booking %d: %w", id, err)
	}

	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		totalItemCost := decimal.Zero
		for _, item := range items {
			cost, err := s.calc.ComputeCost(ctx, item)
			if err != nil {
				if errors.Is(err, ErrProductNotFound) {
					s.logger.Warn("item skipped, product unresolved",
						slog.Int64("booking_id", id),
						slog.Int64("item_id", item.ID),
						slog.String("product_type", string(item.ProductType)))
					continue
				}
				return fmt.Errorf("compute cost item %d: %w", item.ID, err)
			}

			fin, err := ComputeItemFinancials(cost.TotalCost, item.Amount)
			if err != nil {
				if errors.Is(err, ErrNegativeAmount) {
					s.logger.Warn("item skipped, negative amount",
						slog.Int64("booking_id", id),
						slog.Int64("item_id", item.ID))
					continue
				}
				return err
			}

			if err := tx.UpdateItemFinancials(ctx, item.ID, cost, fin); err != nil {
				return fmt.Errorf("update item %d: %w", item.ID, err)
			}
			totalItemCost = totalItemCost.Add(cost.TotalCost)
		}

		fin, err := ComputeBookingFinancials(b.GrandTotal, totalItemCost)
		if err != nil {
			return err
		}
		if err := tx.UpdateBookingFinancials(ctx, id, fin); err != nil {
			return fmt.Errorf("update booking %d: %w", id, err)
		}
		return nil
	})
}

// GroupAllBookings runs the grouping engine over every booking in chunks.
// One booking failing to group never blocks the rest of its chunk.
func (s *Service) GroupAllBookings(ctx context.Context, chunkSize int) (BatchSummary, error) {
	tracker := s.metrics.Track("booking_grouping")
	summary := BatchSummary{RunID: uuid.New()}
	start := time.Now()

	if chunkSize <= 0 {
		chunkSize = DefaultGroupingChunk
	}

	log := s.logger.With(slog.String("run_id", summary.RunID.String()), slog.String("batch", "group_booking_items"))

	runErr := s.eachBookingID(ctx, chunkSize, func(id int64) {
		if err := s.GroupBooking(ctx, id); err != nil {
			summary.Failed++
			log.Error("grouping failed", slog.Int64("booking_id", id), slog.Any("error", err))
			return
		}
		summary.Processed++
	})

	summary.Elapsed = time.Since(start)
	s.metrics.AddRows("booking_grouping", "processed", summary.Processed)
	s.metrics.AddRows("booking_grouping", "failed", summary.Failed)
	log.Info("grouping finished",
		slog.Int("processed", summary.Processed),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Elapsed))
	return summary, tracker.End(runErr)
}

// GroupBooking partitions the booking's items by product type, upserts one
// group per partition with the aggregate cost recomputed from current
// membership, and points every member item at its group. Safe to re-run: an
// already-grouped booking keeps its group ids and only refreshes totals.
func (s *Service) GroupBooking(ctx context.Context, bookingID int64) error {
	items, err := s.repo.ListItems(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("list items of booking %d: %w", bookingID, err)
	}
	if len(items) == 0 {
		return nil
	}

	for _, part := range PartitionItems(items) {
		groupID, err := s.repo.UpsertGroup(ctx, part.Key, part.TotalCost)
		if err != nil {
			return fmt.Errorf("upsert group %v: %w", part.Key, err)
		}
		for _, item := range part.Items {
			if item.GroupID != nil && *item.GroupID == groupID {
				continue
			}
			if err := s.repo.AssignItemGroup(ctx, item.ID, groupID); err != nil {
				return fmt.Errorf("assign item %d to group %d: %w", item.ID, groupID, err)
			}
		}
	}
	return nil
}

func (s *Service) eachBookingID(ctx context.Context, chunk int, fn func(id int64)) error {
	var afterID int64
	for {
		ids, err := s.repo.ListBookingIDs(ctx, afterID, chunk)
		if err != nil {
			return fmt.Errorf("list booking ids after %d: %w", afterID, err)
		}
		if len(ids) == 0 {
			return nil
		}
		for _, id := range ids {
			fn(id)
		}
		afterID = ids[len(ids)-1]
	}
}
