package cashimage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	jobmetrics "github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/jobs"
)

// DefaultChunk is the page size for cash image scans.
const DefaultChunk = 100

// Repository provides storage access for the reconciliation.
type Repository interface {
	// ListCashImages returns up to limit images with ids greater than
	// afterID, ascending.
	ListCashImages(ctx context.Context, afterID int64, limit int) ([]CashImage, error)
	// TargetExists reports whether the attachment target row exists.
	TargetExists(ctx context.Context, kind ImageableKind, id int64) (bool, error)
	// AttachmentExists reports whether the pivot row already exists.
	AttachmentExists(ctx context.Context, cashImageID int64, kind ImageableKind, imageableID int64) (bool, error)
	InsertAttachment(ctx context.Context, att Attachment) error
	// StatsByRelatableType aggregates totals for the debug report.
	StatsByRelatableType(ctx context.Context) ([]TypeStat, error)
}

// Options configure a reconciliation run.
type Options struct {
	// DryRun performs every check and reports the would-be outcome
	// without writing.
	DryRun bool
	// Force skips the target-existence check.
	Force bool
}

// Summary reports one reconciliation sweep.
type Summary struct {
	RunID    string
	Outcomes map[Outcome]int
	Elapsed  time.Duration
}

// Reconciler migrates legacy cash image links into the attachment table.
type Reconciler struct {
	repo    Repository
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
	chunk   int
}

// NewReconciler constructs the reconciler.
func NewReconciler(repo Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{repo: repo, logger: logger, metrics: metrics, chunk: DefaultChunk}
}

// MigrateCashImage reconciles a single image. Unknown relatable types and
// missing targets are data-quality skips; an existing attachment for the
// same (image, kind, target) triplet is reported as a duplicate and never
// inserted twice.
func (r *Reconciler) MigrateCashImage(ctx context.Context, img CashImage, opts Options) (Outcome, error) {
	kind, ok := KindFor(img.RelatableType)
	if !ok {
		r.logger.Warn("cash image skipped, unknown relatable type",
			slog.Int64("cash_image_id", img.ID),
			slog.String("relatable_type", img.RelatableType))
		return OutcomeSkippedUnknown, nil
	}

	if !opts.Force {
		exists, err := r.repo.TargetExists(ctx, kind, img.RelatableID)
		if err != nil {
			return "", fmt.Errorf("check target %s %d: %w", kind, img.RelatableID, err)
		}
		if !exists {
			r.logger.Warn("cash image skipped, target missing",
				slog.Int64("cash_image_id", img.ID),
				slog.String("kind", string(kind)),
				slog.Int64("target_id", img.RelatableID))
			return OutcomeSkippedMissing, nil
		}
	}

	exists, err := r.repo.AttachmentExists(ctx, img.ID, kind, img.RelatableID)
	if err != nil {
		return "", fmt.Errorf("check attachment: %w", err)
	}
	if exists {
		return OutcomeSkippedDuplicate, nil
	}

	if opts.DryRun {
		return OutcomeDryRunPreview, nil
	}

	att := Attachment{
		CashImageID:   img.ID,
		ImageableKind: kind,
		ImageableID:   img.RelatableID,
		Deposit:       img.Amount,
	}
	if err := r.repo.InsertAttachment(ctx, att); err != nil {
		return "", fmt.Errorf("insert attachment: %w", err)
	}
	return OutcomeMigrated, nil
}

// MigrateAll sweeps every cash image in id-ordered chunks.
func (r *Reconciler) MigrateAll(ctx context.Context, opts Options) (Summary, error) {
	tracker := r.metrics.Track("cashimage_migrate")
	summary := Summary{RunID: uuid.NewString(), Outcomes: make(map[Outcome]int)}
	start := time.Now()

	log := r.logger.With(slog.String("run_id", summary.RunID), slog.String("batch", "migrate_cash_images"))

	var afterID int64
	for {
		images, err := r.repo.ListCashImages(ctx, afterID, r.chunk)
		if err != nil {
			summary.Elapsed = time.Since(start)
			return summary, tracker.End(fmt.Errorf("list cash images after %d: %w", afterID, err))
		}
		if len(images) == 0 {
			break
		}
		for _, img := range images {
			outcome, err := r.MigrateCashImage(ctx, img, opts)
			if err != nil {
				summary.Elapsed = time.Since(start)
				return summary, tracker.End(fmt.Errorf("cash image %d: %w", img.ID, err))
			}
			summary.Outcomes[outcome]++
		}
		afterID = images[len(images)-1].ID
	}

	summary.Elapsed = time.Since(start)
	for outcome, count := range summary.Outcomes {
		r.metrics.AddRows("cashimage_migrate", string(outcome), count)
	}
	log.Info("cash image sweep finished",
		slog.Int("migrated", summary.Outcomes[OutcomeMigrated]),
		slog.Int("unknown_type", summary.Outcomes[OutcomeSkippedUnknown]),
		slog.Int("missing_model", summary.Outcomes[OutcomeSkippedMissing]),
		slog.Int("duplicates", summary.Outcomes[OutcomeSkippedDuplicate]),
		slog.Duration("elapsed", summary.Elapsed))
	return summary, tracker.End(nil)
}

// Debug aggregates counts by relatable type without mutating anything.
func (r *Reconciler) Debug(ctx context.Context) ([]TypeStat, error) {
	return r.repo.StatsByRelatableType(ctx)
}
