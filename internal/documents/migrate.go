package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	jobmetrics "github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/jobs"
)

// DefaultChunk is the page size for legacy table scans.
const DefaultChunk = 100

var (
	// ErrUnknownSource indicates a migration request for a table outside
	// the fixed source list.
	ErrUnknownSource = errors.New("documents: unknown legacy source")
)

// ItemResolver looks up the owning booking item's group assignment.
// Implementations return found=false when the item no longer exists.
type ItemResolver interface {
	ItemGroupID(ctx context.Context, bookingItemID int64) (groupID *int64, found bool, err error)
}

// Repository provides access to the legacy source tables and the unified
// document store.
type Repository interface {
	// ListLegacy returns up to limit legacy rows of the source with ids
	// greater than afterID, ascending.
	ListLegacy(ctx context.Context, source Source, afterID int64, limit int) ([]LegacyRecord, error)
	// UpsertDocument inserts or refreshes the document identified by
	// (group_id, type, file); file_name and meta are the mutable payload.
	UpsertDocument(ctx context.Context, doc CustomerDocument) error
}

// Summary reports one source table's migration outcome.
type Summary struct {
	RunID     uuid.UUID
	Source    Source
	Processed int
	Skipped   int
	Elapsed   time.Duration
}

// Migrator re-keys legacy per-item document rows onto booking item groups.
type Migrator struct {
	repo    Repository
	items   ItemResolver
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
	chunk   int
}

// NewMigrator constructs the migration pipeline.
func NewMigrator(repo Repository, items ItemResolver, logger *slog.Logger, metrics *jobmetrics.Metrics) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{repo: repo, items: items, logger: logger, metrics: metrics, chunk: DefaultChunk}
}

// WithChunkSize overrides the page size used for legacy table scans.
func (m *Migrator) WithChunkSize(chunk int) *Migrator {
	if chunk > 0 {
		m.chunk = chunk
	}
	return m
}

// MigrateAll walks every legacy source in the fixed order. A source failing
// is reported and does not stop the remaining sources; the first error is
// returned after the sweep so the operator re-runs the idempotent command.
func (m *Migrator) MigrateAll(ctx context.Context) ([]Summary, error) {
	var (
		summaries []Summary
		firstErr  error
	)
	for _, source := range Sources() {
		summary, err := m.MigrateSource(ctx, source)
		summaries = append(summaries, summary)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("migrate %s: %w", source, err)
		}
	}
	return summaries, firstErr
}

// MigrateSource migrates one legacy table in id-ordered chunks. Records
// whose booking item is missing or not yet grouped are skipped silently and
// picked up by the next run once grouping has caught up. Re-running an
// unchanged table only refreshes file_name/meta, never duplicates rows.
func (m *Migrator) MigrateSource(ctx context.Context, source Source) (Summary, error) {
	summary := Summary{RunID: uuid.New(), Source: source}
	start := time.Now()

	docType, ok := TypeForSource(source)
	if !ok {
		return summary, ErrUnknownSource
	}

	tracker := m.metrics.Track("documents_migrate")
	log := m.logger.With(
		slog.String("run_id", summary.RunID.String()),
		slog.String("batch", "documents_migrate"),
		slog.String("source", string(source)))

	var afterID int64
	for {
		records, err := m.repo.ListLegacy(ctx, source, afterID, m.chunk)
		if err != nil {
			summary.Elapsed = time.Since(start)
			return summary, tracker.End(fmt.Errorf("list legacy after %d: %w", afterID, err))
		}
		if len(records) == 0 {
			break
		}
		for _, record := range records {
			migrated, err := m.migrateRecord(ctx, docType, record)
			if err != nil {
				summary.Elapsed = time.Since(start)
				return summary, tracker.End(fmt.Errorf("record %d: %w", record.ID, err))
			}
			if migrated {
				summary.Processed++
			} else {
				summary.Skipped++
			}
		}
		afterID = records[len(records)-1].ID
	}

	summary.Elapsed = time.Since(start)
	m.metrics.AddRows("documents_migrate", "processed", summary.Processed)
	m.metrics.AddRows("documents_migrate", "skipped", summary.Skipped)
	log.Info("source migrated",
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Duration("elapsed", summary.Elapsed))
	return summary, tracker.End(nil)
}

func (m *Migrator) migrateRecord(ctx context.Context, docType Type, record LegacyRecord) (bool, error) {
	groupID, found, err := m.items.ItemGroupID(ctx, record.BookingItemID)
	if err != nil {
		return false, err
	}
	if !found || groupID == nil {
		// Not grouped yet; the next pipeline run retries this record.
		return false, nil
	}

	doc := CustomerDocument{
		GroupID:  *groupID,
		Type:     docType,
		File:     record.File,
		FileName: record.FileName,
		Meta:     CollapseMeta(record.Meta),
	}
	if err := m.repo.UpsertDocument(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}
