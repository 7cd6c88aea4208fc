package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/documents"
)

// DocumentMigrator copies legacy attachment rows into customer documents.
type DocumentMigrator interface {
	MigrateAll(ctx context.Context) ([]documents.Summary, error)
	MigrateSource(ctx context.Context, source documents.Source) (documents.Summary, error)
}

// DocumentsMigrateJob coordinates the legacy document migration workflow.
type DocumentsMigrateJob struct {
	Migrator DocumentMigrator
	Logger   *slog.Logger
}

// NewDocumentsMigrateJob constructs the job handler.
func NewDocumentsMigrateJob(migrator DocumentMigrator, logger *slog.Logger) *DocumentsMigrateJob {
	return &DocumentsMigrateJob{Migrator: migrator, Logger: logger}
}

// Handle executes the document migration job.
func (j *DocumentsMigrateJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Migrator == nil {
		return errors.New("documents migrate: dependencies not configured")
	}
	var payload DocumentsMigratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	if payload.Source == "" || payload.Source == "all" {
		summaries, err := j.Migrator.MigrateAll(ctx)
		for _, summary := range summaries {
			j.logSummary(summary)
		}
		if err != nil {
			j.log().Error("migrate documents", slog.Any("error", err))
		}
		return err
	}

	summary, err := j.Migrator.MigrateSource(ctx, documents.Source(payload.Source))
	if errors.Is(err, documents.ErrUnknownSource) {
		j.log().Error("unknown legacy source", slog.String("source", payload.Source))
		return asynq.SkipRetry
	}
	if err != nil {
		j.log().Error("migrate documents", slog.String("source", payload.Source), slog.Any("error", err))
		return err
	}
	j.logSummary(summary)
	return nil
}

func (j *DocumentsMigrateJob) logSummary(summary documents.Summary) {
	j.log().Info("migrated legacy documents",
		slog.String("run_id", summary.RunID.String()),
		slog.String("source", string(summary.Source)),
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Duration("elapsed", summary.Elapsed))
}

func (j *DocumentsMigrateJob) log() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDocumentsMigrate))
	}
	return slog.Default().With(slog.String("job", TaskDocumentsMigrate))
}
