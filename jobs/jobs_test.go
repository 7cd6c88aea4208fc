package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/booking"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/documents"
)

type fakeRecomputer struct {
	opts    []booking.RecomputeOptions
	summary booking.BatchSummary
	err     error
}

func (f *fakeRecomputer) RecomputeFinancials(_ context.Context, opts booking.RecomputeOptions) (booking.BatchSummary, error) {
	f.opts = append(f.opts, opts)
	return f.summary, f.err
}

func TestBookingRecomputeJobFullSweep(t *testing.T) {
	svc := &fakeRecomputer{summary: booking.BatchSummary{RunID: uuid.New(), Processed: 3}}
	job := NewBookingRecomputeJob(svc, nil)

	task, err := NewBookingRecomputeTask("all", 25)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, svc.opts, 1)
	require.Nil(t, svc.opts[0].BookingID)
	require.Equal(t, 25, svc.opts[0].ChunkSize)
}

func TestBookingRecomputeJobSingleBooking(t *testing.T) {
	svc := &fakeRecomputer{summary: booking.BatchSummary{RunID: uuid.New(), Processed: 1}}
	job := NewBookingRecomputeJob(svc, nil)

	task, err := NewBookingRecomputeTask("42", 0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, svc.opts, 1)
	require.NotNil(t, svc.opts[0].BookingID)
	require.Equal(t, int64(42), *svc.opts[0].BookingID)
}

func TestBookingRecomputeJobInvalidID(t *testing.T) {
	svc := &fakeRecomputer{}
	job := NewBookingRecomputeJob(svc, nil)

	task := asynq.NewTask(TaskBookingRecompute, mustJSON(t, BookingRecomputePayload{BookingID: "not-a-number"}))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, svc.opts)
}

func TestBookingRecomputeJobReportsFailures(t *testing.T) {
	svc := &fakeRecomputer{summary: booking.BatchSummary{RunID: uuid.New(), Processed: 2, Failed: 1}}
	job := NewBookingRecomputeJob(svc, nil)

	task, err := NewBookingRecomputeTask("", 0)
	require.NoError(t, err)
	err = job.Handle(context.Background(), task)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 bookings failed")
}

type fakeMigrator struct {
	allCalls int
	sources  []documents.Source
	err      error
}

func (f *fakeMigrator) MigrateAll(context.Context) ([]documents.Summary, error) {
	f.allCalls++
	return []documents.Summary{{RunID: uuid.New(), Source: documents.SourcePassport}}, f.err
}

func (f *fakeMigrator) MigrateSource(_ context.Context, source documents.Source) (documents.Summary, error) {
	f.sources = append(f.sources, source)
	if _, ok := documents.TypeForSource(source); !ok {
		return documents.Summary{}, documents.ErrUnknownSource
	}
	return documents.Summary{RunID: uuid.New(), Source: source}, f.err
}

func TestDocumentsMigrateJobAllSources(t *testing.T) {
	migrator := &fakeMigrator{}
	job := NewDocumentsMigrateJob(migrator, nil)

	task, err := NewDocumentsMigrateTask("")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, migrator.allCalls)
	require.Empty(t, migrator.sources)
}

func TestDocumentsMigrateJobSingleSource(t *testing.T) {
	migrator := &fakeMigrator{}
	job := NewDocumentsMigrateJob(migrator, nil)

	task, err := NewDocumentsMigrateTask("passport")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, []documents.Source{documents.SourcePassport}, migrator.sources)
	require.Zero(t, migrator.allCalls)
}

func TestDocumentsMigrateJobUnknownSource(t *testing.T) {
	migrator := &fakeMigrator{}
	job := NewDocumentsMigrateJob(migrator, nil)

	task, err := NewDocumentsMigrateTask("fax")
	require.NoError(t, err)
	err = job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestDocumentsMigrateJobPropagatesError(t *testing.T) {
	migrator := &fakeMigrator{err: errors.New("boom")}
	job := NewDocumentsMigrateJob(migrator, nil)

	task, err := NewDocumentsMigrateTask("passport")
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))
}

func TestHandlerHealthWithoutInspector(t *testing.T) {
	router := chi.NewRouter()
	router.Route("/jobs", NewHandler(nil, nil).MountRoutes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return body
}
