package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBookingRecompute recalculates booking cost, VAT and commission.
	TaskBookingRecompute = "booking:recompute_financials"
	// TaskDocumentsMigrate migrates legacy attachments into customer documents.
	TaskDocumentsMigrate = "documents:migrate"
)

// BookingRecomputePayload scopes a financial recompute run.
type BookingRecomputePayload struct {
	BookingID string `json:"booking_id"`
	Chunk     int    `json:"chunk,omitempty"`
}

// NewBookingRecomputeTask creates an Asynq task for a recompute run.
// An empty booking id means the full sweep.
func NewBookingRecomputeTask(bookingID string, chunk int) (*asynq.Task, error) {
	if bookingID == "" {
		bookingID = "all"
	}
	body, err := json.Marshal(BookingRecomputePayload{BookingID: bookingID, Chunk: chunk})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingRecompute, body, asynq.Queue(QueueDefault)), nil
}

// DocumentsMigratePayload scopes a legacy document migration run.
type DocumentsMigratePayload struct {
	Source string `json:"source"`
}

// NewDocumentsMigrateTask creates an Asynq task for a document migration
// run. An empty source means every legacy source in order.
func NewDocumentsMigrateTask(source string) (*asynq.Task, error) {
	if source == "" {
		source = "all"
	}
	body, err := json.Marshal(DocumentsMigratePayload{Source: source})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDocumentsMigrate, body, asynq.Queue(QueueDefault)), nil
}
