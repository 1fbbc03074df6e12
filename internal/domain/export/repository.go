package export

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists export runs, their progress lines and error log.
type Repository interface {
	Save(ctx context.Context, export *Export) error
	FindByID(ctx context.Context, id uuid.UUID) (*Export, error)
	// AddLine registers one scheduled unit of work.
	AddLine(ctx context.Context, line Line) error
	// ProcessLine marks the line processed. Called exactly once per unit,
	// failed units included.
	ProcessLine(ctx context.Context, lineID uuid.UUID) error
	// AddError appends a structured entry to the run's error log.
	AddError(ctx context.Context, exportID uuid.UUID, message string, parameters map[string]string) error
	// Errors returns the run's error log, oldest first.
	Errors(ctx context.Context, exportID uuid.UUID) ([]Error, error)
}

// Query answers watermark questions about past runs.
type Query interface {
	// FindLastExportStarted returns the started_at of the most recently
	// ended run for the channel, or nil when no run has ended yet.
	FindLastExportStarted(ctx context.Context, channelID uuid.UUID) (*time.Time, error)
	// IsLastExportFinished reports whether the channel's most recent run
	// has ended. True when the channel has never been exported.
	IsLastExportFinished(ctx context.Context, channelID uuid.UUID) (bool, error)
}

// EventHistoryQuery reads the source PIM's event history. It backs change
// detection: an entity whose last event is at or after the watermark must be
// re-exported.
type EventHistoryQuery interface {
	// FindLastChangeTimestamp returns the recorded_at of the most recent
	// event for the aggregate, or nil when the aggregate has no history.
	FindLastChangeTimestamp(ctx context.Context, aggregateID uuid.UUID) (*time.Time, error)
}
