// Package export defines the export run aggregate and the bookkeeping
// collaborators the synchronization engine needs: run status, per-unit
// progress lines, an append-only error log, and the change-detection
// watermark queries.
package export

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status of an export run.
type Status string

// Export run statuses. A run is created running and finalized to ended; the
// started_at of the most recently ended run is the change-detection watermark.
const (
	StatusRunning Status = "running"
	StatusEnded   Status = "ended"
)

var (
	ErrExportNotFound   = errors.New("export: not found")
	ErrAlreadyEnded     = errors.New("export: run already ended")
	ErrInvalidChannelID = errors.New("export: invalid channel ID")
)

// Export is one synchronization run scoped to a channel.
type Export struct {
	ID        uuid.UUID
	ChannelID uuid.UUID
	Status    Status
	StartedAt time.Time
	EndedAt   *time.Time
}

// NewExport creates a running export for the given channel.
func NewExport(channelID uuid.UUID) (*Export, error) {
	if channelID == uuid.Nil {
		return nil, ErrInvalidChannelID
	}
	return &Export{
		ID:        uuid.New(),
		ChannelID: channelID,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}, nil
}

// End finalizes the run. Ending twice is an error.
func (e *Export) End(at time.Time) error {
	if e.Status == StatusEnded {
		return ErrAlreadyEnded
	}
	e.Status = StatusEnded
	e.EndedAt = &at
	return nil
}

// IsRunning reports whether the run is still in progress.
func (e *Export) IsRunning() bool {
	return e.Status == StatusRunning
}

// Line is the per-unit progress record of a run. A line is added when the
// unit of work is scheduled and marked processed when it completes, whether
// or not the unit itself succeeded.
type Line struct {
	ID          uuid.UUID
	ExportID    uuid.UUID
	ObjectID    uuid.UUID
	ProcessedAt *time.Time
	Error       string
}

// NewLine creates an unprocessed line for one unit of work.
func NewLine(exportID, objectID uuid.UUID) Line {
	return Line{
		ID:       uuid.New(),
		ExportID: exportID,
		ObjectID: objectID,
	}
}

// Error is one structured entry of a run's append-only error log.
type Error struct {
	ID         uuid.UUID
	ExportID   uuid.UUID
	Message    string
	Parameters map[string]string
	CreatedAt  time.Time
}
