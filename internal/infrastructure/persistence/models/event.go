package models

import (
	"time"

	"github.com/google/uuid"
)

// EventModel is a read model over the PIM's event store. The connector only
// asks for the most recent recorded_at per aggregate; the payload column is
// deliberately not mapped.
type EventModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	AggregateID uuid.UUID `gorm:"type:uuid;not null;index"`
	RecordedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "event_store"
}
