package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pimsync/connector/internal/domain/export"
	"github.com/pimsync/connector/internal/infrastructure/persistence/models"
)

// GormEventHistoryQuery implements export.EventHistoryQuery over the PIM's
// event store. The table is owned by the PIM; the connector only reads.
type GormEventHistoryQuery struct {
	db *gorm.DB
}

// NewGormEventHistoryQuery creates a new GormEventHistoryQuery
func NewGormEventHistoryQuery(db *gorm.DB) *GormEventHistoryQuery {
	return &GormEventHistoryQuery{db: db}
}

// FindLastChangeTimestamp returns the recorded_at of the most recent event
// for the aggregate, or nil when the aggregate has no history
func (q *GormEventHistoryQuery) FindLastChangeTimestamp(ctx context.Context, aggregateID uuid.UUID) (*time.Time, error) {
	var row models.EventModel
	err := q.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("recorded_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	recorded := row.RecordedAt
	return &recorded, nil
}

// Ensure GormEventHistoryQuery implements export.EventHistoryQuery
var _ export.EventHistoryQuery = (*GormEventHistoryQuery)(nil)
