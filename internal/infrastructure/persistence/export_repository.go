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

// GormExportRepository implements export.Repository and export.Query using
// GORM. The watermark queries read the run table itself: the started_at of
// the most recently ended run is the change-detection watermark.
type GormExportRepository struct {
	db *gorm.DB
}

// NewGormExportRepository creates a new GormExportRepository
func NewGormExportRepository(db *gorm.DB) *GormExportRepository {
	return &GormExportRepository{db: db}
}

// Save creates or updates an export run
func (r *GormExportRepository) Save(ctx context.Context, e *export.Export) error {
	var row models.ExportModel
	row.FromDomain(e)
	return r.db.WithContext(ctx).Save(&row).Error
}

// FindByID finds an export run by its ID
func (r *GormExportRepository) FindByID(ctx context.Context, id uuid.UUID) (*export.Export, error) {
	var row models.ExportModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, export.ErrExportNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// AddLine registers one scheduled unit of work
func (r *GormExportRepository) AddLine(ctx context.Context, line export.Line) error {
	var row models.ExportLineModel
	row.FromDomain(line)
	return r.db.WithContext(ctx).Create(&row).Error
}

// ProcessLine marks the line processed
func (r *GormExportRepository) ProcessLine(ctx context.Context, lineID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ExportLineModel{}).
		Where("id = ?", lineID).
		Update("processed_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return export.ErrExportNotFound
	}
	return nil
}

// AddError appends a structured entry to the run's error log
func (r *GormExportRepository) AddError(ctx context.Context, exportID uuid.UUID, message string, parameters map[string]string) error {
	var row models.ExportErrorModel
	if err := row.FromDomain(export.Error{
		ID:         uuid.New(),
		ExportID:   exportID,
		Message:    message,
		Parameters: parameters,
		CreatedAt:  time.Now(),
	}); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// Errors returns the run's error log, oldest first
func (r *GormExportRepository) Errors(ctx context.Context, exportID uuid.UUID) ([]export.Error, error) {
	var rows []models.ExportErrorModel
	if err := r.db.WithContext(ctx).
		Where("export_id = ?", exportID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]export.Error, 0, len(rows))
	for _, row := range rows {
		e, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// FindLastExportStarted returns the started_at of the most recently ended
// run for the channel, or nil when no run has ended yet
func (r *GormExportRepository) FindLastExportStarted(ctx context.Context, channelID uuid.UUID) (*time.Time, error) {
	var row models.ExportModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ? AND status = ?", channelID, string(export.StatusEnded)).
		Order("started_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	started := row.StartedAt
	return &started, nil
}

// IsLastExportFinished reports whether the channel's most recent run has
// ended. True when the channel has never been exported.
func (r *GormExportRepository) IsLastExportFinished(ctx context.Context, channelID uuid.UUID) (bool, error) {
	var row models.ExportModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("started_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return row.Status == string(export.StatusEnded), nil
}

// Ensure GormExportRepository implements the export interfaces
var (
	_ export.Repository = (*GormExportRepository)(nil)
	_ export.Query      = (*GormExportRepository)(nil)
)
