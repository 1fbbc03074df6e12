package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/infrastructure/persistence/models"
)

// GormChannelRepository implements channel.Repository using GORM
type GormChannelRepository struct {
	db *gorm.DB
}

// NewGormChannelRepository creates a new GormChannelRepository
func NewGormChannelRepository(db *gorm.DB) *GormChannelRepository {
	return &GormChannelRepository{db: db}
}

// FindByID finds a channel by its ID
func (r *GormChannelRepository) FindByID(ctx context.Context, id uuid.UUID) (*channel.Channel, error) {
	var row models.ChannelModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, channel.ErrChannelNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// FindAll returns every configured channel
func (r *GormChannelRepository) FindAll(ctx context.Context) ([]channel.Channel, error) {
	var rows []models.ChannelModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]channel.Channel, 0, len(rows))
	for _, row := range rows {
		ch, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *ch)
	}
	return out, nil
}

// Save creates or updates a channel
func (r *GormChannelRepository) Save(ctx context.Context, ch *channel.Channel) error {
	var row models.ChannelModel
	if err := row.FromDomain(ch); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&row).Error
}

// Ensure GormChannelRepository implements channel.Repository
var _ channel.Repository = (*GormChannelRepository)(nil)
