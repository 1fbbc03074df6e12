package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pimsync/connector/internal/domain/link"
	"github.com/pimsync/connector/internal/infrastructure/persistence/models"
)

// GormLinkStore implements link.Store using GORM
type GormLinkStore struct {
	db *gorm.DB
}

// NewGormLinkStore creates a new GormLinkStore
func NewGormLinkStore(db *gorm.DB) *GormLinkStore {
	return &GormLinkStore{db: db}
}

// Exists reports whether the local entity is linked under any sub-scope
func (s *GormLinkStore) Exists(ctx context.Context, channelID uuid.UUID, entityType link.EntityType, localID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.LinkModel{}).
		Where("channel_id = ? AND entity_type = ? AND local_id = ?", channelID, string(entityType), localID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Load returns the linked remote id, or "" when no link exists
func (s *GormLinkStore) Load(ctx context.Context, channelID uuid.UUID, entityType link.EntityType, localID, subScopeID uuid.UUID) (string, error) {
	var row models.LinkModel
	err := s.db.WithContext(ctx).
		Where("channel_id = ? AND entity_type = ? AND local_id = ? AND sub_scope_id = ?",
			channelID, string(entityType), localID, subScopeID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.RemoteID, nil
}

// Save upserts the link on its composite key. Concurrent writers racing to
// link the same local entity converge on the last write.
func (s *GormLinkStore) Save(ctx context.Context, l *link.Link) error {
	var row models.LinkModel
	row.FromDomain(l)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "channel_id"},
				{Name: "entity_type"},
				{Name: "local_id"},
				{Name: "sub_scope_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"remote_id", "updated_at"}),
		}).
		Create(&row).Error
}

// Delete removes every link of the local entity across all sub-scopes
func (s *GormLinkStore) Delete(ctx context.Context, channelID uuid.UUID, entityType link.EntityType, localID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Delete(&models.LinkModel{}, "channel_id = ? AND entity_type = ? AND local_id = ?",
			channelID, string(entityType), localID).Error
}

// LocalIDByRemote resolves the reverse direction
func (s *GormLinkStore) LocalIDByRemote(ctx context.Context, channelID uuid.UUID, entityType link.EntityType, remoteID string) (uuid.UUID, error) {
	var row models.LinkModel
	err := s.db.WithContext(ctx).
		Where("channel_id = ? AND entity_type = ? AND remote_id = ?", channelID, string(entityType), remoteID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, link.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return row.LocalID, nil
}

// StaleLinks returns links of the entity type in the sub-scope whose local
// id is not in keep
func (s *GormLinkStore) StaleLinks(ctx context.Context, channelID uuid.UUID, entityType link.EntityType, subScopeID uuid.UUID, keep []uuid.UUID) ([]link.Link, error) {
	query := s.db.WithContext(ctx).
		Where("channel_id = ? AND entity_type = ? AND sub_scope_id = ?", channelID, string(entityType), subScopeID)
	if len(keep) > 0 {
		query = query.Where("local_id NOT IN ?", keep)
	}
	var rows []models.LinkModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]link.Link, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}
	return out, nil
}

// Ensure GormLinkStore implements link.Store
var _ link.Store = (*GormLinkStore)(nil)
