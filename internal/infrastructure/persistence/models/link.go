package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pimsync/connector/internal/domain/link"
)

// LinkModel is one identity row. The composite primary key matches the
// upsert conflict target: a local entity links to at most one remote object
// per channel, entity type and sub-scope.
type LinkModel struct {
	ChannelID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityType string    `gorm:"type:varchar(40);primaryKey"`
	LocalID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubScopeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RemoteID   string    `gorm:"type:varchar(64);not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LinkModel) TableName() string {
	return "identity_links"
}

// ToDomain converts the persistence model to a domain Link.
func (m *LinkModel) ToDomain() link.Link {
	return link.Link{
		ChannelID:  m.ChannelID,
		EntityType: link.EntityType(m.EntityType),
		LocalID:    m.LocalID,
		SubScopeID: m.SubScopeID,
		RemoteID:   m.RemoteID,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Link.
func (m *LinkModel) FromDomain(l *link.Link) {
	m.ChannelID = l.ChannelID
	m.EntityType = string(l.EntityType)
	m.LocalID = l.LocalID
	m.SubScopeID = l.SubScopeID
	m.RemoteID = l.RemoteID
	m.UpdatedAt = l.UpdatedAt
}
