// Package link defines the identity reconciliation model: the persisted
// correspondence between local PIM entities and their remote counterparts,
// keyed by channel, entity type, local id and an optional sub-scope.
package link

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// EntityType partitions the identity table by exported entity family.
type EntityType string

const (
	EntityTypeCategory            EntityType = "category"
	EntityTypeProduct             EntityType = "product"
	EntityTypeCustomField         EntityType = "custom_field"
	EntityTypePropertyGroup       EntityType = "property_group"
	EntityTypePropertyGroupOption EntityType = "property_group_option"
	EntityTypeMedia               EntityType = "media"
)

var (
	ErrNotFound         = errors.New("link: not found")
	ErrInvalidChannelID = errors.New("link: invalid channel ID")
	ErrInvalidLocalID   = errors.New("link: invalid local ID")
	ErrEmptyRemoteID    = errors.New("link: remote ID must not be empty")
)

// Link is one identity row. SubScopeID narrows the key where the same local
// entity maps to several remote objects: the category tree for categories,
// the owning attribute for property-group options. uuid.Nil means unscoped.
type Link struct {
	ChannelID  uuid.UUID
	EntityType EntityType
	LocalID    uuid.UUID
	SubScopeID uuid.UUID
	RemoteID   string
	UpdatedAt  time.Time
}

// NewLink creates a validated link.
func NewLink(channelID uuid.UUID, entityType EntityType, localID, subScopeID uuid.UUID, remoteID string) (*Link, error) {
	if channelID == uuid.Nil {
		return nil, ErrInvalidChannelID
	}
	if localID == uuid.Nil {
		return nil, ErrInvalidLocalID
	}
	if remoteID == "" {
		return nil, ErrEmptyRemoteID
	}
	return &Link{
		ChannelID:  channelID,
		EntityType: entityType,
		LocalID:    localID,
		SubScopeID: subScopeID,
		RemoteID:   remoteID,
		UpdatedAt:  time.Now(),
	}, nil
}
