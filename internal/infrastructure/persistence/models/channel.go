package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pimsync/connector/internal/domain/channel"
)

// ChannelModel is the persistence model of one export channel. Everything
// beyond identity and display name lives in the config document so channel
// settings can grow without migrations.
type ChannelModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	Name       string    `gorm:"type:varchar(200);not null"`
	ConfigJSON string    `gorm:"column:config;type:jsonb;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChannelModel) TableName() string {
	return "channels"
}

// channelConfig is the JSON shape of the config column.
type channelConfig struct {
	Host                        string      `json:"host"`
	ClientID                    string      `json:"clientId"`
	ClientSecret                string      `json:"clientSecret"`
	DefaultLanguage             string      `json:"defaultLanguage"`
	Languages                   []string    `json:"languages,omitempty"`
	SegmentID                   *uuid.UUID  `json:"segmentId,omitempty"`
	CategoryTreeIDs             []uuid.UUID `json:"categoryTreeIds,omitempty"`
	AttributeProductName        *uuid.UUID  `json:"attributeProductName,omitempty"`
	AttributeProductActive      *uuid.UUID  `json:"attributeProductActive,omitempty"`
	AttributeProductPriceGross  *uuid.UUID  `json:"attributeProductPriceGross,omitempty"`
	AttributeProductPriceNet    *uuid.UUID  `json:"attributeProductPriceNet,omitempty"`
	AttributeProductStock       *uuid.UUID  `json:"attributeProductStock,omitempty"`
	AttributeProductTax         *uuid.UUID  `json:"attributeProductTax,omitempty"`
	AttributeProductDescription *uuid.UUID  `json:"attributeProductDescription,omitempty"`
	AttributeProductGallery     *uuid.UUID  `json:"attributeProductGallery,omitempty"`
	SalesChannelID              *string     `json:"salesChannelId,omitempty"`
	CustomFieldAttributeIDs     []uuid.UUID `json:"customFieldAttributeIds,omitempty"`
	PropertyGroupAttributeIDs   []uuid.UUID `json:"propertyGroupAttributeIds,omitempty"`
}

// ToDomain converts the persistence model to a domain Channel.
func (m *ChannelModel) ToDomain() (*channel.Channel, error) {
	var cfg channelConfig
	if err := json.Unmarshal([]byte(m.ConfigJSON), &cfg); err != nil {
		return nil, err
	}
	return &channel.Channel{
		ID:                          m.ID,
		Name:                        m.Name,
		Host:                        cfg.Host,
		ClientID:                    cfg.ClientID,
		ClientSecret:                cfg.ClientSecret,
		DefaultLanguage:             cfg.DefaultLanguage,
		Languages:                   cfg.Languages,
		SegmentID:                   cfg.SegmentID,
		CategoryTreeIDs:             cfg.CategoryTreeIDs,
		AttributeProductName:        cfg.AttributeProductName,
		AttributeProductActive:      cfg.AttributeProductActive,
		AttributeProductPriceGross:  cfg.AttributeProductPriceGross,
		AttributeProductPriceNet:    cfg.AttributeProductPriceNet,
		AttributeProductStock:       cfg.AttributeProductStock,
		AttributeProductTax:         cfg.AttributeProductTax,
		AttributeProductDescription: cfg.AttributeProductDescription,
		AttributeProductGallery:     cfg.AttributeProductGallery,
		SalesChannelID:              cfg.SalesChannelID,
		CustomFieldAttributeIDs:     cfg.CustomFieldAttributeIDs,
		PropertyGroupAttributeIDs:   cfg.PropertyGroupAttributeIDs,
		CreatedAt:                   m.CreatedAt,
		UpdatedAt:                   m.UpdatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain Channel.
func (m *ChannelModel) FromDomain(ch *channel.Channel) error {
	raw, err := json.Marshal(channelConfig{
		Host:                        ch.Host,
		ClientID:                    ch.ClientID,
		ClientSecret:                ch.ClientSecret,
		DefaultLanguage:             ch.DefaultLanguage,
		Languages:                   ch.Languages,
		SegmentID:                   ch.SegmentID,
		CategoryTreeIDs:             ch.CategoryTreeIDs,
		AttributeProductName:        ch.AttributeProductName,
		AttributeProductActive:      ch.AttributeProductActive,
		AttributeProductPriceGross:  ch.AttributeProductPriceGross,
		AttributeProductPriceNet:    ch.AttributeProductPriceNet,
		AttributeProductStock:       ch.AttributeProductStock,
		AttributeProductTax:         ch.AttributeProductTax,
		AttributeProductDescription: ch.AttributeProductDescription,
		AttributeProductGallery:     ch.AttributeProductGallery,
		SalesChannelID:              ch.SalesChannelID,
		CustomFieldAttributeIDs:     ch.CustomFieldAttributeIDs,
		PropertyGroupAttributeIDs:   ch.PropertyGroupAttributeIDs,
	})
	if err != nil {
		return err
	}
	m.ID = ch.ID
	m.Name = ch.Name
	m.ConfigJSON = string(raw)
	m.CreatedAt = ch.CreatedAt
	m.UpdatedAt = ch.UpdatedAt
	return nil
}
