// Package channel defines the export channel configuration consumed by the
// synchronization engine. A channel describes one remote Shopware connection:
// credentials, the language set to export, and the attribute bindings that
// drive mapping.
package channel

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors returned by NewChannel and Validate.
var (
	ErrInvalidID              = errors.New("channel: invalid channel ID")
	ErrEmptyName              = errors.New("channel: name must not be empty")
	ErrEmptyHost              = errors.New("channel: host must not be empty")
	ErrEmptyCredentials       = errors.New("channel: client ID and secret are required")
	ErrEmptyDefaultLanguage   = errors.New("channel: default language must not be empty")
	ErrChannelNotFound        = errors.New("channel: not found")
	ErrDuplicateLanguage      = errors.New("channel: duplicate language code")
	ErrDefaultLanguageInExtra = errors.New("channel: default language listed as additional language")
)

// Channel is the configuration of one remote connection. It is immutable for
// the duration of an export run; the orchestration layer owns it and the core
// only reads it.
type Channel struct {
	// ID is the unique identifier of this channel
	ID uuid.UUID
	// Name is the display name of the channel
	Name string
	// Host is the base URL of the remote admin API
	Host string
	// ClientID and ClientSecret authenticate against the remote API
	ClientID     string
	ClientSecret string
	// DefaultLanguage is the language the root snapshot fields are built in
	DefaultLanguage string
	// Languages are the additional languages exported as translations.
	// DefaultLanguage must not be repeated here.
	Languages []string
	// SegmentID optionally restricts the exported product set
	SegmentID *uuid.UUID
	// CategoryTreeIDs are the trees whose categories are exported
	CategoryTreeIDs []uuid.UUID
	// Attribute bindings used by the product mappers
	AttributeProductName        *uuid.UUID
	AttributeProductActive      *uuid.UUID
	AttributeProductPriceGross  *uuid.UUID
	AttributeProductPriceNet    *uuid.UUID
	AttributeProductStock       *uuid.UUID
	AttributeProductTax         *uuid.UUID
	AttributeProductDescription *uuid.UUID
	AttributeProductGallery     *uuid.UUID
	// SalesChannelID targets product SEO URLs at one remote sales channel.
	// SEO mapping is skipped when unset.
	SalesChannelID *string
	// CustomFieldAttributeIDs are exported as remote custom fields
	CustomFieldAttributeIDs []uuid.UUID
	// PropertyGroupAttributeIDs are exported as property groups + options
	PropertyGroupAttributeIDs []uuid.UUID
	// CreatedAt and UpdatedAt are bookkeeping timestamps
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewChannel creates a channel with the mandatory connection settings.
func NewChannel(name, host, clientID, clientSecret, defaultLanguage string) (*Channel, error) {
	ch := &Channel{
		ID:              uuid.New(),
		Name:            name,
		Host:            host,
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		DefaultLanguage: defaultLanguage,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := ch.Validate(); err != nil {
		return nil, err
	}
	return ch, nil
}

// Validate checks the channel invariants.
func (c *Channel) Validate() error {
	if c.ID == uuid.Nil {
		return ErrInvalidID
	}
	if c.Name == "" {
		return ErrEmptyName
	}
	if c.Host == "" {
		return ErrEmptyHost
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrEmptyCredentials
	}
	if c.DefaultLanguage == "" {
		return ErrEmptyDefaultLanguage
	}
	seen := map[string]struct{}{}
	for _, lang := range c.Languages {
		if lang == c.DefaultLanguage {
			return ErrDefaultLanguageInExtra
		}
		if _, ok := seen[lang]; ok {
			return ErrDuplicateLanguage
		}
		seen[lang] = struct{}{}
	}
	return nil
}

// AllLanguages returns the default language followed by the additional ones.
func (c *Channel) AllLanguages() []string {
	out := make([]string, 0, len(c.Languages)+1)
	out = append(out, c.DefaultLanguage)
	out = append(out, c.Languages...)
	return out
}

// HasCategoryTree reports whether the given tree is selected for export.
func (c *Channel) HasCategoryTree(treeID uuid.UUID) bool {
	for _, id := range c.CategoryTreeIDs {
		if id == treeID {
			return true
		}
	}
	return false
}
