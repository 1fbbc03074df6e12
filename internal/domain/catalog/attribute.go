// Package catalog holds the read-only view of the source PIM consumed by the
// export engine: products, categories, trees, attributes with their options,
// and media. The PIM's own authoring model stays outside this repository;
// these types only carry what the mappers need.
package catalog

import (
	"errors"

	"github.com/google/uuid"
)

// AttributeType is the authoring type of a PIM attribute. It selects which
// mapper handles the attribute and how it is rendered remotely.
type AttributeType string

const (
	AttributeTypeText        AttributeType = "text"
	AttributeTypeTextarea    AttributeType = "textarea"
	AttributeTypeNumeric     AttributeType = "numeric"
	AttributeTypePrice       AttributeType = "price"
	AttributeTypeDate        AttributeType = "date"
	AttributeTypeSelect      AttributeType = "select"
	AttributeTypeMultiSelect AttributeType = "multiselect"
	AttributeTypeImage       AttributeType = "image"
	AttributeTypeGallery     AttributeType = "gallery"
)

// AttributeScope controls translation inheritance. Global attributes carry a
// single value used for every language; local attributes carry one value per
// language.
type AttributeScope string

const (
	ScopeGlobal AttributeScope = "global"
	ScopeLocal  AttributeScope = "local"
)

var (
	ErrAttributeNotFound = errors.New("catalog: attribute not found")
	ErrOptionNotFound    = errors.New("catalog: option not found")
)

// Attribute is one PIM attribute definition.
type Attribute struct {
	ID    uuid.UUID
	Code  string
	Type  AttributeType
	Scope AttributeScope
	// Label is the attribute's display name per language
	Label TranslatedString
}

// HasOptions reports whether the attribute carries an option list.
func (a Attribute) HasOptions() bool {
	return a.Type == AttributeTypeSelect || a.Type == AttributeTypeMultiSelect
}

// Option is one choice of a select/multiselect attribute.
type Option struct {
	ID          uuid.UUID
	AttributeID uuid.UUID
	Code        string
	Label       TranslatedString
}
