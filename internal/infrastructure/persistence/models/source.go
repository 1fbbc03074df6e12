package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pimsync/connector/internal/domain/catalog"
)

// CategoryModel is the read model of one PIM category.
type CategoryModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Code     string    `gorm:"type:varchar(128);not null"`
	NameJSON string    `gorm:"column:name;type:jsonb"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the read model to a domain Category.
func (m *CategoryModel) ToDomain() (*catalog.Category, error) {
	name, err := translatedString(m.NameJSON)
	if err != nil {
		return nil, err
	}
	return &catalog.Category{ID: m.ID, Code: m.Code, Name: name}, nil
}

// CategoryTreeModel is the read model of one PIM category tree. Structure is
// the nested node document: [{"categoryId": "...", "children": [...]}].
type CategoryTreeModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Code          string    `gorm:"type:varchar(128);not null"`
	NameJSON      string    `gorm:"column:name;type:jsonb"`
	StructureJSON string    `gorm:"column:structure;type:jsonb"`
}

// TableName returns the table name for GORM
func (CategoryTreeModel) TableName() string {
	return "category_trees"
}

type treeNode struct {
	CategoryID uuid.UUID  `json:"categoryId"`
	Children   []treeNode `json:"children,omitempty"`
}

// ToDomain converts the read model to a domain Tree.
func (m *CategoryTreeModel) ToDomain() (*catalog.Tree, error) {
	name, err := translatedString(m.NameJSON)
	if err != nil {
		return nil, err
	}
	var roots []treeNode
	if m.StructureJSON != "" {
		if err := json.Unmarshal([]byte(m.StructureJSON), &roots); err != nil {
			return nil, err
		}
	}
	return &catalog.Tree{
		ID:    m.ID,
		Code:  m.Code,
		Name:  name,
		Roots: toDomainNodes(roots),
	}, nil
}

func toDomainNodes(src []treeNode) []catalog.Node {
	if len(src) == 0 {
		return nil
	}
	out := make([]catalog.Node, 0, len(src))
	for _, n := range src {
		out = append(out, catalog.Node{
			CategoryID: n.CategoryID,
			Children:   toDomainNodes(n.Children),
		})
	}
	return out
}

// ProductModel is the read model of one PIM product. Attribute values are
// stored as the resolved value document keyed by attribute code.
type ProductModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	SKU             string    `gorm:"column:sku;type:varchar(128);not null;uniqueIndex"`
	Type            string    `gorm:"type:varchar(20);not null;index"`
	BindingsJSON    string    `gorm:"column:bindings;type:jsonb"`
	AttributesJSON  string    `gorm:"column:attributes;type:jsonb"`
	CategoryIDsJSON string    `gorm:"column:category_ids;type:jsonb"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

type productValue struct {
	Global     []string            `json:"global,omitempty"`
	ByLanguage map[string][]string `json:"byLanguage,omitempty"`
}

// ToDomain converts the read model to a domain Product.
func (m *ProductModel) ToDomain() (*catalog.Product, error) {
	product := &catalog.Product{
		ID:   m.ID,
		SKU:  m.SKU,
		Type: catalog.ProductType(m.Type),
	}
	if m.BindingsJSON != "" {
		if err := json.Unmarshal([]byte(m.BindingsJSON), &product.Bindings); err != nil {
			return nil, err
		}
	}
	if m.CategoryIDsJSON != "" {
		if err := json.Unmarshal([]byte(m.CategoryIDsJSON), &product.CategoryIDs); err != nil {
			return nil, err
		}
	}
	if m.AttributesJSON != "" {
		var values map[string]productValue
		if err := json.Unmarshal([]byte(m.AttributesJSON), &values); err != nil {
			return nil, err
		}
		product.Attributes = make(map[string]catalog.Value, len(values))
		for code, v := range values {
			product.Attributes[code] = catalog.Value{
				Global:     v.Global,
				ByLanguage: v.ByLanguage,
			}
		}
	}
	return product, nil
}

// AttributeModel is the read model of one PIM attribute definition.
type AttributeModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Code      string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	Type      string    `gorm:"type:varchar(20);not null"`
	Scope     string    `gorm:"type:varchar(20);not null"`
	LabelJSON string    `gorm:"column:label;type:jsonb"`
}

// TableName returns the table name for GORM
func (AttributeModel) TableName() string {
	return "attributes"
}

// ToDomain converts the read model to a domain Attribute.
func (m *AttributeModel) ToDomain() (*catalog.Attribute, error) {
	label, err := translatedString(m.LabelJSON)
	if err != nil {
		return nil, err
	}
	return &catalog.Attribute{
		ID:    m.ID,
		Code:  m.Code,
		Type:  catalog.AttributeType(m.Type),
		Scope: catalog.AttributeScope(m.Scope),
		Label: label,
	}, nil
}

// AttributeOptionModel is the read model of one select/multiselect option.
// SortOrder fixes the batch position options are exported with.
type AttributeOptionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	AttributeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code        string    `gorm:"type:varchar(128);not null"`
	LabelJSON   string    `gorm:"column:label;type:jsonb"`
	SortOrder   int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (AttributeOptionModel) TableName() string {
	return "attribute_options"
}

// ToDomain converts the read model to a domain Option.
func (m *AttributeOptionModel) ToDomain() (*catalog.Option, error) {
	label, err := translatedString(m.LabelJSON)
	if err != nil {
		return nil, err
	}
	return &catalog.Option{
		ID:          m.ID,
		AttributeID: m.AttributeID,
		Code:        m.Code,
		Label:       label,
	}, nil
}

// MediaModel is the read model of one PIM media asset.
type MediaModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Extension string    `gorm:"type:varchar(16);not null"`
	Mime      string    `gorm:"type:varchar(64);not null"`
	Path      string    `gorm:"type:varchar(512);not null"`
	AltJSON   string    `gorm:"column:alt;type:jsonb"`
	TitleJSON string    `gorm:"column:title;type:jsonb"`
}

// TableName returns the table name for GORM
func (MediaModel) TableName() string {
	return "media"
}

// ToDomain converts the read model to a domain Media.
func (m *MediaModel) ToDomain() (*catalog.Media, error) {
	alt, err := translatedString(m.AltJSON)
	if err != nil {
		return nil, err
	}
	title, err := translatedString(m.TitleJSON)
	if err != nil {
		return nil, err
	}
	return &catalog.Media{
		ID:        m.ID,
		Name:      m.Name,
		Extension: m.Extension,
		Mime:      m.Mime,
		Path:      m.Path,
		Alt:       alt,
		Title:     title,
	}, nil
}

// SegmentProductModel is the read model of the segment membership table.
type SegmentProductModel struct {
	SegmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (SegmentProductModel) TableName() string {
	return "segment_products"
}

func translatedString(raw string) (catalog.TranslatedString, error) {
	if raw == "" {
		return nil, nil
	}
	var out catalog.TranslatedString
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
