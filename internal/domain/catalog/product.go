package catalog

import (
	"errors"

	"github.com/google/uuid"
)

// ProductType distinguishes simple products from variable products that bind
// selectable attributes to their variants.
type ProductType string

const (
	ProductTypeSimple   ProductType = "simple"
	ProductTypeVariable ProductType = "variable"
)

var ErrProductNotFound = errors.New("catalog: product not found")

// Product is the read model of one PIM product.
type Product struct {
	ID   uuid.UUID
	SKU  string
	Type ProductType
	// Bindings are the selectable attributes a variable product varies by
	Bindings []uuid.UUID
	// Attributes maps attribute code to its value
	Attributes map[string]Value
	// CategoryIDs are the categories the product is assigned to
	CategoryIDs []uuid.UUID
}

// HasAttribute reports whether the product carries a value for the attribute.
func (p *Product) HasAttribute(code string) bool {
	_, ok := p.Attributes[code]
	return ok
}

// Attribute returns the product's value for the attribute code.
func (p *Product) Attribute(code string) Value {
	return p.Attributes[code]
}
