package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductQuery lists product ids for step expansion.
type ProductQuery interface {
	// FindIDs returns every exportable product id.
	FindIDs(ctx context.Context) ([]uuid.UUID, error)
	// FindIDsByType returns product ids of the given type.
	FindIDsByType(ctx context.Context, productType ProductType) ([]uuid.UUID, error)
}

// SegmentProductQuery restricts product expansion to a configured segment.
type SegmentProductQuery interface {
	FindIDs(ctx context.Context, segmentID uuid.UUID) ([]uuid.UUID, error)
	FindIDsByType(ctx context.Context, segmentID uuid.UUID, productType ProductType) ([]uuid.UUID, error)
}

// ProductRepository loads products by id.
type ProductRepository interface {
	// FindByID returns ErrProductNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
}

// CategoryRepository loads categories by id.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
}

// TreeRepository loads category trees by id.
type TreeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tree, error)
}

// AttributeRepository loads attribute definitions by id.
type AttributeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Attribute, error)
}

// OptionQuery lists the option ids of a select/multiselect attribute.
type OptionQuery interface {
	FindIDs(ctx context.Context, attributeID uuid.UUID) ([]uuid.UUID, error)
}

// OptionRepository loads options by id.
type OptionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Option, error)
	FindByCode(ctx context.Context, attributeID uuid.UUID, code string) (*Option, error)
}

// MediaRepository loads media read models by id.
type MediaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Media, error)
	// FindIDs returns every media id known to the PIM.
	FindIDs(ctx context.Context) ([]uuid.UUID, error)
}
