package export

import (
	"context"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/link"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// ProductSource is the input of one product mapper pass.
type ProductSource struct {
	Product  *catalog.Product
	Language string
	// IsDefaultLanguage marks the root pass. Side-effecting mappers
	// (gallery media resolution) run only then; language passes operate
	// on a translated view.
	IsDefaultLanguage bool
}

// ProductMapper mutates one aspect of a product snapshot.
type ProductMapper interface {
	Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error
}

// ProductBuilder threads a snapshot through a statically ordered mapper
// list.
type ProductBuilder struct {
	mappers []ProductMapper
}

// NewProductBuilder composes the given mappers in order.
func NewProductBuilder(mappers ...ProductMapper) *ProductBuilder {
	return &ProductBuilder{mappers: mappers}
}

// DefaultProductMappers is the production mapper order. Scalar fields come
// first, relation mapping after, the side-effecting gallery mapper last so a
// failed media resolution leaves everything else already mapped.
func DefaultProductMappers(
	attributes catalog.AttributeRepository,
	options catalog.OptionRepository,
	media catalog.MediaRepository,
	links link.Store,
	system SystemAPI,
	mediaAPI MediaAPI,
) []ProductMapper {
	return []ProductMapper{
		&productNameMapper{attributes: attributes},
		&productActiveMapper{attributes: attributes},
		&productStockMapper{attributes: attributes},
		&productPriceMapper{attributes: attributes, system: system},
		&productDescriptionMapper{attributes: attributes},
		&productCategoryMapper{links: links},
		&productPropertyMapper{attributes: attributes, options: options, links: links},
		&productCustomFieldMapper{attributes: attributes, links: links},
		&productSeoMapper{},
		&productGalleryMapper{attributes: attributes, media: media, api: mediaAPI, links: links},
	}
}

// Build applies every mapper in order.
func (b *ProductBuilder) Build(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	for _, mapper := range b.mappers {
		if err := mapper.Map(ctx, run, snapshot, source); err != nil {
			return err
		}
	}
	return nil
}
