package export

import (
	"context"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// PropertyGroupSource is the input of the property-group mapper passes. The
// group and all of its options are built together, the remote batch contract
// does not allow partial option sets.
type PropertyGroupSource struct {
	Attribute *catalog.Attribute
	Options   []catalog.Option
}

// PropertyGroupMapper mutates one aspect of a property group snapshot.
type PropertyGroupMapper interface {
	Map(ctx context.Context, run *RunContext, group *model.PropertyGroup, source PropertyGroupSource) error
}

// PropertyGroupBuilder threads a group snapshot through a statically ordered
// mapper list.
type PropertyGroupBuilder struct {
	mappers []PropertyGroupMapper
}

// NewPropertyGroupBuilder composes the given mappers in order.
func NewPropertyGroupBuilder(mappers ...PropertyGroupMapper) *PropertyGroupBuilder {
	return &PropertyGroupBuilder{mappers: mappers}
}

// DefaultPropertyGroupMappers is the production mapper order.
func DefaultPropertyGroupMappers() []PropertyGroupMapper {
	return []PropertyGroupMapper{
		propertyGroupNameMapper{},
	}
}

// Build applies every mapper in order.
func (b *PropertyGroupBuilder) Build(ctx context.Context, run *RunContext, group *model.PropertyGroup, source PropertyGroupSource) error {
	for _, mapper := range b.mappers {
		if err := mapper.Map(ctx, run, group, source); err != nil {
			return err
		}
	}
	return nil
}

// BuildOption maps one PIM option onto a group option snapshot for every
// exported language.
func (b *PropertyGroupBuilder) BuildOption(run *RunContext, option *model.PropertyGroupOption, source PropertyGroupSource, pimOption catalog.Option, position int) {
	name := pimOption.Label.Get(run.Channel.DefaultLanguage, run.Channel.DefaultLanguage)
	if name == "" {
		name = pimOption.Code
	}
	option.SetName(stringPtr(name))
	option.SetPosition(&position)
	for _, code := range run.Channel.Languages {
		translated := pimOption.Label.Get(code, run.Channel.DefaultLanguage)
		if translated == "" {
			translated = pimOption.Code
		}
		option.SetTranslatedName(run.LanguageID(code), stringPtr(translated))
	}
}

// --- mappers ---

type propertyGroupNameMapper struct{}

func (propertyGroupNameMapper) Map(_ context.Context, run *RunContext, group *model.PropertyGroup, source PropertyGroupSource) error {
	name := source.Attribute.Label.Get(run.Channel.DefaultLanguage, run.Channel.DefaultLanguage)
	if name == "" {
		name = source.Attribute.Code
	}
	group.SetName(stringPtr(name))
	for _, code := range run.Channel.Languages {
		translated := source.Attribute.Label.Get(code, run.Channel.DefaultLanguage)
		if translated == "" {
			translated = source.Attribute.Code
		}
		group.SetTranslatedName(run.LanguageID(code), stringPtr(translated))
	}
	return nil
}
