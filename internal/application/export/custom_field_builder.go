package export

import (
	"context"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// CustomFieldSetName is the remote custom field set every exported field is
// bound to. The set is created once per channel if absent.
const CustomFieldSetName = "pimsync"

// CustomFieldName derives the remote technical name of an exported
// attribute. Prefixing keeps exported fields out of the way of fields other
// integrations own.
func CustomFieldName(attributeCode string) string {
	return CustomFieldSetName + "_" + attributeCode
}

// CustomFieldSource is the input of one custom-field mapper pass.
type CustomFieldSource struct {
	Attribute *catalog.Attribute
	// Options is the attribute's option list, empty for non-select types.
	Options []catalog.Option
}

// CustomFieldMapper mutates one aspect of a custom field snapshot.
type CustomFieldMapper interface {
	Map(ctx context.Context, run *RunContext, field *model.CustomField, source CustomFieldSource) error
}

// CustomFieldBuilder threads a snapshot through a statically ordered mapper
// list.
type CustomFieldBuilder struct {
	mappers []CustomFieldMapper
}

// NewCustomFieldBuilder composes the given mappers in order.
func NewCustomFieldBuilder(mappers ...CustomFieldMapper) *CustomFieldBuilder {
	return &CustomFieldBuilder{mappers: mappers}
}

// DefaultCustomFieldMappers is the production mapper order.
func DefaultCustomFieldMappers() []CustomFieldMapper {
	return []CustomFieldMapper{
		customFieldNameMapper{},
		customFieldTypeMapper{},
		customFieldLabelMapper{},
		customFieldOptionMapper{},
	}
}

// Build applies every mapper in order.
func (b *CustomFieldBuilder) Build(ctx context.Context, run *RunContext, field *model.CustomField, source CustomFieldSource) error {
	for _, mapper := range b.mappers {
		if err := mapper.Map(ctx, run, field, source); err != nil {
			return err
		}
	}
	return nil
}

// --- mappers ---

type customFieldNameMapper struct{}

func (customFieldNameMapper) Map(_ context.Context, _ *RunContext, field *model.CustomField, source CustomFieldSource) error {
	field.SetName(CustomFieldName(source.Attribute.Code))
	return nil
}

// customFieldTypeMapper selects the remote field type and its rendering
// component from the attribute's authoring type.
type customFieldTypeMapper struct{}

func (customFieldTypeMapper) Map(_ context.Context, _ *RunContext, field *model.CustomField, source CustomFieldSource) error {
	config := field.Config()
	switch source.Attribute.Type {
	case catalog.AttributeTypeTextarea:
		field.SetType(stringPtr("html"))
		config.SetType(stringPtr("html"))
		config.SetCustomFieldType(stringPtr("textEditor"))
		config.SetComponentName(stringPtr("sw-text-editor"))
	case catalog.AttributeTypeNumeric, catalog.AttributeTypePrice:
		field.SetType(stringPtr("float"))
		config.SetType(stringPtr("number"))
		config.SetCustomFieldType(stringPtr("number"))
		config.SetComponentName(stringPtr("sw-field"))
		config.SetNumberType(stringPtr("float"))
	case catalog.AttributeTypeDate:
		field.SetType(stringPtr("datetime"))
		config.SetType(stringPtr("date"))
		config.SetCustomFieldType(stringPtr("date"))
		config.SetComponentName(stringPtr("sw-field"))
		config.SetDateType(stringPtr("datetime"))
	case catalog.AttributeTypeSelect:
		field.SetType(stringPtr("select"))
		config.SetType(stringPtr("select"))
		config.SetCustomFieldType(stringPtr("select"))
		config.SetComponentName(stringPtr("sw-single-select"))
	case catalog.AttributeTypeMultiSelect:
		field.SetType(stringPtr("select"))
		config.SetType(stringPtr("select"))
		config.SetCustomFieldType(stringPtr("select"))
		config.SetComponentName(stringPtr("sw-multi-select"))
	case catalog.AttributeTypeImage, catalog.AttributeTypeGallery:
		field.SetType(stringPtr("text"))
		config.SetType(stringPtr("media"))
		config.SetCustomFieldType(stringPtr("media"))
		config.SetComponentName(stringPtr("sw-media-field"))
	default:
		field.SetType(stringPtr("text"))
		config.SetType(stringPtr("text"))
		config.SetCustomFieldType(stringPtr("text"))
		config.SetComponentName(stringPtr("sw-field"))
	}
	return nil
}

// customFieldLabelMapper keys labels by remote language id, falling back to
// the attribute code when a language has no label.
type customFieldLabelMapper struct{}

func (customFieldLabelMapper) Map(_ context.Context, run *RunContext, field *model.CustomField, source CustomFieldSource) error {
	labels := map[string]string{}
	for _, code := range run.Channel.AllLanguages() {
		label := source.Attribute.Label.Get(code, run.Channel.DefaultLanguage)
		if label == "" {
			label = source.Attribute.Code
		}
		labels[run.LanguageID(code)] = label
	}
	field.Config().MergeLabel(labels)
	return nil
}

// customFieldOptionMapper maps the option list of select attributes.
type customFieldOptionMapper struct{}

func (customFieldOptionMapper) Map(_ context.Context, run *RunContext, field *model.CustomField, source CustomFieldSource) error {
	if !source.Attribute.HasOptions() {
		return nil
	}
	for _, option := range source.Options {
		labels := map[string]string{}
		for _, code := range run.Channel.AllLanguages() {
			label := option.Label.Get(code, run.Channel.DefaultLanguage)
			if label == "" {
				label = option.Code
			}
			labels[run.LanguageID(code)] = label
		}
		field.Config().AddOption(model.CustomFieldConfigOption{
			Value: option.Code,
			Label: labels,
		})
	}
	return nil
}
