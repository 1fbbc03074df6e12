package export

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/link"
	"github.com/pimsync/connector/internal/infrastructure/shopware"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// CustomFieldProcess exports one bound attribute as a remote custom field.
// All exported fields hang off one custom field set, resolved or created
// once per run.
type CustomFieldProcess struct {
	detector   *ChangeDetector
	builder    *CustomFieldBuilder
	client     CustomFieldAPI
	links      link.Store
	attributes catalog.AttributeRepository
	optionIDs  catalog.OptionQuery
	options    catalog.OptionRepository
	logger     *zap.Logger
}

// NewCustomFieldProcess wires the custom field export workflow.
func NewCustomFieldProcess(detector *ChangeDetector, builder *CustomFieldBuilder, client CustomFieldAPI, links link.Store, attributes catalog.AttributeRepository, optionIDs catalog.OptionQuery, options catalog.OptionRepository, logger *zap.Logger) *CustomFieldProcess {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomFieldProcess{
		detector:   detector,
		builder:    builder,
		client:     client,
		links:      links,
		attributes: attributes,
		optionIDs:  optionIDs,
		options:    options,
		logger:     logger,
	}
}

// Export runs one attribute through the state machine. For select attributes
// the change decision covers every option: a changed option value forces the
// field out even when the attribute itself is untouched.
func (p *CustomFieldProcess) Export(ctx context.Context, run *RunContext, attributeID uuid.UUID) error {
	attr, err := p.attributes.FindByID(ctx, attributeID)
	if err != nil {
		return newUnitError("attribute not found", map[string]string{
			"attribute": attributeID.String(),
		}, err)
	}

	source := CustomFieldSource{Attribute: attr}
	var subIDs []uuid.UUID
	if attr.HasOptions() {
		subIDs, err = p.optionIDs.FindIDs(ctx, attr.ID)
		if err != nil {
			return err
		}
		for _, optionID := range subIDs {
			option, err := p.options.FindByID(ctx, optionID)
			if err != nil {
				return err
			}
			source.Options = append(source.Options, *option)
		}
	}

	remoteID, err := p.links.Load(ctx, run.Channel.ID, link.EntityTypeCustomField, attr.ID, uuid.Nil)
	if err != nil {
		return err
	}
	if remoteID != "" && !p.detector.ShouldExport(ctx, run.Watermark, attr.ID, subIDs...) {
		return nil
	}

	setID, err := run.CustomFieldSetID(func() (string, error) {
		return p.resolveSet(ctx, run)
	})
	if err != nil {
		return err
	}

	var field *model.CustomField
	if remoteID != "" {
		field, err = p.client.Get(ctx, run.Channel, remoteID)
		if shopware.IsNotFound(err) {
			remoteID = ""
		} else if err != nil {
			return err
		}
	}

	if remoteID == "" {
		return p.create(ctx, run, attr, source, setID)
	}

	field.SetCustomFieldSetID(&setID)
	if err := p.builder.Build(ctx, run, field, source); err != nil {
		return err
	}
	if field.IsDirty() {
		return p.client.Update(ctx, run.Channel, field)
	}
	return nil
}

func (p *CustomFieldProcess) create(ctx context.Context, run *RunContext, attr *catalog.Attribute, source CustomFieldSource, setID string) error {
	field := model.NewCustomField()
	field.SetRequestKey(attr.ID.String())
	field.SetCustomFieldSetID(&setID)
	if err := p.builder.Build(ctx, run, field, source); err != nil {
		return err
	}

	created, err := p.client.InsertBatch(ctx, run.Channel, []*model.CustomField{field})
	if err != nil {
		return err
	}
	remoteID, ok := created[field.RequestKey()]
	if !ok {
		// asynchronous indexing delayed visibility; the next run links it
		// through the name fallback
		p.logger.Info("custom field creation not yet visible",
			zap.String("attribute", attr.ID.String()),
			zap.String("name", field.Name()))
		return nil
	}

	l, err := link.NewLink(run.Channel.ID, link.EntityTypeCustomField, attr.ID, uuid.Nil, remoteID)
	if err != nil {
		return err
	}
	return p.links.Save(ctx, l)
}

// resolveSet finds the channel's custom field set, creating it on first use.
func (p *CustomFieldProcess) resolveSet(ctx context.Context, run *RunContext) (string, error) {
	id, err := p.client.FindSetByName(ctx, run.Channel, CustomFieldSetName)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	return p.client.CreateSet(ctx, run.Channel, model.CustomFieldSet{
		Name:   CustomFieldSetName,
		Active: true,
		Label: map[string]string{
			run.DefaultLanguageID(): "PIM",
		},
		Entities: []string{"product", "category"},
	})
}
