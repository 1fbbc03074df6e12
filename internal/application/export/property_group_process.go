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

// PropertyGroupProcess exports one select attribute as a remote property
// group with its full option set. The skip decision is all-or-nothing over
// the group and every option; when any option changed the whole batch goes
// out, unchanged options included, because the remote batch contract does
// not take partial sets.
type PropertyGroupProcess struct {
	detector   *ChangeDetector
	builder    *PropertyGroupBuilder
	client     PropertyGroupAPI
	links      link.Store
	attributes catalog.AttributeRepository
	optionIDs  catalog.OptionQuery
	options    catalog.OptionRepository
	logger     *zap.Logger
}

// NewPropertyGroupProcess wires the property group export workflow.
func NewPropertyGroupProcess(detector *ChangeDetector, builder *PropertyGroupBuilder, client PropertyGroupAPI, links link.Store, attributes catalog.AttributeRepository, optionIDs catalog.OptionQuery, options catalog.OptionRepository, logger *zap.Logger) *PropertyGroupProcess {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyGroupProcess{
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

// Export runs one attribute and its option set through the state machine.
func (p *PropertyGroupProcess) Export(ctx context.Context, run *RunContext, attributeID uuid.UUID) error {
	attr, err := p.attributes.FindByID(ctx, attributeID)
	if err != nil {
		return newUnitError("attribute not found", map[string]string{
			"attribute": attributeID.String(),
		}, err)
	}
	if !attr.HasOptions() {
		return newUnitError("attribute carries no options", map[string]string{
			"attribute": attr.Code,
			"type":      string(attr.Type),
		}, nil)
	}

	optionIDs, err := p.optionIDs.FindIDs(ctx, attr.ID)
	if err != nil {
		return err
	}
	source := PropertyGroupSource{Attribute: attr}
	for _, optionID := range optionIDs {
		option, err := p.options.FindByID(ctx, optionID)
		if err != nil {
			return err
		}
		source.Options = append(source.Options, *option)
	}

	groupRemoteID, err := p.links.Load(ctx, run.Channel.ID, link.EntityTypePropertyGroup, attr.ID, uuid.Nil)
	if err != nil {
		return err
	}
	if groupRemoteID != "" && !p.detector.ShouldExport(ctx, run.Watermark, attr.ID, optionIDs...) {
		return nil
	}

	groupRemoteID, err = p.exportGroup(ctx, run, attr, source, groupRemoteID)
	if err != nil {
		return err
	}
	return p.exportOptions(ctx, run, attr, source, groupRemoteID)
}

func (p *PropertyGroupProcess) exportGroup(ctx context.Context, run *RunContext, attr *catalog.Attribute, source PropertyGroupSource, remoteID string) (string, error) {
	var group *model.PropertyGroup
	var err error
	if remoteID != "" {
		group, err = p.client.Get(ctx, run.Channel, remoteID)
		if shopware.IsNotFound(err) {
			remoteID = ""
		} else if err != nil {
			return "", err
		}
	}

	if remoteID == "" {
		group = model.NewPropertyGroup()
		if err := p.builder.Build(ctx, run, group, source); err != nil {
			return "", err
		}
		remoteID, err = p.client.Create(ctx, run.Channel, group)
		if err != nil {
			return "", err
		}
		l, err := link.NewLink(run.Channel.ID, link.EntityTypePropertyGroup, attr.ID, uuid.Nil, remoteID)
		if err != nil {
			return "", err
		}
		return remoteID, p.links.Save(ctx, l)
	}

	if err := p.builder.Build(ctx, run, group, source); err != nil {
		return "", err
	}
	if group.IsDirty() {
		if err := p.client.Update(ctx, run.Channel, group); err != nil {
			return "", err
		}
	}
	return remoteID, nil
}

// exportOptions upserts the complete option batch and reconciles the created
// ids back to their options through the request token. An option the
// response does not correlate is picked up by the name fallback inside the
// client; one unmatched either way is linked on a later run.
func (p *PropertyGroupProcess) exportOptions(ctx context.Context, run *RunContext, attr *catalog.Attribute, source PropertyGroupSource, groupRemoteID string) error {
	batch := make([]*model.PropertyGroupOption, 0, len(source.Options))
	for position, pimOption := range source.Options {
		option := model.NewPropertyGroupOption()
		option.SetGroupID(groupRemoteID)
		option.SetRequestKey(requestToken(pimOption.ID, attr.ID))
		remoteID, err := p.links.Load(ctx, run.Channel.ID, link.EntityTypePropertyGroupOption, pimOption.ID, attr.ID)
		if err != nil {
			return err
		}
		if remoteID != "" {
			option.SetID(remoteID)
		}
		p.builder.BuildOption(run, option, source, pimOption, position)
		batch = append(batch, option)
	}
	if len(batch) == 0 {
		return nil
	}

	created, err := p.client.InsertOptionsBatch(ctx, run.Channel, batch)
	if err != nil {
		return err
	}
	for _, pimOption := range source.Options {
		remoteID, ok := created[requestToken(pimOption.ID, attr.ID)]
		if !ok {
			continue
		}
		l, err := link.NewLink(run.Channel.ID, link.EntityTypePropertyGroupOption, pimOption.ID, attr.ID, remoteID)
		if err != nil {
			return err
		}
		if err := p.links.Save(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

// requestToken is the batch correlation key attached to each create payload.
func requestToken(localID, subScopeID uuid.UUID) string {
	return localID.String() + "_" + subScopeID.String()
}
