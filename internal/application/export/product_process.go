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

// ProductProcess exports one product per unit of work through the shared
// lookup/create/update-check state machine.
type ProductProcess struct {
	detector *ChangeDetector
	builder  *ProductBuilder
	client   ProductAPI
	links    link.Store
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewProductProcess wires the product export workflow.
func NewProductProcess(detector *ChangeDetector, builder *ProductBuilder, client ProductAPI, links link.Store, products catalog.ProductRepository, logger *zap.Logger) *ProductProcess {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductProcess{
		detector: detector,
		builder:  builder,
		client:   client,
		links:    links,
		products: products,
		logger:   logger,
	}
}

// Export runs one product through the state machine.
func (p *ProductProcess) Export(ctx context.Context, run *RunContext, productID uuid.UUID) error {
	remoteID, err := p.links.Load(ctx, run.Channel.ID, link.EntityTypeProduct, productID, uuid.Nil)
	if err != nil {
		return err
	}
	if remoteID != "" && !p.detector.ShouldExport(ctx, run.Watermark, productID) {
		return nil
	}

	product, err := p.products.FindByID(ctx, productID)
	if err != nil {
		return newUnitError("product not found", map[string]string{
			"product": productID.String(),
		}, err)
	}

	source := ProductSource{
		Product:           product,
		Language:          run.Channel.DefaultLanguage,
		IsDefaultLanguage: true,
	}

	var snapshot *model.Product
	if remoteID != "" {
		snapshot, err = p.client.Get(ctx, run.Channel, remoteID)
		if shopware.IsNotFound(err) {
			remoteID = ""
		} else if err != nil {
			return err
		}
	}

	if remoteID == "" {
		snapshot = model.NewProduct()
		snapshot.SetSKU(product.SKU)
		if err := p.builder.Build(ctx, run, snapshot, source); err != nil {
			return err
		}
		remoteID, err = p.client.Create(ctx, run.Channel, snapshot)
		if err != nil {
			return err
		}
		if err := p.saveLink(ctx, run, product.ID, remoteID); err != nil {
			return err
		}
		hydrated, err := p.client.Get(ctx, run.Channel, remoteID)
		switch {
		case err == nil:
			snapshot = hydrated
		case shopware.IsNotFound(err):
			snapshot.SetID(remoteID)
		default:
			return err
		}
	}

	if err := p.updateCheck(ctx, run, snapshot, source); err != nil {
		return err
	}
	// gallery entries that lost confirmation force an update even when no
	// field changed
	if snapshot.IsDirty() || snapshot.HasRemovals() {
		return p.client.Update(ctx, run.Channel, snapshot)
	}
	return nil
}

func (p *ProductProcess) updateCheck(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	if err := p.builder.Build(ctx, run, snapshot, source); err != nil {
		return err
	}
	for _, code := range run.Channel.Languages {
		languageID := run.LanguageID(code)
		view := snapshot.TranslatedView(languageID)
		languageSource := source
		languageSource.Language = code
		languageSource.IsDefaultLanguage = false
		if err := p.builder.Build(ctx, run, view, languageSource); err != nil {
			return err
		}
		snapshot.MergeTranslatedView(view, languageID)
	}
	snapshot.RetainTranslations(run.LanguageIDs())
	return nil
}

func (p *ProductProcess) saveLink(ctx context.Context, run *RunContext, localID uuid.UUID, remoteID string) error {
	l, err := link.NewLink(run.Channel.ID, link.EntityTypeProduct, localID, uuid.Nil, remoteID)
	if err != nil {
		return err
	}
	return p.links.Save(ctx, l)
}
