package export

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/link"
	"github.com/pimsync/connector/internal/infrastructure/shopware"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// CategoryProcess exports one category node per unit of work. The node's
// parent must already be linked when the unit runs; the step driver emits
// parents before children.
type CategoryProcess struct {
	detector   *ChangeDetector
	builder    *CategoryBuilder
	client     CategoryAPI
	links      link.Store
	categories catalog.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryProcess wires the category export workflow.
func NewCategoryProcess(detector *ChangeDetector, builder *CategoryBuilder, client CategoryAPI, links link.Store, categories catalog.CategoryRepository, logger *zap.Logger) *CategoryProcess {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryProcess{
		detector:   detector,
		builder:    builder,
		client:     client,
		links:      links,
		categories: categories,
		logger:     logger,
	}
}

// ExportTreeRoot synthesizes the tree itself as a root category and exports
// it. Children link their parent through the root's identity row, so this
// must complete before any node of the tree is dispatched.
func (p *CategoryProcess) ExportTreeRoot(ctx context.Context, run *RunContext, tree *catalog.Tree) error {
	root := &catalog.Category{ID: tree.ID, Code: tree.Code, Name: tree.Name}
	return p.exportCategory(ctx, run, root, tree.ID, nil)
}

// Export runs one tree node through the shared state machine.
func (p *CategoryProcess) Export(ctx context.Context, run *RunContext, tree *catalog.Tree, ref catalog.NodeRef) error {
	category, err := p.categories.FindByID(ctx, ref.CategoryID)
	if err != nil {
		return newUnitError("category not found", map[string]string{
			"category": ref.CategoryID.String(),
		}, err)
	}

	parentLocalID := tree.ID
	if ref.ParentID != nil {
		parentLocalID = *ref.ParentID
	}
	parentRemoteID, err := p.links.Load(ctx, run.Channel.ID, link.EntityTypeCategory, parentLocalID, tree.ID)
	if err != nil {
		return err
	}
	if parentRemoteID == "" {
		// the step driver emits parents first, a missing parent link
		// means the run state is corrupt
		return fmt.Errorf("%w: category %s has no linked parent %s", ErrRunAborted, category.ID, parentLocalID)
	}

	return p.exportCategory(ctx, run, category, tree.ID, &parentRemoteID)
}

func (p *CategoryProcess) exportCategory(ctx context.Context, run *RunContext, category *catalog.Category, treeID uuid.UUID, parentRemoteID *string) error {
	remoteID, err := p.links.Load(ctx, run.Channel.ID, link.EntityTypeCategory, category.ID, treeID)
	if err != nil {
		return err
	}
	// an unlinked category is always exported, even when its history is
	// older than the watermark: it may have just been added to the tree
	if remoteID != "" && !p.detector.ShouldExport(ctx, run.Watermark, category.ID) {
		return nil
	}

	source := CategorySource{
		Category:          category,
		TreeID:            treeID,
		ParentRemoteID:    parentRemoteID,
		Language:          run.Channel.DefaultLanguage,
		IsDefaultLanguage: true,
	}

	var snapshot *model.Category
	if remoteID != "" {
		snapshot, err = p.client.Get(ctx, run.Channel, remoteID)
		if shopware.IsNotFound(err) {
			// the remote counterpart disappeared, recreate it
			remoteID = ""
		} else if err != nil {
			return err
		}
	}

	if remoteID == "" {
		snapshot = model.NewCategory()
		if err := p.builder.Build(ctx, run, snapshot, source); err != nil {
			return err
		}
		remoteID, err = p.client.Create(ctx, run.Channel, snapshot)
		if err != nil {
			return err
		}
		if err := p.saveLink(ctx, run, category.ID, treeID, remoteID); err != nil {
			return err
		}
		hydrated, err := p.client.Get(ctx, run.Channel, remoteID)
		switch {
		case err == nil:
			snapshot = hydrated
		case shopware.IsNotFound(err):
			// deferred indexing can delay visibility, keep the built
			// snapshot so the translation passes still apply
			snapshot.SetID(remoteID)
		default:
			return err
		}
	}

	if err := p.updateCheck(ctx, run, snapshot, source); err != nil {
		return err
	}
	if snapshot.IsDirty() {
		return p.client.Update(ctx, run.Channel, snapshot)
	}
	return nil
}

// updateCheck runs the default-language pass over the current snapshot and
// one translated-view pass per additional language, merged back. Languages
// no longer exported are cleared.
func (p *CategoryProcess) updateCheck(ctx context.Context, run *RunContext, snapshot *model.Category, source CategorySource) error {
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

func (p *CategoryProcess) saveLink(ctx context.Context, run *RunContext, localID, treeID uuid.UUID, remoteID string) error {
	l, err := link.NewLink(run.Channel.ID, link.EntityTypeCategory, localID, treeID, remoteID)
	if err != nil {
		return err
	}
	return p.links.Save(ctx, l)
}

// RemoveStale deletes the remote counterparts of categories that left every
// selected tree and drops their identity rows. A failing remote delete is
// logged and retried on the next run, the link stays.
func (p *CategoryProcess) RemoveStale(ctx context.Context, run *RunContext, trees []*catalog.Tree) error {
	keep := make([]uuid.UUID, 0)
	seen := map[uuid.UUID]struct{}{}
	for _, tree := range trees {
		for _, id := range append(tree.CategoryIDs(), tree.ID) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			keep = append(keep, id)
		}
	}

	for _, tree := range trees {
		stale, err := p.links.StaleLinks(ctx, run.Channel.ID, link.EntityTypeCategory, tree.ID, keep)
		if err != nil {
			return err
		}
		for _, l := range stale {
			err := p.client.Delete(ctx, run.Channel, l.RemoteID)
			if err != nil && !shopware.IsNotFound(err) {
				p.logger.Warn("stale category delete failed",
					zap.String("remote_id", l.RemoteID),
					zap.Error(err))
				continue
			}
			if err := p.links.Delete(ctx, run.Channel.ID, link.EntityTypeCategory, l.LocalID); err != nil {
				return err
			}
		}
	}
	return nil
}
