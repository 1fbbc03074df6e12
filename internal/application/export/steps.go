package export

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/export"
)

// Step expands one slice of channel scope into units of work and drives them
// through its process. Unit failures are recorded on the run and never stop
// the step; only an ErrRunAborted precondition violation propagates.
type Step interface {
	Name() string
	Run(ctx context.Context, run *RunContext) error
}

// recorder books every unit on the run: a progress line before the unit
// starts, a processed mark when it completes, and a structured error entry
// when it failed.
type recorder struct {
	exports export.Repository
	logger  *zap.Logger
}

func newRecorder(exports export.Repository, logger *zap.Logger) *recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recorder{exports: exports, logger: logger}
}

// unit runs fn as one unit of work. The returned error is non-nil only for
// run-aborting failures; everything else lands on the error log.
func (r *recorder) unit(ctx context.Context, run *RunContext, objectID uuid.UUID, fn func() error) error {
	line := export.NewLine(run.Export.ID, objectID)
	if err := r.exports.AddLine(ctx, line); err != nil {
		return err
	}

	err := fn()
	if err != nil && errors.Is(err, ErrRunAborted) {
		return err
	}
	if err != nil {
		message := err.Error()
		var parameters map[string]string
		var unitErr *UnitError
		if errors.As(err, &unitErr) {
			message = unitErr.Message
			parameters = unitErr.Parameters
		}
		r.logger.Warn("unit of work failed",
			zap.String("object_id", objectID.String()),
			zap.Error(err))
		if err := r.exports.AddError(ctx, run.Export.ID, message, parameters); err != nil {
			return err
		}
	}

	// failed units are marked processed too, the error log is the audit
	// surface and the run must stay resumable
	return r.exports.ProcessLine(ctx, line.ID)
}

// --- category step ---

// CategoryStep exports every selected tree: the synthesized root first, then
// each node in parent-before-child order.
type CategoryStep struct {
	trees    catalog.TreeRepository
	process  *CategoryProcess
	recorder *recorder
}

// NewCategoryStep wires the category tree expansion.
func NewCategoryStep(trees catalog.TreeRepository, process *CategoryProcess, exports export.Repository, logger *zap.Logger) *CategoryStep {
	return &CategoryStep{trees: trees, process: process, recorder: newRecorder(exports, logger)}
}

func (s *CategoryStep) Name() string { return "category" }

func (s *CategoryStep) Run(ctx context.Context, run *RunContext) error {
	for _, treeID := range run.Channel.CategoryTreeIDs {
		tree, err := s.trees.FindByID(ctx, treeID)
		if err != nil {
			if err := s.recorder.exports.AddError(ctx, run.Export.ID, "category tree not found", map[string]string{"tree": treeID.String()}); err != nil {
				return err
			}
			continue
		}
		err = s.recorder.unit(ctx, run, tree.ID, func() error {
			return s.process.ExportTreeRoot(ctx, run, tree)
		})
		if err != nil {
			return err
		}
		for _, ref := range tree.Flatten() {
			ref := ref
			err := s.recorder.unit(ctx, run, ref.CategoryID, func() error {
				return s.process.Export(ctx, run, tree, ref)
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// --- category removal step ---

// CategoryRemoveStep runs after the tree export and removes remote
// categories whose local counterpart left every selected tree.
type CategoryRemoveStep struct {
	trees    catalog.TreeRepository
	process  *CategoryProcess
	recorder *recorder
}

// NewCategoryRemoveStep wires the stale category removal pass.
func NewCategoryRemoveStep(trees catalog.TreeRepository, process *CategoryProcess, exports export.Repository, logger *zap.Logger) *CategoryRemoveStep {
	return &CategoryRemoveStep{trees: trees, process: process, recorder: newRecorder(exports, logger)}
}

func (s *CategoryRemoveStep) Name() string { return "category-remove" }

func (s *CategoryRemoveStep) Run(ctx context.Context, run *RunContext) error {
	trees := make([]*catalog.Tree, 0, len(run.Channel.CategoryTreeIDs))
	for _, treeID := range run.Channel.CategoryTreeIDs {
		tree, err := s.trees.FindByID(ctx, treeID)
		if err != nil {
			return err
		}
		trees = append(trees, tree)
	}
	if len(trees) == 0 {
		return nil
	}
	return s.recorder.unit(ctx, run, run.Channel.ID, func() error {
		return s.process.RemoveStale(ctx, run, trees)
	})
}

// --- product step ---

// ProductStep exports every product, restricted to the channel's segment
// when one is configured.
type ProductStep struct {
	products catalog.ProductQuery
	segment  catalog.SegmentProductQuery
	process  *ProductProcess
	recorder *recorder
}

// NewProductStep wires the product expansion.
func NewProductStep(products catalog.ProductQuery, segment catalog.SegmentProductQuery, process *ProductProcess, exports export.Repository, logger *zap.Logger) *ProductStep {
	return &ProductStep{products: products, segment: segment, process: process, recorder: newRecorder(exports, logger)}
}

func (s *ProductStep) Name() string { return "product" }

func (s *ProductStep) Run(ctx context.Context, run *RunContext) error {
	var ids []uuid.UUID
	var err error
	if run.Channel.SegmentID != nil {
		ids, err = s.segment.FindIDs(ctx, *run.Channel.SegmentID)
	} else {
		ids, err = s.products.FindIDs(ctx)
	}
	if err != nil {
		return err
	}
	for _, id := range ids {
		id := id
		err := s.recorder.unit(ctx, run, id, func() error {
			return s.process.Export(ctx, run, id)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// --- custom field step ---

// CustomFieldStep exports every attribute bound as a custom field.
type CustomFieldStep struct {
	process  *CustomFieldProcess
	recorder *recorder
}

// NewCustomFieldStep wires the custom field expansion.
func NewCustomFieldStep(process *CustomFieldProcess, exports export.Repository, logger *zap.Logger) *CustomFieldStep {
	return &CustomFieldStep{process: process, recorder: newRecorder(exports, logger)}
}

func (s *CustomFieldStep) Name() string { return "custom-field" }

func (s *CustomFieldStep) Run(ctx context.Context, run *RunContext) error {
	for _, id := range run.Channel.CustomFieldAttributeIDs {
		id := id
		err := s.recorder.unit(ctx, run, id, func() error {
			return s.process.Export(ctx, run, id)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// --- property group step ---

// PropertyGroupStep exports the channel's configured property-group
// attributes plus the bindings of every variable product, so variant axes
// are exported even when nobody listed them explicitly.
type PropertyGroupStep struct {
	productIDs catalog.ProductQuery
	products   catalog.ProductRepository
	process    *PropertyGroupProcess
	recorder   *recorder
}

// NewPropertyGroupStep wires the property group expansion.
func NewPropertyGroupStep(productIDs catalog.ProductQuery, products catalog.ProductRepository, process *PropertyGroupProcess, exports export.Repository, logger *zap.Logger) *PropertyGroupStep {
	return &PropertyGroupStep{productIDs: productIDs, products: products, process: process, recorder: newRecorder(exports, logger)}
}

func (s *PropertyGroupStep) Name() string { return "property-group" }

func (s *PropertyGroupStep) Run(ctx context.Context, run *RunContext) error {
	attributeIDs, err := s.expand(ctx, run)
	if err != nil {
		return err
	}
	for _, id := range attributeIDs {
		id := id
		err := s.recorder.unit(ctx, run, id, func() error {
			return s.process.Export(ctx, run, id)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PropertyGroupStep) expand(ctx context.Context, run *RunContext) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]struct{}{}
	out := make([]uuid.UUID, 0, len(run.Channel.PropertyGroupAttributeIDs))
	for _, id := range run.Channel.PropertyGroupAttributeIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	variableIDs, err := s.productIDs.FindIDsByType(ctx, catalog.ProductTypeVariable)
	if err != nil {
		return nil, err
	}
	for _, productID := range variableIDs {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		for _, binding := range product.Bindings {
			if _, ok := seen[binding]; ok {
				continue
			}
			seen[binding] = struct{}{}
			out = append(out, binding)
		}
	}
	return out, nil
}

// --- media translation step ---

// MediaStep refreshes the translations of every linked remote media.
type MediaStep struct {
	media    catalog.MediaRepository
	process  *MediaProcess
	recorder *recorder
}

// NewMediaStep wires the media translation expansion.
func NewMediaStep(media catalog.MediaRepository, process *MediaProcess, exports export.Repository, logger *zap.Logger) *MediaStep {
	return &MediaStep{media: media, process: process, recorder: newRecorder(exports, logger)}
}

func (s *MediaStep) Name() string { return "media" }

func (s *MediaStep) Run(ctx context.Context, run *RunContext) error {
	ids, err := s.media.FindIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		id := id
		err := s.recorder.unit(ctx, run, id, func() error {
			return s.process.Export(ctx, run, id)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
