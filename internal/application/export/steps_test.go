package export

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimsync/connector/internal/domain/catalog"
)

// stubStep drives the recorder with canned unit outcomes.
type stubStep struct {
	name  string
	units map[uuid.UUID]error
	order []uuid.UUID
	rec   *recorder
}

func (s *stubStep) Name() string { return s.name }

func (s *stubStep) Run(ctx context.Context, run *RunContext) error {
	for _, id := range s.order {
		id := id
		if err := s.rec.unit(ctx, run, id, func() error { return s.units[id] }); err != nil {
			return err
		}
	}
	return nil
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("failed units are recorded and still marked processed", func(t *testing.T) {
		repo := newFakeExportRepo()
		rec := newRecorder(repo, nil)
		rc := mustRunContext(mustChannel(), nil)
		good, bad := uuid.New(), uuid.New()

		step := &stubStep{
			name:  "stub",
			order: []uuid.UUID{good, bad},
			units: map[uuid.UUID]error{
				bad: newUnitError("invalid stock value", map[string]string{"sku": "S-1"}, fmt.Errorf("parse")),
			},
			rec: rec,
		}
		require.NoError(t, step.Run(ctx, rc))

		assert.Len(t, repo.lines, 2)
		assert.True(t, repo.allProcessed())
		require.Len(t, repo.errs, 1)
		assert.Equal(t, "invalid stock value", repo.errs[0].Message)
		assert.Equal(t, "S-1", repo.errs[0].Parameters["sku"])
	})

	t.Run("plain errors keep their message without parameters", func(t *testing.T) {
		repo := newFakeExportRepo()
		rec := newRecorder(repo, nil)
		rc := mustRunContext(mustChannel(), nil)
		id := uuid.New()

		require.NoError(t, rec.unit(ctx, rc, id, func() error {
			return errors.New("transport down")
		}))

		require.Len(t, repo.errs, 1)
		assert.Equal(t, "transport down", repo.errs[0].Message)
		assert.Nil(t, repo.errs[0].Parameters)
		assert.True(t, repo.allProcessed())
	})

	t.Run("precondition violations abort instead of logging", func(t *testing.T) {
		repo := newFakeExportRepo()
		rec := newRecorder(repo, nil)
		rc := mustRunContext(mustChannel(), nil)
		id := uuid.New()

		err := rec.unit(ctx, rc, id, func() error {
			return fmt.Errorf("%w: missing parent", ErrRunAborted)
		})
		require.ErrorIs(t, err, ErrRunAborted)
		assert.Empty(t, repo.errs)
		assert.False(t, repo.allProcessed())
	})
}

func TestProductStep(t *testing.T) {
	ctx := context.Background()

	t.Run("segment restriction wins over the full listing", func(t *testing.T) {
		h := newProductHarness()
		segmentID := uuid.New()
		repo := newFakeExportRepo()

		product := h.product()
		h.products.products[product.ID] = product
		all := &fakeProductQuery{ids: []uuid.UUID{product.ID, uuid.New()}}
		segment := &fakeSegmentQuery{ids: map[uuid.UUID][]uuid.UUID{segmentID: {product.ID}}}

		rc := mustRunContext(h.channel, nil)
		rc.Channel.SegmentID = &segmentID

		step := NewProductStep(all, segment, h.process, repo, nil)
		require.NoError(t, step.Run(ctx, rc))

		assert.Len(t, repo.lines, 1)
		assert.Equal(t, product.ID, repo.lines[0].ObjectID)
		assert.Equal(t, 1, h.api.creates)
	})
}

func TestPropertyGroupStepExpand(t *testing.T) {
	ctx := context.Background()

	t.Run("variant bindings join the configured list once", func(t *testing.T) {
		configured := uuid.New()
		axis := uuid.New()

		variable := &catalog.Product{
			ID:       uuid.New(),
			SKU:      "VAR-1",
			Type:     catalog.ProductTypeVariable,
			Bindings: []uuid.UUID{configured, axis},
		}
		ch := mustChannel()
		ch.PropertyGroupAttributeIDs = []uuid.UUID{configured}

		step := NewPropertyGroupStep(
			&fakeProductQuery{byType: map[catalog.ProductType][]uuid.UUID{catalog.ProductTypeVariable: {variable.ID}}},
			&fakeProductRepo{products: map[uuid.UUID]*catalog.Product{variable.ID: variable}},
			nil, newFakeExportRepo(), nil)

		ids, err := step.expand(ctx, mustRunContext(ch, nil))
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{configured, axis}, ids)
	})
}

func TestCategoryStepRecordsMissingTree(t *testing.T) {
	process, _, _, _, _ := newCategoryProcessHarness()
	repo := newFakeExportRepo()
	trees := &fakeTreeRepo{trees: map[uuid.UUID]*catalog.Tree{}}
	missing := uuid.New()

	rc := mustRunContext(mustChannel(), nil)
	rc.Channel.CategoryTreeIDs = []uuid.UUID{missing}

	step := NewCategoryStep(trees, process, repo, nil)
	require.NoError(t, step.Run(context.Background(), rc))

	require.Len(t, repo.errs, 1)
	assert.Equal(t, "category tree not found", repo.errs[0].Message)
	assert.Equal(t, missing.String(), repo.errs[0].Parameters["tree"])
}
