package export

import (
	"context"

	"github.com/google/uuid"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// CategorySource is the input of one category mapper pass: the PIM category,
// the tree it is exported under, the resolved remote id of its parent and the
// language the pass builds.
type CategorySource struct {
	Category       *catalog.Category
	TreeID         uuid.UUID
	ParentRemoteID *string
	Language       string
	// IsDefaultLanguage marks the root pass; language passes operate on a
	// translated view instead of the root snapshot.
	IsDefaultLanguage bool
}

// CategoryMapper mutates one aspect of a category snapshot.
type CategoryMapper interface {
	Map(ctx context.Context, run *RunContext, snapshot *model.Category, source CategorySource) error
}

// CategoryBuilder threads a snapshot through a statically ordered mapper
// list. Parent linkage runs before anything translatable so a language pass
// never observes a half-linked node.
type CategoryBuilder struct {
	mappers []CategoryMapper
}

// NewCategoryBuilder composes the given mappers in order.
func NewCategoryBuilder(mappers ...CategoryMapper) *CategoryBuilder {
	return &CategoryBuilder{mappers: mappers}
}

// DefaultCategoryMappers is the production mapper order.
func DefaultCategoryMappers() []CategoryMapper {
	return []CategoryMapper{
		categoryParentMapper{},
		categoryActiveMapper{},
		categoryNameMapper{},
	}
}

// Build applies every mapper in order. Mappers are idempotent: a second pass
// over unchanged source data leaves the snapshot clean.
func (b *CategoryBuilder) Build(ctx context.Context, run *RunContext, snapshot *model.Category, source CategorySource) error {
	for _, mapper := range b.mappers {
		if err := mapper.Map(ctx, run, snapshot, source); err != nil {
			return err
		}
	}
	return nil
}

// --- mappers ---

type categoryParentMapper struct{}

func (categoryParentMapper) Map(_ context.Context, _ *RunContext, snapshot *model.Category, source CategorySource) error {
	if !source.IsDefaultLanguage {
		return nil
	}
	snapshot.SetParentID(source.ParentRemoteID)
	return nil
}

type categoryActiveMapper struct{}

func (categoryActiveMapper) Map(_ context.Context, _ *RunContext, snapshot *model.Category, source CategorySource) error {
	if !source.IsDefaultLanguage {
		return nil
	}
	snapshot.SetActive(true)
	snapshot.SetVisible(true)
	return nil
}

type categoryNameMapper struct{}

func (categoryNameMapper) Map(_ context.Context, run *RunContext, snapshot *model.Category, source CategorySource) error {
	name := source.Category.Name.Get(source.Language, run.Channel.DefaultLanguage)
	if name == "" {
		// the remote platform rejects nameless categories
		name = source.Category.Code
	}
	snapshot.SetName(stringPtr(name))
	return nil
}
