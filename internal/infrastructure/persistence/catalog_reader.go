package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/infrastructure/persistence/models"
)

// The catalog readers back the step expansion and mapper lookups with the
// PIM's source tables. All of them are read-only.

// GormProductQuery implements catalog.ProductQuery
type GormProductQuery struct {
	db *gorm.DB
}

// NewGormProductQuery creates a new GormProductQuery
func NewGormProductQuery(db *gorm.DB) *GormProductQuery {
	return &GormProductQuery{db: db}
}

// FindIDs returns every exportable product id
func (q *GormProductQuery) FindIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := q.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Order("sku ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindIDsByType returns product ids of the given type
func (q *GormProductQuery) FindIDsByType(ctx context.Context, productType catalog.ProductType) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := q.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("type = ?", string(productType)).
		Order("sku ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GormSegmentProductQuery implements catalog.SegmentProductQuery
type GormSegmentProductQuery struct {
	db *gorm.DB
}

// NewGormSegmentProductQuery creates a new GormSegmentProductQuery
func NewGormSegmentProductQuery(db *gorm.DB) *GormSegmentProductQuery {
	return &GormSegmentProductQuery{db: db}
}

// FindIDs returns the product ids of the segment
func (q *GormSegmentProductQuery) FindIDs(ctx context.Context, segmentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := q.db.WithContext(ctx).
		Model(&models.SegmentProductModel{}).
		Where("segment_id = ?", segmentID).
		Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindIDsByType returns the segment's product ids of the given type
func (q *GormSegmentProductQuery) FindIDsByType(ctx context.Context, segmentID uuid.UUID, productType catalog.ProductType) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := q.db.WithContext(ctx).
		Model(&models.SegmentProductModel{}).
		Joins("JOIN products ON products.id = segment_products.product_id").
		Where("segment_products.segment_id = ? AND products.type = ?", segmentID, string(productType)).
		Pluck("segment_products.product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GormProductRepository implements catalog.ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var row models.ProductModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// GormCategoryRepository implements catalog.CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var row models.CategoryModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// GormTreeRepository implements catalog.TreeRepository
type GormTreeRepository struct {
	db *gorm.DB
}

// NewGormTreeRepository creates a new GormTreeRepository
func NewGormTreeRepository(db *gorm.DB) *GormTreeRepository {
	return &GormTreeRepository{db: db}
}

// FindByID finds a category tree by its ID
func (r *GormTreeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tree, error) {
	var row models.CategoryTreeModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrTreeNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// GormAttributeRepository implements catalog.AttributeRepository
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// FindByID finds an attribute by its ID
func (r *GormAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Attribute, error) {
	var row models.AttributeModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrAttributeNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// GormOptionRepository implements catalog.OptionRepository and
// catalog.OptionQuery. Option ids come back in sort order so batch positions
// stay stable across runs.
type GormOptionRepository struct {
	db *gorm.DB
}

// NewGormOptionRepository creates a new GormOptionRepository
func NewGormOptionRepository(db *gorm.DB) *GormOptionRepository {
	return &GormOptionRepository{db: db}
}

// FindIDs returns the option ids of the attribute in sort order
func (r *GormOptionRepository) FindIDs(ctx context.Context, attributeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.AttributeOptionModel{}).
		Where("attribute_id = ?", attributeID).
		Order("sort_order ASC, code ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindByID finds an option by its ID
func (r *GormOptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Option, error) {
	var row models.AttributeOptionModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrOptionNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// FindByCode finds an option of the attribute by its code
func (r *GormOptionRepository) FindByCode(ctx context.Context, attributeID uuid.UUID, code string) (*catalog.Option, error) {
	var row models.AttributeOptionModel
	if err := r.db.WithContext(ctx).
		Where("attribute_id = ? AND code = ?", attributeID, code).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrOptionNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// GormMediaRepository implements catalog.MediaRepository
type GormMediaRepository struct {
	db *gorm.DB
}

// NewGormMediaRepository creates a new GormMediaRepository
func NewGormMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

// FindByID finds a media asset by its ID
func (r *GormMediaRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Media, error) {
	var row models.MediaModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrMediaNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// FindIDs returns every media id known to the PIM
func (r *GormMediaRepository) FindIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.MediaModel{}).
		Order("name ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Interface guards for the catalog readers
var (
	_ catalog.ProductQuery        = (*GormProductQuery)(nil)
	_ catalog.SegmentProductQuery = (*GormSegmentProductQuery)(nil)
	_ catalog.ProductRepository   = (*GormProductRepository)(nil)
	_ catalog.CategoryRepository  = (*GormCategoryRepository)(nil)
	_ catalog.TreeRepository      = (*GormTreeRepository)(nil)
	_ catalog.AttributeRepository = (*GormAttributeRepository)(nil)
	_ catalog.OptionQuery         = (*GormOptionRepository)(nil)
	_ catalog.OptionRepository    = (*GormOptionRepository)(nil)
	_ catalog.MediaRepository     = (*GormMediaRepository)(nil)
)
