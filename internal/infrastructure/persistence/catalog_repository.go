package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack/backend/internal/domain/catalog"
	"github.com/shopstack/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := dbFromContext(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds products by a set of IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByCode finds a product by its code
func (r *GormProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	var product catalog.Product
	if err := dbFromContext(ctx, r.db).First(&product, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	query := dbFromContext(ctx, r.db).Model(&catalog.Product{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}
	query = applyOrdering(applyPagination(query, filter), filter, "name")

	var products []catalog.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return dbFromContext(ctx, r.db).Save(product).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&catalog.Product{}, "id = ?", id).Error
}

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.UnitOfMeasure, error) {
	var unit catalog.UnitOfMeasure
	if err := dbFromContext(ctx, r.db).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByIDs finds units by a set of IDs
func (r *GormUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.UnitOfMeasure, error) {
	if len(ids) == 0 {
		return []catalog.UnitOfMeasure{}, nil
	}
	var units []catalog.UnitOfMeasure
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindAll finds all units
func (r *GormUnitRepository) FindAll(ctx context.Context) ([]catalog.UnitOfMeasure, error) {
	var units []catalog.UnitOfMeasure
	if err := dbFromContext(ctx, r.db).Order("name ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *catalog.UnitOfMeasure) error {
	return dbFromContext(ctx, r.db).Save(unit).Error
}

// GormProductUnitConversionRepository implements ProductUnitConversionRepository using GORM
type GormProductUnitConversionRepository struct {
	db *gorm.DB
}

// NewGormProductUnitConversionRepository creates a new GormProductUnitConversionRepository
func NewGormProductUnitConversionRepository(db *gorm.DB) *GormProductUnitConversionRepository {
	return &GormProductUnitConversionRepository{db: db}
}

// FindByProduct finds all conversions defined for a product
func (r *GormProductUnitConversionRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductUnitConversion, error) {
	var conversions []catalog.ProductUnitConversion
	if err := dbFromContext(ctx, r.db).
		Where("product_id = ?", productID).
		Find(&conversions).Error; err != nil {
		return nil, err
	}
	return conversions, nil
}

// Save creates or updates a conversion
func (r *GormProductUnitConversionRepository) Save(ctx context.Context, conv *catalog.ProductUnitConversion) error {
	return dbFromContext(ctx, r.db).Save(conv).Error
}

// Delete deletes a conversion
func (r *GormProductUnitConversionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&catalog.ProductUnitConversion{}, "id = ?", id).Error
}

// Ensure interfaces are implemented
var (
	_ catalog.ProductRepository               = (*GormProductRepository)(nil)
	_ catalog.UnitRepository                  = (*GormUnitRepository)(nil)
	_ catalog.ProductUnitConversionRepository = (*GormProductUnitConversionRepository)(nil)
)
