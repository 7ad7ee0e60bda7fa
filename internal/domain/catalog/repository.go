package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopstack/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds products by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindByCode finds a product by its unique code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindAll finds products with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnitRepository defines the interface for unit-of-measure persistence
type UnitRepository interface {
	// FindByID finds a unit by ID
	FindByID(ctx context.Context, id uuid.UUID) (*UnitOfMeasure, error)

	// FindByIDs finds units by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]UnitOfMeasure, error)

	// FindAll finds all units
	FindAll(ctx context.Context) ([]UnitOfMeasure, error)

	// Save creates or updates a unit
	Save(ctx context.Context, unit *UnitOfMeasure) error
}

// ProductUnitConversionRepository defines the interface for the per-product
// unit rate table
type ProductUnitConversionRepository interface {
	// FindByProduct finds all conversions defined for a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductUnitConversion, error)

	// Save creates or updates a conversion
	Save(ctx context.Context, conv *ProductUnitConversion) error

	// Delete deletes a conversion
	Delete(ctx context.Context, id uuid.UUID) error
}
