package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// ProductUnitConversion is a product-specific rate between an arbitrary unit
// pair (e.g. 1 box = 24 pcs for product X). The table is master data; the
// stock path converts only through the product's default/base unit pair.
type ProductUnitConversion struct {
	shared.BaseEntity
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_unit_pair,priority:1"`
	FromUnitID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_unit_pair,priority:2"`
	ToUnitID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_unit_pair,priority:3"`
	Rate       decimal.Decimal `gorm:"type:decimal(18,6);not null"`
}

// TableName returns the table name for GORM
func (ProductUnitConversion) TableName() string {
	return "product_unit_conversions"
}

// NewProductUnitConversion creates a conversion rate between two units of a product
func NewProductUnitConversion(productID, fromUnitID, toUnitID uuid.UUID, rate decimal.Decimal) (*ProductUnitConversion, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if fromUnitID == uuid.Nil || toUnitID == uuid.Nil {
		return nil, shared.NewValidationError("Unit IDs cannot be empty")
	}
	if fromUnitID == toUnitID {
		return nil, shared.NewValidationError("Conversion units must differ")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Conversion rate must be positive")
	}

	return &ProductUnitConversion{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		FromUnitID: fromUnitID,
		ToUnitID:   toUnitID,
		Rate:       rate,
	}, nil
}

// Convert applies the rate to a quantity expressed in FromUnitID
func (c *ProductUnitConversion) Convert(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Mul(c.Rate).Round(4)
}

// Inverse returns the conversion in the opposite direction
func (c *ProductUnitConversion) Inverse() (*ProductUnitConversion, error) {
	inv := decimal.NewFromInt(1).DivRound(c.Rate, 6)
	return NewProductUnitConversion(c.ProductID, c.ToUnitID, c.FromUnitID, inv)
}
