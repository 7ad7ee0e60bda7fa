package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// Product represents a sellable/purchasable item.
// UnitID is the unit transactions are written in; BaseUnitID, when set, is the
// smallest stock-tracking unit and ConversionRate converts UnitID quantities
// into it.
type Product struct {
	shared.AggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Barcode        string          `gorm:"type:varchar(50);index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	UnitID         uuid.UUID       `gorm:"type:uuid;not null"`
	BaseUnitID     *uuid.UUID      `gorm:"type:uuid"`
	ConversionRate decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string, unitID uuid.UUID) (*Product, error) {
	if code == "" {
		return nil, shared.NewValidationError("Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if unitID == uuid.Nil {
		return nil, shared.NewValidationError("Product unit cannot be empty")
	}

	return &Product{
		AggregateRoot:  shared.NewAggregateRoot(),
		Code:           code,
		Name:           name,
		UnitID:         unitID,
		ConversionRate: decimal.NewFromInt(1),
		CostPrice:      decimal.Zero,
		SalePrice:      decimal.Zero,
		WholesalePrice: decimal.Zero,
		MinStock:       decimal.Zero,
		Active:         true,
	}, nil
}

// SetBaseUnit defines the base stock-tracking unit and the rate converting the
// product's transaction unit into it. The rate must be positive.
func (p *Product) SetBaseUnit(baseUnitID uuid.UUID, conversionRate decimal.Decimal) error {
	if baseUnitID == uuid.Nil {
		return shared.NewValidationError("Base unit cannot be empty")
	}
	if conversionRate.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Conversion rate must be positive")
	}

	p.BaseUnitID = &baseUnitID
	p.ConversionRate = conversionRate
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetPrices updates the product's prices
func (p *Product) SetPrices(cost, sale, wholesale decimal.Decimal) error {
	if cost.IsNegative() || sale.IsNegative() || wholesale.IsNegative() {
		return shared.NewValidationError("Prices cannot be negative")
	}
	p.CostPrice = cost
	p.SalePrice = sale
	p.WholesalePrice = wholesale
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetMinStock updates the minimum stock threshold
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewValidationError("Minimum stock cannot be negative")
	}
	p.MinStock = minStock
	p.Touch()
	p.IncrementVersion()
	return nil
}

// HasBaseUnit returns true if the product tracks stock in a distinct base unit
func (p *Product) HasBaseUnit() bool {
	return p.BaseUnitID != nil && *p.BaseUnitID != p.UnitID
}

// StockUnitID returns the unit stock quantities are stored in: the base unit
// when defined, otherwise the transaction unit.
func (p *Product) StockUnitID() uuid.UUID {
	if p.BaseUnitID != nil {
		return *p.BaseUnitID
	}
	return p.UnitID
}
