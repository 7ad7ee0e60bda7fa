package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// Stock holds the on-hand quantity of one product in one warehouse,
// always expressed in the product's base unit.
type Stock struct {
	shared.AggregateRoot
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:1"`
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:2"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastMovementAt   *time.Time
}

// TableName returns the table name for GORM
func (Stock) TableName() string {
	return "stocks"
}

// NewStock creates an empty stock record for a product in a warehouse
func NewStock(productID, warehouseID uuid.UUID) (*Stock, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("Warehouse ID cannot be empty")
	}

	return &Stock{
		AggregateRoot:    shared.NewAggregateRoot(),
		ProductID:        productID,
		WarehouseID:      warehouseID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}, nil
}

// AvailableQuantity returns on-hand quantity minus reservations
func (s *Stock) AvailableQuantity() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}

// AddQuantity increases on-hand stock
func (s *Stock) AddQuantity(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidQuantityError("Quantity to add must be positive")
	}
	s.Quantity = s.Quantity.Add(qty)
	s.markMovement()
	return nil
}

// DeductQuantity decreases on-hand stock. The quantity may not exceed what is
// available after reservations.
func (s *Stock) DeductQuantity(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidQuantityError("Quantity to deduct must be positive")
	}
	if qty.GreaterThan(s.AvailableQuantity()) {
		return shared.NewInvalidQuantityError("Insufficient stock available")
	}
	s.Quantity = s.Quantity.Sub(qty)
	s.markMovement()
	return nil
}

// Reserve holds quantity against future shipment
func (s *Stock) Reserve(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidQuantityError("Quantity to reserve must be positive")
	}
	if qty.GreaterThan(s.AvailableQuantity()) {
		return shared.NewInvalidQuantityError("Insufficient stock to reserve")
	}
	s.ReservedQuantity = s.ReservedQuantity.Add(qty)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Release frees a previous reservation
func (s *Stock) Release(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidQuantityError("Quantity to release must be positive")
	}
	if qty.GreaterThan(s.ReservedQuantity) {
		return shared.NewInvalidQuantityError("Cannot release more than reserved")
	}
	s.ReservedQuantity = s.ReservedQuantity.Sub(qty)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetQuantity overwrites the on-hand quantity, used by stocktake adjustments
func (s *Stock) SetQuantity(qty decimal.Decimal) error {
	if qty.IsNegative() {
		return shared.NewInvalidQuantityError("Stock quantity cannot be negative")
	}
	s.Quantity = qty
	s.markMovement()
	return nil
}

// IsBelowMinimum reports whether on-hand stock is at or under a threshold
func (s *Stock) IsBelowMinimum(minStock decimal.Decimal) bool {
	if minStock.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return s.Quantity.LessThanOrEqual(minStock)
}

func (s *Stock) markMovement() {
	now := time.Now()
	s.LastMovementAt = &now
	s.Touch()
	s.IncrementVersion()
}
