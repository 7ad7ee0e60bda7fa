package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	// MovementTypeIn is a receipt into the warehouse
	MovementTypeIn MovementType = "IN"
	// MovementTypeOut is an issue out of the warehouse
	MovementTypeOut MovementType = "OUT"
	// MovementTypeAdjustment is a stocktake correction
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	// MovementTypeTransfer moves stock between warehouses
	MovementTypeTransfer MovementType = "TRANSFER"
)

// IsValid returns true if the movement type is valid
func (m MovementType) IsValid() bool {
	switch m {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment, MovementTypeTransfer:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (m MovementType) String() string {
	return string(m)
}

// StockTransaction is an immutable record of one stock movement. Quantities
// are in the product's base unit; QuantityBefore/After snapshot the stock
// level around the movement.
type StockTransaction struct {
	shared.BaseEntity
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_product,priority:1"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_product,priority:2"`
	MovementType   MovementType    `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4)"`
	Reason         string          `gorm:"type:varchar(255)"`
	SourceOrderID  *uuid.UUID      `gorm:"type:uuid;index"`
	BatchID        *uuid.UUID      `gorm:"type:uuid"`
	MovementDate   time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a movement record
func NewStockTransaction(
	productID uuid.UUID,
	warehouseID uuid.UUID,
	movementType MovementType,
	quantity decimal.Decimal,
	quantityBefore decimal.Decimal,
	quantityAfter decimal.Decimal,
) (*StockTransaction, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("Warehouse ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("Invalid stock movement type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidQuantityError("Movement quantity must be positive")
	}

	return &StockTransaction{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		WarehouseID:    warehouseID,
		MovementType:   movementType,
		Quantity:       quantity,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityAfter,
		MovementDate:   time.Now(),
	}, nil
}

// WithUnitCost records the cost carried by the movement
func (t *StockTransaction) WithUnitCost(cost decimal.Decimal) *StockTransaction {
	t.UnitCost = cost
	return t
}

// WithReason records why the movement happened
func (t *StockTransaction) WithReason(reason string) *StockTransaction {
	t.Reason = reason
	return t
}

// WithSourceOrder links the movement to the originating order
func (t *StockTransaction) WithSourceOrder(orderID uuid.UUID) *StockTransaction {
	t.SourceOrderID = &orderID
	return t
}

// WithBatch links the movement to the batch it touched
func (t *StockTransaction) WithBatch(batchID uuid.UUID) *StockTransaction {
	t.BatchID = &batchID
	return t
}
