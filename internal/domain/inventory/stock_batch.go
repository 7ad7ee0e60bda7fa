package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// StockBatch tracks one received lot of a product for expiry and FIFO
// consumption. Batches exist only for receipts that carry an expiry date,
// so the sum of batch remainders can legitimately be less than the stock
// quantity.
type StockBatch struct {
	shared.BaseEntity
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_batch_product_warehouse,priority:1"`
	WarehouseID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_batch_product_warehouse,priority:2"`
	BatchNumber       string          `gorm:"type:varchar(50)"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpiryDate        time.Time       `gorm:"not null;index"`
	ReceivedAt        time.Time       `gorm:"not null"`
	SourceOrderID     *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (StockBatch) TableName() string {
	return "stock_batches"
}

// NewStockBatch creates a batch for a received lot
func NewStockBatch(
	productID uuid.UUID,
	warehouseID uuid.UUID,
	quantity decimal.Decimal,
	costPrice decimal.Decimal,
	expiryDate time.Time,
) (*StockBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("Warehouse ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidQuantityError("Batch quantity must be positive")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewInvalidAmountError("Batch cost price cannot be negative")
	}
	if expiryDate.IsZero() {
		return nil, shared.NewValidationError("Batch expiry date is required")
	}

	return &StockBatch{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Quantity:          quantity,
		RemainingQuantity: quantity,
		CostPrice:         costPrice,
		ExpiryDate:        expiryDate,
		ReceivedAt:        time.Now(),
	}, nil
}

// WithBatchNumber sets the supplier's lot number
func (b *StockBatch) WithBatchNumber(number string) *StockBatch {
	b.BatchNumber = number
	return b
}

// WithSourceOrder links the batch to the purchase order that received it
func (b *StockBatch) WithSourceOrder(orderID uuid.UUID) *StockBatch {
	b.SourceOrderID = &orderID
	return b
}

// Consume deducts quantity from the batch remainder, returning the quantity
// actually taken. A request larger than the remainder drains the batch.
func (b *StockBatch) Consume(qty decimal.Decimal) (decimal.Decimal, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewInvalidQuantityError("Quantity to consume must be positive")
	}
	taken := decimal.Min(qty, b.RemainingQuantity)
	b.RemainingQuantity = b.RemainingQuantity.Sub(taken)
	b.Touch()
	return taken, nil
}

// IsDepleted returns true when nothing remains in the batch
func (b *StockBatch) IsDepleted() bool {
	return b.RemainingQuantity.LessThanOrEqual(decimal.Zero)
}

// IsExpired returns true when the expiry date has passed
func (b *StockBatch) IsExpired(now time.Time) bool {
	return b.ExpiryDate.Before(now)
}
