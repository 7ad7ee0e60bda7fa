package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// ReceiptLine describes one product receipt in base units
type ReceiptLine struct {
	ProductID     uuid.UUID
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	ExpiryDate    *time.Time
	BatchNumber   string
	SourceOrderID uuid.UUID
}

// IssueLine describes one product issue in base units
type IssueLine struct {
	ProductID     uuid.UUID
	Quantity      decimal.Decimal
	SourceOrderID uuid.UUID
	Reason        string
}

// Ledger applies stock movements. Every mutation pairs the stock update with
// an append-only movement record; the caller wraps calls in one unit of work.
type Ledger struct {
	stocks  StockRepository
	batches StockBatchRepository
	txs     StockTransactionRepository
}

// NewLedger creates a stock ledger
func NewLedger(stocks StockRepository, batches StockBatchRepository, txs StockTransactionRepository) *Ledger {
	return &Ledger{stocks: stocks, batches: batches, txs: txs}
}

// Receive adds a receipt to the warehouse. The stock row is created on first
// receipt. A batch is opened only when the line carries an expiry date.
func (l *Ledger) Receive(ctx context.Context, warehouseID uuid.UUID, line ReceiptLine) (*StockTransaction, error) {
	if line.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidQuantityError("Receipt quantity must be positive")
	}

	stock, created, err := l.fetchOrCreateStock(ctx, line.ProductID, warehouseID)
	if err != nil {
		return nil, err
	}

	before := stock.Quantity
	if err := stock.AddQuantity(line.Quantity); err != nil {
		return nil, err
	}

	tx, err := NewStockTransaction(line.ProductID, warehouseID, MovementTypeIn, line.Quantity, before, stock.Quantity)
	if err != nil {
		return nil, err
	}
	tx.WithUnitCost(line.UnitCost).WithSourceOrder(line.SourceOrderID)

	if line.ExpiryDate != nil {
		batch, err := NewStockBatch(line.ProductID, warehouseID, line.Quantity, line.UnitCost, *line.ExpiryDate)
		if err != nil {
			return nil, err
		}
		batch.WithBatchNumber(line.BatchNumber).WithSourceOrder(line.SourceOrderID)
		if err := l.batches.Save(ctx, batch); err != nil {
			return nil, err
		}
		tx.WithBatch(batch.ID)
	}

	if err := l.persistStock(ctx, stock, created); err != nil {
		return nil, err
	}
	if err := l.txs.Append(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Issue removes stock from the warehouse, consuming open batches oldest
// expiry first. Batches only partially cover untracked stock, so draining
// them all while quantity remains is not an error.
func (l *Ledger) Issue(ctx context.Context, warehouseID uuid.UUID, line IssueLine) (*StockTransaction, error) {
	if line.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidQuantityError("Issue quantity must be positive")
	}

	stock, err := l.stocks.FindByProductAndWarehouse(ctx, line.ProductID, warehouseID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewInvalidQuantityError("Insufficient stock available")
		}
		return nil, err
	}

	before := stock.Quantity
	if err := stock.DeductQuantity(line.Quantity); err != nil {
		return nil, err
	}

	if err := l.consumeBatches(ctx, line.ProductID, warehouseID, line.Quantity); err != nil {
		return nil, err
	}

	tx, err := NewStockTransaction(line.ProductID, warehouseID, MovementTypeOut, line.Quantity, before, stock.Quantity)
	if err != nil {
		return nil, err
	}
	tx.WithSourceOrder(line.SourceOrderID).WithReason(line.Reason)

	if err := l.stocks.SaveWithLock(ctx, stock); err != nil {
		return nil, err
	}
	if err := l.txs.Append(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Adjust overwrites the on-hand quantity after a stocktake
func (l *Ledger) Adjust(ctx context.Context, productID, warehouseID uuid.UUID, countedQty decimal.Decimal, reason string) (*StockTransaction, error) {
	if countedQty.IsNegative() {
		return nil, shared.NewInvalidQuantityError("Counted quantity cannot be negative")
	}
	if reason == "" {
		return nil, shared.NewValidationError("Adjustment reason is required")
	}

	stock, created, err := l.fetchOrCreateStock(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	before := stock.Quantity
	diff := countedQty.Sub(before)
	if diff.IsZero() {
		return nil, shared.NewInvalidQuantityError("Counted quantity equals current stock")
	}

	if err := stock.SetQuantity(countedQty); err != nil {
		return nil, err
	}

	tx, err := NewStockTransaction(productID, warehouseID, MovementTypeAdjustment, diff.Abs(), before, stock.Quantity)
	if err != nil {
		return nil, err
	}
	tx.WithReason(reason)

	if err := l.persistStock(ctx, stock, created); err != nil {
		return nil, err
	}
	if err := l.txs.Append(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (l *Ledger) fetchOrCreateStock(ctx context.Context, productID, warehouseID uuid.UUID) (*Stock, bool, error) {
	stock, err := l.stocks.FindByProductAndWarehouse(ctx, productID, warehouseID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, false, err
	}
	if stock != nil {
		return stock, false, nil
	}
	stock, err = NewStock(productID, warehouseID)
	if err != nil {
		return nil, false, err
	}
	return stock, true, nil
}

// persistStock inserts a row created in this call and puts existing rows
// through the version guard. A fresh row has no stored version to guard
// against, so SaveWithLock would reject it as a conflict.
func (l *Ledger) persistStock(ctx context.Context, stock *Stock, created bool) error {
	if created {
		return l.stocks.Save(ctx, stock)
	}
	return l.stocks.SaveWithLock(ctx, stock)
}

func (l *Ledger) consumeBatches(ctx context.Context, productID, warehouseID uuid.UUID, qty decimal.Decimal) error {
	open, err := l.batches.FindOpenBatches(ctx, productID, warehouseID)
	if err != nil {
		return err
	}

	remaining := qty
	for i := range open {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		taken, err := open[i].Consume(remaining)
		if err != nil {
			return err
		}
		remaining = remaining.Sub(taken)
		if err := l.batches.Save(ctx, &open[i]); err != nil {
			return err
		}
	}
	return nil
}
