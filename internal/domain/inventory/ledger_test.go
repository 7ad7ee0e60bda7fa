package inventory

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStockRepo struct {
	stocks map[string]*Stock
}

func newMemoryStockRepo() *memoryStockRepo {
	return &memoryStockRepo{stocks: make(map[string]*Stock)}
}

func stockKey(productID, warehouseID uuid.UUID) string {
	return productID.String() + "/" + warehouseID.String()
}

func (r *memoryStockRepo) FindByProductAndWarehouse(_ context.Context, productID, warehouseID uuid.UUID) (*Stock, error) {
	if s, ok := r.stocks[stockKey(productID, warehouseID)]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryStockRepo) FindByWarehouse(_ context.Context, _ uuid.UUID, _ shared.Filter) (*shared.Paginated[Stock], error) {
	return nil, nil
}

func (r *memoryStockRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]Stock, error) {
	var out []Stock
	for _, s := range r.stocks {
		if s.ProductID == productID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memoryStockRepo) Save(_ context.Context, stock *Stock) error {
	copied := *stock
	r.stocks[stockKey(stock.ProductID, stock.WarehouseID)] = &copied
	return nil
}

// SaveWithLock mirrors the store-backed behavior: a guarded update can only
// land on an existing row whose stored version is behind.
func (r *memoryStockRepo) SaveWithLock(ctx context.Context, stock *Stock) error {
	existing, ok := r.stocks[stockKey(stock.ProductID, stock.WarehouseID)]
	if !ok || existing.Version >= stock.Version {
		return shared.ErrConcurrencyConflict
	}
	return r.Save(ctx, stock)
}

type memoryBatchRepo struct {
	batches map[uuid.UUID]*StockBatch
}

func newMemoryBatchRepo() *memoryBatchRepo {
	return &memoryBatchRepo{batches: make(map[uuid.UUID]*StockBatch)}
}

func (r *memoryBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*StockBatch, error) {
	if b, ok := r.batches[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryBatchRepo) FindOpenBatches(_ context.Context, productID, warehouseID uuid.UUID) ([]StockBatch, error) {
	var out []StockBatch
	for _, b := range r.batches {
		if b.ProductID == productID && b.WarehouseID == warehouseID && !b.IsDepleted() {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (r *memoryBatchRepo) FindExpiringBefore(_ context.Context, cutoff time.Time) ([]StockBatch, error) {
	var out []StockBatch
	for _, b := range r.batches {
		if !b.IsDepleted() && b.ExpiryDate.Before(cutoff) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memoryBatchRepo) Save(_ context.Context, batch *StockBatch) error {
	copied := *batch
	r.batches[batch.ID] = &copied
	return nil
}

type memoryStockTxRepo struct {
	rows []StockTransaction
}

func (r *memoryStockTxRepo) Append(_ context.Context, tx *StockTransaction) error {
	r.rows = append(r.rows, *tx)
	return nil
}

func (r *memoryStockTxRepo) FindByProduct(_ context.Context, _ uuid.UUID, _ shared.Filter) (*shared.Paginated[StockTransaction], error) {
	return nil, nil
}

func (r *memoryStockTxRepo) FindBySourceOrder(_ context.Context, orderID uuid.UUID) ([]StockTransaction, error) {
	var out []StockTransaction
	for _, tx := range r.rows {
		if tx.SourceOrderID != nil && *tx.SourceOrderID == orderID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func newTestLedger() (*Ledger, *memoryStockRepo, *memoryBatchRepo, *memoryStockTxRepo) {
	stocks := newMemoryStockRepo()
	batches := newMemoryBatchRepo()
	txs := &memoryStockTxRepo{}
	return NewLedger(stocks, batches, txs), stocks, batches, txs
}

func TestLedger_Receive(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	warehouseID := uuid.New()

	t.Run("creates stock row on first receipt", func(t *testing.T) {
		ledger, stocks, batches, txs := newTestLedger()

		tx, err := ledger.Receive(ctx, warehouseID, ReceiptLine{
			ProductID:     productID,
			Quantity:      decimal.NewFromInt(24),
			UnitCost:      decimal.NewFromInt(5),
			SourceOrderID: uuid.New(),
		})
		require.NoError(t, err)

		assert.Equal(t, MovementTypeIn, tx.MovementType)
		assert.True(t, tx.QuantityBefore.IsZero())
		assert.True(t, tx.QuantityAfter.Equal(decimal.NewFromInt(24)))

		stock, err := stocks.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(24)))

		// No expiry date, no batch
		assert.Empty(t, batches.batches)
		assert.Len(t, txs.rows, 1)
	})

	t.Run("opens batch when expiry date present", func(t *testing.T) {
		ledger, _, batches, _ := newTestLedger()
		expiry := time.Now().AddDate(0, 6, 0)

		tx, err := ledger.Receive(ctx, warehouseID, ReceiptLine{
			ProductID:     productID,
			Quantity:      decimal.NewFromInt(10),
			UnitCost:      decimal.NewFromInt(5),
			ExpiryDate:    &expiry,
			BatchNumber:   "LOT-42",
			SourceOrderID: uuid.New(),
		})
		require.NoError(t, err)
		require.NotNil(t, tx.BatchID)

		batch, err := batches.FindByID(ctx, *tx.BatchID)
		require.NoError(t, err)
		assert.Equal(t, "LOT-42", batch.BatchNumber)
		assert.True(t, batch.RemainingQuantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("accumulates onto existing stock", func(t *testing.T) {
		ledger, stocks, _, _ := newTestLedger()

		_, err := ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.NewFromInt(10)})
		require.NoError(t, err)
		tx, err := ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.NewFromInt(5)})
		require.NoError(t, err)

		assert.True(t, tx.QuantityBefore.Equal(decimal.NewFromInt(10)))
		assert.True(t, tx.QuantityAfter.Equal(decimal.NewFromInt(15)))

		stock, err := stocks.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(15)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		ledger, _, _, txs := newTestLedger()

		_, err := ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.Zero})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidQuantity, shared.CodeOf(err))
		assert.Empty(t, txs.rows)
	})
}

func TestLedger_Issue(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	warehouseID := uuid.New()

	t.Run("consumes batches oldest expiry first", func(t *testing.T) {
		ledger, _, batches, _ := newTestLedger()

		near := time.Now().AddDate(0, 1, 0)
		far := time.Now().AddDate(0, 6, 0)

		// Received far batch first, near batch second; FIFO must drain near first
		_, err := ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.NewFromInt(10), ExpiryDate: &far})
		require.NoError(t, err)
		_, err = ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.NewFromInt(10), ExpiryDate: &near})
		require.NoError(t, err)

		_, err = ledger.Issue(ctx, warehouseID, IssueLine{ProductID: productID, Quantity: decimal.NewFromInt(12)})
		require.NoError(t, err)

		open, err := batches.FindOpenBatches(ctx, productID, warehouseID)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, far, open[0].ExpiryDate)
		assert.True(t, open[0].RemainingQuantity.Equal(decimal.NewFromInt(8)))
	})

	t.Run("issues untracked stock when batches run out", func(t *testing.T) {
		ledger, stocks, _, _ := newTestLedger()
		expiry := time.Now().AddDate(0, 3, 0)

		_, err := ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.NewFromInt(5), ExpiryDate: &expiry})
		require.NoError(t, err)
		_, err = ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.NewFromInt(20)})
		require.NoError(t, err)

		_, err = ledger.Issue(ctx, warehouseID, IssueLine{ProductID: productID, Quantity: decimal.NewFromInt(15)})
		require.NoError(t, err)

		stock, err := stocks.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects issue beyond available stock", func(t *testing.T) {
		ledger, _, _, _ := newTestLedger()

		_, err := ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.NewFromInt(5)})
		require.NoError(t, err)

		_, err = ledger.Issue(ctx, warehouseID, IssueLine{ProductID: productID, Quantity: decimal.NewFromInt(6)})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidQuantity, shared.CodeOf(err))
	})

	t.Run("rejects issue for unknown product", func(t *testing.T) {
		ledger, _, _, _ := newTestLedger()

		_, err := ledger.Issue(ctx, warehouseID, IssueLine{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidQuantity, shared.CodeOf(err))
	})
}

func TestLedger_Adjust(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	warehouseID := uuid.New()

	t.Run("records stocktake difference", func(t *testing.T) {
		ledger, stocks, _, txs := newTestLedger()

		_, err := ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.NewFromInt(50)})
		require.NoError(t, err)

		tx, err := ledger.Adjust(ctx, productID, warehouseID, decimal.NewFromInt(47), "stocktake 2026-08")
		require.NoError(t, err)

		assert.Equal(t, MovementTypeAdjustment, tx.MovementType)
		assert.True(t, tx.Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, tx.QuantityAfter.Equal(decimal.NewFromInt(47)))

		stock, err := stocks.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(47)))
		assert.Len(t, txs.rows, 2)
	})

	t.Run("creates stock row for never-stocked product", func(t *testing.T) {
		ledger, stocks, _, _ := newTestLedger()
		freshProduct := uuid.New()

		tx, err := ledger.Adjust(ctx, freshProduct, warehouseID, decimal.NewFromInt(7), "initial count")
		require.NoError(t, err)
		assert.True(t, tx.QuantityBefore.IsZero())

		stock, err := stocks.FindByProductAndWarehouse(ctx, freshProduct, warehouseID)
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(7)))
	})

	t.Run("rejects no-op and missing reason", func(t *testing.T) {
		ledger, _, _, _ := newTestLedger()

		_, err := ledger.Receive(ctx, warehouseID, ReceiptLine{ProductID: productID, Quantity: decimal.NewFromInt(10)})
		require.NoError(t, err)

		_, err = ledger.Adjust(ctx, productID, warehouseID, decimal.NewFromInt(10), "stocktake")
		assert.Error(t, err)

		_, err = ledger.Adjust(ctx, productID, warehouseID, decimal.NewFromInt(9), "")
		assert.Error(t, err)
	})
}
