package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	tradeapp "github.com/shopstack/backend/internal/application/trade"
	"github.com/shopstack/backend/internal/domain/catalog"
	"github.com/shopstack/backend/internal/domain/debt"
	"github.com/shopstack/backend/internal/domain/inventory"
	"github.com/shopstack/backend/internal/domain/partner"
	"github.com/shopstack/backend/internal/domain/shared"
	"github.com/shopstack/backend/internal/domain/trade"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	d := &Database{DB: db}
	require.NoError(t, d.AutoMigrate())
	return d
}

func testPurchaseOrder(t *testing.T) *trade.PurchaseOrder {
	t.Helper()
	supplier, err := partner.NewSupplier("SUP-001", "Fresh Farm Co")
	require.NoError(t, err)

	order, err := trade.NewPurchaseOrder("PO-20260829-0001", supplier.ID, trade.PaymentMethodCash, trade.DiscountTypeNone, decimal.Zero)
	require.NoError(t, err)
	item, err := trade.NewPurchaseOrderItem(uuid.New(), uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(5), trade.DiscountTypeNone, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(item))
	return order
}

func TestGormCodeGenerator(t *testing.T) {
	db := newTestDB(t)
	gen := NewGormCodeGenerator(db.DB)
	ctx := context.Background()
	day := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	code, err := gen.NextCode(ctx, "PO", day)
	require.NoError(t, err)
	assert.Equal(t, "PO-20260829-0001", code)

	code, err = gen.NextCode(ctx, "PO", day)
	require.NoError(t, err)
	assert.Equal(t, "PO-20260829-0002", code)

	// Other prefixes and other days count independently
	code, err = gen.NextCode(ctx, "SO", day)
	require.NoError(t, err)
	assert.Equal(t, "SO-20260829-0001", code)

	code, err = gen.NextCode(ctx, "PO", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "PO-20260830-0001", code)
}

func TestPurchaseOrderRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPurchaseOrderRepository(db.DB)
	ctx := context.Background()

	order := testPurchaseOrder(t)
	require.NoError(t, repo.Save(ctx, order))

	t.Run("round trips order with items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.Code, found.Code)
		require.Len(t, found.Items, 1)
		assert.True(t, found.Items[0].Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, found.Total.Equal(decimal.NewFromInt(50)))
	})

	t.Run("finds by code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, order.Code)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})

	t.Run("missing order maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists with status filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = trade.StatusDraft.String()
		page, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)

		filter.Filters["status"] = trade.StatusCancelled.String()
		page, err = repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
	})
}

func TestPurchaseOrderSaveWithLock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPurchaseOrderRepository(db.DB)
	ctx := context.Background()

	order := testPurchaseOrder(t)
	require.NoError(t, repo.Save(ctx, order))

	first, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	require.NoError(t, first.Confirm())
	require.NoError(t, repo.SaveWithLock(ctx, first))

	// The second reader is now stale; its write must be rejected
	require.NoError(t, second.Confirm())
	err = repo.SaveWithLock(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.StatusOrdered, found.Status)
	assert.Equal(t, first.Version, found.Version)
}

func TestStockSaveWithLock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockRepository(db.DB)
	ctx := context.Background()

	stock, err := inventory.NewStock(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, stock.AddQuantity(decimal.NewFromInt(100)))
	require.NoError(t, repo.Save(ctx, stock))

	first, err := repo.FindByProductAndWarehouse(ctx, stock.ProductID, stock.WarehouseID)
	require.NoError(t, err)
	second, err := repo.FindByProductAndWarehouse(ctx, stock.ProductID, stock.WarehouseID)
	require.NoError(t, err)

	require.NoError(t, first.DeductQuantity(decimal.NewFromInt(30)))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.DeductQuantity(decimal.NewFromInt(80)))
	err = repo.SaveWithLock(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	found, err := repo.FindByProductAndWarehouse(ctx, stock.ProductID, stock.WarehouseID)
	require.NoError(t, err)
	assert.True(t, found.Quantity.Equal(decimal.NewFromInt(70)))
}

func TestStockLedgerFirstMovement(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	stockRepo := NewGormStockRepository(db.DB)
	ledger := inventory.NewLedger(stockRepo, NewGormStockBatchRepository(db.DB), NewGormStockTransactionRepository(db.DB))

	productID := uuid.New()
	warehouseID := uuid.New()

	t.Run("first receipt inserts the stock row", func(t *testing.T) {
		tx, err := ledger.Receive(ctx, warehouseID, inventory.ReceiptLine{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(12),
			UnitCost:  decimal.NewFromInt(3),
		})
		require.NoError(t, err)
		assert.True(t, tx.QuantityBefore.IsZero())

		stock, err := stockRepo.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(12)))
	})

	t.Run("second receipt updates the row under the version guard", func(t *testing.T) {
		_, err := ledger.Receive(ctx, warehouseID, inventory.ReceiptLine{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(8),
		})
		require.NoError(t, err)

		stock, err := stockRepo.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(20)))
	})

	t.Run("stocktake on a never-stocked product inserts the row", func(t *testing.T) {
		freshProduct := uuid.New()
		_, err := ledger.Adjust(ctx, freshProduct, warehouseID, decimal.NewFromInt(5), "initial count")
		require.NoError(t, err)

		stock, err := stockRepo.FindByProductAndWarehouse(ctx, freshProduct, warehouseID)
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(5)))
	})
}

// TestPurchaseOrderReceiveGoodsFlow drives the whole receive path through the
// store: order bookkeeping, unit conversion, the lazily created stock row,
// batch tracking and the movement audit rows.
func TestPurchaseOrderReceiveGoodsFlow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	productRepo := NewGormProductRepository(db.DB)
	unitRepo := NewGormUnitRepository(db.DB)
	supplierRepo := NewGormSupplierRepository(db.DB)
	warehouseRepo := NewGormWarehouseRepository(db.DB)
	stockRepo := NewGormStockRepository(db.DB)
	batchRepo := NewGormStockBatchRepository(db.DB)
	stockTxRepo := NewGormStockTransactionRepository(db.DB)

	service := tradeapp.NewPurchaseOrderService(
		NewGormUnitOfWork(db.DB),
		NewGormPurchaseOrderRepository(db.DB),
		NewGormCodeGenerator(db.DB),
		productRepo,
		unitRepo,
		supplierRepo,
		warehouseRepo,
		inventory.NewLedger(stockRepo, batchRepo, stockTxRepo),
		debt.NewLedger(debt.SidePayable, NewGormDebtTransactionRepository(db.DB)),
		NewGormCashbookEntryRepository(db.DB),
		zap.NewNop(),
	)

	box, err := catalog.NewUnitOfMeasure("box", "Box")
	require.NoError(t, err)
	piece, err := catalog.NewUnitOfMeasure("pc", "Piece")
	require.NoError(t, err)
	require.NoError(t, unitRepo.Save(ctx, box))
	require.NoError(t, unitRepo.Save(ctx, piece))

	// one box is 24 pieces
	product, err := catalog.NewProduct("PRD-100", "Canned Beans", box.ID)
	require.NoError(t, err)
	require.NoError(t, product.SetBaseUnit(piece.ID, decimal.NewFromInt(24)))
	require.NoError(t, productRepo.Save(ctx, product))

	supplier, err := partner.NewSupplier("SUP-100", "Fresh Farm Co")
	require.NoError(t, err)
	require.NoError(t, supplierRepo.Save(ctx, supplier))

	warehouse, err := partner.NewWarehouse("WH-MAIN", "Main Warehouse")
	require.NoError(t, err)
	require.NoError(t, warehouseRepo.Save(ctx, warehouse))

	view, err := service.Create(ctx, tradeapp.CreatePurchaseOrderInput{
		SupplierID:    supplier.ID,
		Status:        "ORDERED",
		PaymentMethod: "CASH",
		Items: []tradeapp.OrderItemInput{{
			ProductID: product.ID,
			UnitID:    box.ID,
			Quantity:  decimal.NewFromInt(2),
			UnitPrice: decimal.NewFromInt(120),
		}},
	})
	require.NoError(t, err)

	expiry := time.Now().AddDate(0, 6, 0)
	view, err = service.ReceiveGoods(ctx, view.ID, tradeapp.ReceiveGoodsInput{
		WarehouseID: warehouse.ID,
		Lines: []tradeapp.ReceiveLineInput{{
			ItemID:      view.Items[0].ID,
			Quantity:    decimal.NewFromInt(1),
			ExpiryDate:  &expiry,
			BatchNumber: "LOT-7",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL_RECEIVED", view.Status)

	// The first receipt for this product and warehouse created the stock
	// row, converted to base units
	stock, err := stockRepo.FindByProductAndWarehouse(ctx, product.ID, warehouse.ID)
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(24)))

	open, err := batchRepo.FindOpenBatches(ctx, product.ID, warehouse.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "LOT-7", open[0].BatchNumber)
	assert.True(t, open[0].RemainingQuantity.Equal(decimal.NewFromInt(24)))

	moves, err := stockTxRepo.FindBySourceOrder(ctx, view.ID)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, inventory.MovementTypeIn, moves[0].MovementType)
	assert.True(t, moves[0].QuantityBefore.IsZero())
	assert.True(t, moves[0].QuantityAfter.Equal(decimal.NewFromInt(24)))

	view, err = service.ReceiveGoods(ctx, view.ID, tradeapp.ReceiveGoodsInput{
		WarehouseID: warehouse.ID,
		Lines: []tradeapp.ReceiveLineInput{{
			ItemID:   view.Items[0].ID,
			Quantity: decimal.NewFromInt(1),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", view.Status)

	stock, err = stockRepo.FindByProductAndWarehouse(ctx, product.ID, warehouse.ID)
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(48)))
}

func TestGormUnitOfWork(t *testing.T) {
	db := newTestDB(t)
	uow := NewGormUnitOfWork(db.DB)
	repo := NewGormSupplierRepository(db.DB)
	ctx := context.Background()

	t.Run("rolls back all writes on error", func(t *testing.T) {
		supplier, err := partner.NewSupplier("SUP-010", "Rollback Co")
		require.NoError(t, err)

		err = uow.Execute(ctx, func(ctx context.Context) error {
			if err := repo.Save(ctx, supplier); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		_, err = repo.FindByID(ctx, supplier.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("commits on success and joins nested scopes", func(t *testing.T) {
		supplier, err := partner.NewSupplier("SUP-011", "Commit Co")
		require.NoError(t, err)

		err = uow.Execute(ctx, func(ctx context.Context) error {
			return uow.Execute(ctx, func(ctx context.Context) error {
				return repo.Save(ctx, supplier)
			})
		})
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, "Commit Co", found.Name)
	})
}
