package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopstack/backend/internal/domain/catalog"
	"github.com/shopstack/backend/internal/domain/debt"
	"github.com/shopstack/backend/internal/domain/partner"
	"github.com/shopstack/backend/internal/domain/shared"
	"github.com/shopstack/backend/internal/domain/trade"
)

type poFixture struct {
	service   *PurchaseOrderService
	orders    *MockPurchaseOrderRepository
	codes     *MockCodeGenerator
	products  *MockProductRepository
	units     *MockUnitRepository
	suppliers *MockSupplierRepository
	warehouse *MockWarehouseRepository
	entries   *MockEntryRepository
	debtTxs   *fakeDebtTxRepo
	stock     *fakeStockStore
}

func newPOFixture() *poFixture {
	f := &poFixture{
		orders:    &MockPurchaseOrderRepository{},
		codes:     &MockCodeGenerator{},
		products:  &MockProductRepository{},
		units:     &MockUnitRepository{},
		suppliers: &MockSupplierRepository{},
		warehouse: &MockWarehouseRepository{},
		entries:   &MockEntryRepository{},
		debtTxs:   &fakeDebtTxRepo{},
	}
	stockLedger, store := newFakeStockLedger()
	f.stock = store
	f.service = NewPurchaseOrderService(
		shared.NopUnitOfWork{},
		f.orders,
		f.codes,
		f.products,
		f.units,
		f.suppliers,
		f.warehouse,
		stockLedger,
		debt.NewLedger(debt.SidePayable, f.debtTxs),
		f.entries,
		zap.NewNop(),
	)
	return f
}

func testProduct(t *testing.T, unitID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("PRD-001", "Boxed Widgets", unitID)
	require.NoError(t, err)
	return product
}

func testSupplier(t *testing.T) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier("SUP-001", "Acme Wholesale")
	require.NoError(t, err)
	return supplier
}

func testUnit(t *testing.T, code string) *catalog.UnitOfMeasure {
	t.Helper()
	unit, err := catalog.NewUnitOfMeasure(code, code)
	require.NoError(t, err)
	return unit
}

func TestPurchaseOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("credit order invoices the unpaid total to the supplier", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)

		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.units.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.UnitOfMeasure{*unit}, nil)
		f.codes.On("NextCode", mock.Anything, "PO", mock.Anything).Return("PO-20260829-0001", nil)
		f.suppliers.On("SaveWithLock", mock.Anything, supplier).Return(nil)
		f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)

		view, err := f.service.Create(ctx, CreatePurchaseOrderInput{
			SupplierID:    supplier.ID,
			Status:        "ORDERED",
			PaymentMethod: "CREDIT",
			Items: []OrderItemInput{{
				ProductID: product.ID,
				UnitID:    unit.ID,
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(100),
			}},
		})
		require.NoError(t, err)

		assert.Equal(t, "PO-20260829-0001", view.Code)
		assert.Equal(t, "ORDERED", view.Status)
		assert.True(t, view.Total.Equal(decimal.NewFromInt(200)))
		assert.True(t, view.PaidAmount.IsZero())

		require.Len(t, f.debtTxs.rows, 1)
		tx := f.debtTxs.rows[0]
		assert.Equal(t, debt.TransactionTypeInvoice, tx.TransactionType)
		assert.True(t, tx.BalanceBefore.IsZero())
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(200)))
		assert.True(t, supplier.DebtBalance.Equal(decimal.NewFromInt(200)))
		f.orders.AssertExpectations(t)
		f.suppliers.AssertExpectations(t)
	})

	t.Run("cash order with upfront payment writes a cashbook expense", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)

		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.units.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.UnitOfMeasure{*unit}, nil)
		f.codes.On("NextCode", mock.Anything, "PO", mock.Anything).Return("PO-20260829-0002", nil)
		f.entries.On("Append", mock.Anything, mock.Anything).Return(nil)
		f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)

		view, err := f.service.Create(ctx, CreatePurchaseOrderInput{
			SupplierID:    supplier.ID,
			Status:        "ORDERED",
			PaymentMethod: "CASH",
			PaidAmount:    decimal.NewFromInt(150),
			Items: []OrderItemInput{{
				ProductID: product.ID,
				UnitID:    unit.ID,
				Quantity:  decimal.NewFromInt(3),
				UnitPrice: decimal.NewFromInt(50),
			}},
		})
		require.NoError(t, err)

		assert.True(t, view.PaidAmount.Equal(decimal.NewFromInt(150)))
		assert.Empty(t, f.debtTxs.rows)
		f.entries.AssertExpectations(t)
	})

	t.Run("rejects unknown status string", func(t *testing.T) {
		f := newPOFixture()
		_, err := f.service.Create(ctx, CreatePurchaseOrderInput{
			SupplierID:    uuid.New(),
			Status:        "PENDING",
			PaymentMethod: "CASH",
			Items:         []OrderItemInput{{ProductID: uuid.New(), UnitID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		f := newPOFixture()
		_, err := f.service.Create(ctx, CreatePurchaseOrderInput{
			SupplierID:    uuid.New(),
			PaymentMethod: "CASH",
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))
	})

	t.Run("rejects unknown supplier", func(t *testing.T) {
		f := newPOFixture()
		supplierID := uuid.New()
		f.suppliers.On("FindByID", mock.Anything, supplierID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, CreatePurchaseOrderInput{
			SupplierID:    supplierID,
			PaymentMethod: "CASH",
			Items:         []OrderItemInput{{ProductID: uuid.New(), UnitID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeReferenceNotFound, shared.CodeOf(err))
	})

	t.Run("rejects unknown product reference", func(t *testing.T) {
		f := newPOFixture()
		supplier := testSupplier(t)
		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
		f.units.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.UnitOfMeasure{}, nil)

		_, err := f.service.Create(ctx, CreatePurchaseOrderInput{
			SupplierID:    supplier.ID,
			PaymentMethod: "CASH",
			Items:         []OrderItemInput{{ProductID: uuid.New(), UnitID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeReferenceNotFound, shared.CodeOf(err))
	})
}

func confirmedOrder(t *testing.T, supplier *partner.Supplier, product *catalog.Product, unitID uuid.UUID, qty int64, method trade.PaymentMethod) *trade.PurchaseOrder {
	t.Helper()
	order, err := trade.NewPurchaseOrder("PO-20260829-0001", supplier.ID, method, trade.DiscountTypeNone, decimal.Zero)
	require.NoError(t, err)
	item, err := trade.NewPurchaseOrderItem(product.ID, unitID, decimal.NewFromInt(qty), decimal.NewFromInt(100), trade.DiscountTypeNone, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(item))
	require.NoError(t, order.Confirm())
	return order
}

func TestPurchaseOrderService_ReceiveGoods(t *testing.T) {
	ctx := context.Background()

	t.Run("partial receipt posts converted stock and keeps order partial", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		baseUnit := testUnit(t, "piece")
		product := testProduct(t, unit.ID)
		// one box is 24 pieces
		require.NoError(t, product.SetBaseUnit(baseUnit.ID, decimal.NewFromInt(24)))
		supplier := testSupplier(t)
		warehouse, err := partner.NewWarehouse("WH-MAIN", "Main Warehouse")
		require.NoError(t, err)

		order := confirmedOrder(t, supplier, product, unit.ID, 2, trade.PaymentMethodCash)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.warehouse.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.units.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.UnitOfMeasure{*unit, *baseUnit}, nil)
		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.orders.On("SaveWithLock", mock.Anything, order).Return(nil)

		view, err := f.service.ReceiveGoods(ctx, order.ID, ReceiveGoodsInput{
			WarehouseID: warehouse.ID,
			Lines:       []ReceiveLineInput{{ItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(1)}},
		})
		require.NoError(t, err)

		assert.Equal(t, "PARTIAL_RECEIVED", view.Status)
		assert.True(t, view.Items[0].FulfilledQuantity.Equal(decimal.NewFromInt(1)))
		require.NotNil(t, order.ReceivedDate)

		// 1 box converted to 24 pieces in stock
		stock := f.stock.stocks[f.stock.key(product.ID, warehouse.ID)]
		require.NotNil(t, stock)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(24)))
		require.Len(t, f.stock.txs, 1)
		assert.True(t, f.stock.txs[0].Quantity.Equal(decimal.NewFromInt(24)))
	})

	t.Run("second receipt completes the order without touching received date", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)
		warehouse, err := partner.NewWarehouse("WH-MAIN", "Main Warehouse")
		require.NoError(t, err)

		order := confirmedOrder(t, supplier, product, unit.ID, 2, trade.PaymentMethodCash)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.warehouse.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.units.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.UnitOfMeasure{*unit}, nil)
		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.orders.On("SaveWithLock", mock.Anything, order).Return(nil)

		lines := []ReceiveLineInput{{ItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(1)}}
		_, err = f.service.ReceiveGoods(ctx, order.ID, ReceiveGoodsInput{WarehouseID: warehouse.ID, Lines: lines})
		require.NoError(t, err)
		firstReceipt := *order.ReceivedDate

		view, err := f.service.ReceiveGoods(ctx, order.ID, ReceiveGoodsInput{WarehouseID: warehouse.ID, Lines: lines})
		require.NoError(t, err)

		assert.Equal(t, "RECEIVED", view.Status)
		assert.Equal(t, firstReceipt, *order.ReceivedDate)
	})

	t.Run("rejects over-receipt without stock writes", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)
		warehouse, err := partner.NewWarehouse("WH-MAIN", "Main Warehouse")
		require.NoError(t, err)

		order := confirmedOrder(t, supplier, product, unit.ID, 2, trade.PaymentMethodCash)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.warehouse.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)

		_, err = f.service.ReceiveGoods(ctx, order.ID, ReceiveGoodsInput{
			WarehouseID: warehouse.ID,
			Lines:       []ReceiveLineInput{{ItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(3)}},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidQuantity, shared.CodeOf(err))
		assert.Empty(t, f.stock.txs)
		f.orders.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown warehouse", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)
		order := confirmedOrder(t, supplier, product, unit.ID, 2, trade.PaymentMethodCash)
		warehouseID := uuid.New()

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.warehouse.On("FindByID", mock.Anything, warehouseID).Return(nil, shared.ErrNotFound)

		_, err := f.service.ReceiveGoods(ctx, order.ID, ReceiveGoodsInput{
			WarehouseID: warehouseID,
			Lines:       []ReceiveLineInput{{ItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(1)}},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeReferenceNotFound, shared.CodeOf(err))
	})
}

func TestPurchaseOrderService_CreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("credit payment reduces the supplier balance", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)

		order := confirmedOrder(t, supplier, product, unit.ID, 2, trade.PaymentMethodCredit)
		payables := debt.NewLedger(debt.SidePayable, f.debtTxs)
		_, err := payables.RecordInvoice(ctx, supplier, decimal.NewFromInt(200), nil, "Purchase order "+order.Code, order.ID)
		require.NoError(t, err)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.suppliers.On("SaveWithLock", mock.Anything, supplier).Return(nil)
		f.orders.On("SaveWithLock", mock.Anything, order).Return(nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.units.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.UnitOfMeasure{*unit}, nil)

		view, err := f.service.CreatePayment(ctx, order.ID, PaymentInput{Amount: decimal.NewFromInt(80)})
		require.NoError(t, err)

		assert.True(t, view.PaidAmount.Equal(decimal.NewFromInt(80)))
		assert.True(t, supplier.DebtBalance.Equal(decimal.NewFromInt(120)))
		require.Len(t, f.debtTxs.rows, 2)
		assert.Equal(t, debt.TransactionTypePayment, f.debtTxs.rows[1].TransactionType)
	})

	t.Run("payment beyond the order's ledger balance is rejected", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)

		// Invoiced 200, then 150 came back as a refund; only 50 is still
		// open against this order even though the order itself is unpaid.
		order := confirmedOrder(t, supplier, product, unit.ID, 2, trade.PaymentMethodCredit)
		payables := debt.NewLedger(debt.SidePayable, f.debtTxs)
		_, err := payables.RecordInvoice(ctx, supplier, decimal.NewFromInt(200), nil, "Purchase order "+order.Code, order.ID)
		require.NoError(t, err)
		_, err = payables.RecordRefund(ctx, supplier, decimal.NewFromInt(150), "Returned goods", order.ID)
		require.NoError(t, err)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err = f.service.CreatePayment(ctx, order.ID, PaymentInput{Amount: decimal.NewFromInt(80)})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidAmount, shared.CodeOf(err))
		assert.Len(t, f.debtTxs.rows, 2)
		f.orders.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("overpayment is rejected with no mutation", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)

		order := confirmedOrder(t, supplier, product, unit.ID, 2, trade.PaymentMethodCredit)
		require.NoError(t, order.AddPayment(decimal.NewFromInt(150)))

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := f.service.CreatePayment(ctx, order.ID, PaymentInput{Amount: decimal.NewFromInt(51)})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidAmount, shared.CodeOf(err))
		assert.True(t, order.PaidAmount.Equal(decimal.NewFromInt(150)))
		assert.Empty(t, f.debtTxs.rows)
		f.orders.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("non-credit payment writes a cashbook expense", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)

		order := confirmedOrder(t, supplier, product, unit.ID, 2, trade.PaymentMethodTransfer)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.entries.On("Append", mock.Anything, mock.Anything).Return(nil)
		f.orders.On("SaveWithLock", mock.Anything, order).Return(nil)
		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.units.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.UnitOfMeasure{*unit}, nil)

		_, err := f.service.CreatePayment(ctx, order.ID, PaymentInput{Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
		f.entries.AssertExpectations(t)
		assert.Empty(t, f.debtTxs.rows)
	})
}

func TestPurchaseOrderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects delete of ordered order", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)
		order := confirmedOrder(t, supplier, product, unit.ID, 2, trade.PaymentMethodCash)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		err := f.service.Delete(ctx, order.ID)
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidStateTransition, shared.CodeOf(err))
		f.orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes draft order", func(t *testing.T) {
		f := newPOFixture()
		order, err := trade.NewPurchaseOrder("PO-1", uuid.New(), trade.PaymentMethodCash, trade.DiscountTypeNone, decimal.Zero)
		require.NoError(t, err)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("Delete", mock.Anything, order.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, order.ID))
		f.orders.AssertExpectations(t)
	})
}

func TestPurchaseOrderService_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm posts the credit invoice", func(t *testing.T) {
		f := newPOFixture()
		unit := testUnit(t, "box")
		product := testProduct(t, unit.ID)
		supplier := testSupplier(t)

		order, err := trade.NewPurchaseOrder("PO-1", supplier.ID, trade.PaymentMethodCredit, trade.DiscountTypeNone, decimal.Zero)
		require.NoError(t, err)
		item, err := trade.NewPurchaseOrderItem(product.ID, unit.ID, decimal.NewFromInt(2), decimal.NewFromInt(100), trade.DiscountTypeNone, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, order.AddItem(item))

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.suppliers.On("SaveWithLock", mock.Anything, supplier).Return(nil)
		f.orders.On("SaveWithLock", mock.Anything, order).Return(nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.units.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.UnitOfMeasure{*unit}, nil)

		view, err := f.service.Confirm(ctx, order.ID)
		require.NoError(t, err)

		assert.Equal(t, "ORDERED", view.Status)
		require.Len(t, f.debtTxs.rows, 1)
		assert.True(t, f.debtTxs.rows[0].Amount.Equal(decimal.NewFromInt(200)))
	})

	t.Run("confirm of an empty draft fails", func(t *testing.T) {
		f := newPOFixture()
		supplier := testSupplier(t)
		order, err := trade.NewPurchaseOrder("PO-1", supplier.ID, trade.PaymentMethodCash, trade.DiscountTypeNone, decimal.Zero)
		require.NoError(t, err)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)

		_, err = f.service.Confirm(ctx, order.ID)
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))
	})
}
