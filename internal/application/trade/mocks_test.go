package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/shopstack/backend/internal/domain/cashbook"
	"github.com/shopstack/backend/internal/domain/catalog"
	"github.com/shopstack/backend/internal/domain/debt"
	"github.com/shopstack/backend/internal/domain/inventory"
	"github.com/shopstack/backend/internal/domain/partner"
	"github.com/shopstack/backend/internal/domain/shared"
	"github.com/shopstack/backend/internal/domain/trade"
)

type MockPurchaseOrderRepository struct{ mock.Mock }

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByCode(ctx context.Context, code string) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.PurchaseOrder], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[trade.PurchaseOrder]), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *trade.PurchaseOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSalesOrderRepository struct{ mock.Mock }

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByCode(ctx context.Context, code string) (*trade.SalesOrder, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.SalesOrder], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[trade.SalesOrder]), args.Error(1)
}

func (m *MockSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockSalesOrderRepository) SaveWithLock(ctx context.Context, order *trade.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockSalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockReturnOrderRepository struct{ mock.Mock }

func (m *MockReturnOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ReturnOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ReturnOrder), args.Error(1)
}

func (m *MockReturnOrderRepository) FindByCode(ctx context.Context, code string) (*trade.ReturnOrder, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ReturnOrder), args.Error(1)
}

func (m *MockReturnOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.ReturnOrder], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[trade.ReturnOrder]), args.Error(1)
}

func (m *MockReturnOrderRepository) FindBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]trade.ReturnOrder, error) {
	args := m.Called(ctx, salesOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.ReturnOrder), args.Error(1)
}

func (m *MockReturnOrderRepository) Save(ctx context.Context, order *trade.ReturnOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockReturnOrderRepository) SaveWithLock(ctx context.Context, order *trade.ReturnOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockReturnOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCodeGenerator struct{ mock.Mock }

func (m *MockCodeGenerator) NextCode(ctx context.Context, prefix string, date time.Time) (string, error) {
	args := m.Called(ctx, prefix, date)
	return args.String(0), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockUnitRepository struct{ mock.Mock }

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.UnitOfMeasure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.UnitOfMeasure), args.Error(1)
}

func (m *MockUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.UnitOfMeasure, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.UnitOfMeasure), args.Error(1)
}

func (m *MockUnitRepository) FindAll(ctx context.Context) ([]catalog.UnitOfMeasure, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.UnitOfMeasure), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *catalog.UnitOfMeasure) error {
	return m.Called(ctx, unit).Error(0)
}

type MockSupplierRepository struct{ mock.Mock }

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) SaveWithLock(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

type MockWarehouseRepository struct{ mock.Mock }

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	return m.Called(ctx, warehouse).Error(0)
}

type MockEntryRepository struct{ mock.Mock }

func (m *MockEntryRepository) Append(ctx context.Context, entry *cashbook.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashbook.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashbook.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindBySource(ctx context.Context, sourceType cashbook.SourceType, sourceID uuid.UUID) ([]cashbook.Entry, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cashbook.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindBetween(ctx context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[cashbook.Entry], error) {
	args := m.Called(ctx, from, to, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[cashbook.Entry]), args.Error(1)
}

func (m *MockEntryRepository) SumByTypeBetween(ctx context.Context, entryType cashbook.EntryType, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, entryType, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// fakeDebtTxRepo captures appended debt transactions in memory
type fakeDebtTxRepo struct {
	rows []debt.Transaction
}

func (r *fakeDebtTxRepo) Append(_ context.Context, tx *debt.Transaction) error {
	r.rows = append(r.rows, *tx)
	return nil
}

func (r *fakeDebtTxRepo) FindByCounterparty(_ context.Context, side debt.Side, counterpartyID uuid.UUID) ([]debt.Transaction, error) {
	return nil, nil
}

func (r *fakeDebtTxRepo) FindBySourceOrder(_ context.Context, side debt.Side, orderID uuid.UUID) ([]debt.Transaction, error) {
	var out []debt.Transaction
	for _, tx := range r.rows {
		if tx.Side == side && tx.SourceOrderID != nil && *tx.SourceOrderID == orderID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeDebtTxRepo) FindBetween(_ context.Context, side debt.Side, from, to time.Time) ([]debt.Transaction, error) {
	return nil, nil
}

// fakeStockStore is an in-memory stock ledger backend shared by the three
// stock repositories.
type fakeStockStore struct {
	stocks  map[string]*inventory.Stock
	batches map[uuid.UUID]*inventory.StockBatch
	txs     []inventory.StockTransaction
}

func newFakeStockStore() *fakeStockStore {
	return &fakeStockStore{
		stocks:  make(map[string]*inventory.Stock),
		batches: make(map[uuid.UUID]*inventory.StockBatch),
	}
}

func (f *fakeStockStore) key(productID, warehouseID uuid.UUID) string {
	return productID.String() + "/" + warehouseID.String()
}

type fakeStockRepo struct{ store *fakeStockStore }

func (r *fakeStockRepo) FindByProductAndWarehouse(_ context.Context, productID, warehouseID uuid.UUID) (*inventory.Stock, error) {
	if s, ok := r.store.stocks[r.store.key(productID, warehouseID)]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) FindByWarehouse(_ context.Context, _ uuid.UUID, _ shared.Filter) (*shared.Paginated[inventory.Stock], error) {
	return nil, nil
}

func (r *fakeStockRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.Stock, error) {
	var out []inventory.Stock
	for _, s := range r.store.stocks {
		if s.ProductID == productID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) Save(_ context.Context, stock *inventory.Stock) error {
	copied := *stock
	r.store.stocks[r.store.key(stock.ProductID, stock.WarehouseID)] = &copied
	return nil
}

func (r *fakeStockRepo) SaveWithLock(ctx context.Context, stock *inventory.Stock) error {
	return r.Save(ctx, stock)
}

type fakeBatchRepo struct{ store *fakeStockStore }

func (r *fakeBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	if b, ok := r.store.batches[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindOpenBatches(_ context.Context, productID, warehouseID uuid.UUID) ([]inventory.StockBatch, error) {
	var out []inventory.StockBatch
	for _, b := range r.store.batches {
		if b.ProductID == productID && b.WarehouseID == warehouseID && !b.IsDepleted() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindExpiringBefore(_ context.Context, cutoff time.Time) ([]inventory.StockBatch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) Save(_ context.Context, batch *inventory.StockBatch) error {
	copied := *batch
	r.store.batches[batch.ID] = &copied
	return nil
}

type fakeStockTxRepo struct{ store *fakeStockStore }

func (r *fakeStockTxRepo) Append(_ context.Context, tx *inventory.StockTransaction) error {
	r.store.txs = append(r.store.txs, *tx)
	return nil
}

func (r *fakeStockTxRepo) FindByProduct(_ context.Context, _ uuid.UUID, _ shared.Filter) (*shared.Paginated[inventory.StockTransaction], error) {
	return nil, nil
}

func (r *fakeStockTxRepo) FindBySourceOrder(_ context.Context, orderID uuid.UUID) ([]inventory.StockTransaction, error) {
	var out []inventory.StockTransaction
	for _, tx := range r.store.txs {
		if tx.SourceOrderID != nil && *tx.SourceOrderID == orderID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func newFakeStockLedger() (*inventory.Ledger, *fakeStockStore) {
	store := newFakeStockStore()
	ledger := inventory.NewLedger(&fakeStockRepo{store}, &fakeBatchRepo{store}, &fakeStockTxRepo{store})
	return ledger, store
}
