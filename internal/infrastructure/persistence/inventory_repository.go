package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack/backend/internal/domain/inventory"
	"github.com/shopstack/backend/internal/domain/shared"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByProductAndWarehouse finds the stock row for a product in a warehouse
func (r *GormStockRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.Stock, error) {
	var stock inventory.Stock
	if err := dbFromContext(ctx, r.db).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByWarehouse lists stock in a warehouse, paginated
func (r *GormStockRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.Stock], error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&inventory.Stock{}).Where("warehouse_id = ?", warehouseID).Count(&total).Error; err != nil {
		return nil, err
	}

	query := db.Model(&inventory.Stock{}).Where("warehouse_id = ?", warehouseID)
	query = applyOrdering(applyPagination(query, filter), filter, "updated_at")
	var stocks []inventory.Stock
	if err := query.Find(&stocks).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(stocks, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByProduct lists stock of a product across warehouses
func (r *GormStockRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.Stock, error) {
	var stocks []inventory.Stock
	if err := dbFromContext(ctx, r.db).
		Where("product_id = ?", productID).
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Save persists a stock row
func (r *GormStockRepository) Save(ctx context.Context, stock *inventory.Stock) error {
	return dbFromContext(ctx, r.db).Save(stock).Error
}

// SaveWithLock persists a stock row with optimistic locking
func (r *GormStockRepository) SaveWithLock(ctx context.Context, stock *inventory.Stock) error {
	return saveWithVersionGuard(dbFromContext(ctx, r.db), stock, stock.Version)
}

// GormStockBatchRepository implements StockBatchRepository using GORM
type GormStockBatchRepository struct {
	db *gorm.DB
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	if err := dbFromContext(ctx, r.db).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindOpenBatches lists undepleted batches for a product in a warehouse,
// oldest expiry first so issues consume the closest-to-expiry lot
func (r *GormStockBatchRepository) FindOpenBatches(ctx context.Context, productID, warehouseID uuid.UUID) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := dbFromContext(ctx, r.db).
		Where("product_id = ? AND warehouse_id = ? AND remaining_quantity > 0", productID, warehouseID).
		Order("expiry_date ASC, received_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiringBefore lists undepleted batches expiring before a cutoff
func (r *GormStockBatchRepository) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := dbFromContext(ctx, r.db).
		Where("remaining_quantity > 0 AND expiry_date < ?", cutoff).
		Order("expiry_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save persists a batch
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	return dbFromContext(ctx, r.db).Save(batch).Error
}

// GormStockTransactionRepository implements StockTransactionRepository using GORM
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// Append stores a movement record
func (r *GormStockTransactionRepository) Append(ctx context.Context, tx *inventory.StockTransaction) error {
	return dbFromContext(ctx, r.db).Create(tx).Error
}

// FindByProduct lists movements for a product, newest first, paginated
func (r *GormStockTransactionRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.StockTransaction], error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&inventory.StockTransaction{}).Where("product_id = ?", productID).Count(&total).Error; err != nil {
		return nil, err
	}

	query := db.Model(&inventory.StockTransaction{}).Where("product_id = ?", productID)
	query = applyOrdering(applyPagination(query, filter), filter, "movement_date")
	var txs []inventory.StockTransaction
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(txs, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindBySourceOrder lists movements produced by an order
func (r *GormStockTransactionRepository) FindBySourceOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.StockTransaction, error) {
	var txs []inventory.StockTransaction
	if err := dbFromContext(ctx, r.db).
		Where("source_order_id = ?", orderID).
		Order("movement_date ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Ensure interfaces are implemented
var (
	_ inventory.StockRepository            = (*GormStockRepository)(nil)
	_ inventory.StockBatchRepository       = (*GormStockBatchRepository)(nil)
	_ inventory.StockTransactionRepository = (*GormStockTransactionRepository)(nil)
)
