package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack/backend/internal/domain/shared"
	"github.com/shopstack/backend/internal/domain/trade"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByCode finds a purchase order by its code
func (r *GormPurchaseOrderRepository) FindByCode(ctx context.Context, code string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		First(&order, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll lists purchase orders, paginated
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.PurchaseOrder], error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := applyOrderFilters(db.Model(&trade.PurchaseOrder{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	query := applyOrderFilters(db.Model(&trade.PurchaseOrder{}), filter)
	query = applyOrdering(applyPagination(query, filter), filter, "order_date")

	var orders []trade.PurchaseOrder
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save persists an order and its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return r.syncItems(tx, order)
	})
}

// SaveWithLock persists an order with optimistic locking on the header row
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *trade.PurchaseOrder) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := saveWithVersionGuard(tx, order, order.Version, "Items"); err != nil {
			return err
		}
		return r.syncItems(tx, order)
	})
}

// Delete removes an order and its items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).Delete(&trade.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&trade.PurchaseOrder{}, "id = ?", id).Error
	})
}

// syncItems reconciles stored item rows with the aggregate: removed lines are
// deleted, the rest are upserted.
func (r *GormPurchaseOrderRepository) syncItems(tx *gorm.DB, order *trade.PurchaseOrder) error {
	itemIDs := make([]uuid.UUID, len(order.Items))
	for i := range order.Items {
		itemIDs[i] = order.Items[i].ID
	}

	query := tx.Where("purchase_order_id = ?", order.ID)
	if len(itemIDs) > 0 {
		query = query.Where("id NOT IN ?", itemIDs)
	}
	if err := query.Delete(&trade.PurchaseOrderItem{}).Error; err != nil {
		return err
	}

	for i := range order.Items {
		order.Items[i].PurchaseOrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order with its items
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByCode finds a sales order by its code
func (r *GormSalesOrderRepository) FindByCode(ctx context.Context, code string) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		First(&order, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll lists sales orders, paginated
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.SalesOrder], error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := applyOrderFilters(db.Model(&trade.SalesOrder{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	query := applyOrderFilters(db.Model(&trade.SalesOrder{}), filter)
	query = applyOrdering(applyPagination(query, filter), filter, "order_date")

	var orders []trade.SalesOrder
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save persists an order and its items
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return r.syncItems(tx, order)
	})
}

// SaveWithLock persists an order with optimistic locking on the header row
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *trade.SalesOrder) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := saveWithVersionGuard(tx, order, order.Version, "Items"); err != nil {
			return err
		}
		return r.syncItems(tx, order)
	})
}

// Delete removes an order and its items
func (r *GormSalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sales_order_id = ?", id).Delete(&trade.SalesOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&trade.SalesOrder{}, "id = ?", id).Error
	})
}

func (r *GormSalesOrderRepository) syncItems(tx *gorm.DB, order *trade.SalesOrder) error {
	itemIDs := make([]uuid.UUID, len(order.Items))
	for i := range order.Items {
		itemIDs[i] = order.Items[i].ID
	}

	query := tx.Where("sales_order_id = ?", order.ID)
	if len(itemIDs) > 0 {
		query = query.Where("id NOT IN ?", itemIDs)
	}
	if err := query.Delete(&trade.SalesOrderItem{}).Error; err != nil {
		return err
	}

	for i := range order.Items {
		order.Items[i].SalesOrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// GormReturnOrderRepository implements ReturnOrderRepository using GORM
type GormReturnOrderRepository struct {
	db *gorm.DB
}

// NewGormReturnOrderRepository creates a new GormReturnOrderRepository
func NewGormReturnOrderRepository(db *gorm.DB) *GormReturnOrderRepository {
	return &GormReturnOrderRepository{db: db}
}

// FindByID finds a return order with its items
func (r *GormReturnOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ReturnOrder, error) {
	var order trade.ReturnOrder
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByCode finds a return order by its code
func (r *GormReturnOrderRepository) FindByCode(ctx context.Context, code string) (*trade.ReturnOrder, error) {
	var order trade.ReturnOrder
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		First(&order, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll lists return orders, paginated
func (r *GormReturnOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.ReturnOrder], error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := applyOrderFilters(db.Model(&trade.ReturnOrder{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	query := applyOrderFilters(db.Model(&trade.ReturnOrder{}), filter)
	query = applyOrdering(applyPagination(query, filter), filter, "order_date")

	var orders []trade.ReturnOrder
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindBySalesOrder lists returns raised against a sales order
func (r *GormReturnOrderRepository) FindBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]trade.ReturnOrder, error) {
	var orders []trade.ReturnOrder
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		Where("sales_order_id = ?", salesOrderID).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists an order and its items
func (r *GormReturnOrderRepository) Save(ctx context.Context, order *trade.ReturnOrder) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return r.syncItems(tx, order)
	})
}

// SaveWithLock persists an order with optimistic locking on the header row
func (r *GormReturnOrderRepository) SaveWithLock(ctx context.Context, order *trade.ReturnOrder) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := saveWithVersionGuard(tx, order, order.Version, "Items"); err != nil {
			return err
		}
		return r.syncItems(tx, order)
	})
}

// Delete removes an order and its items
func (r *GormReturnOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("return_order_id = ?", id).Delete(&trade.ReturnOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&trade.ReturnOrder{}, "id = ?", id).Error
	})
}

func (r *GormReturnOrderRepository) syncItems(tx *gorm.DB, order *trade.ReturnOrder) error {
	itemIDs := make([]uuid.UUID, len(order.Items))
	for i := range order.Items {
		itemIDs[i] = order.Items[i].ID
	}

	query := tx.Where("return_order_id = ?", order.ID)
	if len(itemIDs) > 0 {
		query = query.Where("id NOT IN ?", itemIDs)
	}
	if err := query.Delete(&trade.ReturnOrderItem{}).Error; err != nil {
		return err
	}

	for i := range order.Items {
		order.Items[i].ReturnOrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyOrderFilters applies the shared order list filters: code search and
// status/payment method equality filters.
func applyOrderFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(code) LIKE ?", searchPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "from":
			query = query.Where("order_date >= ?", value)
		case "to":
			query = query.Where("order_date <= ?", value)
		}
	}
	return query
}

// Ensure interfaces are implemented
var (
	_ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
	_ trade.SalesOrderRepository    = (*GormSalesOrderRepository)(nil)
	_ trade.ReturnOrderRepository   = (*GormReturnOrderRepository)(nil)
)
