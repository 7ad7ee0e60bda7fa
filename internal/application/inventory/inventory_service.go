package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopstack/backend/internal/domain/catalog"
	"github.com/shopstack/backend/internal/domain/inventory"
	"github.com/shopstack/backend/internal/domain/shared"
)

// AdjustStockInput is the request to correct stock after a stocktake
type AdjustStockInput struct {
	ProductID   uuid.UUID       `json:"productId" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouseId" binding:"required"`
	CountedQty  decimal.Decimal `json:"countedQty"`
	Reason      string          `json:"reason" binding:"required"`
}

// LowStockItem is one product at or under its minimum threshold
type LowStockItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	WarehouseID uuid.UUID       `json:"warehouseId"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinStock    decimal.Decimal `json:"minStock"`
}

// Service exposes stock reads, stocktake corrections and expiry/low-stock
// signals on top of the stock ledger.
type Service struct {
	uow      shared.UnitOfWork
	ledger   *inventory.Ledger
	stocks   inventory.StockRepository
	batches  inventory.StockBatchRepository
	txs      inventory.StockTransactionRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewService creates an inventory service
func NewService(
	uow shared.UnitOfWork,
	ledger *inventory.Ledger,
	stocks inventory.StockRepository,
	batches inventory.StockBatchRepository,
	txs inventory.StockTransactionRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		uow:      uow,
		ledger:   ledger,
		stocks:   stocks,
		batches:  batches,
		txs:      txs,
		products: products,
		logger:   logger,
	}
}

// Adjust corrects the on-hand quantity after a stocktake, recording the
// difference as an adjustment movement.
func (s *Service) Adjust(ctx context.Context, input AdjustStockInput) (*inventory.StockTransaction, error) {
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewReferenceNotFoundError("Product not found")
		}
		return nil, err
	}

	var tx *inventory.StockTransaction
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		tx, err = s.ledger.Adjust(ctx, input.ProductID, input.WarehouseID, input.CountedQty, input.Reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("product_id", input.ProductID.String()),
		zap.String("counted", input.CountedQty.String()))

	return tx, nil
}

// StockByWarehouse lists stock levels in a warehouse
func (s *Service) StockByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.Stock], error) {
	return s.stocks.FindByWarehouse(ctx, warehouseID, filter)
}

// Movements lists the movement history for a product
func (s *Service) Movements(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.StockTransaction], error) {
	return s.txs.FindByProduct(ctx, productID, filter)
}

// ExpiringBatches lists undepleted batches expiring before the cutoff
func (s *Service) ExpiringBatches(ctx context.Context, cutoff time.Time) ([]inventory.StockBatch, error) {
	return s.batches.FindExpiringBefore(ctx, cutoff)
}

// LowStock lists products whose stock sits at or under their minimum
// threshold across warehouses.
func (s *Service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	products, err := s.products.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	var out []LowStockItem
	for i := range products {
		p := &products[i]
		if p.MinStock.LessThanOrEqual(decimal.Zero) {
			continue
		}
		stocks, err := s.stocks.FindByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for j := range stocks {
			if stocks[j].IsBelowMinimum(p.MinStock) {
				out = append(out, LowStockItem{
					ProductID:   p.ID,
					ProductName: p.Name,
					WarehouseID: stocks[j].WarehouseID,
					Quantity:    stocks[j].Quantity,
					MinStock:    p.MinStock,
				})
			}
		}
	}
	return out, nil
}
