package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopstack/backend/internal/domain/shared"
)

// StockRepository defines the interface for stock persistence
type StockRepository interface {
	// FindByProductAndWarehouse finds the stock row for a product in a warehouse
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*Stock, error)

	// FindByWarehouse lists stock in a warehouse, paginated
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[Stock], error)

	// FindByProduct lists stock of a product across warehouses
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Stock, error)

	// Save persists a stock row
	Save(ctx context.Context, stock *Stock) error

	// SaveWithLock persists a stock row, failing if the stored version differs
	SaveWithLock(ctx context.Context, stock *Stock) error
}

// StockBatchRepository defines the interface for batch persistence
type StockBatchRepository interface {
	// FindByID finds a batch by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)

	// FindOpenBatches lists undepleted batches for a product in a warehouse,
	// oldest expiry first
	FindOpenBatches(ctx context.Context, productID, warehouseID uuid.UUID) ([]StockBatch, error)

	// FindExpiringBefore lists undepleted batches expiring before a cutoff
	FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]StockBatch, error)

	// Save persists a batch
	Save(ctx context.Context, batch *StockBatch) error
}

// StockTransactionRepository defines the interface for movement persistence.
// Movements are append-only.
type StockTransactionRepository interface {
	// Append stores a movement record
	Append(ctx context.Context, tx *StockTransaction) error

	// FindByProduct lists movements for a product, newest first, paginated
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockTransaction], error)

	// FindBySourceOrder lists movements produced by an order
	FindBySourceOrder(ctx context.Context, orderID uuid.UUID) ([]StockTransaction, error)
}
