package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopstack/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByCode finds an order by its human-readable code
	FindByCode(ctx context.Context, code string) (*PurchaseOrder, error)

	// FindAll lists orders, paginated
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[PurchaseOrder], error)

	// Save persists an order and its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock persists an order, failing with a concurrency conflict if
	// the stored version differs
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete removes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindByCode(ctx context.Context, code string) (*SalesOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[SalesOrder], error)
	Save(ctx context.Context, order *SalesOrder) error
	SaveWithLock(ctx context.Context, order *SalesOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReturnOrderRepository defines the interface for return order persistence
type ReturnOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnOrder, error)
	FindByCode(ctx context.Context, code string) (*ReturnOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[ReturnOrder], error)
	FindBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]ReturnOrder, error)
	Save(ctx context.Context, order *ReturnOrder) error
	SaveWithLock(ctx context.Context, order *ReturnOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CodeGenerator issues human-readable document codes from a per-day sequence,
// e.g. PO-20260829-0001. The increment happens inside the caller's unit of
// work so a rolled-back order does not burn a gap-free sequence.
type CodeGenerator interface {
	NextCode(ctx context.Context, prefix string, date time.Time) (string, error)
}
