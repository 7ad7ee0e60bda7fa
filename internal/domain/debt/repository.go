package debt

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionRepository defines the interface for debt transaction persistence.
// Rows are append-only; there is no update or delete.
type TransactionRepository interface {
	// Append stores a new transaction
	Append(ctx context.Context, tx *Transaction) error

	// FindByCounterparty finds transactions for a counterparty, newest first
	FindByCounterparty(ctx context.Context, side Side, counterpartyID uuid.UUID) ([]Transaction, error)

	// FindBySourceOrder finds transactions linked to an order
	FindBySourceOrder(ctx context.Context, side Side, orderID uuid.UUID) ([]Transaction, error)

	// FindBetween finds transactions for a side within a date range
	FindBetween(ctx context.Context, side Side, from, to time.Time) ([]Transaction, error)
}
