package cashbook

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// EntryRepository defines the interface for cashbook persistence.
// The cashbook is append-only; entries are never updated or deleted.
type EntryRepository interface {
	// Append stores a new entry
	Append(ctx context.Context, entry *Entry) error

	// FindByID finds an entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// FindBySource finds entries produced by a document
	FindBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]Entry, error)

	// FindBetween lists entries within a date range, newest first, paginated
	FindBetween(ctx context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[Entry], error)

	// SumByTypeBetween totals entries of one type within a date range
	SumByTypeBetween(ctx context.Context, entryType EntryType, from, to time.Time) (decimal.Decimal, error)
}

// Summary is the read-time reduction over a date range
type Summary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetFlow      decimal.Decimal `json:"netFlow"`
}
