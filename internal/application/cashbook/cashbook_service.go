package cashbook

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopstack/backend/internal/domain/cashbook"
	"github.com/shopstack/backend/internal/domain/shared"
)

// RecordEntryInput is the request to record a manual cashbook entry
type RecordEntryInput struct {
	EntryType     string          `json:"entryType" binding:"required"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	Description   string          `json:"description"`
	EntryDate     *time.Time      `json:"entryDate"`
}

// Service records manual cashbook entries and computes date-range statistics.
// Order-driven entries are written by the order services inside their own
// units of work; this service covers the manual path and the read side.
type Service struct {
	uow     shared.UnitOfWork
	entries cashbook.EntryRepository
	logger  *zap.Logger
}

// NewService creates a cashbook service
func NewService(uow shared.UnitOfWork, entries cashbook.EntryRepository, logger *zap.Logger) *Service {
	return &Service{uow: uow, entries: entries, logger: logger}
}

// Record appends a manual entry
func (s *Service) Record(ctx context.Context, input RecordEntryInput) (*cashbook.Entry, error) {
	entryType, err := cashbook.ParseEntryType(input.EntryType)
	if err != nil {
		return nil, err
	}
	category := cashbook.CategoryOther
	if input.Category != "" {
		category = cashbook.Category(input.Category)
		if !category.IsValid() {
			return nil, shared.NewValidationError("Invalid cashbook category: " + input.Category)
		}
	}

	var entry *cashbook.Entry
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		entry, err = cashbook.NewEntry(entryType, category, input.Amount, input.PaymentMethod, input.Description)
		if err != nil {
			return err
		}
		if input.EntryDate != nil {
			entry.WithEntryDate(*input.EntryDate)
		}
		return s.entries.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cashbook entry recorded",
		zap.String("type", entry.EntryType.String()),
		zap.String("amount", entry.Amount.String()))

	return entry, nil
}

// GetByID returns one entry
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*cashbook.Entry, error) {
	return s.entries.FindByID(ctx, id)
}

// List returns entries within a date range, paginated
func (s *Service) List(ctx context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[cashbook.Entry], error) {
	return s.entries.FindBetween(ctx, from, to, filter)
}

// Summary computes the read-time reduction over a date range: total income,
// total expense and their difference. Nothing is cached; every call scans
// the range.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*cashbook.Summary, error) {
	if to.Before(from) {
		return nil, shared.NewValidationError("Date range end precedes start")
	}

	income, err := s.entries.SumByTypeBetween(ctx, cashbook.EntryTypeIncome, from, to)
	if err != nil {
		return nil, err
	}
	expense, err := s.entries.SumByTypeBetween(ctx, cashbook.EntryTypeExpense, from, to)
	if err != nil {
		return nil, err
	}

	return &cashbook.Summary{
		From:         from,
		To:           to,
		TotalIncome:  income,
		TotalExpense: expense,
		NetFlow:      income.Sub(expense),
	}, nil
}
