package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopstack/backend/internal/domain/cashbook"
	"github.com/shopstack/backend/internal/domain/shared"
)

// GormCashbookEntryRepository implements EntryRepository using GORM.
// The cashbook is append-only; entries are never updated or deleted.
type GormCashbookEntryRepository struct {
	db *gorm.DB
}

// NewGormCashbookEntryRepository creates a new GormCashbookEntryRepository
func NewGormCashbookEntryRepository(db *gorm.DB) *GormCashbookEntryRepository {
	return &GormCashbookEntryRepository{db: db}
}

// Append stores a new entry
func (r *GormCashbookEntryRepository) Append(ctx context.Context, entry *cashbook.Entry) error {
	return dbFromContext(ctx, r.db).Create(entry).Error
}

// FindByID finds an entry by its ID
func (r *GormCashbookEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashbook.Entry, error) {
	var entry cashbook.Entry
	if err := dbFromContext(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindBySource finds entries produced by a document
func (r *GormCashbookEntryRepository) FindBySource(ctx context.Context, sourceType cashbook.SourceType, sourceID uuid.UUID) ([]cashbook.Entry, error) {
	var entries []cashbook.Entry
	if err := dbFromContext(ctx, r.db).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindBetween lists entries within a date range, newest first, paginated
func (r *GormCashbookEntryRepository) FindBetween(ctx context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[cashbook.Entry], error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&cashbook.Entry{}).
		Where("entry_date >= ? AND entry_date <= ?", from, to).
		Count(&total).Error; err != nil {
		return nil, err
	}

	query := db.Model(&cashbook.Entry{}).Where("entry_date >= ? AND entry_date <= ?", from, to)
	query = applyOrdering(applyPagination(query, filter), filter, "entry_date")

	var entries []cashbook.Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &result, nil
}

// SumByTypeBetween totals entries of one type within a date range
func (r *GormCashbookEntryRepository) SumByTypeBetween(ctx context.Context, entryType cashbook.EntryType, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := dbFromContext(ctx, r.db).
		Model(&cashbook.Entry{}).
		Select("SUM(amount)").
		Where("entry_type = ? AND entry_date >= ? AND entry_date <= ?", entryType, from, to).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Ensure GormCashbookEntryRepository implements EntryRepository
var _ cashbook.EntryRepository = (*GormCashbookEntryRepository)(nil)
