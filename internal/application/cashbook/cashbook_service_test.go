package cashbook

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopstack/backend/internal/domain/cashbook"
	"github.com/shopstack/backend/internal/domain/shared"
)

type memoryEntryRepo struct {
	entries []cashbook.Entry
}

func (r *memoryEntryRepo) Append(_ context.Context, entry *cashbook.Entry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryEntryRepo) FindByID(_ context.Context, id uuid.UUID) (*cashbook.Entry, error) {
	for i := range r.entries {
		if r.entries[i].ID == id {
			return &r.entries[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryEntryRepo) FindBySource(_ context.Context, sourceType cashbook.SourceType, sourceID uuid.UUID) ([]cashbook.Entry, error) {
	var out []cashbook.Entry
	for _, e := range r.entries {
		if e.SourceType == sourceType && e.SourceID != nil && *e.SourceID == sourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryEntryRepo) FindBetween(_ context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[cashbook.Entry], error) {
	var out []cashbook.Entry
	for _, e := range r.entries {
		if !e.EntryDate.Before(from) && !e.EntryDate.After(to) {
			out = append(out, e)
		}
	}
	page := shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize)
	return &page, nil
}

func (r *memoryEntryRepo) SumByTypeBetween(_ context.Context, entryType cashbook.EntryType, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.EntryType == entryType && !e.EntryDate.Before(from) && !e.EntryDate.After(to) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func newTestService() (*Service, *memoryEntryRepo) {
	repo := &memoryEntryRepo{}
	return NewService(shared.NopUnitOfWork{}, repo, zap.NewNop()), repo
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records a manual income entry", func(t *testing.T) {
		service, repo := newTestService()

		entry, err := service.Record(ctx, RecordEntryInput{
			EntryType:     "INCOME",
			Amount:        decimal.NewFromInt(500),
			PaymentMethod: "CASH",
			Description:   "Opening float",
		})
		require.NoError(t, err)

		assert.Equal(t, cashbook.EntryTypeIncome, entry.EntryType)
		assert.Equal(t, cashbook.CategoryOther, entry.Category)
		require.Len(t, repo.entries, 1)
	})

	t.Run("backdates the entry when an entry date is given", func(t *testing.T) {
		service, _ := newTestService()
		backdate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

		entry, err := service.Record(ctx, RecordEntryInput{
			EntryType:     "EXPENSE",
			Category:      "OTHER",
			Amount:        decimal.NewFromInt(40),
			PaymentMethod: "CASH",
			EntryDate:     &backdate,
		})
		require.NoError(t, err)
		assert.True(t, entry.EntryDate.Equal(backdate))
	})

	t.Run("rejects unknown entry type", func(t *testing.T) {
		service, repo := newTestService()

		_, err := service.Record(ctx, RecordEntryInput{
			EntryType:     "TRANSFER",
			Amount:        decimal.NewFromInt(10),
			PaymentMethod: "CASH",
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))
		assert.Empty(t, repo.entries)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Record(ctx, RecordEntryInput{
			EntryType:     "INCOME",
			Category:      "GIFTS",
			Amount:        decimal.NewFromInt(10),
			PaymentMethod: "CASH",
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))
	})
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("computes the range totals at read time", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Record(ctx, RecordEntryInput{EntryType: "INCOME", Amount: decimal.NewFromInt(300), PaymentMethod: "CASH"})
		require.NoError(t, err)
		_, err = service.Record(ctx, RecordEntryInput{EntryType: "INCOME", Amount: decimal.NewFromInt(200), PaymentMethod: "TRANSFER"})
		require.NoError(t, err)
		_, err = service.Record(ctx, RecordEntryInput{EntryType: "EXPENSE", Amount: decimal.NewFromInt(120), PaymentMethod: "CASH"})
		require.NoError(t, err)

		now := time.Now()
		summary, err := service.Summary(ctx, now.Add(-time.Hour), now.Add(time.Hour))
		require.NoError(t, err)

		assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(500)))
		assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(120)))
		assert.True(t, summary.NetFlow.Equal(decimal.NewFromInt(380)))
	})

	t.Run("excludes entries outside the range", func(t *testing.T) {
		service, _ := newTestService()
		old := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

		_, err := service.Record(ctx, RecordEntryInput{EntryType: "INCOME", Amount: decimal.NewFromInt(999), PaymentMethod: "CASH", EntryDate: &old})
		require.NoError(t, err)
		_, err = service.Record(ctx, RecordEntryInput{EntryType: "INCOME", Amount: decimal.NewFromInt(50), PaymentMethod: "CASH"})
		require.NoError(t, err)

		now := time.Now()
		summary, err := service.Summary(ctx, now.Add(-time.Hour), now.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(50)))
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		service, _ := newTestService()
		now := time.Now()
		_, err := service.Summary(ctx, now, now.Add(-time.Hour))
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))
	})
}
