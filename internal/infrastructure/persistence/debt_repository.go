package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack/backend/internal/domain/debt"
)

// GormDebtTransactionRepository implements TransactionRepository using GORM.
// Debt rows are append-only; the repository exposes no update or delete.
type GormDebtTransactionRepository struct {
	db *gorm.DB
}

// NewGormDebtTransactionRepository creates a new GormDebtTransactionRepository
func NewGormDebtTransactionRepository(db *gorm.DB) *GormDebtTransactionRepository {
	return &GormDebtTransactionRepository{db: db}
}

// Append stores a new transaction
func (r *GormDebtTransactionRepository) Append(ctx context.Context, tx *debt.Transaction) error {
	return dbFromContext(ctx, r.db).Create(tx).Error
}

// FindByCounterparty finds transactions for a counterparty, newest first
func (r *GormDebtTransactionRepository) FindByCounterparty(ctx context.Context, side debt.Side, counterpartyID uuid.UUID) ([]debt.Transaction, error) {
	var txs []debt.Transaction
	if err := dbFromContext(ctx, r.db).
		Where("side = ? AND counterparty_id = ?", side, counterpartyID).
		Order("transaction_date DESC, created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindBySourceOrder finds transactions linked to an order
func (r *GormDebtTransactionRepository) FindBySourceOrder(ctx context.Context, side debt.Side, orderID uuid.UUID) ([]debt.Transaction, error) {
	var txs []debt.Transaction
	if err := dbFromContext(ctx, r.db).
		Where("side = ? AND source_order_id = ?", side, orderID).
		Order("transaction_date ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindBetween finds transactions for a side within a date range
func (r *GormDebtTransactionRepository) FindBetween(ctx context.Context, side debt.Side, from, to time.Time) ([]debt.Transaction, error) {
	var txs []debt.Transaction
	if err := dbFromContext(ctx, r.db).
		Where("side = ? AND transaction_date >= ? AND transaction_date <= ?", side, from, to).
		Order("transaction_date ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Ensure GormDebtTransactionRepository implements TransactionRepository
var _ debt.TransactionRepository = (*GormDebtTransactionRepository)(nil)
