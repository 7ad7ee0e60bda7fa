package debt

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// Counterparty is the account the ledger posts against. Suppliers implement it
// for the payable side and customers for the receivable side.
type Counterparty interface {
	CounterpartyID() uuid.UUID
	OutstandingBalance() decimal.Decimal
	SetOutstandingBalance(balance decimal.Decimal)
	DebtDue() *time.Time
	ExtendDebtDue(due time.Time)
	ClearDebtDue()
}

// Ledger posts balance-affecting transactions for one side (payable or
// receivable). It mutates the counterparty's cached balance and appends the
// audit row; the caller persists both inside one unit of work.
type Ledger struct {
	side Side
	txs  TransactionRepository
}

// NewLedger creates a debt ledger for the given side
func NewLedger(side Side, txs TransactionRepository) *Ledger {
	return &Ledger{side: side, txs: txs}
}

// Side returns the ledger's side
func (l *Ledger) Side() Side {
	return l.side
}

// RecordInvoice increases the counterparty balance by amount. A later due date
// extends the counterparty's pending due date; an earlier one is ignored.
func (l *Ledger) RecordInvoice(ctx context.Context, cp Counterparty, amount decimal.Decimal, dueDate *time.Time, reason string, sourceOrderID uuid.UUID) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError("Invoice amount must be positive")
	}

	before := cp.OutstandingBalance()
	after := before.Add(amount)

	tx, err := NewTransaction(l.side, cp.CounterpartyID(), TransactionTypeInvoice, amount, before, after, reason)
	if err != nil {
		return nil, err
	}
	tx.WithSourceOrder(sourceOrderID)
	if dueDate != nil {
		tx.WithDueDate(*dueDate)
	}

	if err := l.txs.Append(ctx, tx); err != nil {
		return nil, err
	}

	cp.SetOutstandingBalance(after)
	if dueDate != nil {
		cp.ExtendDebtDue(*dueDate)
	}

	return tx, nil
}

// RecordPayment decreases the counterparty balance by amount, flooring at
// zero. When the balance reaches exactly zero any pending due date is cleared.
func (l *Ledger) RecordPayment(ctx context.Context, cp Counterparty, amount decimal.Decimal, reason string, sourceOrderID uuid.UUID) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError("Payment amount must be positive")
	}

	before := cp.OutstandingBalance()
	after := before.Sub(amount)
	if after.IsNegative() {
		after = decimal.Zero
	}

	tx, err := NewTransaction(l.side, cp.CounterpartyID(), TransactionTypePayment, amount, before, after, reason)
	if err != nil {
		return nil, err
	}
	tx.WithSourceOrder(sourceOrderID)

	if err := l.txs.Append(ctx, tx); err != nil {
		return nil, err
	}

	cp.SetOutstandingBalance(after)
	if after.IsZero() {
		cp.ClearDebtDue()
	}

	return tx, nil
}

// RecordRefund decreases the counterparty balance on a return, with the same
// arithmetic as a payment.
func (l *Ledger) RecordRefund(ctx context.Context, cp Counterparty, amount decimal.Decimal, reason string, sourceOrderID uuid.UUID) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError("Refund amount must be positive")
	}

	before := cp.OutstandingBalance()
	after := before.Sub(amount)
	if after.IsNegative() {
		after = decimal.Zero
	}

	tx, err := NewTransaction(l.side, cp.CounterpartyID(), TransactionTypeRefund, amount, before, after, reason)
	if err != nil {
		return nil, err
	}
	tx.WithSourceOrder(sourceOrderID)

	if err := l.txs.Append(ctx, tx); err != nil {
		return nil, err
	}

	cp.SetOutstandingBalance(after)
	if after.IsZero() {
		cp.ClearDebtDue()
	}

	return tx, nil
}

// RecordAdjustment applies a signed manual correction. The resulting balance
// may not go negative. No due-date side effect.
func (l *Ledger) RecordAdjustment(ctx context.Context, cp Counterparty, signedAmount decimal.Decimal, reason string) (*Transaction, error) {
	if signedAmount.IsZero() {
		return nil, shared.NewInvalidAmountError("Adjustment amount cannot be zero")
	}
	if reason == "" {
		return nil, shared.NewValidationError("Adjustment reason is required")
	}

	before := cp.OutstandingBalance()
	after := before.Add(signedAmount)
	if after.IsNegative() {
		return nil, shared.NewInvalidAmountError("Adjustment would make the balance negative")
	}

	tx, err := NewTransaction(l.side, cp.CounterpartyID(), TransactionTypeAdjustment, signedAmount.Abs(), before, after, reason)
	if err != nil {
		return nil, err
	}

	if err := l.txs.Append(ctx, tx); err != nil {
		return nil, err
	}

	cp.SetOutstandingBalance(after)

	return tx, nil
}

// OutstandingForOrder sums the open balance tied to one order: invoices minus
// payments and refunds recorded against it.
func (l *Ledger) OutstandingForOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	txs, err := l.txs.FindBySourceOrder(ctx, l.side, orderID)
	if err != nil {
		return decimal.Zero, err
	}

	outstanding := decimal.Zero
	for i := range txs {
		switch txs[i].TransactionType {
		case TransactionTypeInvoice:
			outstanding = outstanding.Add(txs[i].Amount)
		case TransactionTypePayment, TransactionTypeRefund:
			outstanding = outstanding.Sub(txs[i].Amount)
		}
	}
	if outstanding.IsNegative() {
		return decimal.Zero, nil
	}
	return outstanding, nil
}
