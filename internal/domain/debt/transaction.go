package debt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// Side distinguishes the two instantiations of the debt ledger
type Side string

const (
	// SidePayable tracks money owed to suppliers
	SidePayable Side = "PAYABLE"
	// SideReceivable tracks money owed by customers
	SideReceivable Side = "RECEIVABLE"
)

// IsValid returns true if the side is valid
func (s Side) IsValid() bool {
	return s == SidePayable || s == SideReceivable
}

// String returns the string representation of Side
func (s Side) String() string {
	return string(s)
}

// TransactionType represents the type of debt transaction
type TransactionType string

const (
	// TransactionTypeInvoice increases the counterparty balance (goods on credit)
	TransactionTypeInvoice TransactionType = "INVOICE"
	// TransactionTypePayment decreases the counterparty balance
	TransactionTypePayment TransactionType = "PAYMENT"
	// TransactionTypeAdjustment is a signed manual correction
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
	// TransactionTypeRefund decreases the balance on a return
	TransactionTypeRefund TransactionType = "REFUND"
)

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeInvoice, TransactionTypePayment, TransactionTypeAdjustment, TransactionTypeRefund:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// Transaction is an immutable record of a counterparty balance change.
// Corrections are new rows, never updates to old ones.
type Transaction struct {
	shared.BaseEntity
	Side            Side            `gorm:"type:varchar(20);not null;index:idx_debt_tx_counterparty,priority:1"`
	CounterpartyID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_debt_tx_counterparty,priority:2"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason          string          `gorm:"type:varchar(255)"`
	SourceOrderID   *uuid.UUID      `gorm:"type:uuid;index"`
	CashbookEntryID *uuid.UUID      `gorm:"type:uuid"`
	DueDate         *time.Time
	TransactionDate time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "debt_transactions"
}

// NewTransaction creates a new debt transaction
func NewTransaction(
	side Side,
	counterpartyID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
	reason string,
) (*Transaction, error) {
	if !side.IsValid() {
		return nil, shared.NewValidationError("Invalid debt ledger side")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("Counterparty ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewValidationError("Invalid debt transaction type")
	}
	if balanceBefore.IsNegative() || balanceAfter.IsNegative() {
		return nil, shared.NewValidationError("Debt balance cannot be negative")
	}

	return &Transaction{
		BaseEntity:      shared.NewBaseEntity(),
		Side:            side,
		CounterpartyID:  counterpartyID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		Reason:          reason,
		TransactionDate: time.Now(),
	}, nil
}

// WithSourceOrder links the transaction to the originating order. A nil ID
// leaves the transaction unlinked, used by manual settlements.
func (t *Transaction) WithSourceOrder(orderID uuid.UUID) *Transaction {
	if orderID == uuid.Nil {
		return t
	}
	t.SourceOrderID = &orderID
	return t
}

// WithCashbookEntry links the transaction to a cashbook entry
func (t *Transaction) WithCashbookEntry(entryID uuid.UUID) *Transaction {
	t.CashbookEntryID = &entryID
	return t
}

// WithDueDate records the due date carried by an invoice
func (t *Transaction) WithDueDate(due time.Time) *Transaction {
	t.DueDate = &due
	return t
}

// BalanceChange returns the net balance change
func (t *Transaction) BalanceChange() decimal.Decimal {
	return t.BalanceAfter.Sub(t.BalanceBefore)
}
