package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// Supplier represents a goods supplier. DebtBalance is the cached accounts
// payable balance; the debt ledger rows are its audit trail and both are
// written in the same atomic step.
type Supplier struct {
	shared.AggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Phone       string          `gorm:"type:varchar(30)"`
	Address     string          `gorm:"type:varchar(500)"`
	DebtBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DebtDueDate *time.Time
	Active      bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(code, name string) (*Supplier, error) {
	if code == "" {
		return nil, shared.NewValidationError("Supplier code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}

	return &Supplier{
		AggregateRoot: shared.NewAggregateRoot(),
		Code:          code,
		Name:          name,
		DebtBalance:   decimal.Zero,
		Active:        true,
	}, nil
}

// CounterpartyID returns the supplier's identity for the debt ledger
func (s *Supplier) CounterpartyID() uuid.UUID {
	return s.ID
}

// CounterpartyName returns the supplier's display name
func (s *Supplier) CounterpartyName() string {
	return s.Name
}

// OutstandingBalance returns the current payable balance
func (s *Supplier) OutstandingBalance() decimal.Decimal {
	return s.DebtBalance
}

// SetOutstandingBalance replaces the cached payable balance
func (s *Supplier) SetOutstandingBalance(balance decimal.Decimal) {
	s.DebtBalance = balance
	s.Touch()
	s.IncrementVersion()
}

// DebtDue returns the pending due date, if any
func (s *Supplier) DebtDue() *time.Time {
	return s.DebtDueDate
}

// ExtendDebtDue moves the due date forward; an earlier date never shortens it
func (s *Supplier) ExtendDebtDue(due time.Time) {
	if s.DebtDueDate == nil || due.After(*s.DebtDueDate) {
		s.DebtDueDate = &due
		s.Touch()
	}
}

// ClearDebtDue removes the pending due date
func (s *Supplier) ClearDebtDue() {
	if s.DebtDueDate != nil {
		s.DebtDueDate = nil
		s.Touch()
	}
}
