package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// Customer represents a buyer. DebtBalance is the cached accounts receivable
// balance, maintained transactionally with the debt ledger rows.
type Customer struct {
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
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(code, name string) (*Customer, error) {
	if code == "" {
		return nil, shared.NewValidationError("Customer code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}

	return &Customer{
		AggregateRoot: shared.NewAggregateRoot(),
		Code:          code,
		Name:          name,
		DebtBalance:   decimal.Zero,
		Active:        true,
	}, nil
}

// CounterpartyID returns the customer's identity for the debt ledger
func (c *Customer) CounterpartyID() uuid.UUID {
	return c.ID
}

// CounterpartyName returns the customer's display name
func (c *Customer) CounterpartyName() string {
	return c.Name
}

// OutstandingBalance returns the current receivable balance
func (c *Customer) OutstandingBalance() decimal.Decimal {
	return c.DebtBalance
}

// SetOutstandingBalance replaces the cached receivable balance
func (c *Customer) SetOutstandingBalance(balance decimal.Decimal) {
	c.DebtBalance = balance
	c.Touch()
	c.IncrementVersion()
}

// DebtDue returns the pending due date, if any
func (c *Customer) DebtDue() *time.Time {
	return c.DebtDueDate
}

// ExtendDebtDue moves the due date forward; an earlier date never shortens it
func (c *Customer) ExtendDebtDue(due time.Time) {
	if c.DebtDueDate == nil || due.After(*c.DebtDueDate) {
		c.DebtDueDate = &due
		c.Touch()
	}
}

// ClearDebtDue removes the pending due date
func (c *Customer) ClearDebtDue() {
	if c.DebtDueDate != nil {
		c.DebtDueDate = nil
		c.Touch()
	}
}
