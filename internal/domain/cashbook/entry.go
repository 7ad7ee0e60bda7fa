package cashbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// EntryType represents the direction of a cashbook entry
type EntryType string

const (
	// EntryTypeIncome is money flowing in
	EntryTypeIncome EntryType = "INCOME"
	// EntryTypeExpense is money flowing out
	EntryTypeExpense EntryType = "EXPENSE"
)

// IsValid returns true if the entry type is valid
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// ParseEntryType parses a string into an EntryType
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if !t.IsValid() {
		return "", shared.NewValidationError("Invalid cashbook entry type: " + s)
	}
	return t, nil
}

// Category classifies a cashbook entry
type Category string

const (
	// CategorySales is income from sales orders
	CategorySales Category = "SALES"
	// CategoryPurchase is expense for purchase orders
	CategoryPurchase Category = "PURCHASE"
	// CategoryDebtCollection is income from receivable payments
	CategoryDebtCollection Category = "DEBT_COLLECTION"
	// CategoryDebtPayment is expense for payable payments
	CategoryDebtPayment Category = "DEBT_PAYMENT"
	// CategoryRefund is expense for return refunds
	CategoryRefund Category = "REFUND"
	// CategoryOther covers manual entries
	CategoryOther Category = "OTHER"
)

// IsValid returns true if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategorySales, CategoryPurchase, CategoryDebtCollection, CategoryDebtPayment, CategoryRefund, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// SourceType identifies the document that produced an entry
type SourceType string

const (
	// SourcePurchaseOrder links an entry to a purchase order
	SourcePurchaseOrder SourceType = "PURCHASE_ORDER"
	// SourceSalesOrder links an entry to a sales order
	SourceSalesOrder SourceType = "SALES_ORDER"
	// SourceReturnOrder links an entry to a return order
	SourceReturnOrder SourceType = "RETURN_ORDER"
	// SourceManual marks a hand-entered row
	SourceManual SourceType = "MANUAL"
)

// Entry is an immutable cashbook row. Aggregates such as period totals are
// computed at read time from the rows, never stored.
type Entry struct {
	shared.BaseEntity
	EntryType     EntryType       `gorm:"type:varchar(20);not null;index:idx_cashbook_type_date,priority:1"`
	Category      Category        `gorm:"type:varchar(30);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Description   string          `gorm:"type:varchar(255)"`
	SourceType    SourceType      `gorm:"type:varchar(30);not null"`
	SourceID      *uuid.UUID      `gorm:"type:uuid;index"`
	EntryDate     time.Time       `gorm:"not null;index:idx_cashbook_type_date,priority:2"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "cashbook_entries"
}

// NewEntry creates a new cashbook entry
func NewEntry(
	entryType EntryType,
	category Category,
	amount decimal.Decimal,
	paymentMethod string,
	description string,
) (*Entry, error) {
	if !entryType.IsValid() {
		return nil, shared.NewValidationError("Invalid cashbook entry type")
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError("Invalid cashbook category")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError("Cashbook amount must be positive")
	}
	if paymentMethod == "" {
		return nil, shared.NewValidationError("Payment method is required")
	}

	return &Entry{
		BaseEntity:    shared.NewBaseEntity(),
		EntryType:     entryType,
		Category:      category,
		Amount:        amount,
		PaymentMethod: paymentMethod,
		Description:   description,
		SourceType:    SourceManual,
		EntryDate:     time.Now(),
	}, nil
}

// WithSource links the entry to the document that produced it
func (e *Entry) WithSource(sourceType SourceType, sourceID uuid.UUID) *Entry {
	e.SourceType = sourceType
	e.SourceID = &sourceID
	return e
}

// WithEntryDate overrides the entry date, used for backdated manual rows
func (e *Entry) WithEntryDate(date time.Time) *Entry {
	e.EntryDate = date
	return e
}

// SignedAmount returns the amount with income positive and expense negative
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.EntryType == EntryTypeExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}
