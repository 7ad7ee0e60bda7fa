package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

var oneHundred = decimal.NewFromInt(100)

// discountAmount computes the discount on base for the given type and value
func discountAmount(base decimal.Decimal, dType DiscountType, dValue decimal.Decimal) (decimal.Decimal, error) {
	switch dType {
	case DiscountTypeNone:
		return decimal.Zero, nil
	case DiscountTypePercent:
		if dValue.IsNegative() || dValue.GreaterThan(oneHundred) {
			return decimal.Zero, shared.NewValidationError("Percent discount must be between 0 and 100")
		}
		return base.Mul(dValue).Div(oneHundred).Round(4), nil
	case DiscountTypeAmount:
		if dValue.IsNegative() {
			return decimal.Zero, shared.NewValidationError("Discount amount cannot be negative")
		}
		if dValue.GreaterThan(base) {
			return decimal.Zero, shared.NewValidationError("Discount amount cannot exceed the base amount")
		}
		return dValue, nil
	default:
		return decimal.Zero, shared.NewValidationError("Invalid discount type")
	}
}

// OrderCore carries the header fields and lifecycle shared by every order
// kind. Total = Subtotal - DiscountAmount, Subtotal = sum of item totals.
type OrderCore struct {
	shared.AggregateRoot
	Code           string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index"`
	OrderDate      time.Time       `gorm:"not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountType   DiscountType    `gorm:"type:varchar(10);not null;default:'NONE'"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Note           string          `gorm:"type:varchar(500)"`
}

func newOrderCore(code string, method PaymentMethod, dType DiscountType, dValue decimal.Decimal) (OrderCore, error) {
	if code == "" {
		return OrderCore{}, shared.NewValidationError("Order code cannot be empty")
	}
	if !method.IsValid() {
		return OrderCore{}, shared.NewValidationError("Invalid payment method")
	}
	if !dType.IsValid() {
		return OrderCore{}, shared.NewValidationError("Invalid discount type")
	}

	return OrderCore{
		AggregateRoot: shared.NewAggregateRoot(),
		Code:          code,
		Status:        StatusDraft,
		OrderDate:     time.Now(),
		DiscountType:  dType,
		DiscountValue: dValue,
		PaymentMethod: method,
		PaidAmount:    decimal.Zero,
	}, nil
}

// RemainingAmount returns the unpaid part of the total
func (o *OrderCore) RemainingAmount() decimal.Decimal {
	return o.Total.Sub(o.PaidAmount)
}

// OutstandingDebt returns the amount to post as an invoice on confirmation
func (o *OrderCore) OutstandingDebt() decimal.Decimal {
	return o.Total.Sub(o.PaidAmount)
}

// AddPayment records a payment against the order. The amount must be positive
// and may not exceed the remaining unpaid total.
func (o *OrderCore) AddPayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidAmountError("Payment amount must be positive")
	}
	if amount.GreaterThan(o.RemainingAmount()) {
		return shared.NewInvalidAmountError("Payment amount exceeds the remaining unpaid total")
	}
	o.PaidAmount = o.PaidAmount.Add(amount)
	o.Touch()
	o.IncrementVersion()
	return nil
}

// transitionTo moves the order to the target status, validating the machine
func (o *OrderCore) transitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError(
			"Cannot transition order from " + o.Status.String() + " to " + target.String())
	}
	o.Status = target
	o.Touch()
	o.IncrementVersion()
	return nil
}

// recalcTotals recomputes subtotal, discount amount and total from item totals
func (o *OrderCore) recalcTotals(itemTotals []decimal.Decimal) error {
	subtotal := decimal.Zero
	for _, t := range itemTotals {
		subtotal = subtotal.Add(t)
	}
	discount, err := discountAmount(subtotal, o.DiscountType, o.DiscountValue)
	if err != nil {
		return err
	}
	o.Subtotal = subtotal
	o.DiscountAmount = discount
	o.Total = subtotal.Sub(discount)
	o.Touch()
	return nil
}

// ensureEditable fails unless the order is still in draft
func (o *OrderCore) ensureEditable() error {
	if !o.Status.IsEditable() {
		return shared.NewInvalidStateError("Order can only be modified while in DRAFT status")
	}
	return nil
}

// ItemCore carries the line fields shared by every order kind.
// Total = Quantity x UnitPrice - DiscountAmount.
type ItemCore struct {
	shared.BaseEntity
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID         uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountType   DiscountType    `gorm:"type:varchar(10);not null;default:'NONE'"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func newItemCore(productID, unitID uuid.UUID, quantity, unitPrice decimal.Decimal, dType DiscountType, dValue decimal.Decimal) (ItemCore, error) {
	if productID == uuid.Nil {
		return ItemCore{}, shared.NewValidationError("Item product ID cannot be empty")
	}
	if unitID == uuid.Nil {
		return ItemCore{}, shared.NewValidationError("Item unit ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return ItemCore{}, shared.NewInvalidQuantityError("Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return ItemCore{}, shared.NewInvalidAmountError("Item unit price cannot be negative")
	}
	if !dType.IsValid() {
		return ItemCore{}, shared.NewValidationError("Invalid item discount type")
	}

	base := quantity.Mul(unitPrice)
	discount, err := discountAmount(base, dType, dValue)
	if err != nil {
		return ItemCore{}, err
	}

	return ItemCore{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		UnitID:         unitID,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		DiscountType:   dType,
		DiscountValue:  dValue,
		DiscountAmount: discount,
		Total:          base.Sub(discount),
	}, nil
}

// FulfillmentLine is one line of a goods movement call, keyed by item ID.
// Zero-quantity lines are no-ops; at least one line must be positive.
type FulfillmentLine struct {
	ItemID      uuid.UUID
	Quantity    decimal.Decimal
	ExpiryDate  *time.Time
	BatchNumber string
}

func validateFulfillmentLines(lines []FulfillmentLine) error {
	if len(lines) == 0 {
		return shared.NewInvalidQuantityError("At least one item must have quantity > 0")
	}
	anyPositive := false
	for _, line := range lines {
		if line.Quantity.IsNegative() {
			return shared.NewInvalidQuantityError("Line quantity cannot be negative")
		}
		if line.Quantity.IsPositive() {
			anyPositive = true
		}
	}
	if !anyPositive {
		return shared.NewInvalidQuantityError("At least one item must have quantity > 0")
	}
	return nil
}
