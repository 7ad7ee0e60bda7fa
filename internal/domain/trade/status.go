package trade

import "github.com/shopstack/backend/internal/domain/shared"

// OrderStatus represents the lifecycle state shared by all order kinds
type OrderStatus string

const (
	// StatusDraft is the initial, editable state
	StatusDraft OrderStatus = "DRAFT"
	// StatusOrdered means the order is confirmed and ledger-affecting
	StatusOrdered OrderStatus = "ORDERED"
	// StatusPartialReceived means some but not all goods have moved
	StatusPartialReceived OrderStatus = "PARTIAL_RECEIVED"
	// StatusReceived means all goods have moved; terminal
	StatusReceived OrderStatus = "RECEIVED"
	// StatusCancelled is terminal
	StatusCancelled OrderStatus = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusOrdered, StatusPartialReceived, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true when no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// IsEditable returns true when items may still be replaced
func (s OrderStatus) IsEditable() bool {
	return s == StatusDraft
}

// CanDelete returns true when the order may be deleted
func (s OrderStatus) CanDelete() bool {
	return s == StatusDraft || s == StatusCancelled
}

// CanTransitionTo checks if transition to target status is allowed
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusOrdered || target == StatusCancelled
	case StatusOrdered:
		return target == StatusPartialReceived || target == StatusReceived || target == StatusCancelled
	case StatusPartialReceived:
		return target == StatusPartialReceived || target == StatusReceived || target == StatusCancelled
	default:
		return false
	}
}

// ParseOrderStatus parses a string into an OrderStatus. Unknown strings are
// rejected, never defaulted.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", shared.NewValidationError("Invalid order status: " + s)
	}
	return status, nil
}

// PaymentMethod represents how an order is paid
type PaymentMethod string

const (
	// PaymentMethodCash settles immediately in cash
	PaymentMethodCash PaymentMethod = "CASH"
	// PaymentMethodTransfer settles by bank transfer
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	// PaymentMethodCredit defers settlement through the debt ledger
	PaymentMethodCredit PaymentMethod = "CREDIT"
	// PaymentMethodQR settles through a QR payment provider
	PaymentMethodQR PaymentMethod = "QR"
)

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCredit, PaymentMethodQR:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// IsCredit returns true when settlement goes through the debt ledger
func (m PaymentMethod) IsCredit() bool {
	return m == PaymentMethodCredit
}

// ParsePaymentMethod parses a string into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if !method.IsValid() {
		return "", shared.NewValidationError("Invalid payment method: " + s)
	}
	return method, nil
}

// DiscountType represents how a discount value is interpreted
type DiscountType string

const (
	// DiscountTypeNone means no discount
	DiscountTypeNone DiscountType = "NONE"
	// DiscountTypePercent interprets the value as a percentage of the base
	DiscountTypePercent DiscountType = "PERCENT"
	// DiscountTypeAmount interprets the value as a flat amount
	DiscountTypeAmount DiscountType = "AMOUNT"
)

// IsValid returns true if the discount type is valid
func (d DiscountType) IsValid() bool {
	return d == DiscountTypeNone || d == DiscountTypePercent || d == DiscountTypeAmount
}

// String returns the string representation of DiscountType
func (d DiscountType) String() string {
	return string(d)
}

// ParseDiscountType parses a string into a DiscountType
func ParseDiscountType(s string) (DiscountType, error) {
	if s == "" {
		return DiscountTypeNone, nil
	}
	d := DiscountType(s)
	if !d.IsValid() {
		return "", shared.NewValidationError("Invalid discount type: " + s)
	}
	return d, nil
}
