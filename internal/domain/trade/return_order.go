package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// ReturnOrderItem is one line of a customer return. It references the sales
// order line whose delivery it unwinds.
type ReturnOrderItem struct {
	ItemCore
	ReturnOrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SalesOrderItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ReturnedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ReturnOrderItem) TableName() string {
	return "return_order_items"
}

// NewReturnOrderItem creates a return order line
func NewReturnOrderItem(productID, unitID, salesOrderItemID uuid.UUID, quantity, unitPrice decimal.Decimal) (*ReturnOrderItem, error) {
	if salesOrderItemID == uuid.Nil {
		return nil, shared.NewValidationError("Sales order item ID cannot be empty")
	}
	core, err := newItemCore(productID, unitID, quantity, unitPrice, DiscountTypeNone, decimal.Zero)
	if err != nil {
		return nil, err
	}
	return &ReturnOrderItem{
		ItemCore:         core,
		SalesOrderItemID: salesOrderItemID,
		ReturnedQuantity: decimal.Zero,
	}, nil
}

// RemainingQuantity returns the quantity still expected back
func (i *ReturnOrderItem) RemainingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReturnedQuantity)
}

// IsFullyReturned returns true when nothing remains expected
func (i *ReturnOrderItem) IsFullyReturned() bool {
	return i.ReturnedQuantity.GreaterThanOrEqual(i.Quantity)
}

func (i *ReturnOrderItem) receiveBack(qty decimal.Decimal) error {
	if qty.GreaterThan(i.RemainingQuantity()) {
		return shared.NewInvalidQuantityError("Returned quantity exceeds remaining expected quantity")
	}
	i.ReturnedQuantity = i.ReturnedQuantity.Add(qty)
	i.Touch()
	return nil
}

// ReturnOrder is the aggregate for goods a customer sends back against a
// sales order. Its ledger effects run in the opposite direction: goods flow
// back in, and the customer's receivable shrinks through a refund.
type ReturnOrder struct {
	OrderCore
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SalesOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	ReturnedDate *time.Time
	Items        []ReturnOrderItem `gorm:"foreignKey:ReturnOrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ReturnOrder) TableName() string {
	return "return_orders"
}

// NewReturnOrder creates a return order in DRAFT status
func NewReturnOrder(code string, customerID, salesOrderID uuid.UUID, method PaymentMethod) (*ReturnOrder, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if salesOrderID == uuid.Nil {
		return nil, shared.NewValidationError("Sales order ID cannot be empty")
	}
	core, err := newOrderCore(code, method, DiscountTypeNone, decimal.Zero)
	if err != nil {
		return nil, err
	}
	return &ReturnOrder{
		OrderCore:    core,
		CustomerID:   customerID,
		SalesOrderID: salesOrderID,
	}, nil
}

// AddItem appends a line to a draft return and recomputes totals
func (o *ReturnOrder) AddItem(item *ReturnOrderItem) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	item.ReturnOrderID = o.ID
	o.Items = append(o.Items, *item)
	return o.recalc()
}

// Confirm moves a draft return to ORDERED. The return must have items.
func (o *ReturnOrder) Confirm() error {
	if len(o.Items) == 0 {
		return shared.NewValidationError("Return must have at least one item")
	}
	return o.transitionTo(StatusOrdered)
}

// ReturnedItem reports one line's inbound outcome, used by the caller to
// post the stock receipt and the sales order unwind.
type ReturnedItem struct {
	Item     *ReturnOrderItem
	Quantity decimal.Decimal
}

// ReceiveItems applies the physical return of goods. Same shape as a
// purchase receipt but the sales side bookkeeping is unwound by the caller.
func (o *ReturnOrder) ReceiveItems(lines []FulfillmentLine) ([]ReturnedItem, error) {
	if o.Status != StatusOrdered && o.Status != StatusPartialReceived {
		return nil, shared.NewInvalidStateError("Returns can only be received from ORDERED or PARTIAL_RECEIVED status")
	}
	if err := validateFulfillmentLines(lines); err != nil {
		return nil, err
	}

	var returned []ReturnedItem
	for _, line := range lines {
		if line.Quantity.IsZero() {
			continue
		}
		item := o.findItem(line.ItemID)
		if item == nil {
			return nil, shared.NewReferenceNotFoundError("Return order item not found")
		}
		if err := item.receiveBack(line.Quantity); err != nil {
			return nil, err
		}
		returned = append(returned, ReturnedItem{Item: item, Quantity: line.Quantity})
	}

	target := StatusPartialReceived
	if o.allItemsReturned() {
		target = StatusReceived
	}
	if err := o.transitionTo(target); err != nil {
		return nil, err
	}
	if o.ReturnedDate == nil {
		now := time.Now()
		o.ReturnedDate = &now
	}

	return returned, nil
}

// Cancel aborts the return. Not allowed once goods have come back.
func (o *ReturnOrder) Cancel() error {
	if o.HasGoodsMovement() {
		return shared.NewInvalidStateError("Cannot cancel a return after goods have come back")
	}
	return o.transitionTo(StatusCancelled)
}

// HasGoodsMovement returns true when any line has received returned stock
func (o *ReturnOrder) HasGoodsMovement() bool {
	for i := range o.Items {
		if o.Items[i].ReturnedQuantity.IsPositive() {
			return true
		}
	}
	return false
}

// CanDelete returns true while the return is DRAFT or CANCELLED
func (o *ReturnOrder) CanDelete() bool {
	return o.Status.CanDelete()
}

func (o *ReturnOrder) findItem(itemID uuid.UUID) *ReturnOrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

func (o *ReturnOrder) allItemsReturned() bool {
	for i := range o.Items {
		if !o.Items[i].IsFullyReturned() {
			return false
		}
	}
	return len(o.Items) > 0
}

func (o *ReturnOrder) recalc() error {
	totals := make([]decimal.Decimal, len(o.Items))
	for i := range o.Items {
		totals[i] = o.Items[i].Total
	}
	return o.recalcTotals(totals)
}
