package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// SalesOrderItem is one line of a sales order
type SalesOrderItem struct {
	ItemCore
	SalesOrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeliveredQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// NewSalesOrderItem creates a sales order line
func NewSalesOrderItem(productID, unitID uuid.UUID, quantity, unitPrice decimal.Decimal, dType DiscountType, dValue decimal.Decimal) (*SalesOrderItem, error) {
	core, err := newItemCore(productID, unitID, quantity, unitPrice, dType, dValue)
	if err != nil {
		return nil, err
	}
	return &SalesOrderItem{
		ItemCore:          core,
		DeliveredQuantity: decimal.Zero,
	}, nil
}

// RemainingQuantity returns the quantity still to be delivered
func (i *SalesOrderItem) RemainingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.DeliveredQuantity)
}

// IsFullyDelivered returns true when nothing remains to deliver
func (i *SalesOrderItem) IsFullyDelivered() bool {
	return i.DeliveredQuantity.GreaterThanOrEqual(i.Quantity)
}

func (i *SalesOrderItem) deliver(qty decimal.Decimal) error {
	if qty.GreaterThan(i.RemainingQuantity()) {
		return shared.NewInvalidQuantityError("Delivered quantity exceeds remaining ordered quantity")
	}
	i.DeliveredQuantity = i.DeliveredQuantity.Add(qty)
	i.Touch()
	return nil
}

// UnwindDelivery backs delivered quantity out when goods come back on a
// return order.
func (i *SalesOrderItem) UnwindDelivery(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidQuantityError("Unwind quantity must be positive")
	}
	if qty.GreaterThan(i.DeliveredQuantity) {
		return shared.NewInvalidQuantityError("Cannot return more than was delivered")
	}
	i.DeliveredQuantity = i.DeliveredQuantity.Sub(qty)
	i.Touch()
	return nil
}

// SalesOrder is the aggregate for selling goods to a customer
type SalesOrder struct {
	OrderCore
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DeliveredDate *time.Time
	Items         []SalesOrderItem `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a sales order in DRAFT status
func NewSalesOrder(code string, customerID uuid.UUID, method PaymentMethod, dType DiscountType, dValue decimal.Decimal) (*SalesOrder, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	core, err := newOrderCore(code, method, dType, dValue)
	if err != nil {
		return nil, err
	}
	return &SalesOrder{
		OrderCore:  core,
		CustomerID: customerID,
	}, nil
}

// AddItem appends a line to a draft order and recomputes totals
func (o *SalesOrder) AddItem(item *SalesOrderItem) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	item.SalesOrderID = o.ID
	o.Items = append(o.Items, *item)
	return o.recalc()
}

// ReplaceItems swaps the item collection wholesale; draft only
func (o *SalesOrder) ReplaceItems(items []SalesOrderItem) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if len(items) == 0 {
		return shared.NewValidationError("Order must have at least one item")
	}
	for i := range items {
		items[i].SalesOrderID = o.ID
	}
	o.Items = items
	return o.recalc()
}

// Confirm moves a draft order to ORDERED. The order must have items.
func (o *SalesOrder) Confirm() error {
	if len(o.Items) == 0 {
		return shared.NewValidationError("Order must have at least one item")
	}
	return o.transitionTo(StatusOrdered)
}

// ShippedItem reports one line's shipment outcome, used by the caller to
// post the matching stock issue.
type ShippedItem struct {
	Item     *SalesOrderItem
	Quantity decimal.Decimal
}

// ShipItems applies a goods shipment, the outbound mirror of a purchase
// receipt. The delivered date is set on the first shipment only.
func (o *SalesOrder) ShipItems(lines []FulfillmentLine) ([]ShippedItem, error) {
	if o.Status != StatusOrdered && o.Status != StatusPartialReceived {
		return nil, shared.NewInvalidStateError("Goods can only be shipped from ORDERED or PARTIAL_RECEIVED status")
	}
	if err := validateFulfillmentLines(lines); err != nil {
		return nil, err
	}

	var shipped []ShippedItem
	for _, line := range lines {
		if line.Quantity.IsZero() {
			continue
		}
		item := o.findItem(line.ItemID)
		if item == nil {
			return nil, shared.NewReferenceNotFoundError("Order item not found")
		}
		if err := item.deliver(line.Quantity); err != nil {
			return nil, err
		}
		shipped = append(shipped, ShippedItem{Item: item, Quantity: line.Quantity})
	}

	target := StatusPartialReceived
	if o.allItemsDelivered() {
		target = StatusReceived
	}
	if err := o.transitionTo(target); err != nil {
		return nil, err
	}
	if o.DeliveredDate == nil {
		now := time.Now()
		o.DeliveredDate = &now
	}

	return shipped, nil
}

// Cancel aborts the order. Not allowed once goods have moved.
func (o *SalesOrder) Cancel() error {
	if o.HasGoodsMovement() {
		return shared.NewInvalidStateError("Cannot cancel an order after goods have been shipped")
	}
	return o.transitionTo(StatusCancelled)
}

// HasGoodsMovement returns true when any line has shipped stock
func (o *SalesOrder) HasGoodsMovement() bool {
	for i := range o.Items {
		if o.Items[i].DeliveredQuantity.IsPositive() {
			return true
		}
	}
	return false
}

// CanDelete returns true while the order is DRAFT or CANCELLED
func (o *SalesOrder) CanDelete() bool {
	return o.Status.CanDelete()
}

// FindItem returns the line with the given ID, or nil
func (o *SalesOrder) FindItem(itemID uuid.UUID) *SalesOrderItem {
	return o.findItem(itemID)
}

// UnwindDelivery takes returned quantity off a delivered line when goods come
// back through a return order.
func (o *SalesOrder) UnwindDelivery(itemID uuid.UUID, qty decimal.Decimal) error {
	item := o.findItem(itemID)
	if item == nil {
		return shared.NewReferenceNotFoundError("Sales order item not found")
	}
	if err := item.UnwindDelivery(qty); err != nil {
		return err
	}
	o.Touch()
	o.IncrementVersion()
	return nil
}

func (o *SalesOrder) findItem(itemID uuid.UUID) *SalesOrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

func (o *SalesOrder) allItemsDelivered() bool {
	for i := range o.Items {
		if !o.Items[i].IsFullyDelivered() {
			return false
		}
	}
	return len(o.Items) > 0
}

func (o *SalesOrder) recalc() error {
	totals := make([]decimal.Decimal, len(o.Items))
	for i := range o.Items {
		totals[i] = o.Items[i].Total
	}
	return o.recalcTotals(totals)
}
