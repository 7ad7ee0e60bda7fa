package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/shared"
)

// PurchaseOrderItem is one line of a purchase order
type PurchaseOrderItem struct {
	ItemCore
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a purchase order line
func NewPurchaseOrderItem(productID, unitID uuid.UUID, quantity, unitPrice decimal.Decimal, dType DiscountType, dValue decimal.Decimal) (*PurchaseOrderItem, error) {
	core, err := newItemCore(productID, unitID, quantity, unitPrice, dType, dValue)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderItem{
		ItemCore:         core,
		ReceivedQuantity: decimal.Zero,
	}, nil
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// IsFullyReceived returns true when nothing remains to receive
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

func (i *PurchaseOrderItem) receive(qty decimal.Decimal) error {
	if qty.GreaterThan(i.RemainingQuantity()) {
		return shared.NewInvalidQuantityError("Received quantity exceeds remaining ordered quantity")
	}
	i.ReceivedQuantity = i.ReceivedQuantity.Add(qty)
	i.Touch()
	return nil
}

// PurchaseOrder is the aggregate for buying goods from a supplier
type PurchaseOrder struct {
	OrderCore
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpectedDate *time.Time
	ReceivedDate *time.Time
	Items        []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a purchase order in DRAFT status
func NewPurchaseOrder(code string, supplierID uuid.UUID, method PaymentMethod, dType DiscountType, dValue decimal.Decimal) (*PurchaseOrder, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	core, err := newOrderCore(code, method, dType, dValue)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrder{
		OrderCore:  core,
		SupplierID: supplierID,
	}, nil
}

// AddItem appends a line to a draft order and recomputes totals
func (o *PurchaseOrder) AddItem(item *PurchaseOrderItem) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	item.PurchaseOrderID = o.ID
	o.Items = append(o.Items, *item)
	return o.recalc()
}

// ReplaceItems swaps the item collection wholesale; draft only
func (o *PurchaseOrder) ReplaceItems(items []PurchaseOrderItem) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if len(items) == 0 {
		return shared.NewValidationError("Order must have at least one item")
	}
	for i := range items {
		items[i].PurchaseOrderID = o.ID
	}
	o.Items = items
	return o.recalc()
}

// Confirm moves a draft order to ORDERED. The order must have items.
func (o *PurchaseOrder) Confirm() error {
	if len(o.Items) == 0 {
		return shared.NewValidationError("Order must have at least one item")
	}
	return o.transitionTo(StatusOrdered)
}

// ReceivedItem reports one line's receipt outcome, used by the caller to
// post the matching stock movement.
type ReceivedItem struct {
	Item     *PurchaseOrderItem
	Quantity decimal.Decimal
	Line     FulfillmentLine
}

// ReceiveItems applies a goods receipt. Permitted only from ORDERED or
// PARTIAL_RECEIVED. Lines with zero quantity are skipped; a line exceeding
// the item's remaining quantity rejects the whole call. The received date is
// set on the first receipt and never overwritten.
func (o *PurchaseOrder) ReceiveItems(lines []FulfillmentLine) ([]ReceivedItem, error) {
	if o.Status != StatusOrdered && o.Status != StatusPartialReceived {
		return nil, shared.NewInvalidStateError("Goods can only be received from ORDERED or PARTIAL_RECEIVED status")
	}
	if err := validateFulfillmentLines(lines); err != nil {
		return nil, err
	}

	var received []ReceivedItem
	for _, line := range lines {
		if line.Quantity.IsZero() {
			continue
		}
		item := o.findItem(line.ItemID)
		if item == nil {
			return nil, shared.NewReferenceNotFoundError("Order item not found")
		}
		if err := item.receive(line.Quantity); err != nil {
			return nil, err
		}
		received = append(received, ReceivedItem{Item: item, Quantity: line.Quantity, Line: line})
	}

	target := StatusPartialReceived
	if o.allItemsReceived() {
		target = StatusReceived
	}
	if err := o.transitionTo(target); err != nil {
		return nil, err
	}
	if o.ReceivedDate == nil {
		now := time.Now()
		o.ReceivedDate = &now
	}

	return received, nil
}

// Cancel aborts the order. Not allowed once goods have moved.
func (o *PurchaseOrder) Cancel() error {
	if o.HasGoodsMovement() {
		return shared.NewInvalidStateError("Cannot cancel an order after goods have been received")
	}
	return o.transitionTo(StatusCancelled)
}

// HasGoodsMovement returns true when any line has received stock
func (o *PurchaseOrder) HasGoodsMovement() bool {
	for i := range o.Items {
		if o.Items[i].ReceivedQuantity.IsPositive() {
			return true
		}
	}
	return false
}

// CanDelete returns true while the order is DRAFT or CANCELLED
func (o *PurchaseOrder) CanDelete() bool {
	return o.Status.CanDelete()
}

func (o *PurchaseOrder) findItem(itemID uuid.UUID) *PurchaseOrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

func (o *PurchaseOrder) allItemsReceived() bool {
	for i := range o.Items {
		if !o.Items[i].IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

func (o *PurchaseOrder) recalc() error {
	totals := make([]decimal.Decimal, len(o.Items))
	for i := range o.Items {
		totals[i] = o.Items[i].Total
	}
	return o.recalcTotals(totals)
}
