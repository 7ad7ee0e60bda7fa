package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopstack/backend/internal/domain/trade"
)

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID     uuid.UUID       `json:"productId" binding:"required"`
	UnitID        uuid.UUID       `json:"unitId" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unitPrice" binding:"required"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
}

// CreatePurchaseOrderInput is the request to create a purchase order
type CreatePurchaseOrderInput struct {
	SupplierID    uuid.UUID        `json:"supplierId" binding:"required"`
	Status        string           `json:"status"`
	PaymentMethod string           `json:"paymentMethod" binding:"required"`
	DiscountType  string           `json:"discountType"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	PaidAmount    decimal.Decimal  `json:"paidAmount"`
	DueDate       *time.Time       `json:"dueDate"`
	ExpectedDate  *time.Time       `json:"expectedDate"`
	Note          string           `json:"note"`
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateSalesOrderInput is the request to create a sales order
type CreateSalesOrderInput struct {
	CustomerID    uuid.UUID        `json:"customerId" binding:"required"`
	Status        string           `json:"status"`
	PaymentMethod string           `json:"paymentMethod" binding:"required"`
	DiscountType  string           `json:"discountType"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	PaidAmount    decimal.Decimal  `json:"paidAmount"`
	DueDate       *time.Time       `json:"dueDate"`
	Note          string           `json:"note"`
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// ReturnItemInput is one requested return line
type ReturnItemInput struct {
	SalesOrderItemID uuid.UUID       `json:"salesOrderItemId" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateReturnOrderInput is the request to create a return order against a
// sales order
type CreateReturnOrderInput struct {
	SalesOrderID  uuid.UUID         `json:"salesOrderId" binding:"required"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
	Note          string            `json:"note"`
	Items         []ReturnItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderInput replaces a draft order's items and discount wholesale
type UpdateOrderInput struct {
	DiscountType  string           `json:"discountType"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	Note          string           `json:"note"`
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// ReceiveLineInput is one line of a goods movement request
type ReceiveLineInput struct {
	ItemID      uuid.UUID       `json:"itemId" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiryDate  *time.Time      `json:"expiryDate"`
	BatchNumber string          `json:"batchNumber"`
}

// ReceiveGoodsInput is the request to receive or ship goods
type ReceiveGoodsInput struct {
	WarehouseID uuid.UUID          `json:"warehouseId" binding:"required"`
	Lines       []ReceiveLineInput `json:"lines" binding:"required,min=1,dive"`
}

// PaymentInput is the request to record a payment against an order
type PaymentInput struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// OrderItemView is one resolved order line
type OrderItemView struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"productId"`
	ProductName       string          `json:"productName"`
	UnitID            uuid.UUID       `json:"unitId"`
	UnitName          string          `json:"unitName"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	Total             decimal.Decimal `json:"total"`
	FulfilledQuantity decimal.Decimal `json:"fulfilledQuantity"`
}

// OrderView is the full order read model returned after every operation.
// Names are resolved with a read-side join after the write.
type OrderView struct {
	ID               uuid.UUID       `json:"id"`
	Code             string          `json:"code"`
	Status           string          `json:"status"`
	CounterpartyID   uuid.UUID       `json:"counterpartyId"`
	CounterpartyName string          `json:"counterpartyName"`
	OrderDate        time.Time       `json:"orderDate"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	ReceivedDate     *time.Time      `json:"receivedDate,omitempty"`
	Note             string          `json:"note,omitempty"`
	Items            []OrderItemView `json:"items"`
}

type itemSpec struct {
	ProductID     uuid.UUID
	UnitID        uuid.UUID
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	DiscountType  trade.DiscountType
	DiscountValue decimal.Decimal
}

func toItemSpecs(items []OrderItemInput) ([]itemSpec, error) {
	specs := make([]itemSpec, 0, len(items))
	for _, in := range items {
		dType, err := trade.ParseDiscountType(in.DiscountType)
		if err != nil {
			return nil, err
		}
		specs = append(specs, itemSpec{
			ProductID:     in.ProductID,
			UnitID:        in.UnitID,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			DiscountType:  dType,
			DiscountValue: in.DiscountValue,
		})
	}
	return specs, nil
}

func toFulfillmentLines(lines []ReceiveLineInput) []trade.FulfillmentLine {
	out := make([]trade.FulfillmentLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, trade.FulfillmentLine{
			ItemID:      line.ItemID,
			Quantity:    line.Quantity,
			ExpiryDate:  line.ExpiryDate,
			BatchNumber: line.BatchNumber,
		})
	}
	return out
}
