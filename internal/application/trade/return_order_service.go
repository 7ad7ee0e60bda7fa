package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopstack/backend/internal/domain/cashbook"
	"github.com/shopstack/backend/internal/domain/catalog"
	"github.com/shopstack/backend/internal/domain/debt"
	"github.com/shopstack/backend/internal/domain/inventory"
	"github.com/shopstack/backend/internal/domain/partner"
	"github.com/shopstack/backend/internal/domain/shared"
	"github.com/shopstack/backend/internal/domain/trade"
)

// ReturnOrderService orchestrates customer returns: goods flow back into
// stock, the originating sales order's delivered bookkeeping is unwound, and
// the refund shrinks the customer's receivable or leaves the cashbook.
type ReturnOrderService struct {
	uow         shared.UnitOfWork
	returns     trade.ReturnOrderRepository
	salesOrders trade.SalesOrderRepository
	codes       trade.CodeGenerator
	products    catalog.ProductRepository
	units       catalog.UnitRepository
	customers   partner.CustomerRepository
	warehouses  partner.WarehouseRepository
	stock       *inventory.Ledger
	receivable  *debt.Ledger
	entries     cashbook.EntryRepository
	logger      *zap.Logger
}

// NewReturnOrderService creates a return order service
func NewReturnOrderService(
	uow shared.UnitOfWork,
	returns trade.ReturnOrderRepository,
	salesOrders trade.SalesOrderRepository,
	codes trade.CodeGenerator,
	products catalog.ProductRepository,
	units catalog.UnitRepository,
	customers partner.CustomerRepository,
	warehouses partner.WarehouseRepository,
	stock *inventory.Ledger,
	receivable *debt.Ledger,
	entries cashbook.EntryRepository,
	logger *zap.Logger,
) *ReturnOrderService {
	return &ReturnOrderService{
		uow:         uow,
		returns:     returns,
		salesOrders: salesOrders,
		codes:       codes,
		products:    products,
		units:       units,
		customers:   customers,
		warehouses:  warehouses,
		stock:       stock,
		receivable:  receivable,
		entries:     entries,
		logger:      logger,
	}
}

// Create builds a return order against a sales order. Each line references a
// sales order line and may not exceed its delivered quantity.
func (s *ReturnOrderService) Create(ctx context.Context, input CreateReturnOrderInput) (*OrderView, error) {
	method, err := trade.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, shared.NewValidationError("Return must have at least one item")
	}

	var order *trade.ReturnOrder
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		salesOrder, err := s.salesOrders.FindByID(ctx, input.SalesOrderID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewReferenceNotFoundError("Sales order not found")
			}
			return err
		}

		code, err := s.codes.NextCode(ctx, "RO", time.Now())
		if err != nil {
			return err
		}

		order, err = trade.NewReturnOrder(code, salesOrder.CustomerID, salesOrder.ID, method)
		if err != nil {
			return err
		}
		order.Note = input.Note

		for _, in := range input.Items {
			salesItem := salesOrder.FindItem(in.SalesOrderItemID)
			if salesItem == nil {
				return shared.NewReferenceNotFoundError("Sales order item not found")
			}
			if in.Quantity.GreaterThan(salesItem.DeliveredQuantity) {
				return shared.NewInvalidQuantityError("Return quantity exceeds delivered quantity")
			}
			item, err := trade.NewReturnOrderItem(salesItem.ProductID, salesItem.UnitID, salesItem.ID, in.Quantity, salesItem.UnitPrice)
			if err != nil {
				return err
			}
			if err := order.AddItem(item); err != nil {
				return err
			}
		}

		if err := order.Confirm(); err != nil {
			return err
		}

		return s.returns.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return order created",
		zap.String("code", order.Code),
		zap.String("total", order.Total.String()))

	return s.buildView(ctx, order)
}

// ReceiveReturn applies the physical return: stock flows back in, the sales
// order's delivered quantities are unwound, and the refund is posted as a
// receivable reduction (credit) or a cashbook expense.
func (s *ReturnOrderService) ReceiveReturn(ctx context.Context, id uuid.UUID, input ReceiveGoodsInput) (*OrderView, error) {
	var order *trade.ReturnOrder
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.returns.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.warehouses.FindByID(ctx, input.WarehouseID); err != nil {
			if shared.IsNotFound(err) {
				return shared.NewReferenceNotFoundError("Warehouse not found")
			}
			return err
		}
		salesOrder, err := s.salesOrders.FindByID(ctx, order.SalesOrderID)
		if err != nil {
			return err
		}

		returned, err := order.ReceiveItems(toFulfillmentLines(input.Lines))
		if err != nil {
			return err
		}

		productIDs := make([]uuid.UUID, 0, len(returned))
		for _, r := range returned {
			productIDs = append(productIDs, r.Item.ProductID)
		}
		products, err := s.productsByID(ctx, productIDs)
		if err != nil {
			return err
		}

		refund := decimal.Zero
		for _, r := range returned {
			product, ok := products[r.Item.ProductID]
			if !ok {
				return shared.NewReferenceNotFoundError("Product not found")
			}

			if err := salesOrder.UnwindDelivery(r.Item.SalesOrderItemID, r.Quantity); err != nil {
				return err
			}

			baseQty := catalog.ConvertForProduct(product, r.Quantity, r.Item.UnitID)
			_, err := s.stock.Receive(ctx, input.WarehouseID, inventory.ReceiptLine{
				ProductID:     r.Item.ProductID,
				Quantity:      baseQty,
				UnitCost:      baseUnitCost(product.CostPrice, r.Quantity, baseQty),
				SourceOrderID: order.ID,
			})
			if err != nil {
				return err
			}

			refund = refund.Add(r.Quantity.Mul(r.Item.UnitPrice))
		}

		if refund.IsPositive() {
			if order.PaymentMethod.IsCredit() {
				customer, err := s.customers.FindByID(ctx, order.CustomerID)
				if err != nil {
					return err
				}
				if _, err := s.receivable.RecordRefund(ctx, customer, refund, "Return order "+order.Code, order.ID); err != nil {
					return err
				}
				if err := s.customers.SaveWithLock(ctx, customer); err != nil {
					return err
				}
			} else {
				entry, err := cashbook.NewEntry(cashbook.EntryTypeExpense, cashbook.CategoryRefund, refund, order.PaymentMethod.String(), "Return order "+order.Code)
				if err != nil {
					return err
				}
				entry.WithSource(cashbook.SourceReturnOrder, order.ID)
				if err := s.entries.Append(ctx, entry); err != nil {
					return err
				}
			}
		}

		if err := s.salesOrders.SaveWithLock(ctx, salesOrder); err != nil {
			return err
		}
		return s.returns.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return order goods received",
		zap.String("code", order.Code),
		zap.String("status", order.Status.String()))

	return s.buildView(ctx, order)
}

// Cancel aborts a return that has not received goods yet
func (s *ReturnOrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var order *trade.ReturnOrder
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.returns.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		return s.returns.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, order)
}

// Delete removes a return; allowed only while DRAFT or CANCELLED
func (s *ReturnOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Execute(ctx, func(ctx context.Context) error {
		order, err := s.returns.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.CanDelete() {
			return shared.NewInvalidStateError("Only DRAFT or CANCELLED returns can be deleted")
		}
		return s.returns.Delete(ctx, id)
	})
}

// GetByID returns the resolved return order view
func (s *ReturnOrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	order, err := s.returns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, order)
}

func (s *ReturnOrderService) productsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

func (s *ReturnOrderService) buildView(ctx context.Context, order *trade.ReturnOrder) (*OrderView, error) {
	customerName := ""
	if customer, err := s.customers.FindByID(ctx, order.CustomerID); err == nil {
		customerName = customer.Name
	}

	productIDs := make([]uuid.UUID, 0, len(order.Items))
	unitIDs := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		productIDs = append(productIDs, order.Items[i].ProductID)
		unitIDs = append(unitIDs, order.Items[i].UnitID)
	}
	products, err := s.productsByID(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	units, err := s.units.FindByIDs(ctx, unitIDs)
	if err != nil {
		return nil, err
	}
	unitNames := make(map[uuid.UUID]string, len(units))
	for i := range units {
		unitNames[units[i].ID] = units[i].Name
	}

	items := make([]OrderItemView, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		view := OrderItemView{
			ID:                item.ID,
			ProductID:         item.ProductID,
			UnitID:            item.UnitID,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			DiscountAmount:    item.DiscountAmount,
			Total:             item.Total,
			FulfilledQuantity: item.ReturnedQuantity,
		}
		if p, ok := products[item.ProductID]; ok {
			view.ProductName = p.Name
		}
		view.UnitName = unitNames[item.UnitID]
		items = append(items, view)
	}

	return &OrderView{
		ID:               order.ID,
		Code:             order.Code,
		Status:           order.Status.String(),
		CounterpartyID:   order.CustomerID,
		CounterpartyName: customerName,
		OrderDate:        order.OrderDate,
		Subtotal:         order.Subtotal,
		DiscountAmount:   order.DiscountAmount,
		Total:            order.Total,
		PaymentMethod:    order.PaymentMethod.String(),
		PaidAmount:       order.PaidAmount,
		ReceivedDate:     order.ReturnedDate,
		Note:             order.Note,
		Items:            items,
	}, nil
}
