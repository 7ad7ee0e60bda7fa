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

// SalesOrderService orchestrates the sales order lifecycle: the receivable
// mirror of the purchase flow, with goods leaving stock on shipment.
type SalesOrderService struct {
	uow        shared.UnitOfWork
	orders     trade.SalesOrderRepository
	codes      trade.CodeGenerator
	products   catalog.ProductRepository
	units      catalog.UnitRepository
	customers  partner.CustomerRepository
	warehouses partner.WarehouseRepository
	stock      *inventory.Ledger
	receivable *debt.Ledger
	entries    cashbook.EntryRepository
	logger     *zap.Logger
}

// NewSalesOrderService creates a sales order service
func NewSalesOrderService(
	uow shared.UnitOfWork,
	orders trade.SalesOrderRepository,
	codes trade.CodeGenerator,
	products catalog.ProductRepository,
	units catalog.UnitRepository,
	customers partner.CustomerRepository,
	warehouses partner.WarehouseRepository,
	stock *inventory.Ledger,
	receivable *debt.Ledger,
	entries cashbook.EntryRepository,
	logger *zap.Logger,
) *SalesOrderService {
	return &SalesOrderService{
		uow:        uow,
		orders:     orders,
		codes:      codes,
		products:   products,
		units:      units,
		customers:  customers,
		warehouses: warehouses,
		stock:      stock,
		receivable: receivable,
		entries:    entries,
		logger:     logger,
	}
}

// Create validates references, computes totals and persists a new sales
// order. An order created directly as ORDERED posts its ledger effects in
// the same transaction: credit orders invoice the customer, non-credit
// orders with an upfront payment write a cashbook income entry.
func (s *SalesOrderService) Create(ctx context.Context, input CreateSalesOrderInput) (*OrderView, error) {
	method, err := trade.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	dType, err := trade.ParseDiscountType(input.DiscountType)
	if err != nil {
		return nil, err
	}
	status := trade.StatusDraft
	if input.Status != "" {
		status, err = trade.ParseOrderStatus(input.Status)
		if err != nil {
			return nil, err
		}
		if status != trade.StatusDraft && status != trade.StatusOrdered {
			return nil, shared.NewValidationError("New orders must be DRAFT or ORDERED")
		}
	}
	if status == trade.StatusDraft && input.PaidAmount.IsPositive() {
		return nil, shared.NewValidationError("Paid amount requires ORDERED status")
	}
	if len(input.Items) == 0 {
		return nil, shared.NewValidationError("Order must have at least one item")
	}
	specs, err := toItemSpecs(input.Items)
	if err != nil {
		return nil, err
	}

	var order *trade.SalesOrder
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		customer, err := s.customers.FindByID(ctx, input.CustomerID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewReferenceNotFoundError("Customer not found")
			}
			return err
		}
		if err := s.resolveReferences(ctx, specs); err != nil {
			return err
		}

		code, err := s.codes.NextCode(ctx, "SO", time.Now())
		if err != nil {
			return err
		}

		order, err = trade.NewSalesOrder(code, customer.ID, method, dType, input.DiscountValue)
		if err != nil {
			return err
		}
		order.Note = input.Note

		for _, spec := range specs {
			item, err := trade.NewSalesOrderItem(spec.ProductID, spec.UnitID, spec.Quantity, spec.UnitPrice, spec.DiscountType, spec.DiscountValue)
			if err != nil {
				return err
			}
			if err := order.AddItem(item); err != nil {
				return err
			}
		}

		if status == trade.StatusOrdered {
			if err := order.Confirm(); err != nil {
				return err
			}
			if input.PaidAmount.IsPositive() {
				if err := order.AddPayment(input.PaidAmount); err != nil {
					return err
				}
			}
			if err := s.postConfirmationEffects(ctx, order, customer, input.DueDate, input.PaidAmount); err != nil {
				return err
			}
		}

		return s.orders.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales order created",
		zap.String("code", order.Code),
		zap.String("status", order.Status.String()),
		zap.String("total", order.Total.String()))

	return s.buildView(ctx, order)
}

// Update replaces a draft order's items and discount wholesale
func (s *SalesOrderService) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderView, error) {
	dType, err := trade.ParseDiscountType(input.DiscountType)
	if err != nil {
		return nil, err
	}
	specs, err := toItemSpecs(input.Items)
	if err != nil {
		return nil, err
	}

	var order *trade.SalesOrder
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		order, err = s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.resolveReferences(ctx, specs); err != nil {
			return err
		}

		items := make([]trade.SalesOrderItem, 0, len(specs))
		for _, spec := range specs {
			item, err := trade.NewSalesOrderItem(spec.ProductID, spec.UnitID, spec.Quantity, spec.UnitPrice, spec.DiscountType, spec.DiscountValue)
			if err != nil {
				return err
			}
			items = append(items, *item)
		}

		order.DiscountType = dType
		order.DiscountValue = input.DiscountValue
		order.Note = input.Note
		if err := order.ReplaceItems(items); err != nil {
			return err
		}

		return s.orders.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, order)
}

// Delete removes an order; allowed only while DRAFT or CANCELLED
func (s *SalesOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Execute(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.CanDelete() {
			return shared.NewInvalidStateError("Only DRAFT or CANCELLED orders can be deleted")
		}
		return s.orders.Delete(ctx, id)
	})
}

// Confirm moves a draft order to ORDERED and posts the credit invoice for
// the unpaid total.
func (s *SalesOrderService) Confirm(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var order *trade.SalesOrder
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		customer, err := s.customers.FindByID(ctx, order.CustomerID)
		if err != nil {
			return err
		}
		if err := order.Confirm(); err != nil {
			return err
		}
		if err := s.postConfirmationEffects(ctx, order, customer, nil, decimal.Zero); err != nil {
			return err
		}
		return s.orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, order)
}

// ShipGoods issues stock for delivered lines, consuming expiry-tracked
// batches oldest first, and advances the order's fulfillment status.
func (s *SalesOrderService) ShipGoods(ctx context.Context, id uuid.UUID, input ReceiveGoodsInput) (*OrderView, error) {
	var order *trade.SalesOrder
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.warehouses.FindByID(ctx, input.WarehouseID); err != nil {
			if shared.IsNotFound(err) {
				return shared.NewReferenceNotFoundError("Warehouse not found")
			}
			return err
		}

		shipped, err := order.ShipItems(toFulfillmentLines(input.Lines))
		if err != nil {
			return err
		}

		productIDs := make([]uuid.UUID, 0, len(shipped))
		for _, sh := range shipped {
			productIDs = append(productIDs, sh.Item.ProductID)
		}
		products, err := s.productsByID(ctx, productIDs)
		if err != nil {
			return err
		}

		for _, sh := range shipped {
			product, ok := products[sh.Item.ProductID]
			if !ok {
				return shared.NewReferenceNotFoundError("Product not found")
			}
			baseQty := catalog.ConvertForProduct(product, sh.Quantity, sh.Item.UnitID)

			_, err := s.stock.Issue(ctx, input.WarehouseID, inventory.IssueLine{
				ProductID:     sh.Item.ProductID,
				Quantity:      baseQty,
				SourceOrderID: order.ID,
				Reason:        "Sales order " + order.Code,
			})
			if err != nil {
				return err
			}
		}

		return s.orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales order goods shipped",
		zap.String("code", order.Code),
		zap.String("status", order.Status.String()))

	return s.buildView(ctx, order)
}

// CreatePayment records a payment against the order. Credit orders post a
// receivable payment; other methods write a cashbook income entry.
func (s *SalesOrderService) CreatePayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*OrderView, error) {
	var order *trade.SalesOrder
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.AddPayment(input.Amount); err != nil {
			return err
		}

		if order.PaymentMethod.IsCredit() {
			if order.Status != trade.StatusDraft {
				outstanding, err := s.receivable.OutstandingForOrder(ctx, order.ID)
				if err != nil {
					return err
				}
				if input.Amount.GreaterThan(outstanding) {
					return shared.NewInvalidAmountError("Payment amount exceeds the order's outstanding balance")
				}
				customer, err := s.customers.FindByID(ctx, order.CustomerID)
				if err != nil {
					return err
				}
				if _, err := s.receivable.RecordPayment(ctx, customer, input.Amount, paymentReason(order.Code, input.Description), order.ID); err != nil {
					return err
				}
				if err := s.customers.SaveWithLock(ctx, customer); err != nil {
					return err
				}
			}
		} else {
			entry, err := cashbook.NewEntry(cashbook.EntryTypeIncome, cashbook.CategorySales, input.Amount, order.PaymentMethod.String(), paymentReason(order.Code, input.Description))
			if err != nil {
				return err
			}
			entry.WithSource(cashbook.SourceSalesOrder, order.ID)
			if err := s.entries.Append(ctx, entry); err != nil {
				return err
			}
		}

		return s.orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, order)
}

// Cancel aborts an order that has not shipped goods yet
func (s *SalesOrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var order *trade.SalesOrder
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		return s.orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, order)
}

// GetByID returns the resolved order view
func (s *SalesOrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, order)
}

// List returns orders page by page
func (s *SalesOrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderView], error) {
	page, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(page.Items))
	for i := range page.Items {
		view, err := s.buildView(ctx, &page.Items[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	result := shared.NewPaginated(views, page.Total, page.Page, page.PageSize)
	return &result, nil
}

func (s *SalesOrderService) postConfirmationEffects(ctx context.Context, order *trade.SalesOrder, customer *partner.Customer, dueDate *time.Time, upfrontPaid decimal.Decimal) error {
	if order.PaymentMethod.IsCredit() {
		outstanding := order.OutstandingDebt()
		if outstanding.IsPositive() {
			if _, err := s.receivable.RecordInvoice(ctx, customer, outstanding, dueDate, "Sales order "+order.Code, order.ID); err != nil {
				return err
			}
			if err := s.customers.SaveWithLock(ctx, customer); err != nil {
				return err
			}
		}
		return nil
	}

	if upfrontPaid.IsPositive() {
		entry, err := cashbook.NewEntry(cashbook.EntryTypeIncome, cashbook.CategorySales, upfrontPaid, order.PaymentMethod.String(), "Sales order "+order.Code)
		if err != nil {
			return err
		}
		entry.WithSource(cashbook.SourceSalesOrder, order.ID)
		return s.entries.Append(ctx, entry)
	}
	return nil
}

func (s *SalesOrderService) resolveReferences(ctx context.Context, specs []itemSpec) error {
	productIDs := make([]uuid.UUID, 0, len(specs))
	unitIDs := make([]uuid.UUID, 0, len(specs))
	for _, spec := range specs {
		productIDs = append(productIDs, spec.ProductID)
		unitIDs = append(unitIDs, spec.UnitID)
	}

	products, err := s.productsByID(ctx, productIDs)
	if err != nil {
		return err
	}
	units, err := s.unitsByID(ctx, unitIDs)
	if err != nil {
		return err
	}
	for _, spec := range specs {
		if _, ok := products[spec.ProductID]; !ok {
			return shared.NewReferenceNotFoundError("Product not found")
		}
		if _, ok := units[spec.UnitID]; !ok {
			return shared.NewReferenceNotFoundError("Unit not found")
		}
	}
	return nil
}

func (s *SalesOrderService) productsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
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

func (s *SalesOrderService) unitsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.UnitOfMeasure, error) {
	units, err := s.units.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*catalog.UnitOfMeasure, len(units))
	for i := range units {
		out[units[i].ID] = &units[i]
	}
	return out, nil
}

func (s *SalesOrderService) buildView(ctx context.Context, order *trade.SalesOrder) (*OrderView, error) {
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
	units, err := s.unitsByID(ctx, unitIDs)
	if err != nil {
		return nil, err
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
			FulfilledQuantity: item.DeliveredQuantity,
		}
		if p, ok := products[item.ProductID]; ok {
			view.ProductName = p.Name
		}
		if u, ok := units[item.UnitID]; ok {
			view.UnitName = u.Name
		}
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
		ReceivedDate:     order.DeliveredDate,
		Note:             order.Note,
		Items:            items,
	}, nil
}
