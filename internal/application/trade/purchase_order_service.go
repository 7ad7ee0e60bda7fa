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

// PurchaseOrderService orchestrates the purchase order lifecycle. Every
// mutating operation runs as one unit of work: the order write and its stock,
// debt and cashbook effects either all land or none do.
type PurchaseOrderService struct {
	uow        shared.UnitOfWork
	orders     trade.PurchaseOrderRepository
	codes      trade.CodeGenerator
	products   catalog.ProductRepository
	units      catalog.UnitRepository
	suppliers  partner.SupplierRepository
	warehouses partner.WarehouseRepository
	stock      *inventory.Ledger
	payables   *debt.Ledger
	entries    cashbook.EntryRepository
	logger     *zap.Logger
}

// NewPurchaseOrderService creates a purchase order service
func NewPurchaseOrderService(
	uow shared.UnitOfWork,
	orders trade.PurchaseOrderRepository,
	codes trade.CodeGenerator,
	products catalog.ProductRepository,
	units catalog.UnitRepository,
	suppliers partner.SupplierRepository,
	warehouses partner.WarehouseRepository,
	stock *inventory.Ledger,
	payables *debt.Ledger,
	entries cashbook.EntryRepository,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		uow:        uow,
		orders:     orders,
		codes:      codes,
		products:   products,
		units:      units,
		suppliers:  suppliers,
		warehouses: warehouses,
		stock:      stock,
		payables:   payables,
		entries:    entries,
		logger:     logger,
	}
}

// Create validates references, computes totals and persists a new purchase
// order. An order created directly as ORDERED posts its ledger effects in the
// same transaction: credit orders invoice the unpaid total to the supplier,
// non-credit orders with an upfront payment write a cashbook expense.
func (s *PurchaseOrderService) Create(ctx context.Context, input CreatePurchaseOrderInput) (*OrderView, error) {
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

	var order *trade.PurchaseOrder
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		supplier, err := s.suppliers.FindByID(ctx, input.SupplierID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewReferenceNotFoundError("Supplier not found")
			}
			return err
		}
		if err := s.resolveReferences(ctx, specs); err != nil {
			return err
		}

		code, err := s.codes.NextCode(ctx, "PO", time.Now())
		if err != nil {
			return err
		}

		order, err = trade.NewPurchaseOrder(code, supplier.ID, method, dType, input.DiscountValue)
		if err != nil {
			return err
		}
		order.ExpectedDate = input.ExpectedDate
		order.Note = input.Note

		for _, spec := range specs {
			item, err := trade.NewPurchaseOrderItem(spec.ProductID, spec.UnitID, spec.Quantity, spec.UnitPrice, spec.DiscountType, spec.DiscountValue)
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
			if err := s.postConfirmationEffects(ctx, order, supplier, input.DueDate, input.PaidAmount); err != nil {
				return err
			}
		}

		return s.orders.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("code", order.Code),
		zap.String("status", order.Status.String()),
		zap.String("total", order.Total.String()))

	return s.buildView(ctx, order)
}

// Update replaces a draft order's items and discount wholesale
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderView, error) {
	dType, err := trade.ParseDiscountType(input.DiscountType)
	if err != nil {
		return nil, err
	}
	specs, err := toItemSpecs(input.Items)
	if err != nil {
		return nil, err
	}

	var order *trade.PurchaseOrder
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		order, err = s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.resolveReferences(ctx, specs); err != nil {
			return err
		}

		items := make([]trade.PurchaseOrderItem, 0, len(specs))
		for _, spec := range specs {
			item, err := trade.NewPurchaseOrderItem(spec.ProductID, spec.UnitID, spec.Quantity, spec.UnitPrice, spec.DiscountType, spec.DiscountValue)
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
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
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

// Confirm moves a draft order to ORDERED and posts the credit invoice for the
// unpaid total, mirroring creation directly as ORDERED.
func (s *PurchaseOrderService) Confirm(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var order *trade.PurchaseOrder
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		supplier, err := s.suppliers.FindByID(ctx, order.SupplierID)
		if err != nil {
			return err
		}
		if err := order.Confirm(); err != nil {
			return err
		}
		if err := s.postConfirmationEffects(ctx, order, supplier, nil, decimal.Zero); err != nil {
			return err
		}
		return s.orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, order)
}

// ReceiveGoods applies a goods receipt: order bookkeeping, unit conversion,
// stock and batch updates, and the movement audit rows, atomically.
func (s *PurchaseOrderService) ReceiveGoods(ctx context.Context, id uuid.UUID, input ReceiveGoodsInput) (*OrderView, error) {
	var order *trade.PurchaseOrder
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

		received, err := order.ReceiveItems(toFulfillmentLines(input.Lines))
		if err != nil {
			return err
		}

		productIDs := make([]uuid.UUID, 0, len(received))
		for _, r := range received {
			productIDs = append(productIDs, r.Item.ProductID)
		}
		products, err := s.productsByID(ctx, productIDs)
		if err != nil {
			return err
		}

		for _, r := range received {
			product, ok := products[r.Item.ProductID]
			if !ok {
				return shared.NewReferenceNotFoundError("Product not found")
			}
			baseQty := catalog.ConvertForProduct(product, r.Quantity, r.Item.UnitID)
			unitCost := baseUnitCost(r.Item.UnitPrice, r.Quantity, baseQty)

			_, err := s.stock.Receive(ctx, input.WarehouseID, inventory.ReceiptLine{
				ProductID:     r.Item.ProductID,
				Quantity:      baseQty,
				UnitCost:      unitCost,
				ExpiryDate:    r.Line.ExpiryDate,
				BatchNumber:   r.Line.BatchNumber,
				SourceOrderID: order.ID,
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

	s.logger.Info("purchase order goods received",
		zap.String("code", order.Code),
		zap.String("status", order.Status.String()))

	return s.buildView(ctx, order)
}

// CreatePayment records a payment against the order. Credit orders post a
// payable payment; other methods write a cashbook expense.
func (s *PurchaseOrderService) CreatePayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*OrderView, error) {
	var order *trade.PurchaseOrder
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
			// The invoice is posted at confirmation; a payment before that
			// only tracks against the order itself.
			if order.Status != trade.StatusDraft {
				outstanding, err := s.payables.OutstandingForOrder(ctx, order.ID)
				if err != nil {
					return err
				}
				if input.Amount.GreaterThan(outstanding) {
					return shared.NewInvalidAmountError("Payment amount exceeds the order's outstanding balance")
				}
				supplier, err := s.suppliers.FindByID(ctx, order.SupplierID)
				if err != nil {
					return err
				}
				if _, err := s.payables.RecordPayment(ctx, supplier, input.Amount, paymentReason(order.Code, input.Description), order.ID); err != nil {
					return err
				}
				if err := s.suppliers.SaveWithLock(ctx, supplier); err != nil {
					return err
				}
			}
		} else {
			entry, err := cashbook.NewEntry(cashbook.EntryTypeExpense, cashbook.CategoryPurchase, input.Amount, order.PaymentMethod.String(), paymentReason(order.Code, input.Description))
			if err != nil {
				return err
			}
			entry.WithSource(cashbook.SourcePurchaseOrder, order.ID)
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

// Cancel aborts an order that has not moved goods yet
func (s *PurchaseOrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var order *trade.PurchaseOrder
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
func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, order)
}

// List returns orders page by page
func (s *PurchaseOrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderView], error) {
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

// postConfirmationEffects posts the ledger side of the DRAFT to ORDERED
// transition: the credit invoice for the unpaid total, or the cashbook
// expense for an upfront non-credit payment.
func (s *PurchaseOrderService) postConfirmationEffects(ctx context.Context, order *trade.PurchaseOrder, supplier *partner.Supplier, dueDate *time.Time, upfrontPaid decimal.Decimal) error {
	if order.PaymentMethod.IsCredit() {
		outstanding := order.OutstandingDebt()
		if outstanding.IsPositive() {
			if _, err := s.payables.RecordInvoice(ctx, supplier, outstanding, dueDate, "Purchase order "+order.Code, order.ID); err != nil {
				return err
			}
			if err := s.suppliers.SaveWithLock(ctx, supplier); err != nil {
				return err
			}
		}
		return nil
	}

	if upfrontPaid.IsPositive() {
		entry, err := cashbook.NewEntry(cashbook.EntryTypeExpense, cashbook.CategoryPurchase, upfrontPaid, order.PaymentMethod.String(), "Purchase order "+order.Code)
		if err != nil {
			return err
		}
		entry.WithSource(cashbook.SourcePurchaseOrder, order.ID)
		return s.entries.Append(ctx, entry)
	}
	return nil
}

// resolveReferences checks that every product and unit on the item specs
// exists, failing with REFERENCE_NOT_FOUND otherwise.
func (s *PurchaseOrderService) resolveReferences(ctx context.Context, specs []itemSpec) error {
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

func (s *PurchaseOrderService) productsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
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

func (s *PurchaseOrderService) unitsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.UnitOfMeasure, error) {
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

// buildView resolves supplier, product and unit names after the write
func (s *PurchaseOrderService) buildView(ctx context.Context, order *trade.PurchaseOrder) (*OrderView, error) {
	supplierName := ""
	if supplier, err := s.suppliers.FindByID(ctx, order.SupplierID); err == nil {
		supplierName = supplier.Name
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
			FulfilledQuantity: item.ReceivedQuantity,
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
		CounterpartyID:   order.SupplierID,
		CounterpartyName: supplierName,
		OrderDate:        order.OrderDate,
		Subtotal:         order.Subtotal,
		DiscountAmount:   order.DiscountAmount,
		Total:            order.Total,
		PaymentMethod:    order.PaymentMethod.String(),
		PaidAmount:       order.PaidAmount,
		ReceivedDate:     order.ReceivedDate,
		Note:             order.Note,
		Items:            items,
	}, nil
}

// baseUnitCost spreads a line-unit price over the converted base quantity
func baseUnitCost(unitPrice, lineQty, baseQty decimal.Decimal) decimal.Decimal {
	if baseQty.IsZero() || lineQty.Equal(baseQty) {
		return unitPrice
	}
	return unitPrice.Mul(lineQty).DivRound(baseQty, 4)
}

func paymentReason(code, description string) string {
	if description != "" {
		return description
	}
	return "Payment for order " + code
}
