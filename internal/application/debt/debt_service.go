package debt

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopstack/backend/internal/domain/cashbook"
	"github.com/shopstack/backend/internal/domain/debt"
	"github.com/shopstack/backend/internal/domain/partner"
	"github.com/shopstack/backend/internal/domain/shared"
	"github.com/shopstack/backend/internal/domain/trade"
)

// AdjustInput is a signed manual correction to a counterparty balance
type AdjustInput struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required"`
}

// SettleInput is a standalone debt settlement not tied to one order
type SettleInput struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	Note          string          `json:"note"`
}

// Service exposes the manual side of the two debt ledgers: adjustments,
// standalone settlements and transaction history. Order-driven postings happen
// inside the order services.
type Service struct {
	uow        shared.UnitOfWork
	suppliers  partner.SupplierRepository
	customers  partner.CustomerRepository
	payable    *debt.Ledger
	receivable *debt.Ledger
	txs        debt.TransactionRepository
	entries    cashbook.EntryRepository
	logger     *zap.Logger
}

// NewService creates a debt service
func NewService(
	uow shared.UnitOfWork,
	suppliers partner.SupplierRepository,
	customers partner.CustomerRepository,
	payable *debt.Ledger,
	receivable *debt.Ledger,
	txs debt.TransactionRepository,
	entries cashbook.EntryRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		uow:        uow,
		suppliers:  suppliers,
		customers:  customers,
		payable:    payable,
		receivable: receivable,
		txs:        txs,
		entries:    entries,
		logger:     logger,
	}
}

// AdjustSupplierDebt applies a signed manual correction to a supplier balance
func (s *Service) AdjustSupplierDebt(ctx context.Context, supplierID uuid.UUID, input AdjustInput) (*debt.Transaction, error) {
	var tx *debt.Transaction
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		supplier, err := s.suppliers.FindByID(ctx, supplierID)
		if err != nil {
			return err
		}
		tx, err = s.payable.RecordAdjustment(ctx, supplier, input.Amount, input.Reason)
		if err != nil {
			return err
		}
		return s.suppliers.SaveWithLock(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("supplier debt adjusted",
		zap.String("supplier_id", supplierID.String()),
		zap.String("amount", input.Amount.String()))
	return tx, nil
}

// AdjustCustomerDebt applies a signed manual correction to a customer balance
func (s *Service) AdjustCustomerDebt(ctx context.Context, customerID uuid.UUID, input AdjustInput) (*debt.Transaction, error) {
	var tx *debt.Transaction
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		customer, err := s.customers.FindByID(ctx, customerID)
		if err != nil {
			return err
		}
		tx, err = s.receivable.RecordAdjustment(ctx, customer, input.Amount, input.Reason)
		if err != nil {
			return err
		}
		return s.customers.SaveWithLock(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer debt adjusted",
		zap.String("customer_id", customerID.String()),
		zap.String("amount", input.Amount.String()))
	return tx, nil
}

// SettleSupplierDebt pays down a supplier balance with real money. The payment
// lands in the cashbook as a debt-payment expense.
func (s *Service) SettleSupplierDebt(ctx context.Context, supplierID uuid.UUID, input SettleInput) (*debt.Transaction, error) {
	method, err := trade.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if method.IsCredit() {
		return nil, shared.NewValidationError("Debt cannot be settled on credit")
	}

	var tx *debt.Transaction
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		supplier, err := s.suppliers.FindByID(ctx, supplierID)
		if err != nil {
			return err
		}
		tx, err = s.payable.RecordPayment(ctx, supplier, input.Amount, settleReason(input.Note, "Supplier debt payment"), uuid.Nil)
		if err != nil {
			return err
		}
		if err := s.suppliers.SaveWithLock(ctx, supplier); err != nil {
			return err
		}

		entry, err := cashbook.NewEntry(cashbook.EntryTypeExpense, cashbook.CategoryDebtPayment, input.Amount, method.String(), settleReason(input.Note, "Supplier debt payment"))
		if err != nil {
			return err
		}
		return s.entries.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// SettleCustomerDebt collects money against a customer balance. The collection
// lands in the cashbook as debt-collection income.
func (s *Service) SettleCustomerDebt(ctx context.Context, customerID uuid.UUID, input SettleInput) (*debt.Transaction, error) {
	method, err := trade.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if method.IsCredit() {
		return nil, shared.NewValidationError("Debt cannot be settled on credit")
	}

	var tx *debt.Transaction
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		customer, err := s.customers.FindByID(ctx, customerID)
		if err != nil {
			return err
		}
		tx, err = s.receivable.RecordPayment(ctx, customer, input.Amount, settleReason(input.Note, "Customer debt collection"), uuid.Nil)
		if err != nil {
			return err
		}
		if err := s.customers.SaveWithLock(ctx, customer); err != nil {
			return err
		}

		entry, err := cashbook.NewEntry(cashbook.EntryTypeIncome, cashbook.CategoryDebtCollection, input.Amount, method.String(), settleReason(input.Note, "Customer debt collection"))
		if err != nil {
			return err
		}
		return s.entries.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListSupplierTransactions returns a supplier's debt history, newest first
func (s *Service) ListSupplierTransactions(ctx context.Context, supplierID uuid.UUID) ([]debt.Transaction, error) {
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}
	return s.txs.FindByCounterparty(ctx, debt.SidePayable, supplierID)
}

// ListCustomerTransactions returns a customer's debt history, newest first
func (s *Service) ListCustomerTransactions(ctx context.Context, customerID uuid.UUID) ([]debt.Transaction, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.txs.FindByCounterparty(ctx, debt.SideReceivable, customerID)
}

func settleReason(note, fallback string) string {
	if note != "" {
		return note
	}
	return fallback
}
