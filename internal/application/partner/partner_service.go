package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopstack/backend/internal/domain/partner"
	"github.com/shopstack/backend/internal/domain/shared"
)

// CreatePartnerInput is the request to create a supplier or customer
type CreatePartnerInput struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdatePartnerInput is the request to update a supplier or customer
type UpdatePartnerInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Active  *bool  `json:"active"`
}

// CreateWarehouseInput is the request to create a warehouse
type CreateWarehouseInput struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// Service manages suppliers, customers and warehouses
type Service struct {
	uow        shared.UnitOfWork
	suppliers  partner.SupplierRepository
	customers  partner.CustomerRepository
	warehouses partner.WarehouseRepository
	logger     *zap.Logger
}

// NewService creates a partner service
func NewService(
	uow shared.UnitOfWork,
	suppliers partner.SupplierRepository,
	customers partner.CustomerRepository,
	warehouses partner.WarehouseRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		uow:        uow,
		suppliers:  suppliers,
		customers:  customers,
		warehouses: warehouses,
		logger:     logger,
	}
}

// CreateSupplier creates a supplier
func (s *Service) CreateSupplier(ctx context.Context, input CreatePartnerInput) (*partner.Supplier, error) {
	supplier, err := partner.NewSupplier(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	supplier.Phone = input.Phone
	supplier.Address = input.Address
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.logger.Info("supplier created", zap.String("code", supplier.Code))
	return supplier, nil
}

// UpdateSupplier updates a supplier's contact fields
func (s *Service) UpdateSupplier(ctx context.Context, id uuid.UUID, input UpdatePartnerInput) (*partner.Supplier, error) {
	var supplier *partner.Supplier
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		supplier, err = s.suppliers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if input.Name == "" {
			return shared.NewValidationError("Supplier name cannot be empty")
		}
		supplier.Name = input.Name
		supplier.Phone = input.Phone
		supplier.Address = input.Address
		if input.Active != nil {
			supplier.Active = *input.Active
		}
		supplier.Touch()
		return s.suppliers.Save(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetSupplier returns one supplier
func (s *Service) GetSupplier(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	return s.suppliers.FindByID(ctx, id)
}

// ListSuppliers lists suppliers matching the filter
func (s *Service) ListSuppliers(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	return s.suppliers.FindAll(ctx, filter)
}

// CreateCustomer creates a customer
func (s *Service) CreateCustomer(ctx context.Context, input CreatePartnerInput) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	customer.Phone = input.Phone
	customer.Address = input.Address
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("customer created", zap.String("code", customer.Code))
	return customer, nil
}

// UpdateCustomer updates a customer's contact fields
func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdatePartnerInput) (*partner.Customer, error) {
	var customer *partner.Customer
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		customer, err = s.customers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if input.Name == "" {
			return shared.NewValidationError("Customer name cannot be empty")
		}
		customer.Name = input.Name
		customer.Phone = input.Phone
		customer.Address = input.Address
		if input.Active != nil {
			customer.Active = *input.Active
		}
		customer.Touch()
		return s.customers.Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns one customer
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// ListCustomers lists customers matching the filter
func (s *Service) ListCustomers(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	return s.customers.FindAll(ctx, filter)
}

// CreateWarehouse creates a warehouse
func (s *Service) CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*partner.Warehouse, error) {
	warehouse, err := partner.NewWarehouse(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	warehouse.Address = input.Address
	if err := s.warehouses.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// GetWarehouse returns one warehouse
func (s *Service) GetWarehouse(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	return s.warehouses.FindByID(ctx, id)
}

// ListWarehouses lists warehouses matching the filter
func (s *Service) ListWarehouses(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, error) {
	return s.warehouses.FindAll(ctx, filter)
}
