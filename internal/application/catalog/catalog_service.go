package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopstack/backend/internal/domain/catalog"
	"github.com/shopstack/backend/internal/domain/shared"
)

// CreateProductInput is the request to create a product
type CreateProductInput struct {
	Code           string           `json:"code" binding:"required"`
	Name           string           `json:"name" binding:"required"`
	Barcode        string           `json:"barcode"`
	UnitID         uuid.UUID        `json:"unitId" binding:"required"`
	BaseUnitID     *uuid.UUID       `json:"baseUnitId"`
	ConversionRate *decimal.Decimal `json:"conversionRate"`
	CostPrice      decimal.Decimal  `json:"costPrice"`
	SalePrice      decimal.Decimal  `json:"salePrice"`
	WholesalePrice decimal.Decimal  `json:"wholesalePrice"`
	MinStock       decimal.Decimal  `json:"minStock"`
}

// UpdateProductInput is the request to update a product
type UpdateProductInput struct {
	Name           string           `json:"name" binding:"required"`
	Barcode        string           `json:"barcode"`
	BaseUnitID     *uuid.UUID       `json:"baseUnitId"`
	ConversionRate *decimal.Decimal `json:"conversionRate"`
	CostPrice      decimal.Decimal  `json:"costPrice"`
	SalePrice      decimal.Decimal  `json:"salePrice"`
	WholesalePrice decimal.Decimal  `json:"wholesalePrice"`
	MinStock       decimal.Decimal  `json:"minStock"`
	Active         *bool            `json:"active"`
}

// SetConversionInput defines one unit-pair rate for a product
type SetConversionInput struct {
	FromUnitID uuid.UUID       `json:"fromUnitId" binding:"required"`
	ToUnitID   uuid.UUID       `json:"toUnitId" binding:"required"`
	Rate       decimal.Decimal `json:"rate" binding:"required"`
}

// Service manages products, units of measure and per-product unit conversions
type Service struct {
	uow         shared.UnitOfWork
	products    catalog.ProductRepository
	units       catalog.UnitRepository
	conversions catalog.ProductUnitConversionRepository
	logger      *zap.Logger
}

// NewService creates a catalog service
func NewService(
	uow shared.UnitOfWork,
	products catalog.ProductRepository,
	units catalog.UnitRepository,
	conversions catalog.ProductUnitConversionRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		uow:         uow,
		products:    products,
		units:       units,
		conversions: conversions,
		logger:      logger,
	}
}

// CreateProduct creates a product. The unit must exist; a base unit, when
// given, must come with a positive conversion rate.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*catalog.Product, error) {
	var product *catalog.Product
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.units.FindByID(ctx, input.UnitID); err != nil {
			if shared.IsNotFound(err) {
				return shared.NewReferenceNotFoundError("Unit not found")
			}
			return err
		}

		var err error
		product, err = catalog.NewProduct(input.Code, input.Name, input.UnitID)
		if err != nil {
			return err
		}
		product.Barcode = input.Barcode

		if input.BaseUnitID != nil {
			rate := decimal.NewFromInt(1)
			if input.ConversionRate != nil {
				rate = *input.ConversionRate
			}
			if _, err := s.units.FindByID(ctx, *input.BaseUnitID); err != nil {
				if shared.IsNotFound(err) {
					return shared.NewReferenceNotFoundError("Base unit not found")
				}
				return err
			}
			if err := product.SetBaseUnit(*input.BaseUnitID, rate); err != nil {
				return err
			}
		}
		if err := product.SetPrices(input.CostPrice, input.SalePrice, input.WholesalePrice); err != nil {
			return err
		}
		if err := product.SetMinStock(input.MinStock); err != nil {
			return err
		}

		return s.products.Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("code", product.Code))
	return product, nil
}

// UpdateProduct updates a product's mutable fields
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*catalog.Product, error) {
	var product *catalog.Product
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.products.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if input.Name == "" {
			return shared.NewValidationError("Product name cannot be empty")
		}
		product.Name = input.Name
		product.Barcode = input.Barcode

		if input.BaseUnitID != nil {
			rate := product.ConversionRate
			if input.ConversionRate != nil {
				rate = *input.ConversionRate
			}
			if err := product.SetBaseUnit(*input.BaseUnitID, rate); err != nil {
				return err
			}
		}
		if err := product.SetPrices(input.CostPrice, input.SalePrice, input.WholesalePrice); err != nil {
			return err
		}
		if err := product.SetMinStock(input.MinStock); err != nil {
			return err
		}
		if input.Active != nil {
			product.Active = *input.Active
		}
		product.Touch()

		return s.products.Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct returns one product
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// GetProductByCode returns one product by its code
func (s *Service) GetProductByCode(ctx context.Context, code string) (*catalog.Product, error) {
	return s.products.FindByCode(ctx, code)
}

// ListProducts lists products matching the filter
func (s *Service) ListProducts(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return s.products.FindAll(ctx, filter)
}

// DeleteProduct removes a product
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.products.FindByID(ctx, id); err != nil {
			return err
		}
		return s.products.Delete(ctx, id)
	})
}

// CreateUnit creates a unit of measure
func (s *Service) CreateUnit(ctx context.Context, code, name, description string) (*catalog.UnitOfMeasure, error) {
	unit, err := catalog.NewUnitOfMeasure(code, name)
	if err != nil {
		return nil, err
	}
	unit.Description = description
	if err := s.units.Save(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// ListUnits lists all units of measure
func (s *Service) ListUnits(ctx context.Context) ([]catalog.UnitOfMeasure, error) {
	return s.units.FindAll(ctx)
}

// SetConversion defines or replaces the rate between two units of a product
func (s *Service) SetConversion(ctx context.Context, productID uuid.UUID, input SetConversionInput) (*catalog.ProductUnitConversion, error) {
	if input.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Conversion rate must be positive")
	}

	var conv *catalog.ProductUnitConversion
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.products.FindByID(ctx, productID); err != nil {
			if shared.IsNotFound(err) {
				return shared.NewReferenceNotFoundError("Product not found")
			}
			return err
		}

		existing, err := s.conversions.FindByProduct(ctx, productID)
		if err != nil {
			return err
		}
		for i := range existing {
			if existing[i].FromUnitID == input.FromUnitID && existing[i].ToUnitID == input.ToUnitID {
				existing[i].Rate = input.Rate
				existing[i].Touch()
				conv = &existing[i]
				return s.conversions.Save(ctx, conv)
			}
		}

		conv, err = catalog.NewProductUnitConversion(productID, input.FromUnitID, input.ToUnitID, input.Rate)
		if err != nil {
			return err
		}
		return s.conversions.Save(ctx, conv)
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// ListConversions lists the unit-pair rates defined for a product
func (s *Service) ListConversions(ctx context.Context, productID uuid.UUID) ([]catalog.ProductUnitConversion, error) {
	return s.conversions.FindByProduct(ctx, productID)
}

// DeleteConversion removes one unit-pair rate
func (s *Service) DeleteConversion(ctx context.Context, id uuid.UUID) error {
	return s.conversions.Delete(ctx, id)
}
