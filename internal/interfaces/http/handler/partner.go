package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopstack/backend/internal/application/partner"
	"github.com/shopstack/backend/internal/interfaces/http/dto"
)

// PartnerHandler exposes suppliers, customers and warehouses over HTTP
type PartnerHandler struct {
	BaseHandler
	service *partner.Service
}

// NewPartnerHandler creates a partner handler
func NewPartnerHandler(service *partner.Service) *PartnerHandler {
	return &PartnerHandler{service: service}
}

// RegisterRoutes registers partner routes
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.CreateSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplier)
		suppliers.PUT("/:id", h.UpdateSupplier)
	}

	customers := rg.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
	}

	warehouses := rg.Group("/warehouses")
	{
		warehouses.POST("", h.CreateWarehouse)
		warehouses.GET("", h.ListWarehouses)
		warehouses.GET("/:id", h.GetWarehouse)
	}
}

// CreateSupplier creates a supplier
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	var input partner.CreatePartnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	supplier, err := h.service.CreateSupplier(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// ListSuppliers returns suppliers matching the filter
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	suppliers, err := h.service.ListSuppliers(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// GetSupplier returns one supplier
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	supplier, err := h.service.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// UpdateSupplier updates a supplier
func (h *PartnerHandler) UpdateSupplier(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input partner.UpdatePartnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	supplier, err := h.service.UpdateSupplier(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// CreateCustomer creates a customer
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var input partner.CreatePartnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// ListCustomers returns customers matching the filter
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	customers, err := h.service.ListCustomers(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// GetCustomer returns one customer
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// UpdateCustomer updates a customer
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input partner.UpdatePartnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// CreateWarehouse creates a warehouse
func (h *PartnerHandler) CreateWarehouse(c *gin.Context) {
	var input partner.CreateWarehouseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	warehouse, err := h.service.CreateWarehouse(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// ListWarehouses returns warehouses matching the filter
func (h *PartnerHandler) ListWarehouses(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	warehouses, err := h.service.ListWarehouses(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouses)
}

// GetWarehouse returns one warehouse
func (h *PartnerHandler) GetWarehouse(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	warehouse, err := h.service.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}
