package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopstack/backend/internal/application/trade"
	"github.com/shopstack/backend/internal/interfaces/http/dto"
)

// SalesOrderHandler exposes the sales order lifecycle over HTTP
type SalesOrderHandler struct {
	BaseHandler
	service *trade.SalesOrderService
}

// NewSalesOrderHandler creates a sales order handler
func NewSalesOrderHandler(service *trade.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{service: service}
}

// RegisterRoutes registers sales order routes
func (h *SalesOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/sales-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PUT("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)
		orders.POST("/:id/confirm", h.Confirm)
		orders.POST("/:id/ship", h.Ship)
		orders.POST("/:id/payments", h.Pay)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// Create creates a sales order
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var input trade.CreateSalesOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	view, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// List returns a page of sales orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	filter, ok := bindOrderFilter(h.BaseHandler, c)
	if !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.MetaFor(page))
}

// Get returns one sales order
func (h *SalesOrderHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Update replaces a draft order's lines and discount
func (h *SalesOrderHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input trade.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	view, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Delete removes a draft order
func (h *SalesOrderHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Confirm moves a draft order to ORDERED
func (h *SalesOrderHandler) Confirm(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Ship books shipped goods against the order, consuming stock batches
func (h *SalesOrderHandler) Ship(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input trade.ReceiveGoodsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	view, err := h.service.ShipGoods(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Pay records a payment against the order
func (h *SalesOrderHandler) Pay(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input trade.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	view, err := h.service.CreatePayment(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Cancel cancels the order
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}
