package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopstack/backend/internal/application/trade"
)

// ReturnOrderHandler exposes customer returns over HTTP
type ReturnOrderHandler struct {
	BaseHandler
	service *trade.ReturnOrderService
}

// NewReturnOrderHandler creates a return order handler
func NewReturnOrderHandler(service *trade.ReturnOrderService) *ReturnOrderHandler {
	return &ReturnOrderHandler{service: service}
}

// RegisterRoutes registers return order routes
func (h *ReturnOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/return-orders")
	{
		orders.POST("", h.Create)
		orders.GET("/:id", h.Get)
		orders.DELETE("/:id", h.Delete)
		orders.POST("/:id/receive", h.Receive)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// Create creates a return order against a sales order
func (h *ReturnOrderHandler) Create(c *gin.Context) {
	var input trade.CreateReturnOrderInput
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

// Get returns one return order
func (h *ReturnOrderHandler) Get(c *gin.Context) {
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

// Delete removes a draft return order
func (h *ReturnOrderHandler) Delete(c *gin.Context) {
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

// Receive books the returned goods back into stock and unwinds the delivery
func (h *ReturnOrderHandler) Receive(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input trade.ReceiveGoodsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	view, err := h.service.ReceiveReturn(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Cancel cancels the return order
func (h *ReturnOrderHandler) Cancel(c *gin.Context) {
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
