package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/backend/internal/application/trade"
	"github.com/shopstack/backend/internal/domain/shared"
	"github.com/shopstack/backend/internal/interfaces/http/dto"
)

// PurchaseOrderHandler exposes the purchase order lifecycle over HTTP
type PurchaseOrderHandler struct {
	BaseHandler
	service *trade.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a purchase order handler
func NewPurchaseOrderHandler(service *trade.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// RegisterRoutes registers purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PUT("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)
		orders.POST("/:id/confirm", h.Confirm)
		orders.POST("/:id/receive", h.Receive)
		orders.POST("/:id/payments", h.Pay)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// Create creates a purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var input trade.CreatePurchaseOrderInput
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

// List returns a page of purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
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

// Get returns one purchase order
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
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
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
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
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
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
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
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

// Receive books received goods against the order
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input trade.ReceiveGoodsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	view, err := h.service.ReceiveGoods(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Pay records a payment against the order
func (h *PurchaseOrderHandler) Pay(c *gin.Context) {
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
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
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

// bindOrderFilter reads the common list parameters plus the order-specific
// status, payment method and date-range filters.
func bindOrderFilter(h BaseHandler, c *gin.Context) (shared.Filter, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return shared.Filter{}, false
	}
	filter := req.ToFilter()

	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if method := c.Query("payment_method"); method != "" {
		filter.Filters["payment_method"] = method
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.BadRequest(c, err)
			return shared.Filter{}, false
		}
		filter.Filters["from"] = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.BadRequest(c, err)
			return shared.Filter{}, false
		}
		filter.Filters["to"] = parsed
	}
	return filter, true
}
