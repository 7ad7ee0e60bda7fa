package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/backend/internal/application/inventory"
	"github.com/shopstack/backend/internal/interfaces/http/dto"
)

// InventoryHandler exposes stock reads, stocktake corrections and the expiry
// and low-stock signals.
type InventoryHandler struct {
	BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates an inventory handler
func NewInventoryHandler(service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/inventory")
	{
		stock.POST("/adjustments", h.Adjust)
		stock.GET("/warehouses/:id/stock", h.StockByWarehouse)
		stock.GET("/products/:id/movements", h.Movements)
		stock.GET("/expiring", h.Expiring)
		stock.GET("/low-stock", h.LowStock)
	}
}

// Adjust corrects on-hand stock after a stocktake
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var input inventory.AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	movement, err := h.service.Adjust(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// StockByWarehouse returns a page of stock levels in one warehouse
func (h *InventoryHandler) StockByWarehouse(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	page, err := h.service.StockByWarehouse(c.Request.Context(), id, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.MetaFor(page))
}

// Movements returns a page of one product's stock movements
func (h *InventoryHandler) Movements(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	page, err := h.service.Movements(c.Request.Context(), id, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.MetaFor(page))
}

// Expiring returns open batches expiring before the cutoff. The cutoff
// defaults to thirty days out.
func (h *InventoryHandler) Expiring(c *gin.Context) {
	cutoff := time.Now().AddDate(0, 0, 30)
	if raw := c.Query("before"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			h.BadRequest(c, err)
			return
		}
		cutoff = parsed
	}

	batches, err := h.service.ExpiringBatches(c.Request.Context(), cutoff)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

// LowStock returns products at or under their minimum threshold
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// parseDate accepts RFC3339 timestamps and plain dates
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("invalid date, expected RFC3339 or YYYY-MM-DD")
}
