package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopstack/backend/internal/application/debt"
)

// DebtHandler exposes manual debt adjustments, settlements and history for
// both ledger sides.
type DebtHandler struct {
	BaseHandler
	service *debt.Service
}

// NewDebtHandler creates a debt handler
func NewDebtHandler(service *debt.Service) *DebtHandler {
	return &DebtHandler{service: service}
}

// RegisterRoutes registers debt routes under the partner resources
func (h *DebtHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers/:id/debt")
	{
		suppliers.POST("/adjustments", h.AdjustSupplier)
		suppliers.POST("/settlements", h.SettleSupplier)
		suppliers.GET("/transactions", h.SupplierTransactions)
	}

	customers := rg.Group("/customers/:id/debt")
	{
		customers.POST("/adjustments", h.AdjustCustomer)
		customers.POST("/settlements", h.SettleCustomer)
		customers.GET("/transactions", h.CustomerTransactions)
	}
}

// AdjustSupplier applies a signed manual correction to a supplier balance
func (h *DebtHandler) AdjustSupplier(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input debt.AdjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	tx, err := h.service.AdjustSupplierDebt(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// SettleSupplier pays down a supplier balance
func (h *DebtHandler) SettleSupplier(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input debt.SettleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	tx, err := h.service.SettleSupplierDebt(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// SupplierTransactions returns a supplier's debt history, newest first
func (h *DebtHandler) SupplierTransactions(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.service.ListSupplierTransactions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// AdjustCustomer applies a signed manual correction to a customer balance
func (h *DebtHandler) AdjustCustomer(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input debt.AdjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	tx, err := h.service.AdjustCustomerDebt(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// SettleCustomer collects money against a customer balance
func (h *DebtHandler) SettleCustomer(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var input debt.SettleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	tx, err := h.service.SettleCustomerDebt(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// CustomerTransactions returns a customer's debt history, newest first
func (h *DebtHandler) CustomerTransactions(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.service.ListCustomerTransactions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
