package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/backend/internal/application/cashbook"
	"github.com/shopstack/backend/internal/interfaces/http/dto"
)

// CashbookHandler exposes the cashbook over HTTP
type CashbookHandler struct {
	BaseHandler
	service *cashbook.Service
}

// NewCashbookHandler creates a cashbook handler
func NewCashbookHandler(service *cashbook.Service) *CashbookHandler {
	return &CashbookHandler{service: service}
}

// RegisterRoutes registers cashbook routes
func (h *CashbookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/cashbook")
	{
		entries.POST("/entries", h.Record)
		entries.GET("/entries", h.List)
		entries.GET("/entries/:id", h.Get)
		entries.GET("/summary", h.Summary)
	}
}

// Record appends a manual cashbook entry
func (h *CashbookHandler) Record(c *gin.Context) {
	var input cashbook.RecordEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}

	entry, err := h.service.Record(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Get returns one cashbook entry
func (h *CashbookHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// List returns a page of entries in a date range. The range defaults to the
// last thirty days.
func (h *CashbookHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), from, to, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.MetaFor(page))
}

// Summary returns income, expense and net totals for a date range
func (h *CashbookHandler) Summary(c *gin.Context) {
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

func (h *CashbookHandler) dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			h.BadRequest(c, err)
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			h.BadRequest(c, err)
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}
