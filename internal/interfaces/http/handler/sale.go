package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/sarva/backend/internal/application/trade"
	"github.com/shopspring/decimal"
)

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService     *tradeapp.SaleService
	deletionService *tradeapp.DeletionService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *tradeapp.SaleService, deletionService *tradeapp.DeletionService) *SaleHandler {
	return &SaleHandler{saleService: saleService, deletionService: deletionService}
}

// TotalValueResponse is the line total of a sale
type TotalValueResponse struct {
	SaleID int64           `json:"sale_id"`
	Total  decimal.Decimal `json:"total"`
}

// List returns the caller's sales
// GET /sales?from=&to=&customer=
func (h *SaleHandler) List(c *gin.Context) {
	var filter tradeapp.SaleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	sales, err := h.saleService.ListSales(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// Create opens an empty sale
// POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetByID returns a sale with its lines and the customer's score
// GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), caller(c), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Update edits sale header fields
// PUT /sales/:id
func (h *SaleHandler) Update(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), caller(c), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Delete removes a sale and reverses its share of every order
// DELETE /sales/:id
func (h *SaleHandler) Delete(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.deletionService.DeleteSale(c.Request.Context(), caller(c), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// AddLine adds one unit of a product to a sale
// POST /sales/:id/lines
func (h *SaleHandler) AddLine(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.SaleLineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	line, err := h.saleService.AddLine(c.Request.Context(), caller(c), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// RemoveLine removes one unit of a product from a sale
// DELETE /sales/:id/lines/:codigo/:cycleId
func (h *SaleHandler) RemoveLine(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	code, ok := h.pathID(c, "codigo")
	if !ok {
		return
	}
	cycleID, ok := h.pathID(c, "cycleId")
	if !ok {
		return
	}

	sale, err := h.saleService.RemoveLine(c.Request.Context(), caller(c), saleID,
		tradeapp.SaleLineRequest{ProductCode: code, CycleID: cycleID})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// ApplyDiscount records the discount of a sale
// POST /sales/:id/discount
func (h *SaleHandler) ApplyDiscount(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.DiscountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.ApplyDiscount(c.Request.Context(), caller(c), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// PostTotal records the gross total of a sale
// POST /sales/:id/total
func (h *SaleHandler) PostTotal(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.PostTotalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.PostTotal(c.Request.Context(), caller(c), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Finalize applies the discount and posts the computed line total
// POST /sales/:id/finalize
func (h *SaleHandler) Finalize(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.DiscountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.Finalize(c.Request.Context(), caller(c), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// RecordPayment marks a sale paid
// POST /sales/:id/payment
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.PaymentRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.RecordPayment(c.Request.Context(), caller(c), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// TotalValue returns the sum of the sale's line subtotals
// GET /sales/:id/total
func (h *SaleHandler) TotalValue(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	total, err := h.saleService.TotalValue(c.Request.Context(), caller(c), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, TotalValueResponse{SaleID: saleID, Total: total})
}
