package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/sarva/backend/internal/application/trade"
)

// OrderHandler handles supplier order endpoints
type OrderHandler struct {
	BaseHandler
	orderService    *tradeapp.OrderService
	deletionService *tradeapp.DeletionService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, deletionService *tradeapp.DeletionService) *OrderHandler {
	return &OrderHandler{orderService: orderService, deletionService: deletionService}
}

// List returns the caller's orders
// GET /orders?from=&to=&company=
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Create opens an empty order for a company given by name
// POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID returns an order with its lines
// GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), caller(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Update reschedules an order
// PUT /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), caller(c), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete removes an order and its lines
// DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.deletionService.DeleteOrder(c.Request.Context(), caller(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// AvailableLines lists the sale lines that can be added to the order
// GET /orders/:id/available-lines?sale_id=&customer=
func (h *OrderHandler) AvailableLines(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter tradeapp.AvailableLinesFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	lines, err := h.orderService.AvailableLines(c.Request.Context(), caller(c), orderID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// AddLine consolidates a sale line into the order
// POST /orders/:id/lines
func (h *OrderHandler) AddLine(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.AddOrderLineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.AddToOrder(c.Request.Context(), caller(c), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveLine takes an order line out of the order
// DELETE /orders/:id/lines/:lineId
func (h *OrderHandler) RemoveLine(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "lineId")
	if !ok {
		return
	}

	order, err := h.orderService.RemoveFromOrder(c.Request.Context(), caller(c), orderID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Recompute rebuilds the order total from its lines
// POST /orders/:id/recompute
func (h *OrderHandler) Recompute(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.RecomputeOrderTotal(c.Request.Context(), caller(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Finalize posts the order total, either the given override or the supplier due
// POST /orders/:id/finalize
func (h *OrderHandler) Finalize(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.FinalizeOrderRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.FinalizeOrder(c.Request.Context(), caller(c), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Summary returns the consolidation report of an order
// GET /orders/:id/summary
func (h *OrderHandler) Summary(c *gin.Context) {
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.orderService.OrderSummary(c.Request.Context(), caller(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
