package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/sarva/backend/internal/application/partner"
)

// CustomerHandler handles customer endpoints. Every customer belongs to the
// seller who registered it.
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List returns the caller's customers
// GET /customers?name=&birthday_month=&birthday_today=
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	customers, err := h.customerService.List(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// Search returns the caller's customers whose name contains q
// GET /customers/search?q=
func (h *CustomerHandler) Search(c *gin.Context) {
	customers, err := h.customerService.Search(c.Request.Context(), caller(c), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// Create registers a customer with a neutral score
// POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID returns one customer
// GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), caller(c), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Update edits contact details. The score is not writable.
// PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), caller(c), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer with all their sales
// DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.customerService.Delete(c.Request.Context(), caller(c), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RecomputeScore reclassifies one customer from their payment history
// POST /customers/:id/score
func (h *CustomerHandler) RecomputeScore(c *gin.Context) {
	customerID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.RecomputeScore(c.Request.Context(), caller(c), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// RecomputeScores reclassifies every customer of the caller
// POST /customers/scores
func (h *CustomerHandler) RecomputeScores(c *gin.Context) {
	customers, err := h.customerService.RecomputeScores(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}
