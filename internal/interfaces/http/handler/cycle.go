package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/sarva/backend/internal/application/catalog"
)

// CycleHandler handles catalog cycle endpoints
type CycleHandler struct {
	BaseHandler
	cycleService *catalogapp.CycleService
}

// NewCycleHandler creates a new CycleHandler
func NewCycleHandler(cycleService *catalogapp.CycleService) *CycleHandler {
	return &CycleHandler{cycleService: cycleService}
}

// List returns all cycles ordered by company name
// GET /cycles
func (h *CycleHandler) List(c *gin.Context) {
	cycles, err := h.cycleService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cycles)
}

// Create opens a cycle for a company given by name
// POST /cycles
func (h *CycleHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCycleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cycle, err := h.cycleService.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cycle)
}

// Update renames or reschedules a cycle
// PUT /cycles/:id
func (h *CycleHandler) Update(c *gin.Context) {
	cycleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateCycleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cycle, err := h.cycleService.Update(c.Request.Context(), caller(c), cycleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cycle)
}

// Delete removes a cycle without products
// DELETE /cycles/:id
func (h *CycleHandler) Delete(c *gin.Context) {
	cycleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.cycleService.Delete(c.Request.Context(), caller(c), cycleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
