package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/sarva/backend/internal/application/catalog"
)

// CompanyHandler handles supplier company endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *catalogapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *catalogapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Create registers a company. Admins create it active, everyone else pending.
// POST /companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// Search lists active companies whose name contains q
// GET /companies/search?q=
func (h *CompanyHandler) Search(c *gin.Context) {
	companies, err := h.companyService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, companies)
}

// Approve activates a pending company
// POST /companies/:id/approve
func (h *CompanyHandler) Approve(c *gin.Context) {
	companyID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.Approve(c.Request.Context(), caller(c), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// Delete removes a company nothing references
// DELETE /companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	companyID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), caller(c), companyID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
