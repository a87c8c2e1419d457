package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	reportapp "github.com/sarva/backend/internal/application/report"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ProfitReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ProfitReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Profit returns the caller's profit report for one company. The company
// query parameter accepts either the company id or its razao social.
// GET /reports/profit?company=
func (h *ReportHandler) Profit(c *gin.Context) {
	company := c.Query("company")
	if company == "" {
		h.BadRequest(c, "company is required")
		return
	}

	var (
		report *reportapp.ProfitReportResponse
		err    error
	)
	if companyID, convErr := strconv.ParseInt(company, 10, 64); convErr == nil {
		report, err = h.reportService.BuildProfitReport(c.Request.Context(), caller(c), companyID)
	} else {
		report, err = h.reportService.BuildProfitReportByName(c.Request.Context(), caller(c), company)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
