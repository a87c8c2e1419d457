package report

import (
	"github.com/sarva/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// ProfitReportResponse represents the profit of a seller with one company
type ProfitReportResponse struct {
	CompanyID   int64           `json:"company_id"`
	RazaoSocial string          `json:"razao_social"`
	TotalSales  int             `json:"total_sales"`
	PaidSales   int             `json:"paid_sales"`
	Obtained    decimal.Decimal `json:"valor_obtido"`
	Payable     decimal.Decimal `json:"valor_a_ser_pago"`
	Profit      decimal.Decimal `json:"lucro"`
}

// ToProfitReportResponse converts a domain ProfitReport
func ToProfitReportResponse(r report.ProfitReport) ProfitReportResponse {
	return ProfitReportResponse{
		CompanyID:   r.CompanyID,
		RazaoSocial: r.RazaoSocial,
		TotalSales:  r.TotalSales,
		PaidSales:   r.PaidSales,
		Obtained:    r.Obtained,
		Payable:     r.Payable,
		Profit:      r.Profit,
	}
}
