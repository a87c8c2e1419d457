// Package report computes per-company figures from sales and orders.
package report

import (
	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ProfitReport compares what a seller collected from paid sales of one company
// against what the seller's orders owe that company, over all time.
type ProfitReport struct {
	CompanyID   int64
	RazaoSocial string
	UserID      string
	TotalSales  int
	PaidSales   int
	// Obtained is the sum of final values of paid sales
	Obtained decimal.Decimal
	// Payable is the sum of order totals
	Payable decimal.Decimal
	// Profit is Obtained - Payable. Negative means a loss.
	Profit decimal.Decimal
}

// BuildProfitReport aggregates the caller's sales and orders for company.
// Null sale final values count as zero.
func BuildProfitReport(company *catalog.Company, userID string, sales []trade.Sale, orders []trade.Order) ProfitReport {
	r := ProfitReport{
		CompanyID:   company.ID,
		RazaoSocial: company.RazaoSocial,
		UserID:      userID,
		TotalSales:  len(sales),
		Obtained:    decimal.Zero,
		Payable:     decimal.Zero,
	}
	for _, s := range sales {
		if !s.IsPaid() {
			continue
		}
		r.PaidSales++
		if s.FinalValue.Valid {
			r.Obtained = r.Obtained.Add(s.FinalValue.Decimal)
		}
	}
	for _, o := range orders {
		r.Payable = r.Payable.Add(o.Total)
	}
	r.Profit = r.Obtained.Sub(r.Payable)
	return r
}
