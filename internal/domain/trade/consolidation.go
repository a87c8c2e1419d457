package trade

import (
	"iter"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineView is a sale line joined with the names and cycle window needed to
// offer it for ordering or to describe it in an order summary.
type SaleLineView struct {
	Line         SaleLineItem
	CompanyID    int64
	CustomerName string
	ProductName  string
	CycleName    string
	CycleStart   time.Time
	CycleEnd     time.Time
}

// IsOrderableAt reports whether the product's cycle is open at t
func (v SaleLineView) IsOrderableAt(t time.Time) bool {
	return !t.Before(v.CycleStart) && !t.After(v.CycleEnd)
}

// AvailableLine is a sale line offered for an order, flagged when the order already holds it
type AvailableLine struct {
	SaleLineView
	InOrder bool
}

// AvailableLines yields the views whose cycle is open at now, each flagged with
// membership in inOrder. The sequence is stateless and may be ranged repeatedly.
func AvailableLines(views []SaleLineView, inOrder SaleLineKeySet, now time.Time) iter.Seq[AvailableLine] {
	return func(yield func(AvailableLine) bool) {
		for _, v := range views {
			if !v.IsOrderableAt(now) {
				continue
			}
			if !yield(AvailableLine{SaleLineView: v, InOrder: inOrder.Contains(v.Line.Key)}) {
				return
			}
		}
	}
}

// OrderLineDetail describes one order line with its underlying sale line
type OrderLineDetail struct {
	OrderLineID  int64
	SaleID       int64
	ProductCode  int64
	CustomerName string
	ProductName  string
	CycleName    string
	Quantity     int
	UnitPrice    decimal.Decimal
	Value        decimal.Decimal
}

// ProductGroup is the summed quantity of one product name across an order
type ProductGroup struct {
	ProductName string
	Quantity    int
}

// OrderSummary is a read-only breakdown of an order
type OrderSummary struct {
	OrderID     int64
	Lines       []OrderLineDetail
	Products    []ProductGroup
	GrossTotal  decimal.Decimal
	SupplierDue decimal.Decimal
	// Posted is the stored order total, which may differ from SupplierDue after an override
	Posted decimal.Decimal
}

// Summarize builds the order summary from its lines and the views of the sale
// lines they reference. Lines whose sale line is missing are skipped.
func Summarize(order *Order, views []SaleLineView) OrderSummary {
	byKey := make(map[SaleLineKey]SaleLineView, len(views))
	for _, v := range views {
		byKey[v.Line.Key] = v
	}

	summary := OrderSummary{
		OrderID:    order.ID,
		GrossTotal: decimal.Zero,
		Posted:     order.Total,
	}
	quantities := make(map[string]int)
	for _, l := range order.Lines {
		v, ok := byKey[l.SaleLine]
		if !ok {
			continue
		}
		value := l.Price.Mul(decimal.NewFromInt(int64(v.Line.Quantity)))
		summary.Lines = append(summary.Lines, OrderLineDetail{
			OrderLineID:  l.ID,
			SaleID:       l.SaleLine.SaleID,
			ProductCode:  l.SaleLine.ProductCode,
			CustomerName: v.CustomerName,
			ProductName:  v.ProductName,
			CycleName:    v.CycleName,
			Quantity:     v.Line.Quantity,
			UnitPrice:    l.Price,
			Value:        value,
		})
		summary.GrossTotal = summary.GrossTotal.Add(value)
		quantities[v.ProductName] += v.Line.Quantity
	}

	for name, qty := range quantities {
		summary.Products = append(summary.Products, ProductGroup{ProductName: name, Quantity: qty})
	}
	sort.Slice(summary.Products, func(i, j int) bool {
		return summary.Products[i].ProductName < summary.Products[j].ProductName
	})
	summary.SupplierDue = SupplierShare.Mul(summary.GrossTotal)
	return summary
}

// QuantitiesOf indexes sale line quantities by key
func QuantitiesOf(lines []SaleLineItem) map[SaleLineKey]int {
	q := make(map[SaleLineKey]int, len(lines))
	for _, l := range lines {
		q[l.Key] = l.Quantity
	}
	return q
}
