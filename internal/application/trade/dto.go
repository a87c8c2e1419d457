package trade

import (
	"time"

	"github.com/sarva/backend/internal/domain/partner"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// ==================== Sale DTOs ====================

// CreateSaleRequest opens an empty sale for a customer and a company, both given by name
type CreateSaleRequest struct {
	CustomerName string `json:"customer_name" binding:"required,min=1,max=200"`
	CompanyName  string `json:"company_name" binding:"required,min=1,max=200"`
}

// SaleLineRequest identifies a catalog product to add to or remove from a sale
type SaleLineRequest struct {
	ProductCode int64 `json:"product_code" binding:"required,gt=0"`
	CycleID     int64 `json:"cycle_id" binding:"required,gt=0"`
}

// DiscountRequest carries the discount of a sale
type DiscountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

// PostTotalRequest carries the gross total of a sale
type PostTotalRequest struct {
	Total decimal.Decimal `json:"total"`
}

// UpdateSaleRequest edits a sale. Nil fields are left unchanged.
type UpdateSaleRequest struct {
	Total     *decimal.Decimal `json:"total"`
	Discount  *decimal.Decimal `json:"discount"`
	SaleDate  *time.Time       `json:"sale_date"`
	DueDate   *time.Time       `json:"due_date"`
	PaidAt    *time.Time       `json:"paid_at"`
	ClearPaid bool             `json:"clear_paid"`
}

// PaymentRequest records a payment. A nil PaidAt means now.
type PaymentRequest struct {
	PaidAt *time.Time `json:"paid_at"`
}

// SaleListFilter narrows sale listings
type SaleListFilter struct {
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
	CustomerName string     `form:"customer"`
}

// SaleLineResponse is a sale line in API responses
type SaleLineResponse struct {
	ProductCode int64           `json:"product_code"`
	CycleID     int64           `json:"cycle_id"`
	SaleID      int64           `json:"sale_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse is a sale in API responses
type SaleResponse struct {
	ID            int64               `json:"id"`
	CustomerID    int64               `json:"customer_id"`
	CustomerName  string              `json:"customer_name,omitempty"`
	CustomerScore string              `json:"customer_score,omitempty"`
	CompanyID     int64               `json:"company_id"`
	SaleDate      time.Time           `json:"sale_date"`
	DueDate       time.Time           `json:"due_date"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	Total         decimal.NullDecimal `json:"total"`
	Discount      decimal.Decimal     `json:"discount"`
	FinalValue    decimal.NullDecimal `json:"final_value"`
	LineTotal     decimal.Decimal     `json:"line_total"`
	Lines         []SaleLineResponse  `json:"lines,omitempty"`
}

// ToSaleLineResponse maps a domain sale line
func ToSaleLineResponse(l trade.SaleLineItem) SaleLineResponse {
	return SaleLineResponse{
		ProductCode: l.Key.ProductCode,
		CycleID:     l.Key.CycleID,
		SaleID:      l.Key.SaleID,
		Quantity:    l.Quantity,
		Price:       l.Price,
		Subtotal:    l.Subtotal(),
	}
}

// ToSaleResponse maps a domain sale; customer may be nil
func ToSaleResponse(s *trade.Sale, customer *partner.Customer) SaleResponse {
	resp := SaleResponse{
		ID:         s.ID,
		CustomerID: s.CustomerID,
		CompanyID:  s.CompanyID,
		SaleDate:   s.SaleDate,
		DueDate:    s.DueDate,
		PaidAt:     s.PaidAt,
		Total:      s.Total,
		Discount:   s.Discount,
		FinalValue: s.FinalValue,
		LineTotal:  s.TotalValue(),
	}
	if customer != nil {
		resp.CustomerName = customer.Name
		resp.CustomerScore = customer.ScoreTier.String()
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, ToSaleLineResponse(l))
	}
	return resp
}

// ToSaleResponses maps a list of sales without customer details
func ToSaleResponses(sales []trade.Sale) []SaleResponse {
	out := make([]SaleResponse, len(sales))
	for i := range sales {
		out[i] = ToSaleResponse(&sales[i], nil)
	}
	return out
}

// ==================== Order DTOs ====================

// CreateOrderRequest opens an empty order for a company given by name
type CreateOrderRequest struct {
	CompanyName string `json:"company_name" binding:"required,min=1,max=200"`
}

// AddOrderLineRequest selects a sale line to consolidate into an order
type AddOrderLineRequest struct {
	ProductCode int64 `json:"product_code" binding:"required,gt=0"`
	CycleID     int64 `json:"cycle_id" binding:"required,gt=0"`
	SaleID      int64 `json:"sale_id" binding:"required,gt=0"`
}

// Key returns the sale line key the request refers to
func (r AddOrderLineRequest) Key() trade.SaleLineKey {
	return trade.SaleLineKey{ProductCode: r.ProductCode, CycleID: r.CycleID, SaleID: r.SaleID}
}

// FinalizeOrderRequest posts the order total. A nil Total posts the computed supplier due.
type FinalizeOrderRequest struct {
	Total *decimal.Decimal `json:"total"`
}

// UpdateOrderRequest reschedules an order
type UpdateOrderRequest struct {
	OrderDate time.Time `json:"order_date" binding:"required"`
	DueDate   time.Time `json:"due_date" binding:"required"`
}

// OrderListFilter narrows order listings
type OrderListFilter struct {
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	CompanyName string     `form:"company"`
}

// AvailableLinesFilter narrows the sale lines offered for an order
type AvailableLinesFilter struct {
	SaleID       int64  `form:"sale_id"`
	CustomerName string `form:"customer"`
}

// OrderLineResponse is an order line in API responses
type OrderLineResponse struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductCode int64           `json:"product_code"`
	CycleID     int64           `json:"cycle_id"`
	SaleID      int64           `json:"sale_id"`
	Price       decimal.Decimal `json:"price"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID        int64               `json:"id"`
	CompanyID int64               `json:"company_id"`
	OrderDate time.Time           `json:"order_date"`
	DueDate   time.Time           `json:"due_date"`
	Total     decimal.Decimal     `json:"total"`
	Lines     []OrderLineResponse `json:"lines,omitempty"`
}

// AvailableLineResponse is a sale line that can be added to an order
type AvailableLineResponse struct {
	SaleLineResponse
	CustomerName string    `json:"customer_name"`
	ProductName  string    `json:"product_name"`
	CycleName    string    `json:"cycle_name"`
	CycleEnd     time.Time `json:"cycle_end"`
	InOrder      bool      `json:"in_order"`
}

// OrderLineDetailResponse is one detailed line of an order summary
type OrderLineDetailResponse struct {
	OrderLineID  int64           `json:"order_line_id"`
	SaleID       int64           `json:"sale_id"`
	ProductCode  int64           `json:"product_code"`
	CustomerName string          `json:"customer_name"`
	ProductName  string          `json:"product_name"`
	CycleName    string          `json:"cycle_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Value        decimal.Decimal `json:"value"`
}

// ProductGroupResponse sums the quantity of one product across an order
type ProductGroupResponse struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// OrderSummaryResponse is the read-only consolidation report of an order
type OrderSummaryResponse struct {
	OrderID     int64                     `json:"order_id"`
	Lines       []OrderLineDetailResponse `json:"lines"`
	Products    []ProductGroupResponse    `json:"products"`
	GrossTotal  decimal.Decimal           `json:"gross_total"`
	SupplierDue decimal.Decimal           `json:"supplier_due"`
	Posted      decimal.Decimal           `json:"posted"`
}

// ToOrderResponse maps a domain order
func ToOrderResponse(o *trade.Order) OrderResponse {
	resp := OrderResponse{
		ID:        o.ID,
		CompanyID: o.CompanyID,
		OrderDate: o.OrderDate,
		DueDate:   o.DueDate,
		Total:     o.Total,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, ToOrderLineResponse(l))
	}
	return resp
}

// ToOrderResponses maps a list of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

// ToOrderLineResponse maps a domain order line
func ToOrderLineResponse(l trade.OrderLineItem) OrderLineResponse {
	return OrderLineResponse{
		ID:          l.ID,
		OrderID:     l.OrderID,
		ProductCode: l.SaleLine.ProductCode,
		CycleID:     l.SaleLine.CycleID,
		SaleID:      l.SaleLine.SaleID,
		Price:       l.Price,
	}
}

// ToAvailableLineResponse maps an available sale line
func ToAvailableLineResponse(a trade.AvailableLine) AvailableLineResponse {
	return AvailableLineResponse{
		SaleLineResponse: ToSaleLineResponse(a.Line),
		CustomerName:     a.CustomerName,
		ProductName:      a.ProductName,
		CycleName:        a.CycleName,
		CycleEnd:         a.CycleEnd,
		InOrder:          a.InOrder,
	}
}

// ToOrderSummaryResponse maps an order summary
func ToOrderSummaryResponse(s trade.OrderSummary) OrderSummaryResponse {
	resp := OrderSummaryResponse{
		OrderID:     s.OrderID,
		Lines:       make([]OrderLineDetailResponse, len(s.Lines)),
		Products:    make([]ProductGroupResponse, len(s.Products)),
		GrossTotal:  s.GrossTotal,
		SupplierDue: s.SupplierDue,
		Posted:      s.Posted,
	}
	for i, l := range s.Lines {
		resp.Lines[i] = OrderLineDetailResponse{
			OrderLineID:  l.OrderLineID,
			SaleID:       l.SaleID,
			ProductCode:  l.ProductCode,
			CustomerName: l.CustomerName,
			ProductName:  l.ProductName,
			CycleName:    l.CycleName,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Value:        l.Value,
		}
	}
	for i, p := range s.Products {
		resp.Products[i] = ProductGroupResponse{ProductName: p.ProductName, Quantity: p.Quantity}
	}
	return resp
}

// DeletionSummary counts the rows removed by a cascading delete
type DeletionSummary struct {
	Sales          int `json:"sales"`
	SaleLines      int `json:"sale_lines"`
	OrderLines     int `json:"order_lines"`
	OrdersAdjusted int `json:"orders_adjusted"`
}

// deletedRows names the rows counted by the summary, plus the cascade's root row
func (d DeletionSummary) deletedRows(root telemetry.CascadeRoot) map[string]int {
	rows := map[string]int{
		"sales":       d.Sales,
		"sale_lines":  d.SaleLines,
		"order_lines": d.OrderLines,
	}
	switch root {
	case telemetry.CascadeRootCustomer:
		rows["customers"] = 1
	case telemetry.CascadeRootOrder:
		rows["orders"] = 1
	}
	return rows
}

func (d *DeletionSummary) add(other DeletionSummary) {
	d.Sales += other.Sales
	d.SaleLines += other.SaleLines
	d.OrderLines += other.OrderLines
	d.OrdersAdjusted += other.OrdersAdjusted
}
