package trade

import (
	"time"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplierShare is the fraction of consolidated sale value owed to the supplier
var SupplierShare = decimal.RequireFromString("0.7")

// OrderDueAfter is the payment term of a new order
const OrderDueAfter = 21 * 24 * time.Hour

// SupplierDue returns SupplierShare x price x quantity
func SupplierDue(price decimal.Decimal, quantity int) decimal.Decimal {
	return SupplierShare.Mul(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// OrderLineItem references one sale line. Price is the sale line price at the
// time it was added to the order.
type OrderLineItem struct {
	ID       int64
	OrderID  int64
	SaleLine SaleLineKey
	Price    decimal.Decimal
}

// Order consolidates sale lines of one company into a supplier purchase.
// Total is the amount payable to the supplier.
type Order struct {
	shared.BaseEntity
	CompanyID int64
	UserID    string
	OrderDate time.Time
	DueDate   time.Time
	Total     decimal.Decimal
	Lines     []OrderLineItem
}

// NewOrder creates an empty order due 21 days from now
func NewOrder(company *catalog.Company, userID string, now time.Time) *Order {
	return &Order{
		BaseEntity: shared.NewBaseEntity(now),
		CompanyID:  company.ID,
		UserID:     userID,
		OrderDate:  now,
		DueDate:    now.Add(OrderDueAfter),
		Total:      decimal.Zero,
	}
}

// LineKeys returns the set of sale lines already in the order
func (o *Order) LineKeys() SaleLineKeySet {
	set := make(SaleLineKeySet, len(o.Lines))
	for _, l := range o.Lines {
		set.Add(l.SaleLine)
	}
	return set
}

// HasLine reports whether the sale line is already in the order
func (o *Order) HasLine(key SaleLineKey) bool {
	for _, l := range o.Lines {
		if l.SaleLine == key {
			return true
		}
	}
	return false
}

// AddLine adds a sale line to the order and raises the total by its supplier due.
// Adding the same sale line twice is a conflict.
func (o *Order) AddLine(line SaleLineItem, saleCompanyID int64, now time.Time) (*OrderLineItem, error) {
	if saleCompanyID != o.CompanyID {
		return nil, shared.NewValidationError("sale line %s belongs to another company", line.Key)
	}
	if o.HasLine(line.Key) {
		return nil, shared.NewConflictError("sale line %s is already in order %d", line.Key, o.ID)
	}
	o.Lines = append(o.Lines, OrderLineItem{
		OrderID:  o.ID,
		SaleLine: line.Key,
		Price:    line.Price,
	})
	o.Total = o.Total.Add(SupplierDue(line.Price, line.Quantity))
	o.Touch(now)
	return &o.Lines[len(o.Lines)-1], nil
}

// RemoveLine drops an order line and lowers the total by its supplier due at
// the given underlying quantity.
func (o *Order) RemoveLine(lineID int64, quantity int, now time.Time) (OrderLineItem, error) {
	for i := range o.Lines {
		if o.Lines[i].ID != lineID {
			continue
		}
		removed := o.Lines[i]
		o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
		o.Total = o.Total.Sub(SupplierDue(removed.Price, quantity))
		o.Touch(now)
		return removed, nil
	}
	return OrderLineItem{}, shared.NewNotFoundError("Order line")
}

// ReverseSaleLine removes every line referencing a deleted sale line and lowers
// the total by SupplierShare x price x quantity for each, where quantity is the
// sale line quantity at the time of deletion.
func (o *Order) ReverseSaleLine(key SaleLineKey, quantity int, now time.Time) []OrderLineItem {
	var removed []OrderLineItem
	kept := o.Lines[:0]
	for _, l := range o.Lines {
		if l.SaleLine == key {
			removed = append(removed, l)
			o.Total = o.Total.Sub(SupplierDue(l.Price, quantity))
			continue
		}
		kept = append(kept, l)
	}
	o.Lines = kept
	if len(removed) > 0 {
		o.Touch(now)
	}
	return removed
}

// GrossValue sums price x underlying quantity over the order lines.
// quantities maps each referenced sale line to its current quantity.
func (o *Order) GrossValue(quantities map[SaleLineKey]int) decimal.Decimal {
	gross := decimal.Zero
	for _, l := range o.Lines {
		gross = gross.Add(l.Price.Mul(decimal.NewFromInt(int64(quantities[l.SaleLine]))))
	}
	return gross
}

// RecomputeTotal sets Total to the supplier due of the current lines. Returns
// true when the total changed.
func (o *Order) RecomputeTotal(quantities map[SaleLineKey]int, now time.Time) bool {
	total := SupplierShare.Mul(o.GrossValue(quantities))
	if total.Equal(o.Total) {
		return false
	}
	o.Total = total
	o.Touch(now)
	return true
}

// Finalize posts the payable total. Without an override it is the supplier due
// of the current lines; a caller-confirmed override replaces it.
func (o *Order) Finalize(quantities map[SaleLineKey]int, override *decimal.Decimal, now time.Time) error {
	if override != nil {
		if override.IsNegative() {
			return shared.NewValidationError("order total cannot be negative")
		}
		o.Total = *override
		o.Touch(now)
		return nil
	}
	o.Total = SupplierShare.Mul(o.GrossValue(quantities))
	o.Touch(now)
	return nil
}

// Reschedule changes the order and due dates
func (o *Order) Reschedule(orderDate, dueDate time.Time, now time.Time) error {
	if orderDate.IsZero() || dueDate.IsZero() {
		return shared.NewValidationError("order and due dates are required")
	}
	if dueDate.Before(orderDate) {
		return shared.NewValidationError("due date cannot be before the order date")
	}
	o.OrderDate = orderDate
	o.DueDate = dueDate
	o.Touch(now)
	return nil
}
