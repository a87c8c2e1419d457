// Package trade holds sales, the supplier orders consolidated from them and the
// rules that keep the two consistent.
package trade

import (
	"time"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/partner"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleLineItem is one product in a sale. Quantity is at least 1; a line whose
// quantity would reach 0 is deleted instead. Price is the product price when
// the line was first added.
type SaleLineItem struct {
	Key      SaleLineKey
	Quantity int
	Price    decimal.Decimal
}

// Subtotal returns Price x Quantity
func (l SaleLineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sale is a seller's sale to one customer of products from one company
type Sale struct {
	shared.BaseEntity
	CustomerID int64
	CompanyID  int64
	UserID     string
	SaleDate   time.Time
	DueDate    time.Time
	PaidAt     *time.Time
	// Total is the posted gross value. Null until the sale is finalized.
	Total      decimal.NullDecimal
	Discount   decimal.Decimal
	FinalValue decimal.NullDecimal
	Lines      []SaleLineItem
}

// NewSale creates an empty sale due on the last day of the current month
func NewSale(customer *partner.Customer, company *catalog.Company, userID string, now time.Time) *Sale {
	return &Sale{
		BaseEntity: shared.NewBaseEntity(now),
		CustomerID: customer.ID,
		CompanyID:  company.ID,
		UserID:     userID,
		SaleDate:   now,
		DueDate:    shared.EndOfMonth(now),
		Discount:   decimal.Zero,
	}
}

// ComputeFinalValue applies a discount to a gross value: total - discount when
// the discount is positive, otherwise total unchanged.
func ComputeFinalValue(total, discount decimal.Decimal) decimal.Decimal {
	if discount.IsPositive() {
		return total.Sub(discount)
	}
	return total
}

// TotalValue sums Price x Quantity over the current lines
func (s *Sale) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// FindLine returns the line for product, or nil
func (s *Sale) FindLine(product catalog.ProductKey) *SaleLineItem {
	key := NewSaleLineKey(product, s.ID)
	for i := range s.Lines {
		if s.Lines[i].Key == key {
			return &s.Lines[i]
		}
	}
	return nil
}

// AddLine adds one unit of product. A repeated product increments the existing
// line; a new product gets a line with quantity 1 priced at the current product price.
// created reports which of the two happened.
func (s *Sale) AddLine(product *catalog.Product, now time.Time) (line SaleLineItem, created bool, err error) {
	if product.CompanyID != s.CompanyID {
		return SaleLineItem{}, false, shared.NewValidationError("product %s does not belong to the sale's company", product.Key())
	}
	if existing := s.FindLine(product.Key()); existing != nil {
		existing.Quantity++
		s.Touch(now)
		return *existing, false, nil
	}
	line = SaleLineItem{
		Key:      NewSaleLineKey(product.Key(), s.ID),
		Quantity: 1,
		Price:    product.Price,
	}
	s.Lines = append(s.Lines, line)
	s.Touch(now)
	return line, true, nil
}

// RemoveLine removes one unit of product. When the quantity is already 1 the
// whole line is dropped and deleted reports true; line then carries the
// quantity it had before removal.
func (s *Sale) RemoveLine(product catalog.ProductKey, now time.Time) (line SaleLineItem, deleted bool, err error) {
	key := NewSaleLineKey(product, s.ID)
	for i := range s.Lines {
		if s.Lines[i].Key != key {
			continue
		}
		s.Touch(now)
		if s.Lines[i].Quantity > 1 {
			s.Lines[i].Quantity--
			return s.Lines[i], false, nil
		}
		line = s.Lines[i]
		s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
		return line, true, nil
	}
	return SaleLineItem{}, false, shared.NewNotFoundError("Sale line")
}

// ApplyDiscount records the discount. If a total was already posted the final
// value is recomputed so it never disagrees with the discount.
func (s *Sale) ApplyDiscount(discount decimal.Decimal, now time.Time) error {
	if discount.IsNegative() {
		return shared.NewValidationError("discount cannot be negative")
	}
	if s.Total.Valid && discount.GreaterThan(s.Total.Decimal) {
		return shared.NewValidationError("discount %s exceeds sale total %s", discount, s.Total.Decimal)
	}
	s.Discount = discount
	if s.Total.Valid {
		s.FinalValue = decimal.NewNullDecimal(ComputeFinalValue(s.Total.Decimal, discount))
	}
	s.Touch(now)
	return nil
}

// PostTotal posts the gross total and derives the final value from the current discount
func (s *Sale) PostTotal(total decimal.Decimal, now time.Time) error {
	if total.IsNegative() {
		return shared.NewValidationError("sale total cannot be negative")
	}
	if s.Discount.GreaterThan(total) {
		return shared.NewValidationError("discount %s exceeds sale total %s", s.Discount, total)
	}
	s.Total = decimal.NewNullDecimal(total)
	s.FinalValue = decimal.NewNullDecimal(ComputeFinalValue(total, s.Discount))
	s.Touch(now)
	return nil
}

// Finalize applies the discount and posts the current line total in one step
func (s *Sale) Finalize(discount decimal.Decimal, now time.Time) error {
	total := s.TotalValue()
	if discount.IsNegative() {
		return shared.NewValidationError("discount cannot be negative")
	}
	if discount.GreaterThan(total) {
		return shared.NewValidationError("discount %s exceeds sale total %s", discount, total)
	}
	s.Discount = discount
	return s.PostTotal(total, now)
}

// SaleDetails are the editable fields of a sale. Nil pointers leave a field unchanged.
type SaleDetails struct {
	Total     *decimal.Decimal
	Discount  *decimal.Decimal
	SaleDate  *time.Time
	DueDate   *time.Time
	PaidAt    *time.Time
	ClearPaid bool
}

// Update edits the sale and keeps the final value consistent with total and discount.
// paymentChanged reports whether the fields that drive customer scoring changed.
func (s *Sale) Update(d SaleDetails, now time.Time) (paymentChanged bool, err error) {
	total := s.Total
	if d.Total != nil {
		if d.Total.IsNegative() {
			return false, shared.NewValidationError("sale total cannot be negative")
		}
		total = decimal.NewNullDecimal(*d.Total)
	}
	discount := s.Discount
	if d.Discount != nil {
		if d.Discount.IsNegative() {
			return false, shared.NewValidationError("discount cannot be negative")
		}
		discount = *d.Discount
	}
	if total.Valid && discount.GreaterThan(total.Decimal) {
		return false, shared.NewValidationError("discount %s exceeds sale total %s", discount, total.Decimal)
	}
	saleDate, dueDate := s.SaleDate, s.DueDate
	if d.SaleDate != nil {
		saleDate = *d.SaleDate
	}
	if d.DueDate != nil {
		dueDate = *d.DueDate
	}
	if dueDate.Before(saleDate) {
		return false, shared.NewValidationError("due date cannot be before the sale date")
	}

	paymentChanged = !dueDate.Equal(s.DueDate)
	switch {
	case d.ClearPaid:
		paymentChanged = paymentChanged || s.PaidAt != nil
		s.PaidAt = nil
	case d.PaidAt != nil:
		paymentChanged = paymentChanged || s.PaidAt == nil || !s.PaidAt.Equal(*d.PaidAt)
		paid := *d.PaidAt
		s.PaidAt = &paid
	}

	s.Total = total
	s.Discount = discount
	if total.Valid {
		s.FinalValue = decimal.NewNullDecimal(ComputeFinalValue(total.Decimal, discount))
	}
	s.SaleDate = saleDate
	s.DueDate = dueDate
	s.Touch(now)
	return paymentChanged, nil
}

// RecordPayment marks the sale paid at the given instant
func (s *Sale) RecordPayment(at time.Time, now time.Time) error {
	if at.IsZero() {
		return shared.NewValidationError("payment date is required")
	}
	s.PaidAt = &at
	s.Touch(now)
	return nil
}

// IsPaid reports whether a payment date is set
func (s *Sale) IsPaid() bool {
	return s.PaidAt != nil
}

// PaymentRecord returns the scoring view of the sale
func (s *Sale) PaymentRecord() partner.PaymentRecord {
	return partner.PaymentRecord{DueDate: s.DueDate, PaidAt: s.PaidAt}
}

// PaymentRecords maps sales to their scoring view
func PaymentRecords(sales []Sale) []partner.PaymentRecord {
	records := make([]partner.PaymentRecord, len(sales))
	for i := range sales {
		records[i] = sales[i].PaymentRecord()
	}
	return records
}
