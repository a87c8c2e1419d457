package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductKey identifies a product. Supplier codes repeat across cycles,
// so the code alone is not an identity.
type ProductKey struct {
	Code    int64
	CycleID int64
}

// String returns "code/cycle"
func (k ProductKey) String() string {
	return fmt.Sprintf("%d/%d", k.Code, k.CycleID)
}

// Product is a catalog entry of one cycle
type Product struct {
	Code      int64
	CycleID   int64
	CompanyID int64
	Name      string
	Price     decimal.Decimal
	Points    int
	Approved  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct creates a product inside cycle. Products created by an admin are
// approved immediately; sellers create pending products.
func NewProduct(cycle *Cycle, code int64, name string, price decimal.Decimal, points int, by identity.Identity, now time.Time) (*Product, error) {
	if code <= 0 {
		return nil, shared.NewValidationError("product code must be positive")
	}
	p := &Product{
		Code:      code,
		CycleID:   cycle.ID,
		CompanyID: cycle.CompanyID,
		Approved:  by.IsAdmin(),
		CreatedAt: now,
	}
	if err := p.Update(name, price, points, now); err != nil {
		return nil, err
	}
	return p, nil
}

// Key returns the product identity
func (p *Product) Key() ProductKey {
	return ProductKey{Code: p.Code, CycleID: p.CycleID}
}

// Update changes the descriptive fields and price
func (p *Product) Update(name string, price decimal.Decimal, points int, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("product name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewValidationError("product price cannot be negative")
	}
	if points < 0 {
		return shared.NewValidationError("product points cannot be negative")
	}
	p.Name = name
	p.Price = price
	p.Points = points
	p.UpdatedAt = now
	return nil
}
