package trade

import (
	"fmt"

	"github.com/sarva/backend/internal/domain/catalog"
)

// SaleLineKey is the natural identity of a sale line. Order lines reference
// sale lines by this key, so equality and set membership must be exact.
type SaleLineKey struct {
	ProductCode int64
	CycleID     int64
	SaleID      int64
}

// NewSaleLineKey builds a key from a product and a sale id
func NewSaleLineKey(product catalog.ProductKey, saleID int64) SaleLineKey {
	return SaleLineKey{ProductCode: product.Code, CycleID: product.CycleID, SaleID: saleID}
}

// ProductKey returns the product part of the key
func (k SaleLineKey) ProductKey() catalog.ProductKey {
	return catalog.ProductKey{Code: k.ProductCode, CycleID: k.CycleID}
}

// String returns "sale:code/cycle"
func (k SaleLineKey) String() string {
	return fmt.Sprintf("%d:%d/%d", k.SaleID, k.ProductCode, k.CycleID)
}

// SaleLineKeySet is a membership set of sale line keys
type SaleLineKeySet map[SaleLineKey]struct{}

// Add inserts k
func (s SaleLineKeySet) Add(k SaleLineKey) {
	s[k] = struct{}{}
}

// Contains reports whether k is in the set
func (s SaleLineKeySet) Contains(k SaleLineKey) bool {
	_, ok := s[k]
	return ok
}

// Keys returns the members in no particular order
func (s SaleLineKeySet) Keys() []SaleLineKey {
	keys := make([]SaleLineKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
