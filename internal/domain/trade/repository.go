package trade

import (
	"context"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/shared"
)

// SaleFilter narrows sale listings. Zero values disable a criterion.
type SaleFilter struct {
	UserID       string
	CustomerID   int64
	CompanyID    int64
	CustomerName string
	SaleDate     shared.DateRange
}

// SaleRepository persists sale headers. FindByIDForUser loads the lines too;
// Save writes only the header.
type SaleRepository interface {
	FindByIDForUser(ctx context.Context, userID string, id int64) (*Sale, error)
	Find(ctx context.Context, filter SaleFilter) ([]Sale, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]Sale, error)
	CountByCompany(ctx context.Context, companyID int64) (int64, error)
	Save(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, id int64) error
}

// SaleLineQuery selects sale line views for order building
type SaleLineQuery struct {
	UserID       string
	CompanyID    int64
	SaleID       int64
	CustomerName string
}

// SaleLineRepository persists sale lines
type SaleLineRepository interface {
	FindByKey(ctx context.Context, key SaleLineKey) (*SaleLineItem, error)
	FindBySale(ctx context.Context, saleID int64) ([]SaleLineItem, error)
	FindByKeys(ctx context.Context, keys []SaleLineKey) ([]SaleLineItem, error)
	FindViews(ctx context.Context, query SaleLineQuery) ([]SaleLineView, error)
	FindViewsByKeys(ctx context.Context, keys []SaleLineKey) ([]SaleLineView, error)
	CountByProduct(ctx context.Context, product catalog.ProductKey) (int64, error)
	// Save inserts the line or updates its quantity
	Save(ctx context.Context, line *SaleLineItem) error
	Delete(ctx context.Context, key SaleLineKey) error
}

// OrderFilter narrows order listings. Zero values disable a criterion.
type OrderFilter struct {
	UserID      string
	CompanyID   int64
	CompanyName string
	OrderDate   shared.DateRange
}

// OrderRepository persists order headers. FindByIDForUser and FindByIDs load
// the lines too; Save writes only the header.
type OrderRepository interface {
	FindByIDForUser(ctx context.Context, userID string, id int64) (*Order, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Order, error)
	Find(ctx context.Context, filter OrderFilter) ([]Order, error)
	CountByCompany(ctx context.Context, companyID int64) (int64, error)
	Save(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id int64) error
}

// OrderLineRepository persists order lines
type OrderLineRepository interface {
	FindByID(ctx context.Context, id int64) (*OrderLineItem, error)
	FindByOrder(ctx context.Context, orderID int64) ([]OrderLineItem, error)
	FindBySaleLine(ctx context.Context, key SaleLineKey) ([]OrderLineItem, error)
	// Create inserts the line and assigns its ID
	Create(ctx context.Context, line *OrderLineItem) error
	Delete(ctx context.Context, id int64) error
	DeleteByOrder(ctx context.Context, orderID int64) error
}
