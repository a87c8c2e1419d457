package catalog

import (
	"context"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	FindByID(ctx context.Context, id int64) (*Company, error)
	// FindByRazaoSocial resolves a company by its exact display name
	FindByRazaoSocial(ctx context.Context, razaoSocial string) (*Company, error)
	// SearchActive returns active companies whose name contains the substring
	SearchActive(ctx context.Context, substring string) ([]Company, error)
	Save(ctx context.Context, company *Company) error
	Delete(ctx context.Context, id int64) error
}

// CycleRepository defines the interface for cycle persistence
type CycleRepository interface {
	FindByID(ctx context.Context, id int64) (*Cycle, error)
	// FindByName resolves a cycle by name. Returns the oldest match when names repeat.
	FindByName(ctx context.Context, name string) (*Cycle, error)
	// FindAllWithCompany lists every cycle ordered by company name, then start date
	FindAllWithCompany(ctx context.Context) ([]CycleListing, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Cycle, error)
	CountByCompany(ctx context.Context, companyID int64) (int64, error)
	Save(ctx context.Context, cycle *Cycle) error
	Delete(ctx context.Context, id int64) error
}

// ProductFilter narrows product searches. The first non-empty field wins,
// in declaration order.
type ProductFilter struct {
	Code        int64
	Name        string
	CycleName   string
	CompanyName string
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByKey(ctx context.Context, key ProductKey) (*Product, error)
	ExistsByKey(ctx context.Context, key ProductKey) (bool, error)
	Search(ctx context.Context, filter ProductFilter) ([]Product, error)
	CountByCycle(ctx context.Context, cycleID int64) (int64, error)
	CountByCompany(ctx context.Context, companyID int64) (int64, error)
	// Create inserts a new product
	Create(ctx context.Context, product *Product) error
	// Save updates an existing product
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, key ProductKey) error
}
