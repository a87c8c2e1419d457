package catalog

import (
	"time"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ==================== Company DTOs ====================

// CreateCompanyRequest represents a request to register a supplier company
type CreateCompanyRequest struct {
	RazaoSocial string `json:"razao_social" binding:"required,min=1,max=200"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID          int64     `json:"id"`
	RazaoSocial string    `json:"razao_social"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCompanyResponse converts a domain Company
func ToCompanyResponse(c *catalog.Company) CompanyResponse {
	return CompanyResponse{ID: c.ID, RazaoSocial: c.RazaoSocial, Active: c.Active, CreatedAt: c.CreatedAt}
}

// ==================== Cycle DTOs ====================

// CreateCycleRequest represents a request to open a catalog cycle for a company given by name
type CreateCycleRequest struct {
	CompanyName string    `json:"company_name" binding:"required,min=1,max=200"`
	Name        string    `json:"name" binding:"required,min=1,max=100"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// UpdateCycleRequest represents a request to rename or reschedule a cycle
type UpdateCycleRequest struct {
	Name      string    `json:"name" binding:"required,min=1,max=100"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// CycleResponse represents a cycle in API responses
type CycleResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CompanyID   int64     `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
	Open        bool      `json:"open"`
}

// ToCycleResponse converts a domain Cycle; companyName may be empty
func ToCycleResponse(c *catalog.Cycle, companyName string, now time.Time) CycleResponse {
	return CycleResponse{
		ID:          c.ID,
		Name:        c.Name,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		CompanyID:   c.CompanyID,
		CompanyName: companyName,
		Open:        c.IsOpenAt(now),
	}
}

// ==================== Product DTOs ====================

// CreateProductRequest represents a request to add a product to a cycle given by name
type CreateProductRequest struct {
	CycleName string          `json:"cycle_name" binding:"required,min=1,max=100"`
	Code      int64           `json:"code" binding:"required,gt=0"`
	Name      string          `json:"name" binding:"required,min=1,max=200"`
	Price     decimal.Decimal `json:"price"`
	Points    int             `json:"points" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name   string          `json:"name" binding:"required,min=1,max=200"`
	Price  decimal.Decimal `json:"price"`
	Points int             `json:"points" binding:"min=0"`
}

// ProductSearchFilter selects products. The first non-empty criterion wins
// in the order code, name, cycle, company.
type ProductSearchFilter struct {
	Code        int64  `form:"code"`
	Name        string `form:"name"`
	CycleName   string `form:"cycle"`
	CompanyName string `form:"company"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	Code      int64           `json:"code"`
	CycleID   int64           `json:"cycle_id"`
	CycleName string          `json:"cycle_name,omitempty"`
	CompanyID int64           `json:"company_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Points    int             `json:"points"`
	Approved  bool            `json:"approved"`
}

// ToProductResponse converts a domain Product; cycleName may be empty
func ToProductResponse(p *catalog.Product, cycleName string) ProductResponse {
	return ProductResponse{
		Code:      p.Code,
		CycleID:   p.CycleID,
		CycleName: cycleName,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		Price:     p.Price,
		Points:    p.Points,
		Approved:  p.Approved,
	}
}
