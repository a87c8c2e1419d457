package models

import (
	"time"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for the Company domain entity.
type CompanyModel struct {
	BaseModel
	RazaoSocial string `gorm:"type:varchar(200);not null;uniqueIndex"`
	OwnerUserID string `gorm:"type:varchar(100);index"`
	Active      bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company entity.
func (m *CompanyModel) ToDomain() *catalog.Company {
	return &catalog.Company{
		BaseEntity:  m.BaseModel.ToDomain(),
		RazaoSocial: m.RazaoSocial,
		OwnerUserID: m.OwnerUserID,
		Active:      m.Active,
	}
}

// FromDomain populates the persistence model from a domain Company entity.
func (m *CompanyModel) FromDomain(c *catalog.Company) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.RazaoSocial = c.RazaoSocial
	m.OwnerUserID = c.OwnerUserID
	m.Active = c.Active
}

// CycleModel is the persistence model for the Cycle domain entity.
type CycleModel struct {
	BaseModel
	Nome       string    `gorm:"type:varchar(100);not null;index"`
	DataInicio time.Time `gorm:"not null"`
	DataFim    time.Time `gorm:"not null"`
	CompanyID  int64     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CycleModel) TableName() string {
	return "cycles"
}

// ToDomain converts the persistence model to a domain Cycle entity.
func (m *CycleModel) ToDomain() *catalog.Cycle {
	return &catalog.Cycle{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Nome,
		StartDate:  m.DataInicio,
		EndDate:    m.DataFim,
		CompanyID:  m.CompanyID,
	}
}

// FromDomain populates the persistence model from a domain Cycle entity.
func (m *CycleModel) FromDomain(c *catalog.Cycle) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Nome = c.Name
	m.DataInicio = c.StartDate
	m.DataFim = c.EndDate
	m.CompanyID = c.CompanyID
}

// ProductModel is the persistence model for the Product domain entity.
// (codigo, cycle_id) is the primary key.
type ProductModel struct {
	Codigo    int64           `gorm:"primaryKey;autoIncrement:false"`
	CycleID   int64           `gorm:"primaryKey;autoIncrement:false"`
	CompanyID int64           `gorm:"not null;index"`
	Nome      string          `gorm:"type:varchar(200);not null"`
	Valor     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Pontos    int             `gorm:"not null;default:0"`
	Approved  bool            `gorm:"not null;default:false"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		Code:      m.Codigo,
		CycleID:   m.CycleID,
		CompanyID: m.CompanyID,
		Name:      m.Nome,
		Price:     m.Valor,
		Points:    m.Pontos,
		Approved:  m.Approved,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.Codigo = p.Code
	m.CycleID = p.CycleID
	m.CompanyID = p.CompanyID
	m.Nome = p.Name
	m.Valor = p.Price
	m.Pontos = p.Points
	m.Approved = p.Approved
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
