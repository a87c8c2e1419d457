package models

import (
	"time"

	"github.com/sarva/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Nome        string `gorm:"type:varchar(200);not null;index"`
	Email       string `gorm:"type:varchar(200)"`
	Aniversario *time.Time
	UserID      string            `gorm:"type:varchar(100);not null;index"`
	ScoreTier   partner.ScoreTier `gorm:"type:smallint;not null;default:3"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Nome,
		Email:      m.Email,
		Birthday:   m.Aniversario,
		UserID:     m.UserID,
		ScoreTier:  m.ScoreTier,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Nome = c.Name
	m.Email = c.Email
	m.Aniversario = c.Birthday
	m.UserID = c.UserID
	m.ScoreTier = c.ScoreTier
}
