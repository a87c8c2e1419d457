// Package catalog holds supplier companies, their time-boxed catalog cycles and the products in them.
package catalog

import (
	"strings"
	"time"

	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/shared"
)

// Company is a supplier whose products are resold by sellers.
// RazaoSocial is the unique display name used to resolve the company from forms.
type Company struct {
	shared.BaseEntity
	RazaoSocial string
	OwnerUserID string
	Active      bool
}

// NewCompany creates a company. Admins create active companies; anyone else
// creates a pending one that an admin must approve.
func NewCompany(razaoSocial string, by identity.Identity, now time.Time) (*Company, error) {
	name := strings.TrimSpace(razaoSocial)
	if name == "" {
		return nil, shared.NewValidationError("razao social cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("razao social cannot exceed 200 characters")
	}
	return &Company{
		BaseEntity:  shared.NewBaseEntity(now),
		RazaoSocial: name,
		OwnerUserID: by.UserID,
		Active:      by.IsAdmin(),
	}, nil
}

// Approve activates a pending company
func (c *Company) Approve(now time.Time) {
	c.Active = true
	c.Touch(now)
}
