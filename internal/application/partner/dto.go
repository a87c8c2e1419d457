package partner

import (
	"time"

	"github.com/sarva/backend/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name     string     `json:"name" binding:"required,min=1,max=200"`
	Email    string     `json:"email" binding:"omitempty,email,max=200"`
	Birthday *time.Time `json:"birthday"`
}

// UpdateCustomerRequest represents a request to update a customer's contact details.
// The score tier is derived and cannot be set.
type UpdateCustomerRequest struct {
	Name     string     `json:"name" binding:"required,min=1,max=200"`
	Email    string     `json:"email" binding:"omitempty,email,max=200"`
	Birthday *time.Time `json:"birthday"`
}

// CustomerListFilter narrows customer listings
type CustomerListFilter struct {
	Name          string `form:"name"`
	BirthdayMonth int    `form:"birthday_month" binding:"omitempty,min=1,max=12"`
	BirthdayToday bool   `form:"birthday_today"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Score     string     `json:"score"`
	ScoreTier int        `json:"score_tier"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Birthday:  c.Birthday,
		Score:     c.ScoreTier.String(),
		ScoreTier: int(c.ScoreTier),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out
}
