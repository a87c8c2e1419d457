// Package partner holds the customers sellers sell to and their payment-risk scoring.
package partner

import (
	"net/mail"
	"strings"
	"time"

	"github.com/sarva/backend/internal/domain/shared"
)

// Customer belongs to one seller. ScoreTier is derived from sale history
// and only changes through ApplyScore.
type Customer struct {
	shared.BaseEntity
	Name      string
	Email     string
	Birthday  *time.Time
	UserID    string
	ScoreTier ScoreTier
}

// NewCustomer creates a customer with a Neutral tier
func NewCustomer(userID, name, email string, birthday *time.Time, now time.Time) (*Customer, error) {
	c := &Customer{
		BaseEntity: shared.NewBaseEntity(now),
		UserID:     userID,
		ScoreTier:  ScoreNeutral,
	}
	if err := c.Update(name, email, birthday, now); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the contact details
func (c *Customer) Update(name, email string, birthday *time.Time, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("customer name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("invalid customer email %q", email)
		}
	}
	c.Name = name
	c.Email = email
	c.Birthday = birthday
	c.Touch(now)
	return nil
}

// ApplyScore stores a freshly classified tier. Returns true when it changed.
func (c *Customer) ApplyScore(tier ScoreTier, now time.Time) bool {
	if c.ScoreTier == tier {
		return false
	}
	c.ScoreTier = tier
	c.Touch(now)
	return true
}

// HasBirthdayOn reports whether the customer's birthday falls on the same day and month as t
func (c *Customer) HasBirthdayOn(t time.Time) bool {
	if c.Birthday == nil {
		return false
	}
	return c.Birthday.Month() == t.Month() && c.Birthday.Day() == t.Day()
}
