package catalog

import (
	"strings"
	"time"

	"github.com/sarva/backend/internal/domain/shared"
)

// Cycle is a catalog window of one company. Its products are orderable only
// while the current time lies inside [StartDate, EndDate].
type Cycle struct {
	shared.BaseEntity
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CompanyID int64
}

// CycleListing is a cycle together with its company's display name
type CycleListing struct {
	Cycle
	CompanyName string
}

// NewCycle creates a cycle for the given company
func NewCycle(companyID int64, name string, start, end time.Time, now time.Time) (*Cycle, error) {
	c := &Cycle{
		BaseEntity: shared.NewBaseEntity(now),
		CompanyID:  companyID,
	}
	if err := c.Update(name, start, end, now); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the name and window
func (c *Cycle) Update(name string, start, end time.Time, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("cycle name cannot be empty")
	}
	if start.IsZero() || end.IsZero() {
		return shared.NewValidationError("cycle start and end dates are required")
	}
	if end.Before(start) {
		return shared.NewValidationError("cycle end date cannot be before its start date")
	}
	c.Name = name
	c.StartDate = start
	c.EndDate = end
	c.Touch(now)
	return nil
}

// IsOpenAt reports whether t lies within the cycle window, both ends inclusive.
func (c *Cycle) IsOpenAt(t time.Time) bool {
	return !t.Before(c.StartDate) && !t.After(c.EndDate)
}
