package partner

import (
	"context"
)

// CustomerFilter narrows customer listings
type CustomerFilter struct {
	// Name matches customers whose name contains the substring
	Name string
	// BirthdayMonth selects customers born in that month (1-12), zero disables
	BirthdayMonth int
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*Customer, error)
	// FindByIDForUser returns NotFound when the customer belongs to another user
	FindByIDForUser(ctx context.Context, userID string, id int64) (*Customer, error)
	// FindByName resolves a customer of userID by exact name
	FindByName(ctx context.Context, userID, name string) (*Customer, error)
	FindByUser(ctx context.Context, userID string, filter CustomerFilter) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id int64) error
}
