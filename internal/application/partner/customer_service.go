package partner

import (
	"context"

	apptrade "github.com/sarva/backend/internal/application/trade"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/partner"
	"github.com/sarva/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerDeleter removes a customer together with everything that depends on it
type CustomerDeleter interface {
	DeleteCustomer(ctx context.Context, id identity.Identity, customerID int64) (apptrade.DeletionSummary, error)
}

// CustomerService handles customer records and their risk tier
type CustomerService struct {
	scope   apptrade.TransactionScope
	deleter CustomerDeleter
	clock   shared.Clock
	logger  *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(scope apptrade.TransactionScope, deleter CustomerDeleter, clock shared.Clock, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{scope: scope, deleter: deleter, clock: clock, logger: logger}
}

// Create creates a customer owned by the caller with a Neutral tier
func (s *CustomerService) Create(ctx context.Context, id identity.Identity, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	customer, err := partner.NewCustomer(id.UserID, req.Name, req.Email, req.Birthday, s.clock.Now())
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		return repos.Customers().Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID returns one of the caller's customers
func (s *CustomerService) GetByID(ctx context.Context, id identity.Identity, customerID int64) (*CustomerResponse, error) {
	var resp CustomerResponse
	err := s.withCustomer(ctx, id, customerID, func(_ apptrade.TransactionalRepositories, c *partner.Customer) error {
		resp = ToCustomerResponse(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update changes a customer's contact details
func (s *CustomerService) Update(ctx context.Context, id identity.Identity, customerID int64, req UpdateCustomerRequest) (*CustomerResponse, error) {
	var resp CustomerResponse
	err := s.withCustomer(ctx, id, customerID, func(repos apptrade.TransactionalRepositories, c *partner.Customer) error {
		if err := c.Update(req.Name, req.Email, req.Birthday, s.clock.Now()); err != nil {
			return err
		}
		if err := repos.Customers().Save(ctx, c); err != nil {
			return err
		}
		resp = ToCustomerResponse(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the caller's customers. It does not touch scores.
func (s *CustomerService) List(ctx context.Context, id identity.Identity, filter CustomerListFilter) ([]CustomerResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	var customers []partner.Customer
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		customers, err = repos.Customers().FindByUser(ctx, id.UserID, partner.CustomerFilter{
			Name:          filter.Name,
			BirthdayMonth: filter.BirthdayMonth,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if filter.BirthdayToday {
		today := s.clock.Now()
		var kept []partner.Customer
		for _, c := range customers {
			if c.HasBirthdayOn(today) {
				kept = append(kept, c)
			}
		}
		customers = kept
	}
	return ToCustomerResponses(customers), nil
}

// Search returns the caller's customers whose name contains substring
func (s *CustomerService) Search(ctx context.Context, id identity.Identity, substring string) ([]CustomerResponse, error) {
	return s.List(ctx, id, CustomerListFilter{Name: substring})
}

// RecomputeScore reclassifies one customer from their sales
func (s *CustomerService) RecomputeScore(ctx context.Context, id identity.Identity, customerID int64) (*CustomerResponse, error) {
	var resp CustomerResponse
	err := s.withCustomer(ctx, id, customerID, func(repos apptrade.TransactionalRepositories, c *partner.Customer) error {
		tier, err := apptrade.RefreshScore(ctx, repos, c.ID, s.clock.Now())
		if err != nil {
			return err
		}
		c.ScoreTier = tier
		resp = ToCustomerResponse(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecomputeScores reclassifies every customer of the caller in one transaction
func (s *CustomerService) RecomputeScores(ctx context.Context, id identity.Identity) ([]CustomerResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	var resp []CustomerResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		customers, err := repos.Customers().FindByUser(ctx, id.UserID, partner.CustomerFilter{})
		if err != nil {
			return err
		}
		now := s.clock.Now()
		for i := range customers {
			tier, err := apptrade.RefreshScore(ctx, repos, customers[i].ID, now)
			if err != nil {
				return err
			}
			customers[i].ScoreTier = tier
		}
		resp = ToCustomerResponses(customers)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Customer scores recomputed", zap.String("user_id", id.UserID), zap.Int("customers", len(resp)))
	return resp, nil
}

// Delete removes the customer with all their sales
func (s *CustomerService) Delete(ctx context.Context, id identity.Identity, customerID int64) (apptrade.DeletionSummary, error) {
	return s.deleter.DeleteCustomer(ctx, id, customerID)
}

func (s *CustomerService) withCustomer(ctx context.Context, id identity.Identity, customerID int64, fn func(repos apptrade.TransactionalRepositories, c *partner.Customer) error) error {
	if err := id.Require(); err != nil {
		return err
	}
	return s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		c, err := repos.Customers().FindByIDForUser(ctx, id.UserID, customerID)
		if err != nil {
			return err
		}
		return fn(repos, c)
	})
}
