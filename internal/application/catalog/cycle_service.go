package catalog

import (
	"context"

	apptrade "github.com/sarva/backend/internal/application/trade"
	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CycleService handles catalog cycles
type CycleService struct {
	scope  apptrade.TransactionScope
	clock  shared.Clock
	logger *zap.Logger
}

// NewCycleService creates a new CycleService
func NewCycleService(scope apptrade.TransactionScope, clock shared.Clock, logger *zap.Logger) *CycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CycleService{scope: scope, clock: clock, logger: logger}
}

// Create opens a cycle for the company named in the request
func (s *CycleService) Create(ctx context.Context, id identity.Identity, req CreateCycleRequest) (*CycleResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var resp CycleResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		company, err := repos.Companies().FindByRazaoSocial(ctx, req.CompanyName)
		if shared.IsNotFound(err) {
			return shared.NewValidationError("company %q does not exist", req.CompanyName)
		}
		if err != nil {
			return err
		}
		cycle, err := catalog.NewCycle(company.ID, req.Name, req.StartDate, req.EndDate, now)
		if err != nil {
			return err
		}
		if err := repos.Cycles().Save(ctx, cycle); err != nil {
			return err
		}
		resp = ToCycleResponse(cycle, company.RazaoSocial, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update renames or reschedules a cycle
func (s *CycleService) Update(ctx context.Context, id identity.Identity, cycleID int64, req UpdateCycleRequest) (*CycleResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var resp CycleResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		cycle, err := repos.Cycles().FindByID(ctx, cycleID)
		if err != nil {
			return err
		}
		if err := cycle.Update(req.Name, req.StartDate, req.EndDate, now); err != nil {
			return err
		}
		if err := repos.Cycles().Save(ctx, cycle); err != nil {
			return err
		}
		resp = ToCycleResponse(cycle, "", now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns every cycle ordered by company name, then start date
func (s *CycleService) List(ctx context.Context) ([]CycleResponse, error) {
	now := s.clock.Now()
	var resp []CycleResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		listings, err := repos.Cycles().FindAllWithCompany(ctx)
		if err != nil {
			return err
		}
		resp = make([]CycleResponse, len(listings))
		for i := range listings {
			resp[i] = ToCycleResponse(&listings[i].Cycle, listings[i].CompanyName, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes a cycle that holds no products
func (s *CycleService) Delete(ctx context.Context, id identity.Identity, cycleID int64) error {
	if err := id.Require(); err != nil {
		return err
	}
	return s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		cycle, err := repos.Cycles().FindByID(ctx, cycleID)
		if err != nil {
			return err
		}
		n, err := repos.Products().CountByCycle(ctx, cycle.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return shared.NewConflictError("cycle %q still has %d products", cycle.Name, n)
		}
		return repos.Cycles().Delete(ctx, cycle.ID)
	})
}
