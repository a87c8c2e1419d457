package catalog

import (
	"context"

	apptrade "github.com/sarva/backend/internal/application/trade"
	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CompanyService handles supplier company registration and approval
type CompanyService struct {
	scope  apptrade.TransactionScope
	clock  shared.Clock
	logger *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(scope apptrade.TransactionScope, clock shared.Clock, logger *zap.Logger) *CompanyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyService{scope: scope, clock: clock, logger: logger}
}

// Create registers a company. Admins create active companies, anyone else a pending one.
func (s *CompanyService) Create(ctx context.Context, id identity.Identity, req CreateCompanyRequest) (*CompanyResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	company, err := catalog.NewCompany(req.RazaoSocial, id, s.clock.Now())
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		if _, err := repos.Companies().FindByRazaoSocial(ctx, company.RazaoSocial); err == nil {
			return shared.NewConflictError("company %q already exists", company.RazaoSocial)
		} else if !shared.IsNotFound(err) {
			return err
		}
		return repos.Companies().Save(ctx, company)
	})
	if err != nil {
		return nil, err
	}
	if !company.Active {
		s.logger.Info("Company pending approval", zap.Int64("company_id", company.ID), zap.String("user_id", id.UserID))
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// Search lists active companies whose name contains substring
func (s *CompanyService) Search(ctx context.Context, substring string) ([]CompanyResponse, error) {
	var companies []catalog.Company
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		companies, err = repos.Companies().SearchActive(ctx, substring)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := make([]CompanyResponse, len(companies))
	for i := range companies {
		resp[i] = ToCompanyResponse(&companies[i])
	}
	return resp, nil
}

// Approve activates a pending company. Admin only.
func (s *CompanyService) Approve(ctx context.Context, id identity.Identity, companyID int64) (*CompanyResponse, error) {
	if err := id.RequireAdmin(); err != nil {
		return nil, err
	}
	var resp CompanyResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		company, err := repos.Companies().FindByID(ctx, companyID)
		if err != nil {
			return err
		}
		company.Approve(s.clock.Now())
		if err := repos.Companies().Save(ctx, company); err != nil {
			return err
		}
		resp = ToCompanyResponse(company)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a company that nothing references
func (s *CompanyService) Delete(ctx context.Context, id identity.Identity, companyID int64) error {
	if err := id.RequireAdmin(); err != nil {
		return err
	}
	return s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		company, err := repos.Companies().FindByID(ctx, companyID)
		if err != nil {
			return err
		}
		dependents := []struct {
			name  string
			count func(context.Context, int64) (int64, error)
		}{
			{"cycles", repos.Cycles().CountByCompany},
			{"products", repos.Products().CountByCompany},
			{"sales", repos.Sales().CountByCompany},
			{"orders", repos.Orders().CountByCompany},
		}
		for _, d := range dependents {
			n, err := d.count(ctx, company.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return shared.NewConflictError("company %q still has %d %s", company.RazaoSocial, n, d.name)
			}
		}
		return repos.Companies().Delete(ctx, company.ID)
	})
}
