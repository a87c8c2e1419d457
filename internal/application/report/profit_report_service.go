package report

import (
	"context"
	"strings"

	apptrade "github.com/sarva/backend/internal/application/trade"
	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/report"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ProfitReportService builds per-company profit reports for the caller
type ProfitReportService struct {
	scope  apptrade.TransactionScope
	logger *zap.Logger
}

// NewProfitReportService creates a new ProfitReportService
func NewProfitReportService(scope apptrade.TransactionScope, logger *zap.Logger) *ProfitReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfitReportService{scope: scope, logger: logger}
}

// BuildProfitReport aggregates all of the caller's sales and orders with the company
func (s *ProfitReportService) BuildProfitReport(ctx context.Context, id identity.Identity, companyID int64) (*ProfitReportResponse, error) {
	return s.build(ctx, id, func(repos apptrade.TransactionalRepositories) (*catalog.Company, error) {
		return repos.Companies().FindByID(ctx, companyID)
	})
}

// BuildProfitReportByName resolves the company by its exact name first
func (s *ProfitReportService) BuildProfitReportByName(ctx context.Context, id identity.Identity, razaoSocial string) (*ProfitReportResponse, error) {
	name := strings.TrimSpace(razaoSocial)
	if name == "" {
		return nil, shared.NewValidationError("company name is required")
	}
	return s.build(ctx, id, func(repos apptrade.TransactionalRepositories) (*catalog.Company, error) {
		return repos.Companies().FindByRazaoSocial(ctx, name)
	})
}

func (s *ProfitReportService) build(
	ctx context.Context,
	id identity.Identity,
	resolve func(apptrade.TransactionalRepositories) (*catalog.Company, error),
) (*ProfitReportResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	var result report.ProfitReport
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		company, err := resolve(repos)
		if err != nil {
			return err
		}
		sales, err := repos.Sales().Find(ctx, trade.SaleFilter{UserID: id.UserID, CompanyID: company.ID})
		if err != nil {
			return err
		}
		orders, err := repos.Orders().Find(ctx, trade.OrderFilter{UserID: id.UserID, CompanyID: company.ID})
		if err != nil {
			return err
		}
		result = report.BuildProfitReport(company, id.UserID, sales, orders)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Profit report built",
		zap.Int64("company_id", result.CompanyID),
		zap.String("user_id", id.UserID),
		zap.String("profit", result.Profit.String()))
	resp := ToProfitReportResponse(result)
	return &resp, nil
}
