package trade

import (
	"context"
	"time"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/partner"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService handles the sale ledger: lines, discount, final value and payment.
// Every mutation runs in one transaction together with the order totals and
// customer score it affects.
type SaleService struct {
	scope           TransactionScope
	clock           shared.Clock
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewSaleService creates a new SaleService
func NewSaleService(scope TransactionScope, clock shared.Clock, logger *zap.Logger) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{scope: scope, clock: clock, logger: logger}
}

// SetBusinessMetrics sets the business metrics collector
func (s *SaleService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateSale opens an empty sale due at the end of the current month
func (s *SaleService) CreateSale(ctx context.Context, id identity.Identity, req CreateSaleRequest) (*SaleResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	var resp SaleResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.Customers().FindByName(ctx, id.UserID, req.CustomerName)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewValidationError("customer %q not found", req.CustomerName)
			}
			return err
		}
		company, err := repos.Companies().FindByRazaoSocial(ctx, req.CompanyName)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewValidationError("company %q not found", req.CompanyName)
			}
			return err
		}

		now := s.clock.Now()
		sale := trade.NewSale(customer, company, id.UserID, now)
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}
		tier, err := RefreshScore(ctx, repos, customer.ID, now)
		if err != nil {
			return err
		}
		customer.ScoreTier = tier
		resp = ToSaleResponse(sale, customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderCreated(ctx, telemetry.OrderTypeSale, resp.CompanyID)
	}
	return &resp, nil
}

// GetSale returns a sale with its lines and the customer's current tier
func (s *SaleService) GetSale(ctx context.Context, id identity.Identity, saleID int64) (*SaleResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	var resp SaleResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.Sales().FindByIDForUser(ctx, id.UserID, saleID)
		if err != nil {
			return err
		}
		customer, err := repos.Customers().FindByID(ctx, sale.CustomerID)
		if err != nil {
			return err
		}
		resp = ToSaleResponse(sale, customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSales lists the caller's sales. It is a pure read.
func (s *SaleService) ListSales(ctx context.Context, id identity.Identity, filter SaleListFilter) ([]SaleResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	var resp []SaleResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sales, err := repos.Sales().Find(ctx, trade.SaleFilter{
			UserID:       id.UserID,
			CustomerName: filter.CustomerName,
			SaleDate:     shared.DateRange{From: filter.From, To: filter.To},
		})
		if err != nil {
			return err
		}
		resp = ToSaleResponses(sales)
		return nil
	})
	return resp, err
}

// AddLine adds one unit of a product to the sale. A quantity change of a line
// already consolidated into orders recomputes those orders' totals.
func (s *SaleService) AddLine(ctx context.Context, id identity.Identity, saleID int64, req SaleLineRequest) (*SaleLineResponse, error) {
	var resp SaleLineResponse
	err := s.mutate(ctx, id, saleID, func(repos TransactionalRepositories, sale *trade.Sale) error {
		product, err := repos.Products().FindByKey(ctx, catalog.ProductKey{Code: req.ProductCode, CycleID: req.CycleID})
		if err != nil {
			return err
		}
		now := s.clock.Now()
		line, created, err := sale.AddLine(product, now)
		if err != nil {
			return err
		}
		if err := repos.SaleLines().Save(ctx, &line); err != nil {
			return err
		}
		if !created {
			if _, err := RecomputeOrdersForSaleLine(ctx, repos, line.Key, now); err != nil {
				return err
			}
		}
		resp = ToSaleLineResponse(line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveLine removes one unit of a product from the sale. The last unit deletes
// the line and reverses its share of every order holding it.
func (s *SaleService) RemoveLine(ctx context.Context, id identity.Identity, saleID int64, req SaleLineRequest) (*SaleResponse, error) {
	var resp SaleResponse
	err := s.mutate(ctx, id, saleID, func(repos TransactionalRepositories, sale *trade.Sale) error {
		now := s.clock.Now()
		line, deleted, err := sale.RemoveLine(catalog.ProductKey{Code: req.ProductCode, CycleID: req.CycleID}, now)
		if err != nil {
			return err
		}
		if deleted {
			if _, err := RemoveSaleLine(ctx, repos, line, now); err != nil {
				return err
			}
		} else {
			if err := repos.SaleLines().Save(ctx, &line); err != nil {
				return err
			}
			if _, err := RecomputeOrdersForSaleLine(ctx, repos, line.Key, now); err != nil {
				return err
			}
		}
		resp = ToSaleResponse(sale, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ApplyDiscount records the sale discount (first finalization step)
func (s *SaleService) ApplyDiscount(ctx context.Context, id identity.Identity, saleID int64, req DiscountRequest) (*SaleResponse, error) {
	return s.saveHeader(ctx, id, saleID, func(sale *trade.Sale) error {
		return sale.ApplyDiscount(req.Discount, s.clock.Now())
	})
}

// PostTotal posts the gross total and derives the final value (second finalization step)
func (s *SaleService) PostTotal(ctx context.Context, id identity.Identity, saleID int64, req PostTotalRequest) (*SaleResponse, error) {
	resp, err := s.saveHeader(ctx, id, saleID, func(sale *trade.Sale) error {
		return sale.PostTotal(req.Total, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	s.recordFinalized(ctx, resp)
	return resp, nil
}

// Finalize applies the discount and posts the current line total in one step
func (s *SaleService) Finalize(ctx context.Context, id identity.Identity, saleID int64, req DiscountRequest) (*SaleResponse, error) {
	resp, err := s.saveHeader(ctx, id, saleID, func(sale *trade.Sale) error {
		return sale.Finalize(req.Discount, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Sale finalized",
		zap.Int64("sale_id", saleID),
		zap.String("total", resp.Total.Decimal.String()),
		zap.String("final_value", resp.FinalValue.Decimal.String()),
	)
	s.recordFinalized(ctx, resp)
	return resp, nil
}

func (s *SaleService) recordFinalized(ctx context.Context, resp *SaleResponse) {
	if s.businessMetrics != nil && resp.FinalValue.Valid {
		s.businessMetrics.RecordOrderWithAmount(ctx, telemetry.OrderTypeSale, resp.CompanyID, resp.FinalValue.Decimal)
	}
}

// TotalValue returns the sum of price x quantity over the sale lines
func (s *SaleService) TotalValue(ctx context.Context, id identity.Identity, saleID int64) (decimal.Decimal, error) {
	resp, err := s.GetSale(ctx, id, saleID)
	if err != nil {
		return decimal.Zero, err
	}
	return resp.LineTotal, nil
}

// UpdateSale edits the sale header. Payment or due date changes rescore the customer.
func (s *SaleService) UpdateSale(ctx context.Context, id identity.Identity, saleID int64, req UpdateSaleRequest) (*SaleResponse, error) {
	var resp SaleResponse
	err := s.mutate(ctx, id, saleID, func(repos TransactionalRepositories, sale *trade.Sale) error {
		now := s.clock.Now()
		paymentChanged, err := sale.Update(trade.SaleDetails{
			Total:     req.Total,
			Discount:  req.Discount,
			SaleDate:  req.SaleDate,
			DueDate:   req.DueDate,
			PaidAt:    req.PaidAt,
			ClearPaid: req.ClearPaid,
		}, now)
		if err != nil {
			return err
		}
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}
		customer, err := s.rescore(ctx, repos, sale.CustomerID, paymentChanged, now)
		if err != nil {
			return err
		}
		resp = ToSaleResponse(sale, customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordPayment marks the sale paid and rescores the customer
func (s *SaleService) RecordPayment(ctx context.Context, id identity.Identity, saleID int64, req PaymentRequest) (*SaleResponse, error) {
	var resp SaleResponse
	err := s.mutate(ctx, id, saleID, func(repos TransactionalRepositories, sale *trade.Sale) error {
		now := s.clock.Now()
		paidAt := now
		if req.PaidAt != nil {
			paidAt = *req.PaidAt
		}
		if err := sale.RecordPayment(paidAt, now); err != nil {
			return err
		}
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}
		customer, err := s.rescore(ctx, repos, sale.CustomerID, true, now)
		if err != nil {
			return err
		}
		resp = ToSaleResponse(sale, customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// mutate loads the caller's sale inside a transaction and hands it to fn
func (s *SaleService) mutate(ctx context.Context, id identity.Identity, saleID int64, fn func(repos TransactionalRepositories, sale *trade.Sale) error) error {
	if err := id.Require(); err != nil {
		return err
	}
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.Sales().FindByIDForUser(ctx, id.UserID, saleID)
		if err != nil {
			return err
		}
		return fn(repos, sale)
	})
}

// saveHeader applies change to the sale and saves its header
func (s *SaleService) saveHeader(ctx context.Context, id identity.Identity, saleID int64, change func(sale *trade.Sale) error) (*SaleResponse, error) {
	var resp SaleResponse
	err := s.mutate(ctx, id, saleID, func(repos TransactionalRepositories, sale *trade.Sale) error {
		if err := change(sale); err != nil {
			return err
		}
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}
		resp = ToSaleResponse(sale, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// rescore refreshes the customer's tier when payment data changed and returns the customer
func (s *SaleService) rescore(ctx context.Context, repos TransactionalRepositories, customerID int64, paymentChanged bool, now time.Time) (*partner.Customer, error) {
	if paymentChanged {
		if _, err := RefreshScore(ctx, repos, customerID, now); err != nil {
			return nil, err
		}
	}
	return repos.Customers().FindByID(ctx, customerID)
}
