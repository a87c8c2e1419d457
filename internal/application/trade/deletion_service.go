package trade

import (
	"context"
	"time"

	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/partner"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DeletionService runs the cascading deletes of sales, customers and orders.
// Each cascade is one transaction: every row goes or none does.
type DeletionService struct {
	scope           TransactionScope
	clock           shared.Clock
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewDeletionService creates a new DeletionService
func NewDeletionService(scope TransactionScope, clock shared.Clock, logger *zap.Logger) *DeletionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeletionService{scope: scope, clock: clock, logger: logger}
}

// SetBusinessMetrics sets the business metrics collector
func (s *DeletionService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

func (s *DeletionService) recordCascade(ctx context.Context, root telemetry.CascadeRoot, summary DeletionSummary) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordCascadeDelete(ctx, root, summary.deletedRows(root))
	}
}

// DeleteSale removes a sale with its lines, reversing their share of every order first
func (s *DeletionService) DeleteSale(ctx context.Context, id identity.Identity, saleID int64) (DeletionSummary, error) {
	if err := id.Require(); err != nil {
		return DeletionSummary{}, err
	}
	var summary DeletionSummary
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.Sales().FindByIDForUser(ctx, id.UserID, saleID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		summary, err = CascadeDeleteSale(ctx, repos, sale, now)
		if err != nil {
			return err
		}
		_, err = RefreshScore(ctx, repos, sale.CustomerID, now)
		return err
	})
	if err != nil {
		return DeletionSummary{}, err
	}
	s.logger.Info("Sale deleted",
		zap.Int64("sale_id", saleID),
		zap.Int("sale_lines", summary.SaleLines),
		zap.Int("order_lines", summary.OrderLines),
		zap.Int("orders_adjusted", summary.OrdersAdjusted),
	)
	s.recordCascade(ctx, telemetry.CascadeRootSale, summary)
	return summary, nil
}

// DeleteCustomer removes a customer and cascades through all their sales
func (s *DeletionService) DeleteCustomer(ctx context.Context, id identity.Identity, customerID int64) (DeletionSummary, error) {
	if err := id.Require(); err != nil {
		return DeletionSummary{}, err
	}
	var summary DeletionSummary
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.Customers().FindByIDForUser(ctx, id.UserID, customerID)
		if err != nil {
			return err
		}
		summary, err = CascadeDeleteCustomer(ctx, repos, customer, s.clock.Now())
		return err
	})
	if err != nil {
		return DeletionSummary{}, err
	}
	s.logger.Info("Customer deleted",
		zap.Int64("customer_id", customerID),
		zap.Int("sales", summary.Sales),
		zap.Int("order_lines", summary.OrderLines),
		zap.Int("orders_adjusted", summary.OrdersAdjusted),
	)
	s.recordCascade(ctx, telemetry.CascadeRootCustomer, summary)
	return summary, nil
}

// DeleteOrder removes an order and its lines. The sale lines stay untouched.
func (s *DeletionService) DeleteOrder(ctx context.Context, id identity.Identity, orderID int64) (DeletionSummary, error) {
	if err := id.Require(); err != nil {
		return DeletionSummary{}, err
	}
	var summary DeletionSummary
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByIDForUser(ctx, id.UserID, orderID)
		if err != nil {
			return err
		}
		summary, err = CascadeDeleteOrder(ctx, repos, order)
		return err
	})
	if err != nil {
		return DeletionSummary{}, err
	}
	s.logger.Info("Order deleted", zap.Int64("order_id", orderID), zap.Int("order_lines", summary.OrderLines))
	s.recordCascade(ctx, telemetry.CascadeRootOrder, summary)
	return summary, nil
}

// CascadeDeleteSale deletes every line of the sale through RemoveSaleLine and then the sale
func CascadeDeleteSale(ctx context.Context, repos TransactionalRepositories, sale *trade.Sale, now time.Time) (DeletionSummary, error) {
	var summary DeletionSummary
	for _, line := range sale.Lines {
		removed, err := RemoveSaleLine(ctx, repos, line, now)
		if err != nil {
			return DeletionSummary{}, err
		}
		summary.add(removed)
	}
	if err := repos.Sales().Delete(ctx, sale.ID); err != nil {
		return DeletionSummary{}, err
	}
	summary.Sales++
	return summary, nil
}

// CascadeDeleteCustomer deletes all sales of the customer and then the customer
func CascadeDeleteCustomer(ctx context.Context, repos TransactionalRepositories, customer *partner.Customer, now time.Time) (DeletionSummary, error) {
	sales, err := repos.Sales().FindByCustomer(ctx, customer.ID)
	if err != nil {
		return DeletionSummary{}, err
	}
	var summary DeletionSummary
	for i := range sales {
		sale := &sales[i]
		if sale.Lines, err = repos.SaleLines().FindBySale(ctx, sale.ID); err != nil {
			return DeletionSummary{}, err
		}
		removed, err := CascadeDeleteSale(ctx, repos, sale, now)
		if err != nil {
			return DeletionSummary{}, err
		}
		summary.add(removed)
	}
	if err := repos.Customers().Delete(ctx, customer.ID); err != nil {
		return DeletionSummary{}, err
	}
	return summary, nil
}

// CascadeDeleteOrder deletes the order lines and then the order
func CascadeDeleteOrder(ctx context.Context, repos TransactionalRepositories, order *trade.Order) (DeletionSummary, error) {
	if err := repos.OrderLines().DeleteByOrder(ctx, order.ID); err != nil {
		return DeletionSummary{}, err
	}
	if err := repos.Orders().Delete(ctx, order.ID); err != nil {
		return DeletionSummary{}, err
	}
	return DeletionSummary{OrderLines: len(order.Lines)}, nil
}

// RemoveSaleLine deletes a sale line. Every order holding it first loses the
// order lines that reference it and has its total lowered by
// SupplierShare x price x line.Quantity, line.Quantity being the quantity at
// the time of deletion.
func RemoveSaleLine(ctx context.Context, repos TransactionalRepositories, line trade.SaleLineItem, now time.Time) (DeletionSummary, error) {
	orders, err := ordersReferencing(ctx, repos, line.Key)
	if err != nil {
		return DeletionSummary{}, err
	}
	summary := DeletionSummary{SaleLines: 1}
	for i := range orders {
		order := &orders[i]
		removed := order.ReverseSaleLine(line.Key, line.Quantity, now)
		if len(removed) == 0 {
			continue
		}
		for _, ol := range removed {
			if err := repos.OrderLines().Delete(ctx, ol.ID); err != nil {
				return DeletionSummary{}, err
			}
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return DeletionSummary{}, err
		}
		summary.OrderLines += len(removed)
		summary.OrdersAdjusted++
	}
	if err := repos.SaleLines().Delete(ctx, line.Key); err != nil {
		return DeletionSummary{}, err
	}
	return summary, nil
}

// RecomputeOrdersForSaleLine recomputes the total of every order holding the
// sale line. It runs after the line's quantity changed.
func RecomputeOrdersForSaleLine(ctx context.Context, repos TransactionalRepositories, key trade.SaleLineKey, now time.Time) (int, error) {
	orders, err := ordersReferencing(ctx, repos, key)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range orders {
		order := &orders[i]
		quantities, err := lineQuantities(ctx, repos, order)
		if err != nil {
			return 0, err
		}
		if !order.RecomputeTotal(quantities, now) {
			continue
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return 0, err
		}
		changed++
	}
	return changed, nil
}

// ordersReferencing loads, with their lines, the orders that hold the sale line
func ordersReferencing(ctx context.Context, repos TransactionalRepositories, key trade.SaleLineKey) ([]trade.Order, error) {
	refs, err := repos.OrderLines().FindBySaleLine(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	seen := make(map[int64]struct{}, len(refs))
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.OrderID]; ok {
			continue
		}
		seen[ref.OrderID] = struct{}{}
		ids = append(ids, ref.OrderID)
	}
	return repos.Orders().FindByIDs(ctx, ids)
}

// lineQuantities returns the current quantity of every sale line the order holds
func lineQuantities(ctx context.Context, repos TransactionalRepositories, order *trade.Order) (map[trade.SaleLineKey]int, error) {
	keys := order.LineKeys().Keys()
	if len(keys) == 0 {
		return map[trade.SaleLineKey]int{}, nil
	}
	lines, err := repos.SaleLines().FindByKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	return trade.QuantitiesOf(lines), nil
}
