package trade

import (
	"context"

	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService consolidates sale lines into supplier orders and keeps order
// totals equal to the supplier due of their lines.
type OrderService struct {
	scope           TransactionScope
	clock           shared.Clock
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewOrderService creates a new OrderService
func NewOrderService(scope TransactionScope, clock shared.Clock, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{scope: scope, clock: clock, logger: logger}
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateOrder opens an empty order for a company, due 21 days from now
func (s *OrderService) CreateOrder(ctx context.Context, id identity.Identity, req CreateOrderRequest) (*OrderResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	var resp OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		company, err := repos.Companies().FindByRazaoSocial(ctx, req.CompanyName)
		if err != nil {
			return err
		}
		order := trade.NewOrder(company, id.UserID, s.clock.Now())
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		resp = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderCreated(ctx, telemetry.OrderTypeSupplier, resp.CompanyID)
	}
	return &resp, nil
}

// GetOrder returns an order with its lines
func (s *OrderService) GetOrder(ctx context.Context, id identity.Identity, orderID int64) (*OrderResponse, error) {
	var resp OrderResponse
	err := s.withOrder(ctx, id, orderID, func(_ TransactionalRepositories, order *trade.Order) error {
		resp = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListOrders lists the caller's orders
func (s *OrderService) ListOrders(ctx context.Context, id identity.Identity, filter OrderListFilter) ([]OrderResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	var resp []OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.Orders().Find(ctx, trade.OrderFilter{
			UserID:      id.UserID,
			CompanyName: filter.CompanyName,
			OrderDate:   shared.DateRange{From: filter.From, To: filter.To},
		})
		if err != nil {
			return err
		}
		resp = ToOrderResponses(orders)
		return nil
	})
	return resp, err
}

// AvailableLines lists the caller's sale lines of the order's company whose
// cycle is open now, flagging those the order already holds
func (s *OrderService) AvailableLines(ctx context.Context, id identity.Identity, orderID int64, filter AvailableLinesFilter) ([]AvailableLineResponse, error) {
	resp := []AvailableLineResponse{}
	err := s.withOrder(ctx, id, orderID, func(repos TransactionalRepositories, order *trade.Order) error {
		views, err := repos.SaleLines().FindViews(ctx, trade.SaleLineQuery{
			UserID:       id.UserID,
			CompanyID:    order.CompanyID,
			SaleID:       filter.SaleID,
			CustomerName: filter.CustomerName,
		})
		if err != nil {
			return err
		}
		for line := range trade.AvailableLines(views, order.LineKeys(), s.clock.Now()) {
			resp = append(resp, ToAvailableLineResponse(line))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// AddToOrder copies a sale line into the order, snapshotting its price, and
// raises the order total by its supplier due. A line already in the order is a conflict.
func (s *OrderService) AddToOrder(ctx context.Context, id identity.Identity, orderID int64, req AddOrderLineRequest) (*OrderResponse, error) {
	var resp OrderResponse
	err := s.withOrder(ctx, id, orderID, func(repos TransactionalRepositories, order *trade.Order) error {
		if _, err := repos.Sales().FindByIDForUser(ctx, id.UserID, req.SaleID); err != nil {
			return err
		}
		views, err := repos.SaleLines().FindViewsByKeys(ctx, []trade.SaleLineKey{req.Key()})
		if err != nil {
			return err
		}
		if len(views) == 0 {
			return shared.NewNotFoundError("Sale line")
		}
		view := views[0]
		now := s.clock.Now()
		if !view.IsOrderableAt(now) {
			return shared.NewValidationError("cycle %q is not open for ordering", view.CycleName)
		}

		line, err := order.AddLine(view.Line, view.CompanyID, now)
		if err != nil {
			return err
		}
		if err := repos.OrderLines().Create(ctx, line); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		resp = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveFromOrder drops an order line and lowers the total by its supplier due
func (s *OrderService) RemoveFromOrder(ctx context.Context, id identity.Identity, orderID, lineID int64) (*OrderResponse, error) {
	var resp OrderResponse
	err := s.withOrder(ctx, id, orderID, func(repos TransactionalRepositories, order *trade.Order) error {
		line, err := repos.OrderLines().FindByID(ctx, lineID)
		if err != nil {
			return err
		}
		if line.OrderID != order.ID {
			return shared.NewNotFoundError("Order line")
		}
		saleLine, err := repos.SaleLines().FindByKey(ctx, line.SaleLine)
		if err != nil {
			return err
		}
		removed, err := order.RemoveLine(line.ID, saleLine.Quantity, s.clock.Now())
		if err != nil {
			return err
		}
		if err := repos.OrderLines().Delete(ctx, removed.ID); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		resp = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecomputeOrderTotal sets the order total to the supplier due of its current lines
func (s *OrderService) RecomputeOrderTotal(ctx context.Context, id identity.Identity, orderID int64) (*OrderResponse, error) {
	var resp OrderResponse
	err := s.withOrder(ctx, id, orderID, func(repos TransactionalRepositories, order *trade.Order) error {
		quantities, err := lineQuantities(ctx, repos, order)
		if err != nil {
			return err
		}
		if order.RecomputeTotal(quantities, s.clock.Now()) {
			if err := repos.Orders().Save(ctx, order); err != nil {
				return err
			}
		}
		resp = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// OrderSummary describes the order lines and groups them by product. Read only.
func (s *OrderService) OrderSummary(ctx context.Context, id identity.Identity, orderID int64) (*OrderSummaryResponse, error) {
	var resp OrderSummaryResponse
	err := s.withOrder(ctx, id, orderID, func(repos TransactionalRepositories, order *trade.Order) error {
		views, err := repos.SaleLines().FindViewsByKeys(ctx, order.LineKeys().Keys())
		if err != nil {
			return err
		}
		resp = ToOrderSummaryResponse(trade.Summarize(order, views))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// FinalizeOrder posts the payable total: the supplier due of the lines, or the
// caller-confirmed override when one is given
func (s *OrderService) FinalizeOrder(ctx context.Context, id identity.Identity, orderID int64, req FinalizeOrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	err := s.withOrder(ctx, id, orderID, func(repos TransactionalRepositories, order *trade.Order) error {
		quantities, err := lineQuantities(ctx, repos, order)
		if err != nil {
			return err
		}
		if err := order.Finalize(quantities, req.Total, s.clock.Now()); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		resp = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Order finalized",
		zap.Int64("order_id", orderID),
		zap.String("total", resp.Total.String()),
		zap.Bool("override", req.Total != nil),
	)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, telemetry.OrderTypeSupplier, resp.CompanyID, resp.Total)
	}
	return &resp, nil
}

// UpdateOrder reschedules an order
func (s *OrderService) UpdateOrder(ctx context.Context, id identity.Identity, orderID int64, req UpdateOrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	err := s.withOrder(ctx, id, orderID, func(repos TransactionalRepositories, order *trade.Order) error {
		if err := order.Reschedule(req.OrderDate, req.DueDate, s.clock.Now()); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		resp = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// withOrder loads the caller's order inside a transaction and hands it to fn
func (s *OrderService) withOrder(ctx context.Context, id identity.Identity, orderID int64, fn func(repos TransactionalRepositories, order *trade.Order) error) error {
	if err := id.Require(); err != nil {
		return err
	}
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByIDForUser(ctx, id.UserID, orderID)
		if err != nil {
			return err
		}
		return fn(repos, order)
	})
}
