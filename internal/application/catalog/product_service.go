package catalog

import (
	"context"

	apptrade "github.com/sarva/backend/internal/application/trade"
	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles the products of catalog cycles
type ProductService struct {
	scope  apptrade.TransactionScope
	clock  shared.Clock
	logger *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(scope apptrade.TransactionScope, clock shared.Clock, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{scope: scope, clock: clock, logger: logger}
}

// Create adds a product to the cycle named in the request
func (s *ProductService) Create(ctx context.Context, id identity.Identity, req CreateProductRequest) (*ProductResponse, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	var resp ProductResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		cycle, err := repos.Cycles().FindByName(ctx, req.CycleName)
		if shared.IsNotFound(err) {
			return shared.NewValidationError("cycle %q does not exist", req.CycleName)
		}
		if err != nil {
			return err
		}
		product, err := catalog.NewProduct(cycle, req.Code, req.Name, req.Price, req.Points, id, s.clock.Now())
		if err != nil {
			return err
		}
		exists, err := repos.Products().ExistsByKey(ctx, product.Key())
		if err != nil {
			return err
		}
		if exists {
			return shared.NewConflictError("product %d already exists in cycle %q", product.Code, cycle.Name)
		}
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		resp = ToProductResponse(product, cycle.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !resp.Approved {
		s.logger.Info("Product pending approval",
			zap.Int64("code", resp.Code),
			zap.Int64("cycle_id", resp.CycleID),
			zap.String("user_id", id.UserID))
	}
	return &resp, nil
}

// Update changes a product. Admin only.
func (s *ProductService) Update(ctx context.Context, id identity.Identity, key catalog.ProductKey, req UpdateProductRequest) (*ProductResponse, error) {
	if err := id.RequireAdmin(); err != nil {
		return nil, err
	}
	var resp ProductResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		product, err := repos.Products().FindByKey(ctx, key)
		if err != nil {
			return err
		}
		if err := product.Update(req.Name, req.Price, req.Points, s.clock.Now()); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		resp = ToProductResponse(product, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search finds products by the first criterion set in filter
func (s *ProductService) Search(ctx context.Context, filter ProductSearchFilter) ([]ProductResponse, error) {
	var resp []ProductResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		products, err := repos.Products().Search(ctx, catalog.ProductFilter{
			Code:        filter.Code,
			Name:        filter.Name,
			CycleName:   filter.CycleName,
			CompanyName: filter.CompanyName,
		})
		if err != nil {
			return err
		}
		cycleNames, err := s.cycleNames(ctx, repos, products)
		if err != nil {
			return err
		}
		resp = make([]ProductResponse, len(products))
		for i := range products {
			resp[i] = ToProductResponse(&products[i], cycleNames[products[i].CycleID])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes a product no sale line refers to
func (s *ProductService) Delete(ctx context.Context, id identity.Identity, key catalog.ProductKey) error {
	if err := id.Require(); err != nil {
		return err
	}
	return s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		if _, err := repos.Products().FindByKey(ctx, key); err != nil {
			return err
		}
		n, err := repos.SaleLines().CountByProduct(ctx, key)
		if err != nil {
			return err
		}
		if n > 0 {
			return shared.NewConflictError("product %s is on %d sale lines", key, n)
		}
		return repos.Products().Delete(ctx, key)
	})
}

func (s *ProductService) cycleNames(ctx context.Context, repos apptrade.TransactionalRepositories, products []catalog.Product) (map[int64]string, error) {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, p := range products {
		if _, ok := seen[p.CycleID]; !ok {
			seen[p.CycleID] = struct{}{}
			ids = append(ids, p.CycleID)
		}
	}
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	cycles, err := repos.Cycles().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range cycles {
		names[c.ID] = c.Name
	}
	return names, nil
}
