package persistence

import (
	"context"
	"errors"

	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
// Lines are read from order_line_items and written by GormOrderLineRepository.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForUser finds one of the user's orders with its lines
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID string, id int64) (*trade.Order, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id))
}

func (r *GormOrderRepository) findOne(ctx context.Context, query *gorm.DB) (*trade.Order, error) {
	var model models.OrderModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Order")
		}
		return nil, err
	}
	order := model.ToDomain()
	lines, err := NewGormOrderLineRepository(r.db).FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

// FindByIDs loads several orders with their lines
func (r *GormOrderRepository) FindByIDs(ctx context.Context, ids []int64) ([]trade.Order, error) {
	if len(ids) == 0 {
		return []trade.Order{}, nil
	}
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	var lineModels []models.OrderLineItemModel
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Order("id").Find(&lineModels).Error; err != nil {
		return nil, err
	}
	linesByOrder := make(map[int64][]trade.OrderLineItem, len(orderModels))
	for _, lm := range lineModels {
		linesByOrder[lm.OrderID] = append(linesByOrder[lm.OrderID], lm.ToDomain())
	}
	orders := make([]trade.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
		orders[i].Lines = linesByOrder[model.ID]
	}
	return orders, nil
}

// Find lists order headers matching filter, newest first
func (r *GormOrderRepository) Find(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if filter.UserID != "" {
		query = query.Where("orders.user_id = ?", filter.UserID)
	}
	if filter.CompanyID != 0 {
		query = query.Where("orders.company_id = ?", filter.CompanyID)
	}
	if filter.CompanyName != "" {
		query = query.Joins("JOIN companies ON companies.id = orders.company_id").
			Where("LOWER(companies.razao_social) LIKE ?"+likeEscape, containsPattern(filter.CompanyName))
	}
	if filter.OrderDate.From != nil {
		query = query.Where("orders.data_pedido >= ?", *filter.OrderDate.From)
	}
	if filter.OrderDate.To != nil {
		query = query.Where("orders.data_pedido <= ?", *filter.OrderDate.To)
	}
	var orderModels []models.OrderModel
	if err := query.Order("orders.data_pedido DESC, orders.id DESC").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// CountByCompany counts the orders of a company
func (r *GormOrderRepository) CountByCompany(ctx context.Context, companyID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

// Save creates or updates the order header and writes back the assigned ID
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	var model models.OrderModel
	model.FromDomain(order)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	order.ID = model.ID
	for i := range order.Lines {
		order.Lines[i].OrderID = model.ID
	}
	return nil
}

// Delete deletes the order header
func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Order")
	}
	return nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
