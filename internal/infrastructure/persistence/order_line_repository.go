package persistence

import (
	"context"
	"errors"

	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderLineRepository implements OrderLineRepository using GORM
type GormOrderLineRepository struct {
	db *gorm.DB
}

// NewGormOrderLineRepository creates a new GormOrderLineRepository
func NewGormOrderLineRepository(db *gorm.DB) *GormOrderLineRepository {
	return &GormOrderLineRepository{db: db}
}

// FindByID finds an order line by its ID
func (r *GormOrderLineRepository) FindByID(ctx context.Context, id int64) (*trade.OrderLineItem, error) {
	var model models.OrderLineItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Order line")
		}
		return nil, err
	}
	line := model.ToDomain()
	return &line, nil
}

// FindByOrder lists the lines of an order in insertion order
func (r *GormOrderLineRepository) FindByOrder(ctx context.Context, orderID int64) ([]trade.OrderLineItem, error) {
	var lineModels []models.OrderLineItemModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return orderLinesToDomain(lineModels), nil
}

// FindBySaleLine lists the order lines referencing a sale line, across all orders
func (r *GormOrderLineRepository) FindBySaleLine(ctx context.Context, key trade.SaleLineKey) ([]trade.OrderLineItem, error) {
	var lineModels []models.OrderLineItemModel
	if err := r.db.WithContext(ctx).
		Where("product_code = ? AND cycle_id = ? AND sale_id = ?", key.ProductCode, key.CycleID, key.SaleID).
		Order("id").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return orderLinesToDomain(lineModels), nil
}

// Create inserts the line and writes back its ID
func (r *GormOrderLineRepository) Create(ctx context.Context, line *trade.OrderLineItem) error {
	var model models.OrderLineItemModel
	model.FromDomain(line)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewConflictError("sale line %s is already in order %d", line.SaleLine, line.OrderID)
		}
		return err
	}
	line.ID = model.ID
	return nil
}

// Delete deletes an order line
func (r *GormOrderLineRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderLineItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Order line")
	}
	return nil
}

// DeleteByOrder deletes every line of an order
func (r *GormOrderLineRepository) DeleteByOrder(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Delete(&models.OrderLineItemModel{}, "order_id = ?", orderID).Error
}

func orderLinesToDomain(lineModels []models.OrderLineItemModel) []trade.OrderLineItem {
	lines := make([]trade.OrderLineItem, len(lineModels))
	for i, model := range lineModels {
		lines[i] = model.ToDomain()
	}
	return lines
}

var _ trade.OrderLineRepository = (*GormOrderLineRepository)(nil)
