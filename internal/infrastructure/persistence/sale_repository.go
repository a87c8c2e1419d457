package persistence

import (
	"context"
	"errors"

	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM.
// Lines are read from sale_line_items and written by GormSaleLineRepository.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByIDForUser finds one of the user's sales with its lines
func (r *GormSaleRepository) FindByIDForUser(ctx context.Context, userID string, id int64) (*trade.Sale, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id))
}

func (r *GormSaleRepository) findOne(ctx context.Context, query *gorm.DB) (*trade.Sale, error) {
	var model models.SaleModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Sale")
		}
		return nil, err
	}
	sale := model.ToDomain()
	lines, err := NewGormSaleLineRepository(r.db).FindBySale(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return sale, nil
}

// Find lists sale headers matching filter, newest first
func (r *GormSaleRepository) Find(ctx context.Context, filter trade.SaleFilter) ([]trade.Sale, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})
	if filter.UserID != "" {
		query = query.Where("sales.user_id = ?", filter.UserID)
	}
	if filter.CustomerID != 0 {
		query = query.Where("sales.customer_id = ?", filter.CustomerID)
	}
	if filter.CompanyID != 0 {
		query = query.Where("sales.company_id = ?", filter.CompanyID)
	}
	if filter.CustomerName != "" {
		query = query.Joins("JOIN customers ON customers.id = sales.customer_id").
			Where("LOWER(customers.nome) LIKE ?"+likeEscape, containsPattern(filter.CustomerName))
	}
	if filter.SaleDate.From != nil {
		query = query.Where("sales.data_venda >= ?", *filter.SaleDate.From)
	}
	if filter.SaleDate.To != nil {
		query = query.Where("sales.data_venda <= ?", *filter.SaleDate.To)
	}
	var saleModels []models.SaleModel
	if err := query.Order("sales.data_venda DESC, sales.id DESC").Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return salesToDomain(saleModels), nil
}

// FindByCustomer lists every sale header of a customer
func (r *GormSaleRepository) FindByCustomer(ctx context.Context, customerID int64) ([]trade.Sale, error) {
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return salesToDomain(saleModels), nil
}

// CountByCompany counts the sales of a company
func (r *GormSaleRepository) CountByCompany(ctx context.Context, companyID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SaleModel{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

// Save creates or updates the sale header and writes back the assigned ID.
// New sales have no lines yet; lines are saved through the line repository.
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	var model models.SaleModel
	model.FromDomain(sale)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	sale.ID = model.ID
	return nil
}

// Delete deletes the sale header
func (r *GormSaleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Sale")
	}
	return nil
}

func salesToDomain(saleModels []models.SaleModel) []trade.Sale {
	sales := make([]trade.Sale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)
