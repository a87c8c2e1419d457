package persistence

import (
	"context"
	"errors"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByKey finds a product by code and cycle
func (r *GormProductRepository) FindByKey(ctx context.Context, key catalog.ProductKey) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("codigo = ? AND cycle_id = ?", key.Code, key.CycleID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Product")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByKey reports whether a product with the key exists
func (r *GormProductRepository) ExistsByKey(ctx context.Context, key catalog.ProductKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("codigo = ? AND cycle_id = ?", key.Code, key.CycleID).
		Count(&count).Error
	return count > 0, err
}

// Search applies the first non-empty criterion of filter. An empty filter returns every product.
func (r *GormProductRepository) Search(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	switch {
	case filter.Code != 0:
		query = query.Where("products.codigo = ?", filter.Code)
	case filter.Name != "":
		query = query.Where("LOWER(products.nome) LIKE ?"+likeEscape, containsPattern(filter.Name))
	case filter.CycleName != "":
		query = query.Joins("JOIN cycles ON cycles.id = products.cycle_id").
			Where("LOWER(cycles.nome) LIKE ?"+likeEscape, containsPattern(filter.CycleName))
	case filter.CompanyName != "":
		query = query.Joins("JOIN companies ON companies.id = products.company_id").
			Where("LOWER(companies.razao_social) LIKE ?"+likeEscape, containsPattern(filter.CompanyName))
	}
	var productModels []models.ProductModel
	if err := query.Order("products.nome, products.codigo").Find(&productModels).Error; err != nil {
		return nil, err
	}
	return productsToDomain(productModels), nil
}

// CountByCycle counts the products of a cycle
func (r *GormProductRepository) CountByCycle(ctx context.Context, cycleID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("cycle_id = ?", cycleID).Count(&count).Error
	return count, err
}

// CountByCompany counts the products of a company
func (r *GormProductRepository) CountByCompany(ctx context.Context, companyID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	var model models.ProductModel
	model.FromDomain(product)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Save updates an existing product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("codigo = ? AND cycle_id = ?", product.Code, product.CycleID).
		Updates(map[string]any{
			"nome":       product.Name,
			"valor":      product.Price,
			"pontos":     product.Points,
			"approved":   product.Approved,
			"updated_at": product.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Product")
	}
	return nil
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, key catalog.ProductKey) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "codigo = ? AND cycle_id = ?", key.Code, key.CycleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Product")
	}
	return nil
}

func productsToDomain(productModels []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
