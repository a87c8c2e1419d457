package persistence

import (
	"context"
	"errors"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id int64) (*catalog.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Company")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRazaoSocial finds a company by its exact name
func (r *GormCompanyRepository) FindByRazaoSocial(ctx context.Context, razaoSocial string) (*catalog.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).First(&model, "razao_social = ?", razaoSocial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Company")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SearchActive returns active companies whose name contains substring, ordered by name
func (r *GormCompanyRepository) SearchActive(ctx context.Context, substring string) ([]catalog.Company, error) {
	var companyModels []models.CompanyModel
	query := r.db.WithContext(ctx).Where("active = ?", true)
	if substring != "" {
		query = query.Where("LOWER(razao_social) LIKE ?"+likeEscape, containsPattern(substring))
	}
	if err := query.Order("razao_social").Find(&companyModels).Error; err != nil {
		return nil, err
	}
	companies := make([]catalog.Company, len(companyModels))
	for i, model := range companyModels {
		companies[i] = *model.ToDomain()
	}
	return companies, nil
}

// Save creates or updates a company and writes back the assigned ID
func (r *GormCompanyRepository) Save(ctx context.Context, company *catalog.Company) error {
	var model models.CompanyModel
	model.FromDomain(company)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	company.ID = model.ID
	return nil
}

// Delete deletes a company
func (r *GormCompanyRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CompanyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Company")
	}
	return nil
}

var _ catalog.CompanyRepository = (*GormCompanyRepository)(nil)
