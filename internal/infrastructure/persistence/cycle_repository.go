package persistence

import (
	"context"
	"errors"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCycleRepository implements CycleRepository using GORM
type GormCycleRepository struct {
	db *gorm.DB
}

// NewGormCycleRepository creates a new GormCycleRepository
func NewGormCycleRepository(db *gorm.DB) *GormCycleRepository {
	return &GormCycleRepository{db: db}
}

// FindByID finds a cycle by its ID
func (r *GormCycleRepository) FindByID(ctx context.Context, id int64) (*catalog.Cycle, error) {
	var model models.CycleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Cycle")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds the oldest cycle with the given name
func (r *GormCycleRepository) FindByName(ctx context.Context, name string) (*catalog.Cycle, error) {
	var model models.CycleModel
	if err := r.db.WithContext(ctx).Where("nome = ?", name).Order("id").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Cycle")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

type cycleListingRow struct {
	models.CycleModel
	CompanyName string
}

// FindAllWithCompany returns every cycle joined with its company name
func (r *GormCycleRepository) FindAllWithCompany(ctx context.Context) ([]catalog.CycleListing, error) {
	var rows []cycleListingRow
	err := r.db.WithContext(ctx).Model(&models.CycleModel{}).
		Select("cycles.*, companies.razao_social AS company_name").
		Joins("JOIN companies ON companies.id = cycles.company_id").
		Order("companies.razao_social, cycles.data_inicio, cycles.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	listings := make([]catalog.CycleListing, len(rows))
	for i := range rows {
		listings[i] = catalog.CycleListing{Cycle: *rows[i].ToDomain(), CompanyName: rows[i].CompanyName}
	}
	return listings, nil
}

// FindByIDs returns the cycles with the given IDs
func (r *GormCycleRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Cycle, error) {
	if len(ids) == 0 {
		return []catalog.Cycle{}, nil
	}
	var cycleModels []models.CycleModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cycleModels).Error; err != nil {
		return nil, err
	}
	return cyclesToDomain(cycleModels), nil
}

// CountByCompany counts the cycles of a company
func (r *GormCycleRepository) CountByCompany(ctx context.Context, companyID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CycleModel{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

// Save creates or updates a cycle and writes back the assigned ID
func (r *GormCycleRepository) Save(ctx context.Context, cycle *catalog.Cycle) error {
	var model models.CycleModel
	model.FromDomain(cycle)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	cycle.ID = model.ID
	return nil
}

// Delete deletes a cycle
func (r *GormCycleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CycleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Cycle")
	}
	return nil
}

func cyclesToDomain(cycleModels []models.CycleModel) []catalog.Cycle {
	cycles := make([]catalog.Cycle, len(cycleModels))
	for i, model := range cycleModels {
		cycles[i] = *model.ToDomain()
	}
	return cycles
}

var _ catalog.CycleRepository = (*GormCycleRepository)(nil)
