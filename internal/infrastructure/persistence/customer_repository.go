package persistence

import (
	"context"
	"errors"

	"github.com/sarva/backend/internal/domain/partner"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Customer")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds a customer by ID among the user's customers
func (r *GormCustomerRepository) FindByIDForUser(ctx context.Context, userID string, id int64) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Customer")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds the user's customer with exactly this name
func (r *GormCustomerRepository) FindByName(ctx context.Context, userID, name string) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND nome = ?", userID, name).
		Order("id").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Customer")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists the user's customers ordered by name
func (r *GormCustomerRepository) FindByUser(ctx context.Context, userID string, filter partner.CustomerFilter) ([]partner.Customer, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Name != "" {
		query = query.Where("LOWER(nome) LIKE ?"+likeEscape, containsPattern(filter.Name))
	}
	var customerModels []models.CustomerModel
	if err := query.Order("nome, id").Find(&customerModels).Error; err != nil {
		return nil, err
	}
	customers := make([]partner.Customer, 0, len(customerModels))
	for _, model := range customerModels {
		c := model.ToDomain()
		// month extraction differs between postgres and sqlite, so filter here
		if filter.BirthdayMonth != 0 && (c.Birthday == nil || int(c.Birthday.Month()) != filter.BirthdayMonth) {
			continue
		}
		customers = append(customers, *c)
	}
	return customers, nil
}

// Save creates or updates a customer and writes back the assigned ID
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	var model models.CustomerModel
	model.FromDomain(customer)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	customer.ID = model.ID
	return nil
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Customer")
	}
	return nil
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
