package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleLineRepository implements SaleLineRepository using GORM
type GormSaleLineRepository struct {
	db *gorm.DB
}

// NewGormSaleLineRepository creates a new GormSaleLineRepository
func NewGormSaleLineRepository(db *gorm.DB) *GormSaleLineRepository {
	return &GormSaleLineRepository{db: db}
}

// saleLineViewRow is the scan target of the sale line view join
type saleLineViewRow struct {
	ProductCode  int64
	CycleID      int64
	SaleID       int64
	Quantidade   int
	Valor        decimal.Decimal
	CompanyID    int64
	CustomerName string
	ProductName  string
	CycleName    string
	CycleStart   time.Time
	CycleEnd     time.Time
}

func (row saleLineViewRow) toDomain() trade.SaleLineView {
	return trade.SaleLineView{
		Line: trade.SaleLineItem{
			Key:      trade.SaleLineKey{ProductCode: row.ProductCode, CycleID: row.CycleID, SaleID: row.SaleID},
			Quantity: row.Quantidade,
			Price:    row.Valor,
		},
		CompanyID:    row.CompanyID,
		CustomerName: row.CustomerName,
		ProductName:  row.ProductName,
		CycleName:    row.CycleName,
		CycleStart:   row.CycleStart,
		CycleEnd:     row.CycleEnd,
	}
}

func keyPairs(keys []trade.SaleLineKey) [][]any {
	pairs := make([][]any, len(keys))
	for i, k := range keys {
		pairs[i] = []any{k.ProductCode, k.CycleID, k.SaleID}
	}
	return pairs
}

// FindByKey finds a sale line by its composite key
func (r *GormSaleLineRepository) FindByKey(ctx context.Context, key trade.SaleLineKey) (*trade.SaleLineItem, error) {
	var model models.SaleLineItemModel
	if err := r.db.WithContext(ctx).
		Where("product_code = ? AND cycle_id = ? AND sale_id = ?", key.ProductCode, key.CycleID, key.SaleID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Sale line")
		}
		return nil, err
	}
	line := model.ToDomain()
	return &line, nil
}

// FindBySale lists the lines of a sale
func (r *GormSaleLineRepository) FindBySale(ctx context.Context, saleID int64) ([]trade.SaleLineItem, error) {
	var lineModels []models.SaleLineItemModel
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("product_code, cycle_id").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return saleLinesToDomain(lineModels), nil
}

// FindByKeys returns the existing lines among keys
func (r *GormSaleLineRepository) FindByKeys(ctx context.Context, keys []trade.SaleLineKey) ([]trade.SaleLineItem, error) {
	if len(keys) == 0 {
		return []trade.SaleLineItem{}, nil
	}
	var lineModels []models.SaleLineItemModel
	if err := r.db.WithContext(ctx).
		Where("(product_code, cycle_id, sale_id) IN ?", keyPairs(keys)).
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return saleLinesToDomain(lineModels), nil
}

func (r *GormSaleLineRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("sale_line_items").
		Select(`sale_line_items.product_code, sale_line_items.cycle_id, sale_line_items.sale_id,
			sale_line_items.quantidade, sale_line_items.valor, sales.company_id,
			customers.nome AS customer_name, products.nome AS product_name, cycles.nome AS cycle_name,
			cycles.data_inicio AS cycle_start, cycles.data_fim AS cycle_end`).
		Joins("JOIN sales ON sales.id = sale_line_items.sale_id").
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Joins("JOIN products ON products.codigo = sale_line_items.product_code AND products.cycle_id = sale_line_items.cycle_id").
		Joins("JOIN cycles ON cycles.id = sale_line_items.cycle_id")
}

// FindViews lists sale line views of the user's sales for one company
func (r *GormSaleLineRepository) FindViews(ctx context.Context, q trade.SaleLineQuery) ([]trade.SaleLineView, error) {
	query := r.viewQuery(ctx).
		Where("sales.user_id = ? AND sales.company_id = ?", q.UserID, q.CompanyID)
	if q.SaleID != 0 {
		query = query.Where("sales.id = ?", q.SaleID)
	}
	if q.CustomerName != "" {
		query = query.Where("LOWER(customers.nome) LIKE ?"+likeEscape, containsPattern(q.CustomerName))
	}
	var rows []saleLineViewRow
	if err := query.Order("sale_line_items.sale_id, products.nome").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return saleLineViewsToDomain(rows), nil
}

// FindViewsByKeys returns the views of the given sale lines
func (r *GormSaleLineRepository) FindViewsByKeys(ctx context.Context, keys []trade.SaleLineKey) ([]trade.SaleLineView, error) {
	if len(keys) == 0 {
		return []trade.SaleLineView{}, nil
	}
	var rows []saleLineViewRow
	if err := r.viewQuery(ctx).
		Where("(sale_line_items.product_code, sale_line_items.cycle_id, sale_line_items.sale_id) IN ?", keyPairs(keys)).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return saleLineViewsToDomain(rows), nil
}

// CountByProduct counts sale lines referencing a product
func (r *GormSaleLineRepository) CountByProduct(ctx context.Context, product catalog.ProductKey) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SaleLineItemModel{}).
		Where("product_code = ? AND cycle_id = ?", product.Code, product.CycleID).
		Count(&count).Error
	return count, err
}

// Save inserts the line, or updates its quantity when the key already exists
func (r *GormSaleLineRepository) Save(ctx context.Context, line *trade.SaleLineItem) error {
	var model models.SaleLineItemModel
	model.FromDomain(line)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_code"}, {Name: "cycle_id"}, {Name: "sale_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantidade"}),
	}).Create(&model).Error
}

// Delete deletes a sale line
func (r *GormSaleLineRepository) Delete(ctx context.Context, key trade.SaleLineKey) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleLineItemModel{},
		"product_code = ? AND cycle_id = ? AND sale_id = ?", key.ProductCode, key.CycleID, key.SaleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Sale line")
	}
	return nil
}

func saleLinesToDomain(lineModels []models.SaleLineItemModel) []trade.SaleLineItem {
	lines := make([]trade.SaleLineItem, len(lineModels))
	for i, model := range lineModels {
		lines[i] = model.ToDomain()
	}
	return lines
}

func saleLineViewsToDomain(rows []saleLineViewRow) []trade.SaleLineView {
	views := make([]trade.SaleLineView, len(rows))
	for i, row := range rows {
		views[i] = row.toDomain()
	}
	return views
}

var _ trade.SaleLineRepository = (*GormSaleLineRepository)(nil)
