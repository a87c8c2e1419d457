package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/partner"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"github.com/sarva/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var repoNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type seeded struct {
	db      *gorm.DB
	fx      *testutil.Fixture
	company *models.CompanyModel
	cycle   *models.CycleModel
	maria   *models.CustomerModel
	sale    *models.SaleModel
}

func seed(t *testing.T) *seeded {
	db := testutil.NewSQLiteDB(t)
	fx := testutil.NewFixture(t, db, repoNow)
	s := &seeded{db: db, fx: fx}
	s.company = fx.Company("Natura")
	s.cycle = fx.OpenCycle(s.company, "Ciclo 03")
	fx.Product(s.cycle, 101, "Batom", "50")
	fx.Product(s.cycle, 202, "Perfume 100%", "30")
	s.maria = fx.Customer(testutil.TestUserID, "Maria")
	s.sale = &models.SaleModel{
		BaseModel:      models.BaseModel{CreatedAt: repoNow, UpdatedAt: repoNow},
		CustomerID:     s.maria.ID,
		CompanyID:      s.company.ID,
		UserID:         testutil.TestUserID,
		DataVenda:      repoNow,
		DataVencimento: repoNow.AddDate(0, 0, 16),
	}
	require.NoError(t, db.Create(s.sale).Error)
	return s
}

func (s *seeded) key(code int64) trade.SaleLineKey {
	return trade.SaleLineKey{ProductCode: code, CycleID: s.cycle.ID, SaleID: s.sale.ID}
}

func TestGormSaleLineRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save upserts the quantity", func(t *testing.T) {
		s := seed(t)
		repo := NewGormSaleLineRepository(s.db)
		line := trade.SaleLineItem{Key: s.key(101), Quantity: 1, Price: decimal.NewFromInt(50)}
		require.NoError(t, repo.Save(ctx, &line))
		line.Quantity = 3
		require.NoError(t, repo.Save(ctx, &line))

		got, err := repo.FindByKey(ctx, s.key(101))
		require.NoError(t, err)
		assert.Equal(t, 3, got.Quantity)
		assert.Equal(t, int64(1), s.fx.Count(&models.SaleLineItemModel{}))
	})

	t.Run("find by keys ignores missing keys", func(t *testing.T) {
		s := seed(t)
		repo := NewGormSaleLineRepository(s.db)
		line := trade.SaleLineItem{Key: s.key(202), Quantity: 2, Price: decimal.NewFromInt(30)}
		require.NoError(t, repo.Save(ctx, &line))

		lines, err := repo.FindByKeys(ctx, []trade.SaleLineKey{s.key(101), s.key(202)})
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, s.key(202), lines[0].Key)

		empty, err := repo.FindByKeys(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("views join customer product and cycle", func(t *testing.T) {
		s := seed(t)
		repo := NewGormSaleLineRepository(s.db)
		for _, code := range []int64{101, 202} {
			line := trade.SaleLineItem{Key: s.key(code), Quantity: 1, Price: decimal.NewFromInt(10)}
			require.NoError(t, repo.Save(ctx, &line))
		}

		views, err := repo.FindViews(ctx, trade.SaleLineQuery{UserID: testutil.TestUserID, CompanyID: s.company.ID, CustomerName: "mar"})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "Batom", views[0].ProductName)
		assert.Equal(t, "Maria", views[0].CustomerName)
		assert.Equal(t, "Ciclo 03", views[0].CycleName)
		assert.True(t, views[0].IsOrderableAt(repoNow))

		other, err := repo.FindViews(ctx, trade.SaleLineQuery{UserID: "seller-2", CompanyID: s.company.ID})
		require.NoError(t, err)
		assert.Empty(t, other)

		byKey, err := repo.FindViewsByKeys(ctx, []trade.SaleLineKey{s.key(202)})
		require.NoError(t, err)
		require.Len(t, byKey, 1)
		assert.Equal(t, "Perfume 100%", byKey[0].ProductName)
	})

	t.Run("delete missing line", func(t *testing.T) {
		s := seed(t)
		err := NewGormSaleLineRepository(s.db).Delete(ctx, s.key(101))
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestGormOrderRepositories(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	lines := NewGormSaleLineRepository(s.db)
	saleLine := trade.SaleLineItem{Key: s.key(101), Quantity: 2, Price: decimal.NewFromInt(50)}
	require.NoError(t, lines.Save(ctx, &saleLine))

	orders := NewGormOrderRepository(s.db)
	orderLines := NewGormOrderLineRepository(s.db)
	order := &trade.Order{
		BaseEntity: shared.NewBaseEntity(repoNow),
		CompanyID:  s.company.ID,
		UserID:     testutil.TestUserID,
		OrderDate:  repoNow,
		DueDate:    repoNow.AddDate(0, 0, 21),
		Total:      decimal.Zero,
	}
	require.NoError(t, orders.Save(ctx, order))
	require.NotZero(t, order.ID)

	line := &trade.OrderLineItem{OrderID: order.ID, SaleLine: s.key(101), Price: decimal.NewFromInt(50)}
	require.NoError(t, orderLines.Create(ctx, line))
	assert.NotZero(t, line.ID)

	t.Run("duplicate order line conflicts", func(t *testing.T) {
		dup := &trade.OrderLineItem{OrderID: order.ID, SaleLine: s.key(101), Price: decimal.NewFromInt(50)}
		err := orderLines.Create(ctx, dup)
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("find by id loads lines", func(t *testing.T) {
		got, err := orders.FindByIDForUser(ctx, testutil.TestUserID, order.ID)
		require.NoError(t, err)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, s.key(101), got.Lines[0].SaleLine)

		_, err = orders.FindByIDForUser(ctx, "seller-2", order.ID)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("lookup by sale line", func(t *testing.T) {
		refs, err := orderLines.FindBySaleLine(ctx, s.key(101))
		require.NoError(t, err)
		require.Len(t, refs, 1)

		byID, err := orderLines.FindByID(ctx, refs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, byID.OrderID)
	})

	t.Run("filter by company name", func(t *testing.T) {
		found, err := orders.Find(ctx, trade.OrderFilter{UserID: testutil.TestUserID, CompanyName: "natu"})
		require.NoError(t, err)
		assert.Len(t, found, 1)

		count, err := orders.CountByCompany(ctx, s.company.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("delete by order", func(t *testing.T) {
		require.NoError(t, orderLines.DeleteByOrder(ctx, order.ID))
		remaining, err := orderLines.FindByOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}

func TestGormProductRepository_Search(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	other := s.fx.OpenCycle(s.fx.Company("Avon"), "Campanha 5")
	s.fx.Product(other, 101, "Hidratante", "20")
	repo := NewGormProductRepository(s.db)

	tests := []struct {
		name   string
		filter catalog.ProductFilter
		want   []string
	}{
		{"code spans cycles", catalog.ProductFilter{Code: 101}, []string{"Batom", "Hidratante"}},
		{"name is case insensitive", catalog.ProductFilter{Name: "BATOM"}, []string{"Batom"}},
		{"percent matches literally", catalog.ProductFilter{Name: "100%"}, []string{"Perfume 100%"}},
		{"cycle name", catalog.ProductFilter{CycleName: "campanha"}, []string{"Hidratante"}},
		{"company name", catalog.ProductFilter{CompanyName: "Natura"}, []string{"Batom", "Perfume 100%"}},
		{"code wins over name", catalog.ProductFilter{Code: 202, Name: "Batom"}, []string{"Perfume 100%"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.Search(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, len(products))
			for i, p := range products {
				names[i] = p.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestGormCustomerRepository(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	repo := NewGormCustomerRepository(s.db)

	birthday := time.Date(1990, time.March, 20, 0, 0, 0, 0, time.UTC)
	joana, err := partner.NewCustomer(testutil.TestUserID, "Joana", "joana@example.com", &birthday, repoNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, joana))
	require.NotZero(t, joana.ID)

	t.Run("scoped to the owner", func(t *testing.T) {
		_, err := repo.FindByIDForUser(ctx, "seller-2", joana.ID)
		assert.True(t, shared.IsNotFound(err))
		_, err = repo.FindByName(ctx, "seller-2", "Joana")
		assert.True(t, shared.IsNotFound(err))

		got, err := repo.FindByName(ctx, testutil.TestUserID, "Joana")
		require.NoError(t, err)
		assert.Equal(t, joana.ID, got.ID)
	})

	t.Run("birthday month filter", func(t *testing.T) {
		march, err := repo.FindByUser(ctx, testutil.TestUserID, partner.CustomerFilter{BirthdayMonth: 3})
		require.NoError(t, err)
		require.Len(t, march, 1)
		assert.Equal(t, "Joana", march[0].Name)

		all, err := repo.FindByUser(ctx, testutil.TestUserID, partner.CustomerFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestGormCompanyRepository_DuplicateName(t *testing.T) {
	s := seed(t)
	repo := NewGormCompanyRepository(s.db)
	dup := &catalog.Company{BaseEntity: shared.NewBaseEntity(repoNow), RazaoSocial: "Natura", Active: true}
	err := repo.Save(context.Background(), dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestGormCycleRepository_FindAllWithCompany(t *testing.T) {
	s := seed(t)
	avon := s.fx.Company("Avon")
	later := s.fx.Cycle(avon, "A2", repoNow.AddDate(0, 0, 10), repoNow.AddDate(0, 0, 30))
	earlier := s.fx.Cycle(avon, "A1", repoNow.AddDate(0, -1, 0), repoNow.AddDate(0, 0, -1))

	listings, err := NewGormCycleRepository(s.db).FindAllWithCompany(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 3)

	assert.Equal(t, earlier.ID, listings[0].ID)
	assert.Equal(t, "Avon", listings[0].CompanyName)
	assert.Equal(t, avon.ID, listings[0].CompanyID)
	assert.True(t, listings[0].StartDate.Equal(earlier.DataInicio))
	assert.Equal(t, later.ID, listings[1].ID)
	assert.Equal(t, "Ciclo 03", listings[2].Name)
	assert.Equal(t, "Natura", listings[2].CompanyName)
}
