package catalog_test

import (
	"context"
	"testing"
	"time"

	appcatalog "github.com/sarva/backend/internal/application/catalog"
	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/infrastructure/persistence"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"github.com/sarva/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

var (
	admin  = identity.New("admin-1", identity.RoleAdmin)
	seller = identity.New(testutil.TestUserID, identity.RoleSeller)
)

type services struct {
	fx        *testutil.Fixture
	companies *appcatalog.CompanyService
	cycles    *appcatalog.CycleService
	products  *appcatalog.ProductService
}

func newServices(t *testing.T) *services {
	db := testutil.NewSQLiteDB(t)
	scope := persistence.NewGormTransactionScope(db)
	clock := shared.FixedClock{At: now}
	return &services{
		fx:        testutil.NewFixture(t, db, now),
		companies: appcatalog.NewCompanyService(scope, clock, nil),
		cycles:    appcatalog.NewCycleService(scope, clock, nil),
		products:  appcatalog.NewProductService(scope, clock, nil),
	}
}

func TestCompanyService(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates active company", func(t *testing.T) {
		s := newServices(t)
		resp, err := s.companies.Create(ctx, admin, appcatalog.CreateCompanyRequest{RazaoSocial: " Natura "})
		require.NoError(t, err)
		assert.NotZero(t, resp.ID)
		assert.Equal(t, "Natura", resp.RazaoSocial)
		assert.True(t, resp.Active)
	})

	t.Run("seller company waits for approval", func(t *testing.T) {
		s := newServices(t)
		resp, err := s.companies.Create(ctx, seller, appcatalog.CreateCompanyRequest{RazaoSocial: "Avon"})
		require.NoError(t, err)
		assert.False(t, resp.Active)

		found, err := s.companies.Search(ctx, "Av")
		require.NoError(t, err)
		assert.Empty(t, found)

		_, err = s.companies.Approve(ctx, seller, resp.ID)
		assert.True(t, shared.IsUnauthorized(err))

		approved, err := s.companies.Approve(ctx, admin, resp.ID)
		require.NoError(t, err)
		assert.True(t, approved.Active)

		found, err = s.companies.Search(ctx, "Av")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Avon", found[0].RazaoSocial)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		s := newServices(t)
		s.fx.Company("Natura")
		_, err := s.companies.Create(ctx, admin, appcatalog.CreateCompanyRequest{RazaoSocial: "Natura"})
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("unresolved caller", func(t *testing.T) {
		s := newServices(t)
		_, err := s.companies.Create(ctx, identity.Identity{}, appcatalog.CreateCompanyRequest{RazaoSocial: "Natura"})
		assert.True(t, shared.IsUnauthorized(err))
	})

	t.Run("delete blocked by cycles", func(t *testing.T) {
		s := newServices(t)
		company := s.fx.Company("Natura")
		s.fx.OpenCycle(company, "Ciclo 01")

		err := s.companies.Delete(ctx, admin, company.ID)
		assert.True(t, shared.IsConflict(err))
		assert.Equal(t, int64(1), s.fx.Count(&models.CompanyModel{}))
	})

	t.Run("delete unreferenced company", func(t *testing.T) {
		s := newServices(t)
		company := s.fx.Company("Natura")
		require.NoError(t, s.companies.Delete(ctx, admin, company.ID))
		assert.Zero(t, s.fx.Count(&models.CompanyModel{}))

		err := s.companies.Delete(ctx, admin, company.ID)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestCycleService(t *testing.T) {
	ctx := context.Background()
	start := now.AddDate(0, 0, -1)
	end := now.AddDate(0, 0, 20)

	t.Run("create resolves company by name", func(t *testing.T) {
		s := newServices(t)
		company := s.fx.Company("Natura")
		resp, err := s.cycles.Create(ctx, seller, appcatalog.CreateCycleRequest{
			CompanyName: "Natura", Name: "Ciclo 04", StartDate: start, EndDate: end,
		})
		require.NoError(t, err)
		assert.Equal(t, company.ID, resp.CompanyID)
		assert.Equal(t, "Natura", resp.CompanyName)
		assert.True(t, resp.Open)
	})

	t.Run("unknown company is a validation error", func(t *testing.T) {
		s := newServices(t)
		_, err := s.cycles.Create(ctx, seller, appcatalog.CreateCycleRequest{
			CompanyName: "Nobody", Name: "Ciclo 04", StartDate: start, EndDate: end,
		})
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("end before start", func(t *testing.T) {
		s := newServices(t)
		s.fx.Company("Natura")
		_, err := s.cycles.Create(ctx, seller, appcatalog.CreateCycleRequest{
			CompanyName: "Natura", Name: "Ciclo 04", StartDate: end, EndDate: start,
		})
		assert.True(t, shared.IsValidation(err))
		assert.Zero(t, s.fx.Count(&models.CycleModel{}))
	})

	t.Run("update closes the window", func(t *testing.T) {
		s := newServices(t)
		cycle := s.fx.OpenCycle(s.fx.Company("Natura"), "Ciclo 01")
		resp, err := s.cycles.Update(ctx, seller, cycle.ID, appcatalog.UpdateCycleRequest{
			Name: "Ciclo 01b", StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 0, -1),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ciclo 01b", resp.Name)
		assert.False(t, resp.Open)
	})

	t.Run("list orders by company name", func(t *testing.T) {
		s := newServices(t)
		natura := s.fx.Company("Natura")
		avon := s.fx.Company("Avon")
		s.fx.OpenCycle(natura, "N1")
		s.fx.OpenCycle(avon, "A2")
		s.fx.Cycle(avon, "A1", now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))

		list, err := s.cycles.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"A1", "A2", "N1"}, []string{list[0].Name, list[1].Name, list[2].Name})
		assert.Equal(t, "Avon", list[0].CompanyName)
		assert.False(t, list[0].Open)
		assert.Equal(t, "Natura", list[2].CompanyName)
	})

	t.Run("delete with product conflicts and changes nothing", func(t *testing.T) {
		s := newServices(t)
		cycle := s.fx.OpenCycle(s.fx.Company("Natura"), "Ciclo 01")
		s.fx.Product(cycle, 101, "Batom", "50")

		err := s.cycles.Delete(ctx, seller, cycle.ID)
		assert.True(t, shared.IsConflict(err))
		assert.Equal(t, int64(1), s.fx.Count(&models.CycleModel{}))
		assert.Equal(t, int64(1), s.fx.Count(&models.ProductModel{}))
	})

	t.Run("delete empty cycle", func(t *testing.T) {
		s := newServices(t)
		cycle := s.fx.OpenCycle(s.fx.Company("Natura"), "Ciclo 01")
		require.NoError(t, s.cycles.Delete(ctx, seller, cycle.ID))
		assert.Zero(t, s.fx.Count(&models.CycleModel{}))
	})
}

func TestProductService(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*services, *models.CycleModel) {
		s := newServices(t)
		return s, s.fx.OpenCycle(s.fx.Company("Natura"), "Ciclo 01")
	}

	t.Run("approval follows role", func(t *testing.T) {
		s, cycle := setup(t)
		byAdmin, err := s.products.Create(ctx, admin, appcatalog.CreateProductRequest{
			CycleName: "Ciclo 01", Code: 101, Name: "Batom", Price: decimal.NewFromInt(50), Points: 5,
		})
		require.NoError(t, err)
		assert.True(t, byAdmin.Approved)
		assert.Equal(t, cycle.ID, byAdmin.CycleID)
		assert.Equal(t, cycle.CompanyID, byAdmin.CompanyID)

		bySeller, err := s.products.Create(ctx, seller, appcatalog.CreateProductRequest{
			CycleName: "Ciclo 01", Code: 202, Name: "Perfume", Price: decimal.NewFromInt(30),
		})
		require.NoError(t, err)
		assert.False(t, bySeller.Approved)
	})

	t.Run("duplicate code in cycle conflicts", func(t *testing.T) {
		s, cycle := setup(t)
		s.fx.Product(cycle, 101, "Batom", "50")
		_, err := s.products.Create(ctx, admin, appcatalog.CreateProductRequest{
			CycleName: "Ciclo 01", Code: 101, Name: "Outro", Price: decimal.NewFromInt(10),
		})
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("unknown cycle is a validation error", func(t *testing.T) {
		s, _ := setup(t)
		_, err := s.products.Create(ctx, admin, appcatalog.CreateProductRequest{
			CycleName: "Ciclo 99", Code: 101, Name: "Batom", Price: decimal.NewFromInt(50),
		})
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("update is admin only", func(t *testing.T) {
		s, cycle := setup(t)
		s.fx.Product(cycle, 101, "Batom", "50")
		key := catalog.ProductKey{Code: 101, CycleID: cycle.ID}
		req := appcatalog.UpdateProductRequest{Name: "Batom Matte", Price: decimal.NewFromInt(55)}

		_, err := s.products.Update(ctx, seller, key, req)
		assert.True(t, shared.IsUnauthorized(err))

		resp, err := s.products.Update(ctx, admin, key, req)
		require.NoError(t, err)
		assert.Equal(t, "Batom Matte", resp.Name)
		assert.True(t, decimal.NewFromInt(55).Equal(resp.Price))
	})

	t.Run("search by code and cycle name", func(t *testing.T) {
		s, cycle := setup(t)
		s.fx.Product(cycle, 101, "Batom", "50")
		s.fx.Product(cycle, 202, "Perfume", "30")

		byCode, err := s.products.Search(ctx, appcatalog.ProductSearchFilter{Code: 202})
		require.NoError(t, err)
		require.Len(t, byCode, 1)
		assert.Equal(t, "Perfume", byCode[0].Name)
		assert.Equal(t, "Ciclo 01", byCode[0].CycleName)

		byCycle, err := s.products.Search(ctx, appcatalog.ProductSearchFilter{CycleName: "Ciclo"})
		require.NoError(t, err)
		assert.Len(t, byCycle, 2)
	})

	t.Run("delete blocked by sale lines", func(t *testing.T) {
		s, cycle := setup(t)
		s.fx.Product(cycle, 101, "Batom", "50")
		customer := s.fx.Customer(testutil.TestUserID, "Maria")
		sale := &models.SaleModel{
			BaseModel:      models.BaseModel{CreatedAt: now, UpdatedAt: now},
			CustomerID:     customer.ID,
			CompanyID:      cycle.CompanyID,
			UserID:         testutil.TestUserID,
			DataVenda:      now,
			DataVencimento: now.AddDate(0, 0, 10),
		}
		require.NoError(t, s.fx.DB.Create(sale).Error)
		require.NoError(t, s.fx.DB.Create(&models.SaleLineItemModel{
			ProductCode: 101, CycleID: cycle.ID, SaleID: sale.ID, Quantidade: 1, Valor: decimal.NewFromInt(50),
		}).Error)

		key := catalog.ProductKey{Code: 101, CycleID: cycle.ID}
		err := s.products.Delete(ctx, admin, key)
		assert.True(t, shared.IsConflict(err))
		assert.Equal(t, int64(1), s.fx.Count(&models.ProductModel{}))
	})

	t.Run("delete unreferenced product", func(t *testing.T) {
		s, cycle := setup(t)
		s.fx.Product(cycle, 101, "Batom", "50")
		require.NoError(t, s.products.Delete(ctx, admin, catalog.ProductKey{Code: 101, CycleID: cycle.ID}))
		assert.Zero(t, s.fx.Count(&models.ProductModel{}))
	})
}
