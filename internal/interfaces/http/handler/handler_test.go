package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/sarva/backend/internal/application/catalog"
	apppartner "github.com/sarva/backend/internal/application/partner"
	appreport "github.com/sarva/backend/internal/application/report"
	apptrade "github.com/sarva/backend/internal/application/trade"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/infrastructure/auth"
	"github.com/sarva/backend/internal/infrastructure/config"
	"github.com/sarva/backend/internal/infrastructure/persistence"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"github.com/sarva/backend/internal/interfaces/http/handler"
	"github.com/sarva/backend/internal/interfaces/http/router"
	"github.com/sarva/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type pinger struct{ err error }

func (p pinger) Ping() error { return p.err }

type apiEnv struct {
	engine *gin.Engine
	cycle  *models.CycleModel
}

// newAPI wires the real services over an in-memory database with a
// Natura cycle holding Batom (101, 50) and Perfume (202, 30)
func newAPI(t *testing.T) *apiEnv {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	fx := testutil.NewFixture(t, db, now)
	company := fx.Company("Natura")
	cycle := fx.OpenCycle(company, "Ciclo 03")
	fx.Product(cycle, 101, "Batom", "50")
	fx.Product(cycle, 202, "Perfume", "30")
	fx.Customer(testutil.TestUserID, "Maria")

	scope := persistence.NewGormTransactionScope(db)
	clock := shared.FixedClock{At: now}
	deletions := apptrade.NewDeletionService(scope, clock, nil)

	engine, err := router.NewEngine(router.EngineConfig{
		JWTService: auth.NewJWTService(config.JWTConfig{
			Secret: "test-secret-key-at-least-32-chars",
			Issuer: "sarva-test",
		}),
		HeaderFallback: true,
	}, router.Handlers{
		Company:  handler.NewCompanyHandler(appcatalog.NewCompanyService(scope, clock, nil)),
		Cycle:    handler.NewCycleHandler(appcatalog.NewCycleService(scope, clock, nil)),
		Product:  handler.NewProductHandler(appcatalog.NewProductService(scope, clock, nil)),
		Customer: handler.NewCustomerHandler(apppartner.NewCustomerService(scope, deletions, clock, nil)),
		Sale:     handler.NewSaleHandler(apptrade.NewSaleService(scope, clock, nil), deletions),
		Order:    handler.NewOrderHandler(apptrade.NewOrderService(scope, clock, nil), deletions),
		Report:   handler.NewReportHandler(appreport.NewProfitReportService(scope, nil)),
		Health:   handler.NewHealthHandler(pinger{}),
	})
	require.NoError(t, err)

	return &apiEnv{engine: engine, cycle: cycle}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		e := newAPI(t)
		w := testutil.Do(t, e.engine, testutil.Guest, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"healthy"`)

		w = testutil.Do(t, e.engine, testutil.Guest, http.MethodGet, "/api/v1/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("database down", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/health", handler.NewHealthHandler(pinger{err: errors.New("connection refused")}).Check)

		w := testutil.Do(t, engine, testutil.Guest, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"unhealthy"`)
	})
}

func TestErrorMapping(t *testing.T) {
	e := newAPI(t)

	tests := []struct {
		name   string
		caller testutil.Caller
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"guest is unauthorized", testutil.Guest, http.MethodGet, "/api/v1/customers", nil, http.StatusUnauthorized, "ERR_UNAUTHORIZED"},
		{"seller cannot approve", testutil.Seller, http.MethodPost, "/api/v1/companies/1/approve", nil, http.StatusUnauthorized, "ERR_UNAUTHORIZED"},
		{"missing sale", testutil.Seller, http.MethodGet, "/api/v1/sales/999", nil, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"bad path id", testutil.Seller, http.MethodGet, "/api/v1/sales/abc", nil, http.StatusBadRequest, "ERR_BAD_REQUEST"},
		{"duplicate company", testutil.Admin, http.MethodPost, "/api/v1/companies", map[string]string{"razao_social": "Natura"}, http.StatusConflict, "ERR_CONFLICT"},
		{"binding failure", testutil.Seller, http.MethodPost, "/api/v1/customers", map[string]string{"email": "maria@example.com"}, http.StatusBadRequest, "ERR_VALIDATION"},
		{"unknown company", testutil.Seller, http.MethodPost, "/api/v1/sales", map[string]string{"customer_name": "Maria", "company_name": "Avon"}, http.StatusBadRequest, "ERR_VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.Do(t, e.engine, tt.caller, tt.method, tt.path, tt.body)
			testutil.AssertError(t, w, tt.status, tt.code)
		})
	}

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		e.engine.ServeHTTP(w, req)
		testutil.AssertError(t, w, http.StatusUnauthorized, "ERR_TOKEN_INVALID")
	})
}

func TestCatalogEndpoints(t *testing.T) {
	e := newAPI(t)

	t.Run("seller company needs approval", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, "/api/v1/companies", map[string]string{"razao_social": "Avon"})
		created := testutil.DecodeData[appcatalog.CompanyResponse](t, w, http.StatusCreated)
		assert.False(t, created.Active)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/companies/search?q=Av", nil)
		assert.Empty(t, testutil.DecodeData[[]appcatalog.CompanyResponse](t, w, http.StatusOK))

		w = testutil.Do(t, e.engine, testutil.Admin, http.MethodPost, "/api/v1/companies/"+itoa(created.ID)+"/approve", nil)
		assert.True(t, testutil.DecodeData[appcatalog.CompanyResponse](t, w, http.StatusOK).Active)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/companies/search?q=Av", nil)
		assert.Len(t, testutil.DecodeData[[]appcatalog.CompanyResponse](t, w, http.StatusOK), 1)

		w = testutil.Do(t, e.engine, testutil.Admin, http.MethodDelete, "/api/v1/companies/"+itoa(created.ID), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("cycle lifecycle", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, "/api/v1/cycles", map[string]any{
			"company_name": "Natura",
			"name":         "Ciclo 04",
			"start_date":   now.AddDate(0, 1, 0),
			"end_date":     now.AddDate(0, 2, 0),
		})
		cycle := testutil.DecodeData[appcatalog.CycleResponse](t, w, http.StatusCreated)
		assert.Equal(t, "Natura", cycle.CompanyName)
		assert.False(t, cycle.Open)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/cycles", nil)
		assert.Len(t, testutil.DecodeData[[]appcatalog.CycleResponse](t, w, http.StatusOK), 2)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodPut, "/api/v1/cycles/"+itoa(cycle.ID), map[string]any{
			"name":       "Ciclo 05",
			"start_date": now.AddDate(0, 1, 0),
			"end_date":   now.AddDate(0, 2, 0),
		})
		assert.Equal(t, "Ciclo 05", testutil.DecodeData[appcatalog.CycleResponse](t, w, http.StatusOK).Name)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodDelete, "/api/v1/cycles/"+itoa(cycle.ID), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("product search and update", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/products?cycle=Ciclo%2003", nil)
		assert.Len(t, testutil.DecodeData[[]appcatalog.ProductResponse](t, w, http.StatusOK), 2)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, "/api/v1/products", map[string]any{
			"cycle_name": "Ciclo 03",
			"code":       303,
			"name":       "Creme",
			"price":      "19.90",
			"points":     5,
		})
		created := testutil.DecodeData[appcatalog.ProductResponse](t, w, http.StatusCreated)
		assertDecimal(t, "19.9", created.Price)

		path := "/api/v1/products/303/cycles/" + itoa(e.cycle.ID)
		w = testutil.Do(t, e.engine, testutil.Admin, http.MethodPut, path, map[string]any{
			"name":   "Creme Hidratante",
			"price":  "21",
			"points": 6,
		})
		assert.Equal(t, "Creme Hidratante", testutil.DecodeData[appcatalog.ProductResponse](t, w, http.StatusOK).Name)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/products?code=303", nil)
		found := testutil.DecodeData[[]appcatalog.ProductResponse](t, w, http.StatusOK)
		require.Len(t, found, 1)
		assertDecimal(t, "21", found[0].Price)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestCustomerEndpoints(t *testing.T) {
	e := newAPI(t)

	w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, "/api/v1/customers", map[string]any{
		"name":     "Joana",
		"email":    "joana@example.com",
		"birthday": time.Date(1990, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	joana := testutil.DecodeData[apppartner.CustomerResponse](t, w, http.StatusCreated)
	assert.Equal(t, 3, joana.ScoreTier)
	base := "/api/v1/customers/" + itoa(joana.ID)

	t.Run("list by birthday month", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/customers?birthday_month=3", nil)
		got := testutil.DecodeData[[]apppartner.CustomerResponse](t, w, http.StatusOK)
		require.Len(t, got, 1)
		assert.Equal(t, "Joana", got[0].Name)
	})

	t.Run("search and get", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/customers/search?q=oan", nil)
		assert.Len(t, testutil.DecodeData[[]apppartner.CustomerResponse](t, w, http.StatusOK), 1)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, base, nil)
		assert.Equal(t, "joana@example.com", testutil.DecodeData[apppartner.CustomerResponse](t, w, http.StatusOK).Email)
	})

	t.Run("other seller cannot see the customer", func(t *testing.T) {
		other := testutil.Caller{UserID: "seller-2", Role: "Vendedor"}
		w := testutil.Do(t, e.engine, other, http.MethodGet, base, nil)
		testutil.AssertError(t, w, http.StatusNotFound, "ERR_NOT_FOUND")
	})

	t.Run("update", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPut, base, map[string]any{"name": "Joana Silva"})
		assert.Equal(t, "Joana Silva", testutil.DecodeData[apppartner.CustomerResponse](t, w, http.StatusOK).Name)
	})

	t.Run("recompute scores", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, base+"/score", nil)
		assert.Equal(t, 3, testutil.DecodeData[apppartner.CustomerResponse](t, w, http.StatusOK).ScoreTier)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, "/api/v1/customers/scores", nil)
		assert.Len(t, testutil.DecodeData[[]apppartner.CustomerResponse](t, w, http.StatusOK), 2)
	})

	t.Run("delete returns the cascade summary", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, "/api/v1/sales", map[string]string{
			"customer_name": "Joana Silva", "company_name": "Natura",
		})
		testutil.DecodeData[apptrade.SaleResponse](t, w, http.StatusCreated)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodDelete, base, nil)
		summary := testutil.DecodeData[apptrade.DeletionSummary](t, w, http.StatusOK)
		assert.Equal(t, 1, summary.Sales)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, base, nil)
		testutil.AssertError(t, w, http.StatusNotFound, "ERR_NOT_FOUND")
	})
}

func TestSaleAndOrderFlow(t *testing.T) {
	e := newAPI(t)
	cycleID := e.cycle.ID

	w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, "/api/v1/sales", map[string]string{
		"customer_name": "Maria", "company_name": "Natura",
	})
	sale := testutil.DecodeData[apptrade.SaleResponse](t, w, http.StatusCreated)
	assert.Equal(t, "BadPayer", sale.CustomerScore)
	salePath := "/api/v1/sales/" + itoa(sale.ID)

	for _, code := range []int64{101, 202, 202, 101} {
		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, salePath+"/lines", map[string]int64{
			"product_code": code, "cycle_id": cycleID,
		})
		testutil.DecodeData[apptrade.SaleLineResponse](t, w, http.StatusOK)
	}

	w = testutil.Do(t, e.engine, testutil.Seller, http.MethodDelete, salePath+"/lines/101/"+itoa(cycleID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("line total", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, salePath+"/total", nil)
		got := testutil.DecodeData[handler.TotalValueResponse](t, w, http.StatusOK)
		assert.Equal(t, sale.ID, got.SaleID)
		assertDecimal(t, "110", got.Total)
	})

	t.Run("discount above total is rejected", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, salePath+"/finalize", map[string]string{"discount": "500"})
		testutil.AssertError(t, w, http.StatusBadRequest, "ERR_VALIDATION")
	})

	t.Run("finalize", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, salePath+"/finalize", map[string]string{"discount": "10"})
		got := testutil.DecodeData[apptrade.SaleResponse](t, w, http.StatusOK)
		assertDecimal(t, "110", got.Total.Decimal)
		assertDecimal(t, "100", got.FinalValue.Decimal)
	})

	t.Run("payment makes a good payer", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, salePath+"/payment", nil)
		got := testutil.DecodeData[apptrade.SaleResponse](t, w, http.StatusOK)
		require.NotNil(t, got.PaidAt)
		assert.Equal(t, "GoodPayer", got.CustomerScore)
	})

	w = testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, "/api/v1/orders", map[string]string{"company_name": "Natura"})
	order := testutil.DecodeData[apptrade.OrderResponse](t, w, http.StatusCreated)
	assert.Equal(t, now.Add(21*24*time.Hour), order.DueDate)
	orderPath := "/api/v1/orders/" + itoa(order.ID)

	t.Run("available lines before consolidation", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, orderPath+"/available-lines?customer=Maria", nil)
		lines := testutil.DecodeData[[]apptrade.AvailableLineResponse](t, w, http.StatusOK)
		require.Len(t, lines, 2)
		for _, l := range lines {
			assert.False(t, l.InOrder)
		}
	})

	for _, code := range []int64{101, 202} {
		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, orderPath+"/lines", map[string]int64{
			"product_code": code, "cycle_id": cycleID, "sale_id": sale.ID,
		})
		order = testutil.DecodeData[apptrade.OrderResponse](t, w, http.StatusOK)
	}
	assertDecimal(t, "77", order.Total)

	t.Run("duplicate order line conflicts", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, orderPath+"/lines", map[string]int64{
			"product_code": 101, "cycle_id": cycleID, "sale_id": sale.ID,
		})
		testutil.AssertError(t, w, http.StatusConflict, "ERR_CONFLICT")
	})

	t.Run("summary", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, orderPath+"/summary", nil)
		got := testutil.DecodeData[apptrade.OrderSummaryResponse](t, w, http.StatusOK)
		assert.Len(t, got.Lines, 2)
		assertDecimal(t, "110", got.GrossTotal)
		assertDecimal(t, "77", got.SupplierDue)
	})

	t.Run("finalize with override then recompute", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, orderPath+"/finalize", map[string]string{"total": "70"})
		assertDecimal(t, "70", testutil.DecodeData[apptrade.OrderResponse](t, w, http.StatusOK).Total)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodPost, orderPath+"/recompute", nil)
		assertDecimal(t, "77", testutil.DecodeData[apptrade.OrderResponse](t, w, http.StatusOK).Total)
	})

	t.Run("profit report by name and id", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/reports/profit?company=Natura", nil)
		byName := testutil.DecodeData[appreport.ProfitReportResponse](t, w, http.StatusOK)
		assert.Equal(t, 1, byName.TotalSales)
		assert.Equal(t, 1, byName.PaidSales)
		assertDecimal(t, "100", byName.Obtained)
		assertDecimal(t, "77", byName.Payable)
		assertDecimal(t, "23", byName.Profit)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/reports/profit?company="+itoa(byName.CompanyID), nil)
		byID := testutil.DecodeData[appreport.ProfitReportResponse](t, w, http.StatusOK)
		assertDecimal(t, "23", byID.Profit)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/reports/profit", nil)
		testutil.AssertError(t, w, http.StatusBadRequest, "ERR_BAD_REQUEST")
	})

	t.Run("remove order line", func(t *testing.T) {
		var lineID int64
		for _, l := range order.Lines {
			if l.ProductCode == 202 {
				lineID = l.ID
			}
		}
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodDelete, orderPath+"/lines/"+itoa(lineID), nil)
		assertDecimal(t, "35", testutil.DecodeData[apptrade.OrderResponse](t, w, http.StatusOK).Total)
	})

	t.Run("delete sale cascades into the order", func(t *testing.T) {
		w := testutil.Do(t, e.engine, testutil.Seller, http.MethodDelete, salePath, nil)
		summary := testutil.DecodeData[apptrade.DeletionSummary](t, w, http.StatusOK)
		assert.Equal(t, 1, summary.Sales)
		assert.Equal(t, 2, summary.SaleLines)
		assert.Equal(t, 1, summary.OrderLines)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, orderPath, nil)
		got := testutil.DecodeData[apptrade.OrderResponse](t, w, http.StatusOK)
		assert.Empty(t, got.Lines)
		assertDecimal(t, "0", got.Total)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodDelete, orderPath, nil)
		testutil.DecodeData[apptrade.DeletionSummary](t, w, http.StatusOK)

		w = testutil.Do(t, e.engine, testutil.Seller, http.MethodGet, "/api/v1/orders", nil)
		assert.Empty(t, testutil.DecodeData[[]apptrade.OrderResponse](t, w, http.StatusOK))
	})
}
