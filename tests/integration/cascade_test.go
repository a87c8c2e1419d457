package integration

import (
	"context"
	"testing"
	"time"

	apppartner "github.com/sarva/backend/internal/application/partner"
	appreport "github.com/sarva/backend/internal/application/report"
	apptrade "github.com/sarva/backend/internal/application/trade"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/shared"
	"github.com/sarva/backend/internal/infrastructure/persistence"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"github.com/sarva/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

// TestCustomerCascade_Postgres consolidates two customers' sales into one
// order, deletes one customer and checks that the order keeps only the
// other customer's share.
func TestCustomerCascade_Postgres(t *testing.T) {
	testDB := NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	fx := testutil.NewFixture(t, testDB.DB, now)
	company := fx.Company("Natura")
	cycle := fx.OpenCycle(company, "Ciclo 03")
	fx.Product(cycle, 101, "Batom", "50")
	fx.Product(cycle, 202, "Perfume", "30")
	maria := fx.Customer(testutil.TestUserID, "Maria")
	fx.Customer(testutil.TestUserID, "Joana")

	scope := persistence.NewGormTransactionScope(testDB.DB)
	clock := shared.FixedClock{At: now}
	seller := identity.New(testutil.TestUserID, identity.RoleSeller)
	sales := apptrade.NewSaleService(scope, clock, nil)
	orders := apptrade.NewOrderService(scope, clock, nil)
	deletions := apptrade.NewDeletionService(scope, clock, nil)
	customers := apppartner.NewCustomerService(scope, deletions, clock, nil)
	reports := appreport.NewProfitReportService(scope, nil)

	order, err := orders.CreateOrder(ctx, seller, apptrade.CreateOrderRequest{CompanyName: "Natura"})
	require.NoError(t, err)

	sell := func(customer string, code int64, qty int) *apptrade.SaleResponse {
		t.Helper()
		sale, err := sales.CreateSale(ctx, seller, apptrade.CreateSaleRequest{CustomerName: customer, CompanyName: "Natura"})
		require.NoError(t, err)
		for range qty {
			_, err = sales.AddLine(ctx, seller, sale.ID, apptrade.SaleLineRequest{ProductCode: code, CycleID: cycle.ID})
			require.NoError(t, err)
		}
		_, err = orders.AddToOrder(ctx, seller, order.ID, apptrade.AddOrderLineRequest{ProductCode: code, CycleID: cycle.ID, SaleID: sale.ID})
		require.NoError(t, err)
		return sale
	}

	joanaSale := sell("Joana", 202, 1)
	sell("Maria", 101, 2)
	sell("Maria", 202, 2)

	before, err := orders.GetOrder(ctx, seller, order.ID)
	require.NoError(t, err)
	// 0.7 x (30 + 50x2 + 30x2)
	assertDecimal(t, "133", before.Total)

	summary, err := customers.Delete(ctx, seller, maria.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Sales)
	assert.Equal(t, 2, summary.SaleLines)
	assert.Equal(t, 2, summary.OrderLines)

	after, err := orders.GetOrder(ctx, seller, order.ID)
	require.NoError(t, err)
	assertDecimal(t, "21", after.Total)
	require.Len(t, after.Lines, 1)
	assert.Equal(t, joanaSale.ID, after.Lines[0].SaleID)

	assert.Equal(t, int64(1), fx.Count(&models.CustomerModel{}))
	assert.Equal(t, int64(1), fx.Count(&models.SaleModel{}))
	assert.Equal(t, int64(1), fx.Count(&models.OrderLineItemModel{}))

	t.Run("profit report reads the surviving rows", func(t *testing.T) {
		_, err := sales.Finalize(ctx, seller, joanaSale.ID, apptrade.DiscountRequest{Discount: decimal.Zero})
		require.NoError(t, err)
		_, err = sales.RecordPayment(ctx, seller, joanaSale.ID, apptrade.PaymentRequest{})
		require.NoError(t, err)

		report, err := reports.BuildProfitReportByName(ctx, seller, "Natura")
		require.NoError(t, err)
		assert.Equal(t, 1, report.TotalSales)
		assert.Equal(t, 1, report.PaidSales)
		assertDecimal(t, "30", report.Obtained)
		assertDecimal(t, "21", report.Payable)
		assertDecimal(t, "9", report.Profit)
	})

	t.Run("deleting the order keeps the sale", func(t *testing.T) {
		summary, err := deletions.DeleteOrder(ctx, seller, order.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.OrderLines)
		assert.Equal(t, int64(0), fx.Count(&models.OrderModel{}))
		assert.Equal(t, int64(1), fx.Count(&models.SaleLineItemModel{}))
	})
}
