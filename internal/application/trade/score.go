package trade

import (
	"context"
	"time"

	"github.com/sarva/backend/internal/domain/partner"
	"github.com/sarva/backend/internal/domain/trade"
)

// RefreshScore reclassifies a customer from the payment history of all their
// sales and persists the tier when it changed. It is idempotent and runs inside
// the caller's transaction whenever payment-relevant sale data is written.
func RefreshScore(ctx context.Context, repos TransactionalRepositories, customerID int64, now time.Time) (partner.ScoreTier, error) {
	customer, err := repos.Customers().FindByID(ctx, customerID)
	if err != nil {
		return 0, err
	}
	sales, err := repos.Sales().FindByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	tier := partner.ClassifyScore(trade.PaymentRecords(sales))
	if customer.ApplyScore(tier, now) {
		if err := repos.Customers().Save(ctx, customer); err != nil {
			return 0, err
		}
	}
	return tier, nil
}
