package partner

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScoreTier is a customer's payment-risk classification
type ScoreTier int

const (
	ScoreGoodPayer ScoreTier = 1
	ScoreBadPayer  ScoreTier = 2
	ScoreNeutral   ScoreTier = 3
)

// PaymentGracePeriod is how long after the due date a payment still counts as on time
const PaymentGracePeriod = 7 * 24 * time.Hour

var (
	goodPayerThreshold = decimal.NewFromFloat(0.6)
	badPayerThreshold  = decimal.NewFromFloat(0.4)
)

// IsValid checks if the tier is a known value
func (t ScoreTier) IsValid() bool {
	switch t {
	case ScoreGoodPayer, ScoreBadPayer, ScoreNeutral:
		return true
	}
	return false
}

// String returns the string representation of ScoreTier
func (t ScoreTier) String() string {
	switch t {
	case ScoreGoodPayer:
		return "GoodPayer"
	case ScoreBadPayer:
		return "BadPayer"
	case ScoreNeutral:
		return "Neutral"
	}
	return "Unknown"
}

// PaymentRecord is the part of a sale that drives scoring
type PaymentRecord struct {
	DueDate time.Time
	PaidAt  *time.Time
}

// IsOnTime reports whether the sale was paid no later than due date plus the grace period
func (r PaymentRecord) IsOnTime() bool {
	if r.PaidAt == nil {
		return false
	}
	return !r.PaidAt.After(r.DueDate.Add(PaymentGracePeriod))
}

// ClassifyScore derives a tier from a customer's complete sale history.
// No history is Neutral. At least 60% on time is GoodPayer, under 40% is BadPayer.
func ClassifyScore(records []PaymentRecord) ScoreTier {
	if len(records) == 0 {
		return ScoreNeutral
	}
	onTime := 0
	for _, r := range records {
		if r.IsOnTime() {
			onTime++
		}
	}
	proportion := decimal.NewFromInt(int64(onTime)).Div(decimal.NewFromInt(int64(len(records))))
	switch {
	case proportion.GreaterThanOrEqual(goodPayerThreshold):
		return ScoreGoodPayer
	case proportion.LessThan(badPayerThreshold):
		return ScoreBadPayer
	}
	return ScoreNeutral
}
