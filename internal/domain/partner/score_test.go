package partner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var due = time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

func paidAt(offset time.Duration) PaymentRecord {
	p := due.Add(offset)
	return PaymentRecord{DueDate: due, PaidAt: &p}
}

func unpaid() PaymentRecord {
	return PaymentRecord{DueDate: due}
}

func history(onTime, late, open int) []PaymentRecord {
	var records []PaymentRecord
	for i := 0; i < onTime; i++ {
		records = append(records, paidAt(-time.Hour))
	}
	for i := 0; i < late; i++ {
		records = append(records, paidAt(8*24*time.Hour))
	}
	for i := 0; i < open; i++ {
		records = append(records, unpaid())
	}
	return records
}

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		name    string
		records []PaymentRecord
		want    ScoreTier
	}{
		{"no sales is neutral", nil, ScoreNeutral},
		{"all on time", history(4, 0, 0), ScoreGoodPayer},
		{"exactly 0.6 is good payer", history(3, 2, 0), ScoreGoodPayer},
		{"exactly 0.4 is neutral", history(2, 2, 1), ScoreNeutral},
		{"0.5 is neutral", history(1, 1, 0), ScoreNeutral},
		{"below 0.4 is bad payer", history(1, 1, 2), ScoreBadPayer},
		{"never paid is bad payer", history(0, 0, 3), ScoreBadPayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyScore(tt.records))
		})
	}
}

func TestPaymentRecord_IsOnTime(t *testing.T) {
	assert.True(t, paidAt(7*24*time.Hour).IsOnTime(), "last instant of grace period counts")
	assert.False(t, paidAt(7*24*time.Hour+time.Second).IsOnTime())
	assert.True(t, paidAt(-30*24*time.Hour).IsOnTime())
	assert.False(t, unpaid().IsOnTime())
}

func TestScoreTier_String(t *testing.T) {
	assert.Equal(t, "GoodPayer", ScoreGoodPayer.String())
	assert.Equal(t, "BadPayer", ScoreBadPayer.String())
	assert.Equal(t, "Neutral", ScoreNeutral.String())
	assert.False(t, ScoreTier(9).IsValid())
}
