package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEndOfMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"mid month", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC)},
		{"leap february", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC)},
		{"december rolls year", time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC), time.Date(2023, 12, 31, 23, 59, 59, 999999999, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EndOfMonth(tt.in))
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, DateRange{}.Contains(from))
	assert.True(t, DateRange{}.IsZero())
	assert.True(t, DateRange{From: &from, To: &to}.Contains(from))
	assert.True(t, DateRange{From: &from, To: &to}.Contains(to))
	assert.False(t, DateRange{From: &from}.Contains(from.Add(-time.Second)))
	assert.False(t, DateRange{To: &to}.Contains(to.Add(time.Second)))
}
