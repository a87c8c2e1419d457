package telemetry

import (
	"context"
	"testing"

	"github.com/sarva/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newManualMeterProvider(t *testing.T) (*MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp, err := newMeterProvider("sarva-test", reader, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

// sumOf adds the data points of an int64 sum whose attributes include every attr
func sumOf(t *testing.T, reader sdkmetric.Reader, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if hasAll(dp.Attributes, attrs) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func hasAll(set attribute.Set, attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		v, ok := set.Value(kv.Key)
		if !ok || v != kv.Value {
			return false
		}
	}
	return true
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	for name, cfg := range map[string]config.TelemetryConfig{
		"telemetry off": {Enabled: false, MetricsEnabled: true},
		"metrics off":   {Enabled: true, MetricsEnabled: false},
	} {
		t.Run(name, func(t *testing.T) {
			mp, err := NewMeterProvider(context.Background(), cfg, zap.NewNop())
			require.NoError(t, err)
			assert.False(t, mp.IsEnabled())
			assert.NotNil(t, mp.Meter("test"))
			assert.NoError(t, mp.Shutdown(context.Background()))
		})
	}
}

func TestMeterProvider_CollectsCounters(t *testing.T) {
	mp, reader := newManualMeterProvider(t)
	assert.True(t, mp.IsEnabled())

	counter, err := NewCounter(mp.Meter("test"), "sarva_test_total", "test counter", "{n}")
	require.NoError(t, err)
	counter.Inc(context.Background(), AttrCompanyID.Int64(1))
	counter.Add(context.Background(), 4, AttrCompanyID.Int64(1))
	counter.Inc(context.Background(), AttrCompanyID.Int64(2))

	assert.Equal(t, int64(5), sumOf(t, reader, "sarva_test_total", AttrCompanyID.Int64(1)))
	assert.Equal(t, int64(6), sumOf(t, reader, "sarva_test_total"))
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := NewBusinessMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
	assert.Nil(t, bm)
}

func TestBusinessMetrics(t *testing.T) {
	mp, reader := newManualMeterProvider(t)
	bm, err := NewBusinessMetrics(mp.Meter("sarva.business"))
	require.NoError(t, err)
	ctx := context.Background()

	bm.RecordOrderCreated(ctx, OrderTypeSale, 1)
	bm.RecordOrderCreated(ctx, OrderTypeSupplier, 1)
	bm.RecordOrderWithAmount(ctx, OrderTypeSupplier, 1, decimal.RequireFromString("77.005"))
	bm.RecordOrderWithAmount(ctx, OrderTypeSale, 1, decimal.RequireFromString("100"))
	bm.RecordCascadeDelete(ctx, CascadeRootCustomer, map[string]int{"customers": 1, "sales": 2, "order_lines": 0})

	sale := AttrOrderType.String(string(OrderTypeSale))
	supplier := AttrOrderType.String(string(OrderTypeSupplier))
	assert.Equal(t, int64(1), sumOf(t, reader, "sarva_order_created_total", sale))
	assert.Equal(t, int64(2), sumOf(t, reader, "sarva_order_finalized_total"))
	assert.Equal(t, int64(7701), sumOf(t, reader, "sarva_order_amount_total", supplier))
	assert.Equal(t, int64(10000), sumOf(t, reader, "sarva_order_amount_total", sale))

	root := AttrCascadeRoot.String(string(CascadeRootCustomer))
	assert.Equal(t, int64(3), sumOf(t, reader, "sarva_cascade_deleted_rows_total", root))
	assert.Equal(t, int64(2), sumOf(t, reader, "sarva_cascade_deleted_rows_total", root, AttrDeletedEntity.String("sales")))
	assert.Equal(t, int64(0), sumOf(t, reader, "sarva_cascade_deleted_rows_total", AttrDeletedEntity.String("order_lines")))
}
