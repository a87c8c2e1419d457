package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when business metrics are built without a meter
var ErrMeterNil = errors.New("business metrics: meter cannot be nil")

// OrderType labels the two kinds of orders the business counts
type OrderType string

const (
	OrderTypeSale     OrderType = "sale"
	OrderTypeSupplier OrderType = "supplier"
)

// CascadeRoot labels the entity whose deletion started a cascade
type CascadeRoot string

const (
	CascadeRootCustomer CascadeRoot = "customer"
	CascadeRootSale     CascadeRoot = "sale"
	CascadeRootOrder    CascadeRoot = "order"
)

// BusinessMetrics counts sales and orders as they are created and finalized,
// and the rows removed by cascading deletes.
type BusinessMetrics struct {
	orderCreatedTotal   *Counter
	orderFinalizedTotal *Counter
	orderAmountTotal    *Counter
	cascadeDeletedTotal *Counter
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		bm  BusinessMetrics
		err error
	)
	if bm.orderCreatedTotal, err = NewCounter(meter,
		"sarva_order_created_total", "Sales and supplier orders created", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderFinalizedTotal, err = NewCounter(meter,
		"sarva_order_finalized_total", "Sales and supplier orders finalized", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderAmountTotal, err = NewCounter(meter,
		"sarva_order_amount_total", "Finalized amount in cents", "{cents}"); err != nil {
		return nil, err
	}
	if bm.cascadeDeletedTotal, err = NewCounter(meter,
		"sarva_cascade_deleted_rows_total", "Rows removed by cascading deletes", "{rows}"); err != nil {
		return nil, err
	}
	return &bm, nil
}

// RecordOrderCreated counts a new sale or supplier order
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, orderType OrderType, companyID int64) {
	bm.orderCreatedTotal.Inc(ctx, AttrOrderType.String(string(orderType)), AttrCompanyID.Int64(companyID))
}

// RecordOrderWithAmount counts a finalized sale or order and adds its amount in cents
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, orderType OrderType, companyID int64, amount decimal.Decimal) {
	attrs := []attribute.KeyValue{AttrOrderType.String(string(orderType)), AttrCompanyID.Int64(companyID)}
	bm.orderFinalizedTotal.Inc(ctx, attrs...)
	bm.orderAmountTotal.Add(ctx, amount.Shift(2).Round(0).IntPart(), attrs...)
}

// RecordCascadeDelete adds the rows a cascade removed, per deleted entity. Zero counts are skipped.
func (bm *BusinessMetrics) RecordCascadeDelete(ctx context.Context, root CascadeRoot, rows map[string]int) {
	for entity, n := range rows {
		if n == 0 {
			continue
		}
		bm.cascadeDeletedTotal.Add(ctx, int64(n), AttrCascadeRoot.String(string(root)), AttrDeletedEntity.String(entity))
	}
}
