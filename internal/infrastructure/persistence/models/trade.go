package models

import (
	"time"

	"github.com/sarva/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale header.
type SaleModel struct {
	BaseModel
	CustomerID     int64     `gorm:"not null;index"`
	CompanyID      int64     `gorm:"not null;index"`
	UserID         string    `gorm:"type:varchar(100);not null;index"`
	DataVenda      time.Time `gorm:"not null;index"`
	DataVencimento time.Time `gorm:"not null"`
	DataPagamento  *time.Time
	Valor          decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Desconto       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	ValorFinal     decimal.NullDecimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale without lines.
func (m *SaleModel) ToDomain() *trade.Sale {
	return &trade.Sale{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		CompanyID:  m.CompanyID,
		UserID:     m.UserID,
		SaleDate:   m.DataVenda,
		DueDate:    m.DataVencimento,
		PaidAt:     m.DataPagamento,
		Total:      m.Valor,
		Discount:   m.Desconto,
		FinalValue: m.ValorFinal,
	}
}

// FromDomain populates the persistence model from a domain Sale header.
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.CustomerID = s.CustomerID
	m.CompanyID = s.CompanyID
	m.UserID = s.UserID
	m.DataVenda = s.SaleDate
	m.DataVencimento = s.DueDate
	m.DataPagamento = s.PaidAt
	m.Valor = s.Total
	m.Desconto = s.Discount
	m.ValorFinal = s.FinalValue
}

// SaleLineItemModel is the persistence model for a sale line.
// (product_code, cycle_id, sale_id) is the primary key.
type SaleLineItemModel struct {
	ProductCode int64           `gorm:"primaryKey;autoIncrement:false"`
	CycleID     int64           `gorm:"primaryKey;autoIncrement:false"`
	SaleID      int64           `gorm:"primaryKey;autoIncrement:false;index"`
	Quantidade  int             `gorm:"not null;check:chk_sale_line_quantity,quantidade >= 1"`
	Valor       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleLineItemModel) TableName() string {
	return "sale_line_items"
}

// ToDomain converts the persistence model to a domain SaleLineItem.
func (m *SaleLineItemModel) ToDomain() trade.SaleLineItem {
	return trade.SaleLineItem{
		Key:      trade.SaleLineKey{ProductCode: m.ProductCode, CycleID: m.CycleID, SaleID: m.SaleID},
		Quantity: m.Quantidade,
		Price:    m.Valor,
	}
}

// FromDomain populates the persistence model from a domain SaleLineItem.
func (m *SaleLineItemModel) FromDomain(l *trade.SaleLineItem) {
	m.ProductCode = l.Key.ProductCode
	m.CycleID = l.Key.CycleID
	m.SaleID = l.Key.SaleID
	m.Quantidade = l.Quantity
	m.Valor = l.Price
}

// OrderModel is the persistence model for the Order header.
type OrderModel struct {
	BaseModel
	CompanyID      int64           `gorm:"not null;index"`
	UserID         string          `gorm:"type:varchar(100);not null;index"`
	DataPedido     time.Time       `gorm:"not null;index"`
	DataVencimento time.Time       `gorm:"not null"`
	Valor          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order without lines.
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		CompanyID:  m.CompanyID,
		UserID:     m.UserID,
		OrderDate:  m.DataPedido,
		DueDate:    m.DataVencimento,
		Total:      m.Valor,
	}
}

// FromDomain populates the persistence model from a domain Order header.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.CompanyID = o.CompanyID
	m.UserID = o.UserID
	m.DataPedido = o.OrderDate
	m.DataVencimento = o.DueDate
	m.Valor = o.Total
}

// OrderLineItemModel is the persistence model for an order line. A sale line
// appears at most once per order.
type OrderLineItemModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	OrderID     int64           `gorm:"not null;uniqueIndex:idx_order_line_sale_line,priority:1"`
	ProductCode int64           `gorm:"not null;uniqueIndex:idx_order_line_sale_line,priority:2;index:idx_order_line_ref,priority:1"`
	CycleID     int64           `gorm:"not null;uniqueIndex:idx_order_line_sale_line,priority:3;index:idx_order_line_ref,priority:2"`
	SaleID      int64           `gorm:"not null;uniqueIndex:idx_order_line_sale_line,priority:4;index:idx_order_line_ref,priority:3"`
	Valor       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderLineItemModel) TableName() string {
	return "order_line_items"
}

// ToDomain converts the persistence model to a domain OrderLineItem.
func (m *OrderLineItemModel) ToDomain() trade.OrderLineItem {
	return trade.OrderLineItem{
		ID:       m.ID,
		OrderID:  m.OrderID,
		SaleLine: trade.SaleLineKey{ProductCode: m.ProductCode, CycleID: m.CycleID, SaleID: m.SaleID},
		Price:    m.Valor,
	}
}

// FromDomain populates the persistence model from a domain OrderLineItem.
func (m *OrderLineItemModel) FromDomain(l *trade.OrderLineItem) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.ProductCode = l.SaleLine.ProductCode
	m.CycleID = l.SaleLine.CycleID
	m.SaleID = l.SaleLine.SaleID
	m.Valor = l.Price
}
